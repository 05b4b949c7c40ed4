package app

import (
	"encoding/json"

	"github.com/dkeye/Chat/internal/core"
	"github.com/dkeye/Chat/internal/domain"
	"github.com/rs/zerolog/log"
)

// PublishResult reports delivery stats for a broadcast.
type PublishResult struct {
	SendTo  int
	Dropped []core.MemberSession
}

// Delivery fans encoded messages out to connection handles.
// Delivery is best-effort and at-most-once: failures are logged, never returned.
type Delivery struct {
	Registry *Registry
}

func NewDelivery(reg *Registry) *Delivery {
	return &Delivery{Registry: reg}
}

// SendTo reports whether the frame was handed to the transport.
func (d *Delivery) SendTo(conn core.SignalConnection, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.delivery").Msg("marshal")
		return false
	}
	return d.send(conn, b)
}

// Broadcast encodes once and sends to every current member in join order.
func (d *Delivery) Broadcast(room domain.RoomID, v any) PublishResult {
	res := PublishResult{}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.delivery").Msg("marshal")
		return res
	}
	for _, ms := range d.Registry.Sessions(room) {
		if !d.send(ms.Signal(), b) {
			res.Dropped = append(res.Dropped, ms)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "app.delivery").Str("room", string(room)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (d *Delivery) send(conn core.SignalConnection, b core.Frame) bool {
	if err := conn.TrySend(b); err != nil {
		log.Debug().Err(err).Str("module", "app.delivery").Str("conn", string(conn.ID())).Msg("send dropped")
		return false
	}
	return true
}
