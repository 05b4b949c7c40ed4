package orch

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dkeye/Chat/internal/app"
	"github.com/dkeye/Chat/internal/core"
	"github.com/dkeye/Chat/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator routes decoded commands to the registry and delivery engine.
//
// Every inbound event is handled to completion under mu, so join, leave
// and the broadcasts they trigger are atomic with respect to other
// connections. Sends never block, holding mu across them is fine.
type Orchestrator struct {
	Registry    *app.Registry
	Delivery    *app.Delivery
	DefaultRoom domain.RoomID

	mu sync.Mutex
	// live counts sessions that have not reached Closed yet.
	live sync.WaitGroup
}

func New(reg *app.Registry, defaultRoom domain.RoomID) *Orchestrator {
	return &Orchestrator{
		Registry:    reg,
		Delivery:    app.NewDelivery(reg),
		DefaultRoom: defaultRoom,
	}
}

// Open starts an unjoined session for a fresh connection.
func (o *Orchestrator) Open(conn core.SignalConnection, hint domain.RoomID) *Session {
	log.Debug().Str("module", "app.orch").Str("conn", string(conn.ID())).Str("hint", string(hint)).Msg("session opened")
	o.live.Add(1)
	return newSession(conn, hint)
}

// Wait blocks until every opened session has been disconnected or ctx ends.
func (o *Orchestrator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.live.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnMessage handles one raw inbound frame. Undecodable frames are dropped
// and the connection stays open.
func (o *Orchestrator) OnMessage(sess *Session, data []byte) {
	var in core.Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		log.Warn().Err(err).Str("module", "app.orch").Str("conn", string(sess.conn.ID())).Msg("bad json")
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if sess.state == Closed {
		return
	}

	switch in.Cmd {
	case core.CmdJoin:
		o.handleJoin(sess, in)
	case core.CmdChat:
		o.handleChat(sess, in)
	default:
		log.Warn().Str("module", "app.orch").Str("conn", string(sess.conn.ID())).Str("cmd", in.Cmd).Msg("unknown command")
	}
}

// OnDisconnect is the terminal transition. Calling it twice is harmless.
func (o *Orchestrator) OnDisconnect(sess *Session) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if sess.state == Closed {
		return
	}
	defer o.live.Done()
	if !sess.close() {
		log.Debug().Str("module", "app.orch").Str("conn", string(sess.conn.ID())).Msg("closed before join")
		return
	}
	o.handleLeave(sess)
}

func (o *Orchestrator) broadcast(room domain.RoomID, v any) app.PublishResult {
	res := o.Delivery.Broadcast(room, v)
	for _, ms := range res.Dropped {
		log.Debug().Str("module", "app.orch").Str("room", string(room)).Str("nick", ms.Meta().Nick).Str("conn", string(ms.Signal().ID())).Msg("member missed a broadcast")
	}
	return res
}
