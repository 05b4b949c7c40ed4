package signal

import (
	"context"
	"time"

	"github.com/dkeye/Chat/internal/app/orch"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// writePump owns all writes. Cancelling ctx closes the socket, which in
// turn unblocks readPump.
func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "adapters.signal").Str("conn", string(c.id)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "adapters.signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "adapters.signal").Str("conn", string(c.id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "adapters.signal").Str("conn", string(c.id)).Msg("ping failed")
				return
			}
		}
	}
}

// readPump feeds frames to the router until the transport closes, then
// delivers the terminal close notification exactly once.
func (ctl *SignalWSController) readPump(cancel context.CancelFunc, sess *orch.Session, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "adapters.signal").Str("conn", string(c.id)).Msg("readPump closing")
		c.Close()
		cancel()
		ctl.Orch.OnDisconnect(sess)
	}()

	c.conn.SetReadLimit(ctl.readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "adapters.signal").Str("conn", string(c.id)).Msg("readPump read error")
			}
			return
		}
		ctl.Orch.OnMessage(sess, data)
	}
}
