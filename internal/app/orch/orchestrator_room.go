package orch

import (
	"fmt"

	"github.com/dkeye/Chat/internal/core"
	"github.com/dkeye/Chat/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) handleJoin(sess *Session, in core.Inbound) {
	room := domain.RoomID(in.Channel)
	if room == "" {
		room = sess.hint
	}
	if room == "" {
		room = o.DefaultRoom
	}

	// Один коннект живёт ровно в одной комнате.
	if !sess.join(room, in.Nick) {
		log.Warn().Str("module", "app.orch").Str("conn", string(sess.conn.ID())).Str("room", string(sess.room)).Msg("join while joined ignored")
		return
	}

	o.Registry.Join(room, in.Nick, sess.conn)
	o.broadcast(room, core.NewOnline(o.Registry.MembersOf(room)))
	o.broadcast(room, core.NewInfo(fmt.Sprintf("%s has joined the channel.", in.Nick)))
}

func (o *Orchestrator) handleLeave(sess *Session) {
	left := o.Registry.Leave(sess.room, sess.conn.ID())
	if left == 0 {
		return
	}
	o.broadcast(sess.room, core.NewInfo(fmt.Sprintf("%s has left the channel.", sess.nick)))
	o.broadcast(sess.room, core.NewOnline(o.Registry.MembersOf(sess.room)))
}
