package orch

import (
	"fmt"

	"github.com/dkeye/Chat/internal/core"
	"github.com/rs/zerolog/log"
)

// whisperSelf is the sender name shown on a whisper's own copy.
const whisperSelf = "You"

func (o *Orchestrator) handleChat(sess *Session, in core.Inbound) {
	if sess.state != Joined {
		return
	}

	target, body, prefixed, ok := parseWhisper(in.Text)
	switch {
	case ok:
		o.handleWhisper(sess, target, body)
	case prefixed:
		log.Debug().Str("module", "app.orch").Str("conn", string(sess.conn.ID())).Msg("malformed whisper dropped")
	default:
		o.broadcast(sess.room, core.NewChat(sess.nick, in.Text))
	}
}

func (o *Orchestrator) handleWhisper(sess *Session, target, body string) {
	to, found := o.Registry.FindByNickname(sess.room, target)
	if !found {
		o.Delivery.SendTo(sess.conn, core.NewInfo(fmt.Sprintf("User \"%s\" not found in this channel.", target)))
		return
	}
	o.Delivery.SendTo(to.Signal(), core.NewWhisper(sess.nick, target, body))
	o.Delivery.SendTo(sess.conn, core.NewWhisper(whisperSelf, target, body))
}
