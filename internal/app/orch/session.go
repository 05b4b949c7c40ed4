package orch

import (
	"github.com/dkeye/Chat/internal/core"
	"github.com/dkeye/Chat/internal/domain"
)

type State int

const (
	Unjoined State = iota
	Joined
	Closed
)

func (s State) String() string {
	switch s {
	case Unjoined:
		return "unjoined"
	case Joined:
		return "joined"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Session is the connection-local state of one handle, created by
// Orchestrator.Open.
// Only the owning connection's handling path touches it.
type Session struct {
	conn core.SignalConnection
	// hint is the room named on the upgrade request, used by a join without a channel.
	hint domain.RoomID

	state State
	room  domain.RoomID
	nick  string
}

func newSession(conn core.SignalConnection, hint domain.RoomID) *Session {
	return &Session{conn: conn, hint: hint}
}

func (s *Session) State() State        { return s.state }
func (s *Session) Room() domain.RoomID { return s.room }
func (s *Session) Nick() string        { return s.nick }

func (s *Session) join(room domain.RoomID, nick string) bool {
	if s.state != Unjoined {
		return false
	}
	s.state, s.room, s.nick = Joined, room, nick
	return true
}

// close is terminal and reports whether the session had joined a room.
func (s *Session) close() bool {
	was := s.state == Joined
	s.state = Closed
	return was
}
