package app

import (
	"sync"

	"github.com/dkeye/Chat/internal/core"
	"github.com/dkeye/Chat/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry owns all room membership state.
//
// A room exists exactly while it has at least one member: Join creates it,
// the Leave that removes the last member deletes it.
//
// Nicknames are not unique. FindByNickname resolves duplicates to the
// member that joined first; this mirrors long-standing client behavior and
// is kept on purpose rather than enforced away.
type Registry struct {
	mu    sync.Mutex
	rooms *RoomManager
}

func NewRegistry() *Registry {
	return &Registry{rooms: NewRoomManager()}
}

// Join appends a member to the room, creating the room if absent. It never fails.
func (r *Registry) Join(room domain.RoomID, nick string, conn core.SignalConnection) core.MemberSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	ms := core.NewMemberSession(domain.NewMember(nick), conn)
	r.rooms.GetOrCreate(room).AddMember(ms)
	log.Info().Str("module", "app.registry").Str("room", string(room)).Str("nick", nick).Str("conn", string(conn.ID())).Msg("joined")
	return ms
}

// Leave removes the member bound to id and returns how many members remain.
// Unknown rooms and non-members are a no-op.
func (r *Registry) Leave(room domain.RoomID, id core.ConnID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	rs, ok := r.rooms.Get(room)
	if !ok {
		return 0
	}
	if rs.RemoveMember(id) {
		log.Info().Str("module", "app.registry").Str("room", string(room)).Str("conn", string(id)).Msg("left")
	}
	left := rs.MemberCount()
	if left == 0 {
		r.rooms.StopRoom(room)
		log.Info().Str("module", "app.registry").Str("room", string(room)).Msg("room removed")
	}
	return left
}

// MembersOf returns nicknames in join order; empty for an absent room.
func (r *Registry) MembersOf(room domain.RoomID) []string {
	rs, ok := r.rooms.Get(room)
	if !ok {
		return []string{}
	}
	return rs.Nicks()
}

// Sessions returns the live member list in join order.
func (r *Registry) Sessions(room domain.RoomID) []core.MemberSession {
	rs, ok := r.rooms.Get(room)
	if !ok {
		return nil
	}
	return rs.Members()
}

func (r *Registry) FindByNickname(room domain.RoomID, nick string) (core.MemberSession, bool) {
	rs, ok := r.rooms.Get(room)
	if !ok {
		return nil, false
	}
	return rs.FindByNick(nick)
}

func (r *Registry) Has(room domain.RoomID) bool {
	_, ok := r.rooms.Get(room)
	return ok
}

func (r *Registry) List() []core.RoomInfo {
	return r.rooms.List()
}
