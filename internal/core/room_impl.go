package core

import (
	"sync"

	"github.com/dkeye/Chat/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room    *domain.Room
	mu      sync.RWMutex
	members []MemberSession
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{room: room}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *roomImpl) AddMember(ms MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = append(r.members, ms)
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Str("conn", string(ms.Signal().ID())).Str("nick", ms.Meta().Nick).Msg("member added")
}

func (r *roomImpl) RemoveMember(id ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ms := range r.members {
		if ms.Signal().ID() != id {
			continue
		}
		r.members = append(r.members[:i:i], r.members[i+1:]...)
		log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Str("conn", string(id)).Msg("member removed")
		return true
	}
	return false
}

func (r *roomImpl) Members() []MemberSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberSession, len(r.members))
	copy(out, r.members)
	return out
}

func (r *roomImpl) Nicks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.members))
	for _, ms := range r.members {
		out = append(out, ms.Meta().Nick)
	}
	return out
}

func (r *roomImpl) FindByNick(nick string) (MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ms := range r.members {
		if ms.Meta().Nick == nick {
			return ms, true
		}
	}
	return nil, false
}
