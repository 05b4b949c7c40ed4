package core

import (
	"github.com/dkeye/Chat/internal/domain"
)

// RoomService is the core-facing API of a room.
// It owns the ordered membership list but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	// Nicks returns nicknames in join order.
	Nicks() []string
	// Members returns the live member list in join order.
	Members() []MemberSession

	AddMember(ms MemberSession)
	// RemoveMember drops the entry bound to id and reports whether one existed.
	RemoveMember(id ConnID) bool
	// FindByNick returns the earliest joined member with exactly this nickname.
	FindByNick(nick string) (MemberSession, bool)
}

type RoomInfo struct {
	Name        domain.RoomID `json:"name"`
	MemberCount int           `json:"client_count"`
}
