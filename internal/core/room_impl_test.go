package core

import (
	"testing"

	"github.com/dkeye/Chat/internal/domain"
	"github.com/stretchr/testify/require"
)

type stubConn struct{ id ConnID }

func (c stubConn) ID() ConnID            { return c.id }
func (c stubConn) TrySend(f Frame) error { return nil }
func (c stubConn) Close()                {}

func member(id, nick string) MemberSession {
	return NewMemberSession(domain.NewMember(nick), stubConn{id: ConnID(id)})
}

func TestRoomKeepsJoinOrder(t *testing.T) {
	r := NewRoomService(&domain.Room{ID: "general"})
	r.AddMember(member("1", "carol"))
	r.AddMember(member("2", "alice"))
	r.AddMember(member("3", "bob"))

	require.Equal(t, []string{"carol", "alice", "bob"}, r.Nicks())

	require.True(t, r.RemoveMember("2"))
	require.Equal(t, []string{"carol", "bob"}, r.Nicks())
	require.Equal(t, 2, r.MemberCount())
}

func TestRoomRemoveUnknownIsNoop(t *testing.T) {
	r := NewRoomService(&domain.Room{ID: "general"})
	r.AddMember(member("1", "alice"))

	require.False(t, r.RemoveMember("nope"))
	require.Equal(t, []string{"alice"}, r.Nicks())
}

func TestRoomFindByNickFirstMatch(t *testing.T) {
	r := NewRoomService(&domain.Room{ID: "general"})
	r.AddMember(member("1", "Dup"))
	r.AddMember(member("2", "Dup"))

	ms, ok := r.FindByNick("Dup")
	require.True(t, ok)
	require.Equal(t, ConnID("1"), ms.Signal().ID())

	_, ok = r.FindByNick("dup")
	require.False(t, ok, "lookup is case-sensitive")
}

func TestRoomMembersIsACopy(t *testing.T) {
	r := NewRoomService(&domain.Room{ID: "general"})
	r.AddMember(member("1", "alice"))
	r.AddMember(member("2", "bob"))

	snap := r.Members()
	r.RemoveMember("1")

	require.Len(t, snap, 2)
	require.Equal(t, "alice", snap[0].Meta().Nick)
}

func TestNewOnlineEncodesEmptyList(t *testing.T) {
	require.NotNil(t, NewOnline(nil).Nicks)
}
