// Package domain contains entity without logic, just meta-data
package domain

// Member represents a nickname's participation in a room.
// No transport or lifecycle logic here.
//
// Nicknames are not unique inside a room and are never validated:
// any string, including the empty one, is accepted.
type Member struct {
	Nick string
}

func NewMember(nick string) *Member {
	return &Member{Nick: nick}
}
