package core

import "errors"

var (
	ErrConnClosed   = errors.New("connection closed")
	ErrBackpressure = errors.New("backpressure")
)

// Frame is a raw encoded outbound record.
type Frame []byte

// ConnID identifies one live transport session.
type ConnID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
//
// TrySend never blocks: a closed or backed-up transport returns an error
// that callers are free to ignore.
type SignalConnection interface {
	ID() ConnID
	TrySend(Frame) error
	Close()
}
