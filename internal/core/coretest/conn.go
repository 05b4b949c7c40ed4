// Package coretest provides an in-memory SignalConnection for tests.
package coretest

import (
	"encoding/json"
	"sync"

	"github.com/dkeye/Chat/internal/core"
)

// Record is the union of every outbound message shape.
type Record struct {
	Cmd   string   `json:"cmd"`
	Nick  string   `json:"nick,omitempty"`
	From  string   `json:"from,omitempty"`
	To    string   `json:"to,omitempty"`
	Text  string   `json:"text,omitempty"`
	Nicks []string `json:"nicks,omitempty"`
}

// Conn records every frame it accepts. After Close every send fails.
type Conn struct {
	id core.ConnID

	mu     sync.Mutex
	frames []core.Frame
	closed bool
}

func NewConn(id string) *Conn {
	return &Conn{id: core.ConnID(id)}
}

func (c *Conn) ID() core.ConnID { return c.id }

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Records decodes everything received so far.
func (c *Conn) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, 0, len(c.frames))
	for _, f := range c.frames {
		var r Record
		if err := json.Unmarshal(f, &r); err != nil {
			panic(err)
		}
		out = append(out, r)
	}
	return out
}

// Drain returns and forgets everything received so far.
func (c *Conn) Drain() []Record {
	out := c.Records()
	c.mu.Lock()
	c.frames = nil
	c.mu.Unlock()
	return out
}
