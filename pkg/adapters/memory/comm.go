package memory

import (
	"context"
	"sync"

	"github.com/aretw0/sidecomm/pkg/ports"
)

// Comm implements ports.Comm in-process. It records every message and
// exposes them on a buffered channel, which makes it useful both as a test
// double and as an embedding hook for hosts that consume outbound traffic
// directly.
type Comm struct {
	mu   sync.Mutex
	sent []ports.Message
	ch   chan ports.Message
}

// NewComm creates a comm with a buffer of 16 pending messages.
func NewComm() *Comm {
	return &Comm{
		ch: make(chan ports.Message, 16),
	}
}

// Send records the message. If the channel buffer is full the channel copy
// is dropped; the recorded history is unbounded.
func (c *Comm) Send(ctx context.Context, handler string, body map[string]any) error {
	msg := ports.Message{Handler: handler, Body: body}

	c.mu.Lock()
	c.sent = append(c.sent, msg)
	c.mu.Unlock()

	select {
	case c.ch <- msg:
	default:
	}
	return nil
}

// Sent returns a copy of all messages sent so far.
func (c *Comm) Sent() []ports.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ports.Message, len(c.sent))
	copy(out, c.sent)
	return out
}

// Last returns the most recent message.
func (c *Comm) Last() (ports.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.sent) == 0 {
		return ports.Message{}, false
	}
	return c.sent[len(c.sent)-1], true
}

// Messages exposes the live message stream.
func (c *Comm) Messages() <-chan ports.Message {
	return c.ch
}
