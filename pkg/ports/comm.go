package ports

import "context"

// Message is the envelope exchanged with the sidecar over a comm channel.
// Inbound and outbound traffic share the same shape.
type Message struct {
	Handler string         `json:"handler"`
	Body    map[string]any `json:"body,omitempty"`
}

// Comm is the outbound half of the bidirectional channel provided by the
// host kernel runtime. Send is fire-and-forget: it must not block waiting
// for the sidecar to acknowledge, and delivery is best-effort.
type Comm interface {
	Send(ctx context.Context, handler string, body map[string]any) error
}
