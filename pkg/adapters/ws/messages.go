// Package ws carries the comm channel over a WebSocket connection: the
// closest transport to the bidirectional channel a notebook kernel runtime
// provides natively.
package ws

// ClientMessage is the envelope for sidecar-to-kernel messages.
type ClientMessage struct {
	Handler string         `json:"handler"` // "create_form_cell", "update_form_cell"
	Body    map[string]any `json:"body,omitempty"`
}

// ServerMessage is the envelope for kernel-to-sidecar messages.
type ServerMessage struct {
	Handler string         `json:"handler"` // "display_form_cell", "update_form_cell"
	Body    map[string]any `json:"body,omitempty"`
}
