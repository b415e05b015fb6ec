package formcell

import "context"

// ChangeEvent describes one observable mutation on a form cell. The event
// carries structured fields only; it never references the cell itself, so
// payloads built from it are always serializable.
type ChangeEvent struct {
	Name string `json:"name"`
	Old  any    `json:"old"`
	New  any    `json:"new"`
}

// Subscriber receives change events. Subscribers are invoked synchronously,
// in registration order, on the goroutine performing the mutation.
type Subscriber func(ctx context.Context, event ChangeEvent)
