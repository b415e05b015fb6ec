package bridge

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/sidecomm/pkg/ports"
)

// Fanout is a ports.Comm that forwards every outbound message to all
// registered sinks, so several transports (SSE clients, websocket
// connections, an in-process recorder) can watch one bridge.
type Fanout struct {
	mu    sync.RWMutex
	next  int
	sinks map[int]ports.Comm
}

// NewFanout creates an empty fanout.
func NewFanout() *Fanout {
	return &Fanout{
		sinks: make(map[int]ports.Comm),
	}
}

// Add registers a sink and returns a function removing it again.
func (f *Fanout) Add(sink ports.Comm) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	f.sinks[id] = sink

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.sinks, id)
	}
}

// Subscribe registers a buffered channel sink and returns it together with
// a cancel function. Messages to a full channel are dropped (slow client).
func (f *Fanout) Subscribe(buffer int) (<-chan ports.Message, func()) {
	if buffer <= 0 {
		buffer = 10
	}
	ch := make(chan ports.Message, buffer)
	remove := f.Add(&channelSink{ch: ch})

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			remove()
			close(ch)
		})
	}
}

// Send implements ports.Comm by forwarding to every sink. Sink failures are
// logged and do not affect the other sinks.
func (f *Fanout) Send(ctx context.Context, handler string, body map[string]any) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, sink := range f.sinks {
		if err := sink.Send(ctx, handler, body); err != nil {
			slog.Debug("fanout sink send failed", "handler", handler, "error", err)
		}
	}
	return nil
}

type channelSink struct {
	ch chan ports.Message
}

func (s *channelSink) Send(ctx context.Context, handler string, body map[string]any) error {
	select {
	case s.ch <- ports.Message{Handler: handler, Body: body}:
	default:
		// Drop message if channel is full (slow client)
		slog.Warn("comm subscriber buffer full, dropping message", "handler", handler)
	}
	return nil
}
