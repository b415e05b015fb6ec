package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/aretw0/sidecomm/pkg/bridge"
	"github.com/aretw0/sidecomm/pkg/ports"
)

// Handler manages WebSocket comm connections. Each connection is registered
// as an outbound sink on the bridge fanout for as long as it lives, and its
// inbound messages are dispatched to the bridge.
type Handler struct {
	bridge *bridge.Bridge
	fanout *bridge.Fanout
	logger *slog.Logger
}

// Option configures the handler.
type Option func(*Handler)

// WithLogger configures a logger for connection events.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates a WebSocket comm handler.
func NewHandler(b *bridge.Bridge, fanout *bridge.Fanout, opts ...Option) *Handler {
	h := &Handler{
		bridge: b,
		fanout: fanout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades to WebSocket and runs the message loop.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	sink := &connComm{conn: conn}
	remove := h.fanout.Add(sink)
	defer remove()

	h.logger.Debug("sidecar connected", "remote", r.RemoteAddr)

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) != -1 {
				h.logger.Debug("sidecar disconnected", "status", websocket.CloseStatus(err))
			} else {
				h.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		inbound := ports.Message{Handler: msg.Handler, Body: msg.Body}
		if err := h.bridge.HandleMessage(ctx, inbound); err != nil {
			// Inbound failures are reported back on the same
			// connection, never escalated to the whole fanout.
			h.logger.Warn("inbound message failed", "handler", msg.Handler, "error", err)
			_ = sink.Send(ctx, "error", map[string]any{
				"message": err.Error(),
			})
		}
	}
}

// connComm adapts one WebSocket connection to ports.Comm.
type connComm struct {
	mu   sync.Mutex // serializes writers on the connection
	conn *websocket.Conn
}

func (c *connComm) Send(ctx context.Context, handler string, body map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return wsjson.Write(ctx, c.conn, ServerMessage{Handler: handler, Body: body})
}
