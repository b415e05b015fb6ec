package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/sidecomm/internal/logging"
	"github.com/aretw0/sidecomm/internal/metrics"
	"github.com/aretw0/sidecomm/pkg/formcell"
	"github.com/aretw0/sidecomm/pkg/ports"
)

// Handler names used on the wire.
const (
	HandlerUpdateFormCell  = "update_form_cell"
	HandlerDisplayFormCell = "display_form_cell"
	HandlerCreateFormCell  = "create_form_cell"
)

// Bridge maintains the bidirectional link between locally owned form cells
// and the sidecar. It is the sole comm writer for its cells; sends are
// fire-and-forget and never fail the local mutation that triggered them.
type Bridge struct {
	comm      ports.Comm
	namespace ports.Namespace
	registry  *formcell.Registry
	logger    *slog.Logger

	mu    sync.RWMutex
	cells map[string]*formcell.Cell
}

// Option configures the Bridge.
type Option func(*Bridge)

// WithLogger configures a logger for bridge events.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithNamespace sets the kernel namespace newly created cells bind to.
func WithNamespace(ns ports.Namespace) Option {
	return func(b *Bridge) {
		b.namespace = ns
	}
}

// WithRegistry sets the input type registry used for inbound creation.
func WithRegistry(r *formcell.Registry) Option {
	return func(b *Bridge) {
		b.registry = r
	}
}

// New creates a bridge sending outbound traffic through comm.
func New(comm ports.Comm, opts ...Option) *Bridge {
	b := &Bridge{
		comm:   comm,
		logger: logging.NewNop(),
		cells:  make(map[string]*formcell.Cell),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach registers a cell with the bridge and subscribes to its change
// events, so every observable mutation is mirrored to the sidecar.
func (b *Bridge) Attach(cell *formcell.Cell) {
	b.mu.Lock()
	if _, exists := b.cells[cell.ID()]; exists {
		b.mu.Unlock()
		return
	}
	b.cells[cell.ID()] = cell
	b.mu.Unlock()

	metrics.ActiveCells.Inc()

	cell.Subscribe(func(ctx context.Context, event formcell.ChangeEvent) {
		// Structured event fields only: no observer back-references
		// ever reach the wire.
		b.send(ctx, HandlerUpdateFormCell, map[string]any{
			"data": map[string]any{
				"name": event.Name,
				"old":  event.Old,
				"new":  event.New,
				"id":   cell.ID(),
			},
		})
	})
}

// Get returns the attached cell with the given identity.
func (b *Bridge) Get(id string) (*formcell.Cell, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cell, ok := b.cells[id]
	return cell, ok
}

// Cells returns all attached cells.
func (b *Bridge) Cells() []*formcell.Cell {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cells := make([]*formcell.Cell, 0, len(b.cells))
	for _, cell := range b.cells {
		cells = append(cells, cell)
	}
	return cells
}

// Create parses an inbound payload into a new cell bound to the bridge's
// namespace, attaches it and announces it with a display message.
func (b *Bridge) Create(ctx context.Context, data map[string]any) (*formcell.Cell, error) {
	cell, err := formcell.Parse(ctx, data,
		formcell.WithNamespace(b.namespace),
		formcell.WithRegistry(b.registry),
	)
	if err != nil {
		return nil, err
	}

	if _, err := b.Display(ctx, cell); err != nil {
		return nil, err
	}
	return cell, nil
}

// Display attaches the cell if needed, sends the full-model display message
// and returns the human-readable summary of the cell for local inspection.
func (b *Bridge) Display(ctx context.Context, cell *formcell.Cell) (string, error) {
	b.Attach(cell)

	data := cell.Fields()
	data["id"] = cell.ID()
	b.send(ctx, HandlerDisplayFormCell, map[string]any{"data": data})

	return cell.String(), nil
}

// Apply routes an update payload to the cell with the given identity.
// It reports whether a local cell was found; an unknown identity is not an
// error, the cell may live in another session.
func (b *Bridge) Apply(ctx context.Context, id string, patch map[string]any) (bool, error) {
	cell, ok := b.Get(id)
	if !ok {
		b.logger.Debug("update for unknown form cell ignored", "id", id)
		return false, nil
	}

	// Strip the routing id on a copy; the caller still owns the patch.
	stripped := make(map[string]any, len(patch))
	for key, value := range patch {
		if key == "id" {
			continue
		}
		stripped[key] = value
	}

	if _, err := formcell.Update(ctx, cell, stripped); err != nil {
		return true, err
	}
	return true, nil
}

// HandleMessage dispatches one inbound comm message.
func (b *Bridge) HandleMessage(ctx context.Context, msg ports.Message) error {
	metrics.MessagesReceived.WithLabelValues(msg.Handler).Inc()

	switch msg.Handler {
	case HandlerCreateFormCell:
		data, err := messageData(msg)
		if err != nil {
			return err
		}
		_, err = b.Create(ctx, data)
		return err

	case HandlerUpdateFormCell:
		data, err := messageData(msg)
		if err != nil {
			return err
		}
		id, _ := data["id"].(string)
		if id == "" {
			return fmt.Errorf("bridge: update message missing cell id")
		}
		_, err = b.Apply(ctx, id, data)
		return err

	default:
		b.logger.Debug("inbound message with unknown handler ignored", "handler", msg.Handler)
		return nil
	}
}

func messageData(msg ports.Message) (map[string]any, error) {
	raw, ok := msg.Body["data"]
	if !ok {
		return nil, fmt.Errorf("bridge: %s message missing data", msg.Handler)
	}
	data, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("bridge: %s message data is not a mapping", msg.Handler)
	}
	return data, nil
}

func (b *Bridge) send(ctx context.Context, handler string, body map[string]any) {
	metrics.MessagesSent.WithLabelValues(handler).Inc()

	if err := b.comm.Send(ctx, handler, body); err != nil {
		metrics.SendFailures.Inc()
		b.logger.Warn("comm send failed", "handler", handler, "error", err)
	}
}
