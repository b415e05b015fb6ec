package sidecomm

import (
	"context"
	"log/slog"

	"github.com/aretw0/sidecomm/internal/logging"
	"github.com/aretw0/sidecomm/pkg/adapters/memory"
	"github.com/aretw0/sidecomm/pkg/bridge"
	"github.com/aretw0/sidecomm/pkg/formcell"
	"github.com/aretw0/sidecomm/pkg/ports"
	"github.com/aretw0/sidecomm/pkg/varexplorer"
)

// Version is the library version reported by the CLI and the HTTP adapter.
var Version = "0.1.0"

// Kernel is the high-level entry point for the sidecomm library. It wires a
// namespace, a comm fanout and a sync bridge into one assembly with sensible
// defaults: an in-memory namespace and no comm sinks until one is added.
type Kernel struct {
	registry  *formcell.Registry
	namespace ports.Namespace
	fanout    *bridge.Fanout
	bridge    *bridge.Bridge
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Kernel.
type Option func(*Kernel)

// WithNamespace injects the kernel execution context's namespace, replacing
// the default in-memory one.
func WithNamespace(ns ports.Namespace) Option {
	return func(k *Kernel) {
		k.namespace = ns
	}
}

// WithRegistry resolves input types against a custom registry.
func WithRegistry(r *formcell.Registry) Option {
	return func(k *Kernel) {
		k.registry = r
	}
}

// WithComm registers an outbound comm sink.
func WithComm(comm ports.Comm) Option {
	return func(k *Kernel) {
		k.fanout.Add(comm)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(k *Kernel) {
		k.logger = logger
	}
}

// New initializes a Kernel.
func New(opts ...Option) *Kernel {
	k := &Kernel{
		registry: formcell.Default(),
		fanout:   bridge.NewFanout(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.namespace == nil {
		k.namespace = memory.NewNamespace()
	}

	k.bridge = bridge.New(k.fanout,
		bridge.WithNamespace(k.namespace),
		bridge.WithRegistry(k.registry),
		bridge.WithLogger(k.logger),
	)
	return k
}

// Parse converts an inbound payload into a live form cell: parsed, bound to
// the kernel namespace, attached to the sync bridge and announced to the
// sidecar.
func (k *Kernel) Parse(ctx context.Context, data map[string]any) (*formcell.Cell, error) {
	return k.bridge.Create(ctx, data)
}

// Display re-announces a cell to the sidecar and returns its textual
// summary for local inspection.
func (k *Kernel) Display(ctx context.Context, cell *formcell.Cell) (string, error) {
	return k.bridge.Display(ctx, cell)
}

// HandleMessage dispatches one inbound comm message.
func (k *Kernel) HandleMessage(ctx context.Context, msg ports.Message) error {
	return k.bridge.HandleMessage(ctx, msg)
}

// Variables produces a variable explorer snapshot of the namespace.
func (k *Kernel) Variables(ctx context.Context) (map[string]varexplorer.VariableModel, error) {
	return varexplorer.Snapshot(ctx, k.namespace)
}

// Namespace returns the kernel namespace.
func (k *Kernel) Namespace() ports.Namespace { return k.namespace }

// Bridge returns the sync bridge.
func (k *Kernel) Bridge() *bridge.Bridge { return k.bridge }

// Comms returns the outbound fanout, for attaching transports at runtime.
func (k *Kernel) Comms() *bridge.Fanout { return k.fanout }
