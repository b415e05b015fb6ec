// Package memory provides in-process implementations of the core ports: a
// map-backed kernel namespace and a recording comm channel.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/sidecomm/pkg/ports"
)

// Namespace implements ports.Namespace over a plain map.
// Safe for concurrent use.
type Namespace struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewNamespace creates an empty in-memory namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		data: make(map[string]any),
	}
}

// Get retrieves a variable.
func (n *Namespace) Get(ctx context.Context, name string) (any, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	value, ok := n.data[name]
	if !ok {
		return nil, ports.ErrVariableNotFound
	}
	return value, nil
}

// Set binds a variable, overwriting any previous value.
func (n *Namespace) Set(ctx context.Context, name string, value any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.data[name] = value
	return nil
}

// Delete removes a variable.
func (n *Namespace) Delete(ctx context.Context, name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.data[name]; !ok {
		return ports.ErrVariableNotFound
	}
	delete(n.data, name)
	return nil
}

// List returns the bound names.
func (n *Namespace) List(ctx context.Context) ([]string, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	names := make([]string, 0, len(n.data))
	for name := range n.data {
		names = append(names, name)
	}
	return names, nil
}
