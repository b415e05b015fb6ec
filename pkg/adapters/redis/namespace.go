// Package redis provides a Redis-backed kernel namespace, letting bound
// form cell variables outlive a single kernel process or be shared between
// processes. Values are stored as JSON.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/sidecomm/pkg/ports"
)

// Namespace implements ports.Namespace using Redis.
type Namespace struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the namespace.
type Option func(*Namespace)

// WithPrefix sets the key prefix for variables.
func WithPrefix(prefix string) Option {
	return func(n *Namespace) {
		n.prefix = prefix
	}
}

// WithTTL expires variables after the given duration. Zero (the default)
// keeps them until deleted.
func WithTTL(ttl time.Duration) Option {
	return func(n *Namespace) {
		n.ttl = ttl
	}
}

// New creates a Redis namespace with its own client.
func New(address, password string, db int, opts ...Option) *Namespace {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis namespace from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Namespace {
	ns := &Namespace{
		client: client,
		prefix: "sidecomm:var:",
	}
	for _, opt := range opts {
		opt(ns)
	}
	return ns
}

func (n *Namespace) key(name string) string {
	return n.prefix + name
}

// Get retrieves and decodes a variable.
func (n *Namespace) Get(ctx context.Context, name string) (any, error) {
	data, err := n.client.Get(ctx, n.key(name)).Bytes()
	if err == backend.Nil {
		return nil, ports.ErrVariableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get variable %q: %w", name, err)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to decode variable %q: %w", name, err)
	}
	return value, nil
}

// Set encodes and stores a variable.
func (n *Namespace) Set(ctx context.Context, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode variable %q: %w", name, err)
	}

	if err := n.client.Set(ctx, n.key(name), data, n.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set variable %q: %w", name, err)
	}
	return nil
}

// Delete removes a variable.
func (n *Namespace) Delete(ctx context.Context, name string) error {
	removed, err := n.client.Del(ctx, n.key(name)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete variable %q: %w", name, err)
	}
	if removed == 0 {
		return ports.ErrVariableNotFound
	}
	return nil
}

// List returns the bound names by scanning the prefix.
func (n *Namespace) List(ctx context.Context) ([]string, error) {
	var names []string

	iter := n.client.Scan(ctx, 0, n.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, iter.Val()[len(n.prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list variables: %w", err)
	}

	return names, nil
}
