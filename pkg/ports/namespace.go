package ports

import (
	"context"
	"errors"
)

// ErrVariableNotFound is returned when a name is not bound in the namespace.
var ErrVariableNotFound = errors.New("variable not found")

// Namespace exposes the mutable variable mapping of a kernel execution
// context. Form cells write their bound value variables through it; the
// variable explorer reads snapshots from it.
//
// External code sharing the namespace may overwrite any variable without
// the owning form cell being informed. No reconciliation is performed.
type Namespace interface {
	// Get retrieves the value bound to name.
	// Returns ErrVariableNotFound if the name is unbound.
	Get(ctx context.Context, name string) (any, error)

	// Set binds a value to name, overwriting any previous binding.
	Set(ctx context.Context, name string, value any) error

	// Delete removes the binding for name.
	// Returns ErrVariableNotFound if the name is unbound.
	Delete(ctx context.Context, name string) error

	// List returns the currently bound names.
	List(ctx context.Context) ([]string, error)
}
