package varexplorer

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/sidecomm/pkg/ports"
)

// defaultSkipPrefixes hides internal and convention-private names.
var defaultSkipPrefixes = []string{"_"}

type snapshotConfig struct {
	skipPrefixes []string
}

// SnapshotOption configures Snapshot.
type SnapshotOption func(*snapshotConfig)

// WithSkipPrefixes replaces the default set of hidden name prefixes.
func WithSkipPrefixes(prefixes ...string) SnapshotOption {
	return func(c *snapshotConfig) {
		c.skipPrefixes = prefixes
	}
}

// Snapshot describes every visible variable in the namespace. A variable
// whose value cannot be read or introspected still appears in the result,
// carrying an error string instead of aborting the batch.
func Snapshot(ctx context.Context, ns ports.Namespace, opts ...SnapshotOption) (map[string]VariableModel, error) {
	cfg := &snapshotConfig{skipPrefixes: defaultSkipPrefixes}
	for _, opt := range opts {
		opt(cfg)
	}

	names, err := ns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("varexplorer: listing variables: %w", err)
	}

	variables := make(map[string]VariableModel, len(names))
	for _, name := range names {
		if skip(name, cfg.skipPrefixes) {
			continue
		}

		value, err := ns.Get(ctx, name)
		if err != nil {
			variables[name] = VariableModel{
				Name:  name,
				Extra: map[string]any{},
				Error: err.Error(),
			}
			continue
		}

		variables[name] = Describe(name, value)
	}

	return variables, nil
}

func skip(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Rename moves a variable to a new name. An empty new name deletes the
// variable without rebinding it.
func Rename(ctx context.Context, ns ports.Namespace, oldName, newName string) error {
	value, err := ns.Get(ctx, oldName)
	if err != nil {
		return fmt.Errorf("varexplorer: renaming %q: %w", oldName, err)
	}

	if newName != "" {
		if err := ns.Set(ctx, newName, value); err != nil {
			return fmt.Errorf("varexplorer: renaming %q: %w", oldName, err)
		}
	}

	if err := ns.Delete(ctx, oldName); err != nil {
		return fmt.Errorf("varexplorer: renaming %q: %w", oldName, err)
	}
	return nil
}
