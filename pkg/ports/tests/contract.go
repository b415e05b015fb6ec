package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/sidecomm/pkg/ports"
)

// NamespaceContractTest is a reusable test suite that verifies if an adapter
// complies with ports.Namespace.
func NamespaceContractTest(t *testing.T, ns ports.Namespace) {
	t.Helper()
	ctx := context.Background()

	// 1. Test Get (NotFound)
	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := ns.Get(ctx, "missing")
		if !errors.Is(err, ports.ErrVariableNotFound) {
			t.Errorf("expected ErrVariableNotFound, got %v", err)
		}
	})

	// 2. Test Set + Get round trip
	t.Run("Set_Get", func(t *testing.T) {
		if err := ns.Set(ctx, "answer", float64(42)); err != nil {
			t.Fatalf("unexpected error setting variable: %v", err)
		}
		value, err := ns.Get(ctx, "answer")
		if err != nil {
			t.Fatalf("unexpected error getting variable: %v", err)
		}
		if value != float64(42) {
			t.Errorf("value mismatch. got %v, want 42", value)
		}
	})

	// 3. Test Set overwrites
	t.Run("Set_Overwrite", func(t *testing.T) {
		if err := ns.Set(ctx, "greeting", "hello"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := ns.Set(ctx, "greeting", "goodbye"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		value, err := ns.Get(ctx, "greeting")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if value != "goodbye" {
			t.Errorf("value mismatch. got %v, want goodbye", value)
		}
	})

	// 4. Test List contains bound names
	t.Run("List", func(t *testing.T) {
		names, err := ns.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing variables: %v", err)
		}
		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for _, want := range []string{"answer", "greeting"} {
			if !lookup[want] {
				t.Errorf("variable %s missing from list", want)
			}
		}
	})

	// 5. Test Delete
	t.Run("Delete", func(t *testing.T) {
		if err := ns.Delete(ctx, "answer"); err != nil {
			t.Fatalf("unexpected error deleting variable: %v", err)
		}
		_, err := ns.Get(ctx, "answer")
		if !errors.Is(err, ports.ErrVariableNotFound) {
			t.Errorf("expected ErrVariableNotFound after delete, got %v", err)
		}
	})

	// 6. Test Delete (NotFound)
	t.Run("Delete_NotFound", func(t *testing.T) {
		err := ns.Delete(ctx, "never-bound")
		if !errors.Is(err, ports.ErrVariableNotFound) {
			t.Errorf("expected ErrVariableNotFound, got %v", err)
		}
	})
}
