package varexplorer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sidecomm/pkg/adapters/memory"
	"github.com/aretw0/sidecomm/pkg/ports"
	"github.com/aretw0/sidecomm/pkg/varexplorer"
)

func TestSnapshot(t *testing.T) {
	ns := memory.NewNamespace()
	ctx := context.Background()

	require.NoError(t, ns.Set(ctx, "city", "toronto"))
	require.NoError(t, ns.Set(ctx, "count", 42))
	require.NoError(t, ns.Set(ctx, "_hidden", "nope"))

	variables, err := varexplorer.Snapshot(ctx, ns)
	require.NoError(t, err)

	assert.Len(t, variables, 2)
	assert.Equal(t, "toronto", variables["city"].SampleValue)
	assert.Equal(t, 42, variables["count"].SampleValue)
	assert.NotContains(t, variables, "_hidden")
}

func TestSnapshot_SkipPrefixes(t *testing.T) {
	ns := memory.NewNamespace()
	ctx := context.Background()

	require.NoError(t, ns.Set(ctx, "tmp_scratch", 1))
	require.NoError(t, ns.Set(ctx, "kept", 2))

	variables, err := varexplorer.Snapshot(ctx, ns, varexplorer.WithSkipPrefixes("tmp_"))
	require.NoError(t, err)

	assert.Contains(t, variables, "kept")
	assert.NotContains(t, variables, "tmp_scratch")
}

func TestRename(t *testing.T) {
	ns := memory.NewNamespace()
	ctx := context.Background()

	require.NoError(t, ns.Set(ctx, "old", "payload"))

	require.NoError(t, varexplorer.Rename(ctx, ns, "old", "new"))

	value, err := ns.Get(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "payload", value)

	_, err = ns.Get(ctx, "old")
	assert.ErrorIs(t, err, ports.ErrVariableNotFound)
}

func TestRename_EmptyNameDeletes(t *testing.T) {
	ns := memory.NewNamespace()
	ctx := context.Background()

	require.NoError(t, ns.Set(ctx, "doomed", 1))

	require.NoError(t, varexplorer.Rename(ctx, ns, "doomed", ""))

	_, err := ns.Get(ctx, "doomed")
	assert.ErrorIs(t, err, ports.ErrVariableNotFound)
}

func TestRename_MissingVariable(t *testing.T) {
	ns := memory.NewNamespace()

	err := varexplorer.Rename(context.Background(), ns, "missing", "anything")
	assert.ErrorIs(t, err, ports.ErrVariableNotFound)
}
