package bridge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sidecomm/pkg/adapters/memory"
	"github.com/aretw0/sidecomm/pkg/bridge"
	"github.com/aretw0/sidecomm/pkg/formcell"
	"github.com/aretw0/sidecomm/pkg/ports"
)

func newBridge(t *testing.T) (*bridge.Bridge, *memory.Comm, *memory.Namespace) {
	t.Helper()

	comm := memory.NewComm()
	ns := memory.NewNamespace()
	b := bridge.New(comm, bridge.WithNamespace(ns))
	return b, comm, ns
}

func messageData(t *testing.T, msg ports.Message) map[string]any {
	t.Helper()

	data, ok := msg.Body["data"].(map[string]any)
	require.True(t, ok, "message body has no data mapping")
	return data
}

func TestBridge_CreateSendsDisplay(t *testing.T) {
	b, comm, ns := newBridge(t)
	ctx := context.Background()

	cell, err := b.Create(ctx, map[string]any{
		"input_type":          "dropdown",
		"model_variable_name": "city",
		"value":               "toronto",
	})
	require.NoError(t, err)

	msg, ok := comm.Last()
	require.True(t, ok)
	assert.Equal(t, bridge.HandlerDisplayFormCell, msg.Handler)

	data := messageData(t, msg)
	assert.Equal(t, cell.ID(), data["id"])
	assert.Equal(t, "dropdown", data["input_type"])
	assert.Equal(t, "city", data["model_variable_name"])
	assert.Equal(t, "city_value", data["value_variable_name"])
	assert.Equal(t, "toronto", data["value"])

	// Creation binds the value variable through the bridge namespace.
	value, err := ns.Get(ctx, "city_value")
	require.NoError(t, err)
	assert.Equal(t, "toronto", value)
}

func TestBridge_ValueChangeSendsUpdate(t *testing.T) {
	b, comm, _ := newBridge(t)
	ctx := context.Background()

	cell, err := b.Create(ctx, map[string]any{
		"input_type":          "text",
		"model_variable_name": "test",
		"value":               "old",
	})
	require.NoError(t, err)

	require.NoError(t, cell.SetValue(ctx, "new"))

	msg, ok := comm.Last()
	require.True(t, ok)
	assert.Equal(t, bridge.HandlerUpdateFormCell, msg.Handler)

	data := messageData(t, msg)
	assert.Equal(t, "value", data["name"])
	assert.Equal(t, "old", data["old"])
	assert.Equal(t, "new", data["new"])
	assert.Equal(t, cell.ID(), data["id"])

	// The payload carries event fields only.
	assert.Len(t, data, 4)
}

func TestBridge_ApplyUnknownIDIgnored(t *testing.T) {
	b, _, _ := newBridge(t)

	applied, err := b.Apply(context.Background(), "no-such-cell", map[string]any{
		"value": "x",
	})
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestBridge_ApplyPatchesCell(t *testing.T) {
	b, _, ns := newBridge(t)
	ctx := context.Background()

	cell, err := b.Create(ctx, map[string]any{
		"input_type":          "text",
		"model_variable_name": "test",
		"value":               "old",
	})
	require.NoError(t, err)

	applied, err := b.Apply(ctx, cell.ID(), map[string]any{
		"id":    cell.ID(),
		"value": "patched",
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "patched", cell.Value())

	value, err := ns.Get(ctx, "test_value")
	require.NoError(t, err)
	assert.Equal(t, "patched", value)
}

func TestBridge_ApplyLeavesPatchUntouched(t *testing.T) {
	b, _, _ := newBridge(t)
	ctx := context.Background()

	cell, err := b.Create(ctx, map[string]any{
		"input_type":          "text",
		"model_variable_name": "test",
	})
	require.NoError(t, err)

	patch := map[string]any{
		"id":    cell.ID(),
		"value": "patched",
	}
	_, err = b.Apply(ctx, cell.ID(), patch)
	require.NoError(t, err)

	// The caller's map is not mutated.
	assert.Equal(t, cell.ID(), patch["id"])
	assert.Len(t, patch, 2)
}

func TestBridge_HandleMessage_Create(t *testing.T) {
	b, comm, _ := newBridge(t)

	err := b.HandleMessage(context.Background(), ports.Message{
		Handler: bridge.HandlerCreateFormCell,
		Body: map[string]any{
			"data": map[string]any{
				"input_type":          "slider",
				"model_variable_name": "threshold",
				"value":               5,
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, b.Cells(), 1)
	msg, ok := comm.Last()
	require.True(t, ok)
	assert.Equal(t, bridge.HandlerDisplayFormCell, msg.Handler)
}

func TestBridge_HandleMessage_Update(t *testing.T) {
	b, _, _ := newBridge(t)
	ctx := context.Background()

	cell, err := b.Create(ctx, map[string]any{
		"input_type":          "text",
		"model_variable_name": "test",
	})
	require.NoError(t, err)

	err = b.HandleMessage(ctx, ports.Message{
		Handler: bridge.HandlerUpdateFormCell,
		Body: map[string]any{
			"data": map[string]any{
				"id":    cell.ID(),
				"value": "from the sidecar",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "from the sidecar", cell.Value())
}

func TestBridge_HandleMessage_UpdateMissingID(t *testing.T) {
	b, _, _ := newBridge(t)

	err := b.HandleMessage(context.Background(), ports.Message{
		Handler: bridge.HandlerUpdateFormCell,
		Body: map[string]any{
			"data": map[string]any{"value": "x"},
		},
	})
	require.Error(t, err)
}

func TestBridge_HandleMessage_UnknownHandler(t *testing.T) {
	b, _, _ := newBridge(t)

	err := b.HandleMessage(context.Background(), ports.Message{
		Handler: "unrelated",
		Body:    map[string]any{},
	})
	require.NoError(t, err)
}

func TestBridge_AttachIsIdempotent(t *testing.T) {
	b, comm, _ := newBridge(t)
	ctx := context.Background()

	cell, err := formcell.New(ctx, "text", "test")
	require.NoError(t, err)

	b.Attach(cell)
	b.Attach(cell)

	require.NoError(t, cell.SetValue(ctx, "once"))

	updates := 0
	for _, msg := range comm.Sent() {
		if msg.Handler == bridge.HandlerUpdateFormCell {
			updates++
		}
	}
	assert.Equal(t, 1, updates)
}
