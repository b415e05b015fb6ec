package formcell_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sidecomm/pkg/adapters/memory"
	"github.com/aretw0/sidecomm/pkg/formcell"
	"github.com/aretw0/sidecomm/pkg/schema"
)

func TestParse_Datetime(t *testing.T) {
	cell, err := formcell.Parse(context.Background(), map[string]any{
		"input_type":          "datetime",
		"model_variable_name": "test",
		"value":               "2023-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "datetime", cell.InputType())
	assert.Equal(t, "test", cell.ModelVariableName())
	assert.Equal(t, "test_value", cell.ValueVariableName())
	// Canonical form drops seconds and zone.
	assert.Equal(t, "2023-01-01T00:00", cell.Value())
}

func TestParse_DatetimeLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2023-01-01T00:00:00Z", "2023-01-01T00:00"},
		{"2023-06-15T09:30:45", "2023-06-15T09:30"},
		{"2023-06-15T09:30", "2023-06-15T09:30"},
		{"2023-06-15", "2023-06-15T00:00"},
	}

	for _, tt := range tests {
		cell, err := formcell.Parse(context.Background(), map[string]any{
			"input_type":          "datetime",
			"model_variable_name": "ts",
			"value":               tt.in,
		})
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, cell.Value(), "input %q", tt.in)
	}
}

func TestParse_Dropdown(t *testing.T) {
	cell, err := formcell.Parse(context.Background(), map[string]any{
		"input_type":          "dropdown",
		"model_variable_name": "city",
		"value":               "toronto",
		"variable_type":       "str",
		"settings": map[string]any{
			"options": []any{"toronto", "montreal"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "dropdown", cell.InputType())
	assert.Equal(t, "toronto", cell.Value())
	assert.Equal(t, "str", cell.VariableType())
	assert.Equal(t, []any{"toronto", "montreal"}, cell.Settings()["options"])
}

func TestParse_Slider(t *testing.T) {
	cell, err := formcell.Parse(context.Background(), map[string]any{
		"input_type":          "slider",
		"model_variable_name": "threshold",
		"value":               5,
		"settings": map[string]any{
			"min":  0,
			"max":  10,
			"step": 0.5,
		},
	})
	require.NoError(t, err)

	// Numeric values normalize to float64.
	assert.Equal(t, float64(5), cell.Value())
}

func TestParse_Checkboxes(t *testing.T) {
	cell, err := formcell.Parse(context.Background(), map[string]any{
		"input_type":          "checkboxes",
		"model_variable_name": "toppings",
		"value":               []any{"cheese", "mushrooms"},
		"settings": map[string]any{
			"options": []any{"cheese", "mushrooms", "olives"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"cheese", "mushrooms"}, cell.Value())
}

func TestParse_Multiselect(t *testing.T) {
	cell, err := formcell.Parse(context.Background(), map[string]any{
		"input_type":          "multiselect",
		"model_variable_name": "regions",
		"value":               []string{"us-east"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"us-east"}, cell.Value())
}

func TestParse_Text(t *testing.T) {
	cell, err := formcell.Parse(context.Background(), map[string]any{
		"input_type":          "text",
		"model_variable_name": "comment",
		"value":               "hello",
		"settings": map[string]any{
			"min_length": 0,
			"max_length": 100,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", cell.Value())
}

func TestParse_NoValue(t *testing.T) {
	cell, err := formcell.Parse(context.Background(), map[string]any{
		"input_type":          "text",
		"model_variable_name": "comment",
	})
	require.NoError(t, err)

	assert.Nil(t, cell.Value())
}

func TestParse_UnrecognizedTypeFallsBackToCustom(t *testing.T) {
	cell, err := formcell.Parse(context.Background(), map[string]any{
		"input_type":          "rating",
		"model_variable_name": "stars",
		"value":               4,
		"foo":                 "bar",
		"settings": map[string]any{
			"abc": 123,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "custom", cell.InputType())
	assert.Equal(t, 4, cell.Value())

	// Unknown top-level fields survive as extra attributes.
	assert.Equal(t, "bar", cell.Extra()["foo"])
	// Arbitrary settings keys pass on the open variant.
	assert.Equal(t, 123, cell.Settings()["abc"])

	fields := cell.Fields()
	assert.Equal(t, "bar", fields["foo"])
}

func TestParse_RecognizedTypeDropsUnknownFields(t *testing.T) {
	cell, err := formcell.Parse(context.Background(), map[string]any{
		"input_type":          "text",
		"model_variable_name": "comment",
		"foo":                 "bar",
	})
	require.NoError(t, err)

	assert.Empty(t, cell.Extra())
	assert.NotContains(t, cell.Fields(), "foo")
}

func TestParse_MissingRequiredFields(t *testing.T) {
	_, err := formcell.Parse(context.Background(), map[string]any{
		"model_variable_name": "test",
	})
	require.Error(t, err)
	assert.True(t, schema.IsValidation(err))

	_, err = formcell.Parse(context.Background(), map[string]any{
		"input_type": "text",
	})
	require.Error(t, err)
	assert.True(t, schema.IsValidation(err))
}

func TestParse_InvalidSettings(t *testing.T) {
	_, err := formcell.Parse(context.Background(), map[string]any{
		"input_type":          "dropdown",
		"model_variable_name": "city",
		"settings": map[string]any{
			"options": "not a list",
		},
	})
	require.Error(t, err)
	assert.True(t, schema.IsValidation(err))

	_, err = formcell.Parse(context.Background(), map[string]any{
		"input_type":          "slider",
		"model_variable_name": "threshold",
		"settings": map[string]any{
			"color": "red",
		},
	})
	require.Error(t, err)
	assert.True(t, schema.IsValidation(err))
}

func TestParse_WrongValueType(t *testing.T) {
	_, err := formcell.Parse(context.Background(), map[string]any{
		"input_type":          "dropdown",
		"model_variable_name": "city",
		"value":               42,
	})
	require.Error(t, err)

	var valueErr *formcell.ValueTypeError
	assert.ErrorAs(t, err, &valueErr)
}

func TestParse_NamespaceBinding(t *testing.T) {
	ns := memory.NewNamespace()
	ctx := context.Background()

	cell, err := formcell.Parse(ctx, map[string]any{
		"input_type":          "text",
		"model_variable_name": "test",
		"value":               "hello",
		"namespace":           ns,
	})
	require.NoError(t, err)
	assert.True(t, cell.Bound())

	// The value variable is seeded eagerly.
	value, err := ns.Get(ctx, "test_value")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
}

func TestParse_WithNamespaceOption(t *testing.T) {
	ns := memory.NewNamespace()
	ctx := context.Background()

	_, err := formcell.Parse(ctx, map[string]any{
		"input_type":          "text",
		"model_variable_name": "test",
		"value":               "hi",
	}, formcell.WithNamespace(ns))
	require.NoError(t, err)

	value, err := ns.Get(ctx, "test_value")
	require.NoError(t, err)
	assert.Equal(t, "hi", value)
}

func TestParse_CustomRegistry(t *testing.T) {
	registry := formcell.NewRegistry()
	require.NoError(t, registry.Register(&formcell.Descriptor{
		Type:     "color",
		Value:    formcell.ValueString,
		Settings: schema.Schema{"palette": schema.StringList()},
	}))

	cell, err := formcell.Parse(context.Background(), map[string]any{
		"input_type":          "color",
		"model_variable_name": "accent",
		"value":               "#ff0000",
	}, formcell.WithRegistry(registry))
	require.NoError(t, err)

	assert.Equal(t, "color", cell.InputType())
}
