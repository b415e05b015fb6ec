package formcell

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/aretw0/sidecomm/pkg/ports"
	"github.com/aretw0/sidecomm/pkg/schema"
)

// Cell is the stateful kernel-side representation of one UI control.
//
// A cell may be bound to a kernel namespace: when it is, the variable named
// ValueVariableName() is eagerly initialized and kept equal to the cell's
// value on every assignment. Without a binding the cell still works fully
// in-memory.
type Cell struct {
	id                string
	desc              *Descriptor
	modelVariableName string
	variableType      string
	value             any
	settings          map[string]any
	extra             map[string]any
	namespace         ports.Namespace
	subscribers       []Subscriber
}

type cellConfig struct {
	value        any
	variableType string
	settings     map[string]any
	extra        map[string]any
	namespace    ports.Namespace
	registry     *Registry
}

// Option configures cell construction and parsing.
type Option func(*cellConfig)

// WithValue sets the initial value.
func WithValue(value any) Option {
	return func(c *cellConfig) {
		c.value = value
	}
}

// WithVariableType sets the optional variable type hint (e.g. "str", "int").
func WithVariableType(variableType string) Option {
	return func(c *cellConfig) {
		c.variableType = variableType
	}
}

// WithSettings sets the initial settings mapping.
func WithSettings(settings map[string]any) Option {
	return func(c *cellConfig) {
		c.settings = settings
	}
}

// WithNamespace binds the cell to a kernel namespace.
func WithNamespace(ns ports.Namespace) Option {
	return func(c *cellConfig) {
		c.namespace = ns
	}
}

// WithRegistry resolves input types against a custom registry instead of the
// shared default.
func WithRegistry(r *Registry) Option {
	return func(c *cellConfig) {
		c.registry = r
	}
}

// New constructs a form cell directly, without an inbound message. The
// input type is resolved like Parse resolves it: unrecognized tags degrade
// to the custom variant.
func New(ctx context.Context, inputType, modelVariableName string, opts ...Option) (*Cell, error) {
	cfg := &cellConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return build(ctx, inputType, modelVariableName, cfg)
}

// build assembles and binds a cell from a resolved configuration. Shared by
// New and Parse.
func build(ctx context.Context, inputType, modelVariableName string, cfg *cellConfig) (*Cell, error) {
	if inputType == "" {
		return nil, &schema.ValidationError{Key: "input_type", Reason: "required"}
	}
	if modelVariableName == "" {
		return nil, &schema.ValidationError{Key: "model_variable_name", Reason: "required"}
	}

	registry := cfg.registry
	if registry == nil {
		registry = Default()
	}

	desc, recognized := registry.Lookup(inputType)
	if !recognized {
		// Not an error: unrecognized tags degrade to the custom variant
		// and the tag itself is normalized.
		desc = Custom()
	}

	if !desc.Open {
		if err := schema.Validate(desc.Settings, cfg.settings); err != nil {
			return nil, err
		}
	}

	value, err := coerceValue(desc, cfg.value)
	if err != nil {
		return nil, err
	}

	cell := &Cell{
		id:                uuid.NewString(),
		desc:              desc,
		modelVariableName: modelVariableName,
		variableType:      cfg.variableType,
		value:             value,
		settings:          cloneMap(cfg.settings),
		extra:             cloneMap(cfg.extra),
		namespace:         cfg.namespace,
	}
	if cell.settings == nil {
		cell.settings = make(map[string]any)
	}

	// Eagerly seed the bound value variable so kernel code can read it
	// before the first UI interaction.
	if cell.namespace != nil {
		if err := cell.namespace.Set(ctx, cell.ValueVariableName(), cell.value); err != nil {
			return nil, fmt.Errorf("binding %q: %w", cell.ValueVariableName(), err)
		}
	}

	return cell, nil
}

// ID returns the opaque process-local identity of the cell.
func (c *Cell) ID() string { return c.id }

// InputType returns the resolved variant tag. For cells parsed from an
// unrecognized tag this is the literal "custom".
func (c *Cell) InputType() string { return c.desc.Type }

// Descriptor returns the variant descriptor the cell was built from.
func (c *Cell) Descriptor() *Descriptor { return c.desc }

// ModelVariableName returns the kernel variable this cell mirrors.
func (c *Cell) ModelVariableName() string { return c.modelVariableName }

// ValueVariableName returns the derived name of the bound value variable.
func (c *Cell) ValueVariableName() string { return c.modelVariableName + "_value" }

// VariableType returns the optional variable type hint.
func (c *Cell) VariableType() string { return c.variableType }

// Value returns the current value. Reading never triggers side effects.
func (c *Cell) Value() any { return c.value }

// Settings returns a copy of the current settings mapping.
func (c *Cell) Settings() map[string]any { return cloneMap(c.settings) }

// Extra returns a copy of the preserved unrecognized top-level fields.
// Only custom cells carry extras.
func (c *Cell) Extra() map[string]any { return cloneMap(c.extra) }

// Bound reports whether the cell has a live namespace binding.
func (c *Cell) Bound() bool { return c.namespace != nil }

// Subscribe registers a listener for change events.
func (c *Cell) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	c.subscribers = append(c.subscribers, fn)
}

// SetValue assigns a new value. The assignment validates the value against
// the variant's value kind, updates the in-memory value, writes the bound
// namespace variable when a binding exists, and notifies subscribers.
func (c *Cell) SetValue(ctx context.Context, value any) error {
	coerced, err := coerceValue(c.desc, value)
	if err != nil {
		return err
	}

	old := c.value
	c.value = coerced

	if c.namespace != nil {
		if err := c.namespace.Set(ctx, c.ValueVariableName(), coerced); err != nil {
			return fmt.Errorf("updating %q: %w", c.ValueVariableName(), err)
		}
	}

	c.notify(ctx, ChangeEvent{Name: "value", Old: old, New: coerced})
	return nil
}

// setSettings replaces the settings mapping. Callers validate first.
func (c *Cell) setSettings(ctx context.Context, settings map[string]any) {
	old := c.settings
	c.settings = settings
	c.notify(ctx, ChangeEvent{Name: "settings", Old: old, New: settings})
}

func (c *Cell) setVariableType(ctx context.Context, variableType string) {
	old := c.variableType
	c.variableType = variableType
	c.notify(ctx, ChangeEvent{Name: "variable_type", Old: old, New: variableType})
}

// setModelVariableName renames the mirrored variable. The previous value
// variable is left behind (there is no deletion protocol); the new one is
// seeded immediately.
func (c *Cell) setModelVariableName(ctx context.Context, name string) error {
	old := c.modelVariableName
	c.modelVariableName = name

	if c.namespace != nil {
		if err := c.namespace.Set(ctx, c.ValueVariableName(), c.value); err != nil {
			return fmt.Errorf("binding %q: %w", c.ValueVariableName(), err)
		}
	}

	c.notify(ctx, ChangeEvent{Name: "model_variable_name", Old: old, New: name})
	return nil
}

func (c *Cell) setExtra(ctx context.Context, key string, value any) {
	old := c.extra[key]
	if c.extra == nil {
		c.extra = make(map[string]any)
	}
	c.extra[key] = value
	c.notify(ctx, ChangeEvent{Name: key, Old: old, New: value})
}

func (c *Cell) notify(ctx context.Context, event ChangeEvent) {
	for _, fn := range c.subscribers {
		fn(ctx, event)
	}
}

// Fields returns the full public field mapping, the payload of a
// display_form_cell message. Extras appear as top-level fields.
func (c *Cell) Fields() map[string]any {
	fields := map[string]any{
		"input_type":          c.desc.Type,
		"model_variable_name": c.modelVariableName,
		"value_variable_name": c.ValueVariableName(),
		"value":               c.value,
		"variable_type":       c.variableType,
		"settings":            c.Settings(),
	}
	for key, value := range c.extra {
		fields[key] = value
	}
	return fields
}

// String renders a human-readable summary of the cell's public properties,
// excluding input_type (the variant name already carries it).
func (c *Cell) String() string {
	props := []string{
		fmt.Sprintf("model_variable_name=%v", c.modelVariableName),
		fmt.Sprintf("value_variable_name=%v", c.ValueVariableName()),
		fmt.Sprintf("value=%v", c.value),
		fmt.Sprintf("variable_type=%v", c.variableType),
		fmt.Sprintf("settings=%v", c.settings),
	}

	keys := make([]string, 0, len(c.extra))
	for key := range c.extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		props = append(props, fmt.Sprintf("%s=%v", key, c.extra[key]))
	}

	return fmt.Sprintf("<%s %s>", variantName(c.desc.Type), strings.Join(props, ", "))
}

func variantName(inputType string) string {
	if inputType == "" {
		return "FormCell"
	}
	return strings.ToUpper(inputType[:1]) + inputType[1:]
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		if nested, ok := value.(map[string]any); ok {
			out[key] = cloneMap(nested)
			continue
		}
		out[key] = value
	}
	return out
}
