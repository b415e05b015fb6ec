package formcell

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/sidecomm/pkg/schema"
)

// Recognized input type tags.
const (
	TypeDatetime    = "datetime"
	TypeDropdown    = "dropdown"
	TypeSlider      = "slider"
	TypeCheckboxes  = "checkboxes"
	TypeMultiselect = "multiselect"
	TypeText        = "text"

	// TypeCustom is the fallback tag every unrecognized input type is
	// normalized to.
	TypeCustom = "custom"
)

// ValueKind declares the value type a variant carries.
type ValueKind string

const (
	ValueString     ValueKind = "string"
	ValueStringList ValueKind = "string_list"
	ValueNumber     ValueKind = "number"
	ValueDatetime   ValueKind = "datetime"
	ValueAny        ValueKind = "any"
)

// Descriptor describes one form cell variant: the tag it answers to, the
// kind of value it holds and the schema its settings must conform to.
// Open descriptors (custom) accept arbitrary settings keys and preserve
// unrecognized top-level payload fields as extra attributes.
type Descriptor struct {
	Type     string
	Value    ValueKind
	Settings schema.Schema
	Open     bool
}

// Registry maps input_type tags to variant descriptors.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*Descriptor),
	}
}

// Register adds a descriptor by its Type tag. Duplicate tags return an error.
func (r *Registry) Register(desc *Descriptor) error {
	if desc == nil || desc.Type == "" {
		return fmt.Errorf("formcell: descriptor type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[desc.Type]; exists {
		return fmt.Errorf("formcell: input type %q already registered", desc.Type)
	}

	r.types[desc.Type] = desc
	return nil
}

// Lookup retrieves a descriptor by tag.
func (r *Registry) Lookup(inputType string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.types[inputType]
	return desc, ok
}

// Types returns a sorted list of registered tags.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Custom returns the fallback descriptor used for unrecognized input types.
func Custom() *Descriptor {
	return customDescriptor
}

var customDescriptor = &Descriptor{
	Type:  TypeCustom,
	Value: ValueAny,
	Open:  true,
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry holding the built-in variants.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, desc := range builtinDescriptors() {
			if err := defaultRegistry.Register(desc); err != nil {
				panic(err)
			}
		}
	})
	return defaultRegistry
}

func builtinDescriptors() []*Descriptor {
	options := schema.Schema{"options": schema.StringList()}

	return []*Descriptor{
		{
			Type:     TypeDatetime,
			Value:    ValueDatetime,
			Settings: schema.Schema{},
		},
		{
			Type:     TypeDropdown,
			Value:    ValueString,
			Settings: options,
		},
		{
			// Dropdown subtype supporting a list-valued selection.
			Type:     TypeMultiselect,
			Value:    ValueStringList,
			Settings: options,
		},
		{
			Type:     TypeCheckboxes,
			Value:    ValueStringList,
			Settings: options,
		},
		{
			Type:  TypeSlider,
			Value: ValueNumber,
			Settings: schema.Schema{
				"min":  schema.Number(),
				"max":  schema.Number(),
				"step": schema.Number(),
			},
		},
		{
			Type:  TypeText,
			Value: ValueString,
			Settings: schema.Schema{
				"min_length": schema.Int(),
				"max_length": schema.Int(),
			},
		},
	}
}
