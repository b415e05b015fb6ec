package varexplorer

// MaxStringLength caps sample value representations.
const MaxStringLength = 1000

// maxDocLength caps reported documentation strings.
const maxDocLength = 5000

// Documenter lets a value expose a documentation string to the explorer.
type Documenter interface {
	Doc() string
}

// Shaped lets matrix-like values expose an n-dimensional shape
// (rows, columns, ...).
type Shaped interface {
	Shape() []int
}

// ExtraProvider lets a value contribute type-specific detail to the
// snapshot's extra mapping.
type ExtraProvider interface {
	VariableExtras() map[string]any
}

// VariableModel is the serialized description of one namespace variable.
// It is a snapshot, not a managed entity: produced, serialized, discarded.
type VariableModel struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Docstring   string         `json:"docstring,omitempty"`
	Module      string         `json:"module,omitempty"`
	SampleValue any            `json:"sample_value"`
	Size        any            `json:"size,omitempty"`
	SizeBytes   int            `json:"size_bytes,omitempty"`
	Extra       map[string]any `json:"extra"`
	Error       string         `json:"error,omitempty"`
}
