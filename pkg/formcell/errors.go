package formcell

import "fmt"

// ValueTypeError reports a value that does not match the value kind declared
// by the cell's input type. Raised at parse and assignment time.
type ValueTypeError struct {
	InputType string
	Want      ValueKind
	Value     any
}

func (e *ValueTypeError) Error() string {
	return fmt.Sprintf("form cell %q: expected %s value, got %T", e.InputType, e.Want, e.Value)
}
