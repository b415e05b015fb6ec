package varexplorer

import (
	"fmt"
	"reflect"
)

// Describe gathers the properties of a single variable. Introspection of
// size, byte size and sample value runs behind a recover: whatever fails is
// reported through the Error field alongside the basic properties.
func Describe(name string, value any) VariableModel {
	model := VariableModel{
		Name:      name,
		Type:      typeName(value),
		Docstring: docstring(value),
		Module:    modulePath(value),
		Extra:     map[string]any{},
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				model.Error = fmt.Sprintf("%v", r)
			}
		}()

		model.SampleValue = Sanitize(sampleValue(value, MaxStringLength))
		model.Size = variableSize(value)
		model.SizeBytes = sizeBytes(value)
		model.Extra = extraProperties(value)
	}()

	return model
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

func modulePath(value any) string {
	if value == nil {
		return ""
	}
	t := reflect.TypeOf(value)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath()
}

func docstring(value any) string {
	doc, ok := value.(Documenter)
	if !ok {
		return ""
	}
	s := doc.Doc()
	if len(s) > maxDocLength {
		s = s[:maxDocLength]
	}
	return s
}

// variableSize returns the shape for matrix-like values, the length for
// countable values, and nil otherwise.
func variableSize(value any) any {
	if shaped, ok := value.(Shaped); ok {
		if shape := shaped.Shape(); len(shape) > 0 {
			return shape
		}
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return rv.Len()
	}

	if sized, ok := value.(interface{ Size() int }); ok {
		return sized.Size()
	}
	return nil
}

// sizeBytes estimates the memory footprint of a value. Like the shallow
// estimate of most runtimes: type size plus the directly held payload of
// strings, slices and maps, not a deep traversal.
func sizeBytes(value any) int {
	if value == nil {
		return 0
	}

	rv := reflect.ValueOf(value)
	t := rv.Type()
	total := int(t.Size())

	switch rv.Kind() {
	case reflect.String:
		total += rv.Len()
	case reflect.Slice:
		total += rv.Len() * int(t.Elem().Size())
	case reflect.Map:
		total += rv.Len() * int(t.Key().Size()+t.Elem().Size())
	case reflect.Pointer:
		if !rv.IsNil() {
			total += int(t.Elem().Size())
		}
	}

	return total
}

// sampleValue returns a short representation of a value. Containers keep
// their first five items (sampled recursively); anything estimated larger
// than maxLength collapses to map keys or a truncated string repr.
func sampleValue(value any, maxLength int) any {
	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		if n > 5 {
			n = 5
		}
		items := make([]any, n)
		for i := 0; i < n; i++ {
			items[i] = sampleValue(rv.Index(i).Interface(), maxLength)
		}
		return items
	}

	if sizeBytes(value) > maxLength {
		if rv.Kind() == reflect.Map {
			keys := make([]any, 0, rv.Len())
			for _, key := range rv.MapKeys() {
				keys = append(keys, key.Interface())
			}
			return keys
		}
		return stringRepr(value, maxLength) + "..."
	}

	return value
}

// stringRepr renders a value to at most maxLength characters.
func stringRepr(value any, maxLength int) string {
	s := fmt.Sprintf("%v", value)
	if maxLength > 0 && len(s) > maxLength {
		s = s[:maxLength]
	}
	return s
}

func extraProperties(value any) map[string]any {
	extra := map[string]any{}

	if provider, ok := value.(ExtraProvider); ok {
		for key, v := range provider.VariableExtras() {
			extra[key] = v
		}
	}
	if shaped, ok := value.(Shaped); ok {
		if shape := shaped.Shape(); len(shape) > 0 {
			extra["shape"] = shape
		}
	}

	return extra
}
