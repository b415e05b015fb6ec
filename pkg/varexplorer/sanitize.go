package varexplorer

import (
	"encoding/json"
	"reflect"
)

// Sanitize ensures a value is JSON-serializable before it rides a comm
// message, converting to a truncated string representation if necessary.
// Mappings and sequences are cleaned recursively.
func Sanitize(value any) any {
	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Map:
		cleaned := make(map[string]any, rv.Len())
		for _, key := range rv.MapKeys() {
			cleaned[stringRepr(key.Interface(), MaxStringLength)] = Sanitize(rv.MapIndex(key).Interface())
		}
		return cleaned

	case reflect.Slice, reflect.Array:
		cleaned := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			cleaned[i] = Sanitize(rv.Index(i).Interface())
		}
		return cleaned
	}

	if _, err := json.Marshal(value); err != nil {
		return stringRepr(value, MaxStringLength)
	}
	return value
}
