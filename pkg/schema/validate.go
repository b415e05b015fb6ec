package schema

import "sort"

// Schema is a map of setting names to their expected types.
// Example: {"options": StringList()} or {"min": Number(), "max": Number()}.
type Schema map[string]Type

// Validate checks if settings conform to the schema.
//
// Settings are partial by nature: a key missing from settings is not an
// error. A key missing from the schema is, because the settings shape of a
// recognized input type is closed. Returns an error with all failures found.
func Validate(schema Schema, settings map[string]any) error {
	if len(settings) == 0 {
		// Nothing to validate
		return nil
	}

	var errs []error

	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]

		fieldType, recognized := schema[key]
		if !recognized {
			errs = append(errs, &ValidationError{
				Key:    key,
				Reason: "not a recognized setting",
				Value:  value,
			})
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    key,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}
