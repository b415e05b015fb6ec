package formcell

import (
	"fmt"
	"time"
)

// datetimeLayout is the canonical wire form for datetime values: minute
// precision, no seconds, no zone. Inbound timestamps are reduced to this
// form on parse and on assignment.
const datetimeLayout = "2006-01-02T15:04"

// datetimeInputLayouts are the accepted inbound shapes, tried in order.
var datetimeInputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	datetimeLayout,
	"2006-01-02",
}

// coerceValue converts an untyped inbound value into the typed form declared
// by the descriptor. A nil value means "unset" and passes for every kind.
func coerceValue(desc *Descriptor, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch desc.Value {
	case ValueString:
		s, ok := value.(string)
		if !ok {
			return nil, &ValueTypeError{InputType: desc.Type, Want: desc.Value, Value: value}
		}
		return s, nil

	case ValueStringList:
		switch v := value.(type) {
		case []string:
			return v, nil
		case []any:
			list := make([]string, len(v))
			for i, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, &ValueTypeError{InputType: desc.Type, Want: desc.Value, Value: value}
				}
				list[i] = s
			}
			return list, nil
		default:
			return nil, &ValueTypeError{InputType: desc.Type, Want: desc.Value, Value: value}
		}

	case ValueNumber:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int8:
			return float64(v), nil
		case int16:
			return float64(v), nil
		case int32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		default:
			return nil, &ValueTypeError{InputType: desc.Type, Want: desc.Value, Value: value}
		}

	case ValueDatetime:
		s, ok := value.(string)
		if !ok {
			return nil, &ValueTypeError{InputType: desc.Type, Want: desc.Value, Value: value}
		}
		canonical, err := canonicalDatetime(s)
		if err != nil {
			return nil, &ValueTypeError{InputType: desc.Type, Want: desc.Value, Value: value}
		}
		return canonical, nil

	default: // ValueAny
		return value, nil
	}
}

// canonicalDatetime parses a timestamp string and re-serializes it to
// datetimeLayout, dropping seconds and zone information.
func canonicalDatetime(s string) (string, error) {
	for _, layout := range datetimeInputLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Format(datetimeLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized datetime %q", s)
}
