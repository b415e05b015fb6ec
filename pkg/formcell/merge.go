package formcell

import (
	"context"
	"sort"

	"github.com/aretw0/sidecomm/pkg/schema"
)

// Update applies a partial patch to an existing cell, mutating it in place
// and returning the same instance for chaining.
//
// The settings mapping is deep-merged key by key: keys absent from the patch
// are retained, keys present in both are overwritten, new keys are added.
// Top-level scalar attributes are replaced outright. A changed value is
// routed through SetValue so the namespace binding and outbound sync stay
// consistent. An empty patch is a no-op.
func Update(ctx context.Context, cell *Cell, patch map[string]any) (*Cell, error) {
	if len(patch) == 0 {
		return cell, nil
	}

	// The variant is fixed at creation; a patch may restate the tag but
	// never change it.
	if raw, ok := patch["input_type"]; ok {
		if tag, _ := raw.(string); tag != cell.InputType() {
			return cell, &schema.ValidationError{Key: "input_type", Reason: "cannot change the input type of an existing cell", Value: raw}
		}
	}

	// Settings merge first, so a value arriving in the same patch is
	// validated against the updated shape.
	if raw, ok := patch["settings"]; ok {
		patchSettings, ok := raw.(map[string]any)
		if !ok {
			return cell, &schema.ValidationError{Key: "settings", Reason: "expected a mapping", Value: raw}
		}

		merged := mergeMaps(cloneMap(cell.settings), patchSettings)
		if !cell.desc.Open {
			if err := schema.Validate(cell.desc.Settings, merged); err != nil {
				return cell, err
			}
		}
		cell.setSettings(ctx, merged)
	}

	if raw, ok := patch["variable_type"]; ok {
		variableType, ok := raw.(string)
		if !ok {
			return cell, &schema.ValidationError{Key: "variable_type", Reason: "expected a string", Value: raw}
		}
		cell.setVariableType(ctx, variableType)
	}

	if raw, ok := patch["model_variable_name"]; ok {
		name, ok := raw.(string)
		if !ok || name == "" {
			return cell, &schema.ValidationError{Key: "model_variable_name", Reason: "expected a non-empty string", Value: raw}
		}
		if err := cell.setModelVariableName(ctx, name); err != nil {
			return cell, err
		}
	}

	if raw, ok := patch["value"]; ok {
		if err := cell.SetValue(ctx, raw); err != nil {
			return cell, err
		}
	}

	// Remaining keys: extra attributes on the open variant, shape
	// violations everywhere else.
	extras := make([]string, 0, len(patch))
	for key := range patch {
		switch key {
		case "input_type", "settings", "variable_type", "model_variable_name", "value", "id":
			continue
		}
		extras = append(extras, key)
	}
	sort.Strings(extras)

	for _, key := range extras {
		if !cell.desc.Open {
			return cell, &schema.ValidationError{Key: key, Reason: "not a recognized field", Value: patch[key]}
		}

		// Mapping-valued extras merge like settings do; everything else
		// replaces.
		value := patch[key]
		if patchNested, ok := value.(map[string]any); ok {
			if existing, ok := cell.extra[key].(map[string]any); ok {
				value = mergeMaps(cloneMap(existing), patchNested)
			}
		}
		cell.setExtra(ctx, key, value)
	}

	return cell, nil
}

// mergeMaps merges src into dst recursively. Nested mappings merge key by
// key; every other value type replaces.
func mergeMaps(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		srcNested, srcIsMap := value.(map[string]any)
		dstNested, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = mergeMaps(dstNested, srcNested)
			continue
		}
		dst[key] = value
	}
	return dst
}
