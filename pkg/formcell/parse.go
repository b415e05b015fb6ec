package formcell

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/sidecomm/pkg/ports"
)

// envelope is the decoded shape of an inbound form cell message. Fields the
// envelope does not name are collected in Extra and survive only on the
// custom variant.
type envelope struct {
	InputType         string         `mapstructure:"input_type"`
	ModelVariableName string         `mapstructure:"model_variable_name"`
	Value             any            `mapstructure:"value"`
	VariableType      string         `mapstructure:"variable_type"`
	Settings          map[string]any `mapstructure:"settings"`
	Extra             map[string]any `mapstructure:",remain"`
}

// Parse converts an untyped inbound message into a typed form cell.
//
// The payload must carry input_type and model_variable_name; value,
// variable_type and settings are optional. Settings of a recognized input
// type are validated against its schema; an unrecognized input type is not
// an error and yields a custom cell with the unknown top-level fields
// preserved as extra attributes.
//
// The payload may carry the kernel execution context itself under the
// "namespace" key; it takes precedence over a WithNamespace option. When a
// namespace is available the parsed cell is bound immediately: the value
// variable is created and seeded with the parsed value.
func Parse(ctx context.Context, data map[string]any, opts ...Option) (*Cell, error) {
	cfg := &cellConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	payload := make(map[string]any, len(data))
	for key, value := range data {
		payload[key] = value
	}

	// Kernel-side only: the execution context handle rides along in the
	// payload and must never reach the envelope decoder.
	if raw, ok := payload["namespace"]; ok {
		delete(payload, "namespace")
		if ns, ok := raw.(ports.Namespace); ok {
			cfg.namespace = ns
		}
	}

	var env envelope
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &env,
	})
	if err != nil {
		return nil, fmt.Errorf("formcell: building decoder: %w", err)
	}
	if err := decoder.Decode(payload); err != nil {
		return nil, fmt.Errorf("formcell: decoding payload: %w", err)
	}

	cfg.value = env.Value
	cfg.variableType = env.VariableType
	cfg.settings = env.Settings

	registry := cfg.registry
	if registry == nil {
		registry = Default()
	}
	if _, recognized := registry.Lookup(env.InputType); !recognized {
		// Unknown tags keep their unrecognized top-level fields; for
		// recognized tags those fields are silently dropped.
		cfg.extra = env.Extra
	}

	return build(ctx, env.InputType, env.ModelVariableName, cfg)
}
