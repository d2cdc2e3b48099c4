package parse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/archmesh/archmesh/internal/utils"
)

// As parses text with p and converts the result into T through JSON.
//
// It runs the same extract, parse and repair steps as [Parser.Parse] but
// returns an error wrapping [ErrUnparseable] instead of a fallback. If the
// value does not fit T, schema-shaped wrappers are unwrapped once and the
// conversion retried. Models emit these wrappers when they confuse a JSON
// schema with data.
//
// Example:
//
//	type Component struct {
//	    Name string `json:"name"`
//	    Kind string `json:"kind"`
//	}
//
//	// {"name": {"type": "string", "value": "gateway"}, "kind": "service"}
//	component, err := parse.As[Component](ctx, parser, answer)
func As[T any](ctx context.Context, p *Parser, text string) (T, error) {
	var result T
	if p == nil {
		return result, errors.New("parse: nil parser")
	}

	timer := utils.NewTimer()
	value, outcome, err := p.run(ctx, text)
	p.record(ctx, outcome, timer)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	convertErr := convert(value, &result)
	if convertErr == nil {
		return result, nil
	}

	var unwrapped T
	if err := convert(recursiveUnwrap(value), &unwrapped); err == nil {
		return unwrapped, nil
	}
	return result, fmt.Errorf("parse: decode into %T: %w", result, convertErr)
}

func convert(value any, target any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, target)
}

// recursiveUnwrap replaces every {"type": ..., "value": ...} object (exactly
// those two keys) with its value, at any depth.
//
// Example input:
//
//	{"name": {"type": "string", "value": "John"}, "age": {"type": "integer", "value": 30}}
//
// Example output:
//
//	{"name": "John", "age": 30}
func recursiveUnwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if _, hasType := v["type"]; hasType {
			if value, hasValue := v["value"]; hasValue && len(v) == 2 {
				return recursiveUnwrap(value)
			}
		}
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = recursiveUnwrap(val)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = recursiveUnwrap(val)
		}
		return result

	default:
		return data
	}
}
