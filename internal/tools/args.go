package tools

import (
	"fmt"
	"math"

	"canvashelper/internal/agg"
)

// checkRequired rejects a call that is missing a required argument,
// before anything else runs.
func checkRequired(schema ToolSchema, args map[string]any) error {
	for _, name := range schema.Required {
		if _, ok := args[name]; !ok {
			return &agg.ValidationError{Param: name, Reason: "required argument missing"}
		}
	}
	return nil
}

// intArg reads an integral argument, tolerating the float64 that JSON
// decoding produces. Absent arguments return the default.
func intArg(args map[string]any, name string, def int) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, &agg.ValidationError{Param: name, Reason: "must be an integer"}
		}
		return int(v), nil
	default:
		return 0, &agg.ValidationError{Param: name, Reason: fmt.Sprintf("expected integer, got %T", raw)}
	}
}

// boolArg reads a boolean argument with a default for absence.
func boolArg(args map[string]any, name string, def bool) (bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, &agg.ValidationError{Param: name, Reason: fmt.Sprintf("expected boolean, got %T", raw)}
	}
	return v, nil
}
