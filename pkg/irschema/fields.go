// SPDX-License-Identifier: Apache-2.0
package irschema

import (
	"github.com/specgo-dev/specgo/pkg/ir"
)

func fieldPath(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}

func stringField(m map[string]any, prefix, field string, required bool, diags *ir.Diagnostics) (string, bool) {
	raw, ok := m[field]
	if !ok {
		if required {
			*diags = append(*diags, ir.SchemaError(fieldPath(prefix, field), "is required"))
		}
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		*diags = append(*diags, ir.SchemaError(fieldPath(prefix, field), "must be a string, got %T", raw))
		return "", false
	}
	return s, true
}

func boolField(m map[string]any, prefix, field string, required bool, diags *ir.Diagnostics) (bool, bool) {
	raw, ok := m[field]
	if !ok {
		if required {
			*diags = append(*diags, ir.SchemaError(fieldPath(prefix, field), "is required"))
		}
		return false, false
	}
	b, ok := raw.(bool)
	if !ok {
		*diags = append(*diags, ir.SchemaError(fieldPath(prefix, field), "must be a boolean, got %T", raw))
		return false, false
	}
	return b, true
}

func intField(m map[string]any, prefix, field string, required bool, diags *ir.Diagnostics) (int, bool) {
	raw, ok := m[field]
	if !ok {
		if required {
			*diags = append(*diags, ir.SchemaError(fieldPath(prefix, field), "is required"))
		}
		return 0, false
	}
	v, ok := toInt(raw)
	if !ok {
		*diags = append(*diags, ir.SchemaError(fieldPath(prefix, field), "must be an integer, got %T", raw))
		return 0, false
	}
	return v, true
}

func floatField(m map[string]any, prefix, field string, required bool, diags *ir.Diagnostics) (float64, bool) {
	raw, ok := m[field]
	if !ok {
		if required {
			*diags = append(*diags, ir.SchemaError(fieldPath(prefix, field), "is required"))
		}
		return 0, false
	}
	v, ok := toFloat(raw)
	if !ok {
		*diags = append(*diags, ir.SchemaError(fieldPath(prefix, field), "must be a number, got %T", raw))
		return 0, false
	}
	return v, true
}

func mapField(m map[string]any, prefix, field string, required bool, diags *ir.Diagnostics) (map[string]any, bool) {
	raw, ok := m[field]
	if !ok {
		if required {
			*diags = append(*diags, ir.SchemaError(fieldPath(prefix, field), "is required"))
		}
		return nil, false
	}
	v, ok := raw.(map[string]any)
	if !ok {
		*diags = append(*diags, ir.SchemaError(fieldPath(prefix, field), "must be a mapping, got %T", raw))
		return nil, false
	}
	return v, true
}

func listField(m map[string]any, prefix, field string, required bool, diags *ir.Diagnostics) ([]any, bool) {
	raw, ok := m[field]
	if !ok {
		if required {
			*diags = append(*diags, ir.SchemaError(fieldPath(prefix, field), "is required"))
		}
		return nil, false
	}
	v, ok := raw.([]any)
	if !ok {
		*diags = append(*diags, ir.SchemaError(fieldPath(prefix, field), "must be a list, got %T", raw))
		return nil, false
	}
	return v, true
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		return int(x), true
	case float64:
		if x == float64(int(x)) {
			return int(x), true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

func uintOrZero(v int) uint {
	if v < 0 {
		return 0
	}
	return uint(v)
}

func mustString(v any) string {
	s, _ := v.(string)
	return s
}
