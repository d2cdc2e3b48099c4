package utils

// CloneJSON returns a deep copy of a JSON-compatible value: maps and slices
// are copied recursively, scalars are returned as-is. Values of other
// container types are shared, not copied.
func CloneJSON(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return CloneMap(value)
	case []any:
		if value == nil {
			return []any(nil)
		}
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = CloneJSON(item)
		}
		return out
	default:
		return v
	}
}

// CloneMap is CloneJSON for a mapping. A nil map yields nil.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, item := range m {
		out[key] = CloneJSON(item)
	}
	return out
}
