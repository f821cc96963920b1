package tools

// Argument accessors for tool handlers. Arguments arrive as map[string]any
// decoded from JSON, so numbers are float64 and every lookup needs a type
// switch plus a default; these helpers keep the handlers flat.

// StringArg returns args[key] as a string, or def when absent or mistyped.
func StringArg(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

// BoolArg returns args[key] as a bool, or def when absent or mistyped.
func BoolArg(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// IntArg returns args[key] as an int, accepting JSON float64, or def when
// absent or mistyped.
func IntArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}
