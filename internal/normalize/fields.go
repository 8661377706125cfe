package normalize

// Typed accessors over decoded JSON. Each returns the zero value when the key
// is missing, null, or holds a different type. A nil map is valid input.

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func object(m map[string]any, key string) map[string]any {
	o, _ := m[key].(map[string]any)
	return o
}

func list(m map[string]any, key string) []any {
	l, _ := m[key].([]any)
	return l
}

// number accepts JSON numbers only; encoding/json decodes them as float64.
func number(m map[string]any, key string) float64 {
	n, _ := m[key].(float64)
	return n
}

// stringList keeps the string entries of a list and drops everything else.
func stringList(m map[string]any, key string) []string {
	entries := list(m, key)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
