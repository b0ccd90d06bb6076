package schema

import "encoding/json"

// Clean drops nil values, empty strings, and empty slices or maps at every
// depth. Maps left empty after cleaning are dropped too.
func Clean(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if c, ok := cleanValue(v); ok {
			out[k] = c
		}
	}
	return out
}

func cleanValue(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		return t, t != ""
	case map[string]any:
		c := Clean(t)
		return c, len(c) > 0
	case []map[string]any:
		items := make([]any, len(t))
		for i, m := range t {
			items[i] = m
		}
		return cleanValue(items)
	case []string:
		items := make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
		return cleanValue(items)
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if c, ok := cleanValue(item); ok {
				out = append(out, c)
			}
		}
		return out, len(out) > 0
	default:
		return v, true
	}
}

// ToJSON cleans m and encodes it. The encoder escapes <, > and &, so the
// result can be embedded in a script element as is.
func ToJSON(m map[string]any) ([]byte, error) {
	return json.Marshal(Clean(m))
}
