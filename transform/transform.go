package transform

import (
	"strings"
)

// TrimSpace runs [strings.TrimSpace] on every string in v.
func TrimSpace(v any) any {
	return Strings(v, strings.TrimSpace)
}

// ToLower runs [strings.ToLower] on every string in v.
func ToLower(v any) any {
	return Strings(v, strings.ToLower)
}

// Chain returns a function applying fns in order.
func Chain(fns ...func(string) string) func(string) string {
	return func(s string) string {
		for _, f := range fns {
			s = f(s)
		}
		return s
	}
}

// Strings applies f to every string reachable through []any and
// map[string]any values of v and returns the transformed copy. Map keys and
// values of other types are left alone; v itself is never mutated.
func Strings(v any, f func(string) string) any {
	switch x := v.(type) {
	case string:
		return f(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = Strings(x[i], f)
		}
		return out
	case []string:
		out := make([]string, len(x))
		for i := range x {
			out[i] = f(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Strings(e, f)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(x))
		for k, e := range x {
			out[k] = f(e)
		}
		return out
	default:
		return v
	}
}

// Field applies f to the string at key of an object value, leaving every
// other value as it is. It returns v unchanged when the key is absent or
// not a string.
func Field(v any, key string, f func(string) string) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	s, ok := m[key].(string)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for k, e := range m {
		out[k] = e
	}
	out[key] = f(s)
	return out
}
