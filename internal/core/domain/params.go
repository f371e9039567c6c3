package domain

import "time"

// Params is the coerced parameter mapping passed to a handler. Values hold
// the concrete types produced by coercion (int, bool, float64, time.Time,
// []any, map[string]any, string) plus any undeclared values passed through.
type Params map[string]any

// Has reports whether the parameter is present and non-nil.
func (p Params) Has(name string) bool {
	v, ok := p[name]
	return ok && v != nil
}

// String returns the named string parameter, or def when absent.
func (p Params) String(name, def string) string {
	if v, ok := p[name].(string); ok {
		return v
	}
	return def
}

// Int returns the named int parameter, or def when absent.
func (p Params) Int(name string, def int) int {
	switch v := p[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Bool returns the named bool parameter, or def when absent.
func (p Params) Bool(name string, def bool) bool {
	if v, ok := p[name].(bool); ok {
		return v
	}
	return def
}

// Float returns the named float parameter, or def when absent.
func (p Params) Float(name string, def float64) float64 {
	switch v := p[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Time returns the named timestamp parameter and whether it was present.
func (p Params) Time(name string) (time.Time, bool) {
	v, ok := p[name].(time.Time)
	return v, ok
}

// StringList returns the named parameter as a string slice. It accepts both
// []string and the []any a decoded JSON array produces; non-string elements
// are skipped.
func (p Params) StringList(name string) []string {
	switch v := p[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// Object returns the named mapping parameter, or nil when absent.
func (p Params) Object(name string) map[string]any {
	if v, ok := p[name].(map[string]any); ok {
		return v
	}
	return nil
}

// List returns the named list parameter, or nil when absent.
func (p Params) List(name string) []any {
	if v, ok := p[name].([]any); ok {
		return v
	}
	return nil
}
