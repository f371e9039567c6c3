package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
)

// Timestamp layouts accepted for TypeTimestamp parameters. RFC 3339 covers
// values with an offset (a trailing Z included); the others cover naive
// datetimes, with or without fractional seconds, and bare dates that JSON
// clients commonly send.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CoerceParams converts raw, JSON-originated parameter values to the types
// the action's schema declares. Parameters absent from raw (or null) are
// skipped so handler defaults apply downstream. Undeclared parameters are
// copied through untouched. The input map is never mutated.
func CoerceParams(raw map[string]any, specs []domain.ParamSpec) (domain.Params, error) {
	out := make(domain.Params, len(raw))
	for name, value := range raw {
		out[name] = value
	}

	for _, spec := range specs {
		value, ok := out[spec.Name]
		if !ok || value == nil {
			continue
		}
		coerced, err := coerceValue(spec.Name, value, spec.Type)
		if err != nil {
			return nil, err
		}
		out[spec.Name] = coerced
	}
	return out, nil
}

func coerceValue(name string, value any, want domain.ParamType) (any, error) {
	switch want {
	case domain.TypeInt:
		return coerceInt(name, value)
	case domain.TypeBool:
		return coerceBool(value), nil
	case domain.TypeFloat:
		return coerceFloat(name, value)
	case domain.TypeTimestamp:
		return coerceTimestamp(name, value)
	case domain.TypeList:
		return coerceList(name, value)
	case domain.TypeObject:
		return coerceObject(name, value)
	case domain.TypeString:
		return coerceString(value), nil
	case domain.TypeAny:
		return value, nil
	default:
		return nil, &domain.UnsupportedTypeError{Param: name, Type: want}
	}
}

func coerceInt(name string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		// JSON numbers arrive as float64; fractional values truncate.
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, &domain.ParameterTypeError{Param: name, Value: value, Want: domain.TypeInt}
		}
		return n, nil
	}
	return 0, &domain.ParameterTypeError{Param: name, Value: value, Want: domain.TypeInt}
}

// coerceBool never fails: the recognised true tokens yield true, everything
// else yields false.
func coerceBool(value any) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	switch strings.ToLower(fmt.Sprint(value)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func coerceFloat(name string, value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, &domain.ParameterTypeError{Param: name, Value: value, Want: domain.TypeFloat}
		}
		return f, nil
	}
	return 0, &domain.ParameterTypeError{Param: name, Value: value, Want: domain.TypeFloat}
}

func coerceTimestamp(name string, value any) (time.Time, error) {
	if t, ok := value.(time.Time); ok {
		return t, nil
	}
	s, ok := value.(string)
	if !ok {
		return time.Time{}, &domain.ParameterTypeError{Param: name, Value: value, Want: domain.TypeTimestamp}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &domain.ParameterTypeError{Param: name, Value: value, Want: domain.TypeTimestamp}
}

func coerceList(name string, value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case string:
		var out []any
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, &domain.ParameterTypeError{Param: name, Value: value, Want: domain.TypeList}
		}
		return out, nil
	}
	return nil, &domain.ParameterTypeError{Param: name, Value: value, Want: domain.TypeList}
}

func coerceObject(name string, value any) (map[string]any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case string:
		var out map[string]any
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, &domain.ParameterTypeError{Param: name, Value: value, Want: domain.TypeObject}
		}
		return out, nil
	}
	return nil, &domain.ParameterTypeError{Param: name, Value: value, Want: domain.TypeObject}
}

// coerceString never fails: non-string values are stringified.
func coerceString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
