package tools

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"

	"finadvisor/pkg/errors"
)

// Args is a decoded tool argument object that remembers the order in which
// keys were written. Positional binding depends on that order.
type Args struct {
	Values map[string]any
	Keys   []string
}

// NewArgs builds Args from a map. Keys not listed in order are appended in
// lexical order so the result is deterministic.
func NewArgs(values map[string]any, order ...string) Args {
	a := Args{Values: make(map[string]any, len(values))}
	seen := make(map[string]struct{}, len(values))

	for _, k := range order {
		v, ok := values[k]
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		a.Keys = append(a.Keys, k)
		a.Values[k] = v
	}

	var rest []string
	for k := range values {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		a.Keys = append(a.Keys, k)
		a.Values[k] = values[k]
	}

	return a
}

// ParseArgs decodes a JSON object, keeping the position of each key's first
// occurrence. Anything other than a valid JSON object is an error.
func ParseArgs(raw string) (Args, error) {
	if !gjson.Valid(raw) {
		return Args{}, errors.Wrap(errors.ErrInvalidInput, "tool arguments are not valid JSON")
	}

	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return Args{}, errors.Wrap(errors.ErrInvalidInput, "tool arguments are not a JSON object")
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return Args{}, errors.Wrap(err, "decode tool arguments")
	}

	order := make([]string, 0, len(values))
	parsed.ForEach(func(key, _ gjson.Result) bool {
		order = append(order, key.String())
		return true
	})

	return NewArgs(values, order...), nil
}

// Len returns the number of arguments
func (a Args) Len() int { return len(a.Keys) }

// Has reports whether key is present
func (a Args) Has(key string) bool {
	_, ok := a.Values[key]
	return ok
}

// Positional returns the values in key order
func (a Args) Positional() []any {
	out := make([]any, 0, len(a.Keys))
	for _, k := range a.Keys {
		out = append(out, a.Values[k])
	}
	return out
}

// String returns a string argument
func (a Args) String(key string) (string, error) {
	v, ok := a.Values[key]
	if !ok {
		return "", errors.NewValidationError(key, "is required", nil)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewValidationError(key, "must be a string", v)
	}
	return s, nil
}

// Float returns a numeric argument. Numeric strings are accepted.
func (a Args) Float(key string) (float64, error) {
	v, ok := a.Values[key]
	if !ok {
		return 0, errors.NewValidationError(key, "is required", nil)
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, errors.NewValidationError(key, "must be a number", v)
	}
	return f, nil
}

// Int returns an integral numeric argument
func (a Args) Int(key string) (int, error) {
	f, err := a.Float(key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errors.NewValidationError(key, "must be an integer", a.Values[key])
	}
	return int(f), nil
}

// Floats returns an array-of-numbers argument
func (a Args) Floats(key string) ([]float64, error) {
	v, ok := a.Values[key]
	if !ok {
		return nil, errors.NewValidationError(key, "is required", nil)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, errors.NewValidationError(key, "must be an array of numbers", v)
	}

	out := make([]float64, len(items))
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			return nil, errors.NewValidationError(key, "must be an array of numbers", v)
		}
		out[i] = f
	}
	return out, nil
}

// MarshalJSON writes the object with keys in their original order
func (a Args) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.Values[k])
		if err != nil {
			return nil, errors.Wrapf(err, "marshal argument %s", k)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// toFloat rejects NaN and ±Inf, which strconv accepts in numeric strings.
func toFloat(v any) (float64, bool) {
	f, ok := numeric(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
