package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/eugenenazirov/fautil/internal/schema"
)

var truthy = map[string]struct{}{
	"true": {},
	"1":    {},
	"yes":  {},
	"y":    {},
	"t":    {},
}

// Error reports a value that cannot be converted to its declared kind.
type Error struct {
	Key    string
	Raw    any
	Target schema.Kind
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: cannot convert %#v to %s", e.Key, e.Raw, e.Target)
}

// Coerce converts raw into the Go representation of kind: bool, int, float64,
// string or []string. key is only used for error reporting.
func Coerce(key string, raw any, kind schema.Kind) (any, error) {
	switch kind {
	case schema.KindBool:
		return Bool(raw), nil
	case schema.KindInt:
		v, ok := toInt(raw)
		if !ok {
			return nil, &Error{Key: key, Raw: raw, Target: kind}
		}
		return v, nil
	case schema.KindFloat:
		v, ok := toFloat(raw)
		if !ok {
			return nil, &Error{Key: key, Raw: raw, Target: kind}
		}
		return v, nil
	case schema.KindStringList:
		v, ok := toList(raw)
		if !ok {
			return nil, &Error{Key: key, Raw: raw, Target: kind}
		}
		return v, nil
	case schema.KindString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	}
	return nil, &Error{Key: key, Raw: raw, Target: kind}
}

// Bool reports whether raw is a native true or a truthy token.
func Bool(raw any) bool {
	if b, ok := raw.(bool); ok {
		return b
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return false
	}
	_, ok := truthy[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// SplitList splits a comma separated string, trimming every element. Blank
// input yields an empty list.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case bool, nil:
		return 0, false
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return int(n), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case uint:
		return uintToInt(uint64(v))
	case uint32:
		return uintToInt(uint64(v))
	case uint64:
		return uintToInt(v)
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	}
	n, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func uintToInt(n uint64) (int, bool) {
	if n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}

func floatToInt(f float64) (int, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	// float64(math.MaxInt) rounds up to 2^63, which is already out of range.
	if f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case bool, nil:
		return 0, false
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, false
	}
	return f, true
}

func toList(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case string:
		return SplitList(v), true
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch item.(type) {
			case map[string]any, []any, nil:
				return nil, false
			}
			s, err := cast.ToStringE(item)
			if err != nil {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
