package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pawmart/petsearch/internal/domain"
)

// value is the tagged variant a raw filter value is coerced into exactly once
// at the compile boundary: scalar string, number, bool, string list, or
// structured range bounds.
type value struct {
	str  string
	num  *float64
	flag *bool
	list []string
	rng  *Range
	has  bool
}

// coerce converts a decoded JSON value into a tagged value.
func coerce(field string, raw any) (value, error) {
	switch v := raw.(type) {
	case nil:
		return value{}, nil
	case string:
		return value{str: v, has: true}, nil
	case bool:
		b := v
		return value{flag: &b, has: true}, nil
	case float64:
		f := v
		return value{num: &f, has: true}, nil
	case int:
		f := float64(v)
		return value{num: &f, has: true}, nil
	case []string:
		return value{list: v, has: true}, nil
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			list = append(list, scalarString(item))
		}
		return value{list: list, has: true}, nil
	case map[string]any:
		r, err := coerceRange(field, v)
		if err != nil {
			return value{}, err
		}
		return value{rng: &r, has: true}, nil
	default:
		return value{str: scalarString(raw), has: true}, nil
	}
}

// coerceRange converts a structured range object ({"gte": 4.0}, ...) into Range.
func coerceRange(field string, raw map[string]any) (Range, error) {
	var r Range
	for k, v := range raw {
		f, err := numeric(field, v)
		if err != nil {
			return Range{}, err
		}
		switch k {
		case "gt":
			r.GT = &f
		case "gte":
			r.GTE = &f
		case "lt":
			r.LT = &f
		case "lte":
			r.LTE = &f
		default:
			return Range{}, fmt.Errorf("%w: %s range accepts gt/gte/lt/lte, got %q",
				domain.ErrValidation, field, k)
		}
	}
	if r.IsEmpty() {
		return Range{}, fmt.Errorf("%w: %s range has no bounds", domain.ErrValidation, field)
	}
	return r, nil
}

func numeric(field string, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be numeric, got %q", domain.ErrValidation, field, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s must be numeric, got %T", domain.ErrValidation, field, raw)
	}
}

func scalarString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// isEmpty reports whether the value counts as absent. Zero scalars, false,
// empty strings, and empty lists all drop the filter rather than constrain it.
func (v value) isEmpty() bool {
	switch {
	case !v.has:
		return true
	case v.rng != nil:
		return v.rng.IsEmpty()
	case v.flag != nil:
		return !*v.flag
	case v.num != nil:
		return *v.num == 0
	case v.list != nil:
		return len(v.list) == 0
	default:
		return strings.TrimSpace(v.str) == ""
	}
}

// asString renders the value as a single scalar term.
func (v value) asString() string {
	switch {
	case v.num != nil:
		return strconv.FormatFloat(*v.num, 'f', -1, 64)
	case v.flag != nil:
		return strconv.FormatBool(*v.flag)
	case v.list != nil && len(v.list) > 0:
		return v.list[0]
	default:
		return strings.TrimSpace(v.str)
	}
}

// asFloat parses the value as a number, rejecting malformed numeric strings.
func (v value) asFloat(field string) (float64, error) {
	if v.num != nil {
		return *v.num, nil
	}
	return numeric(field, v.str)
}

// asBool coerces the value to a boolean.
func (v value) asBool() bool {
	switch {
	case v.flag != nil:
		return *v.flag
	case v.num != nil:
		return *v.num != 0
	default:
		switch strings.ToLower(strings.TrimSpace(v.str)) {
		case "1", "true", "yes", "y", "on":
			return true
		}
		return false
	}
}

// asList returns the value as a list of trimmed non-empty strings. A scalar
// string is split on commas.
func (v value) asList() []string {
	raw := v.list
	if raw == nil {
		raw = strings.Split(v.str, ",")
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
