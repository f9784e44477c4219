package attrition

import (
	"encoding/json"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Row is one raw object as decoded from the aggregation API.
type Row map[string]any

var labelPolicy = bluemonday.StrictPolicy()

// First returns the first value that is present, non-null and not an empty
// string. The boolean is false when every candidate is absent.
func First(values ...any) (any, bool) {
	for _, v := range values {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			if val == "" {
				continue
			}
		case *float64:
			if val == nil {
				continue
			}
		}
		return v, true
	}
	return nil, false
}

// PickString returns the first present field among keys rendered as a label.
func (r Row) PickString(keys ...string) (string, bool) {
	for _, key := range keys {
		v, ok := First(r[key])
		if !ok {
			continue
		}
		raw := labelString(v)
		if strings.TrimSpace(raw) == "" {
			return raw, true
		}
		if s := cleanLabel(raw); s != "" {
			return s, true
		}
	}
	return "", false
}

// Label picks a display label, falling back to Unknown when no key holds a
// non-empty value.
func (r Row) Label(keys ...string) string {
	if s, ok := r.PickString(keys...); ok {
		return s
	}
	return Unknown
}

// PickNumber returns the first present field among keys that holds a number or
// a numeric string.
func (r Row) PickNumber(keys ...string) (float64, bool) {
	for _, key := range keys {
		v, ok := First(r[key])
		if !ok {
			continue
		}
		if n, ok := toNumber(v); ok {
			return n, true
		}
	}
	return 0, false
}

// Number picks a numeric value, falling back to 0.
func (r Row) Number(keys ...string) float64 {
	n, _ := r.PickNumber(keys...)
	return n
}

// Has reports whether any of keys is present in the row, even with a null value.
func (r Row) Has(keys ...string) bool {
	for _, key := range keys {
		if _, ok := r[key]; ok {
			return true
		}
	}
	return false
}

func (r Row) optionalNumber(keys ...string) *float64 {
	n, ok := r.PickNumber(keys...)
	if !ok {
		return nil
	}
	return &n
}

func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// cleanLabel strips any markup a misbehaving upstream might embed in category names.
func cleanLabel(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(labelPolicy.Sanitize(s)))
}
