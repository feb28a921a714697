package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Models asked for strict JSON still drift on field types (numbers as
// strings, ratings as ints), so stage decoding coerces leniently before
// validating.

func asString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(n, "$"))
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asStringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		if s := asString(v); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, it := range items {
		if s := asString(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}
