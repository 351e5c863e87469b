package store

import (
	"encoding/json"
	"reflect"
)

// matches reports whether doc satisfies every constraint in filter.
func matches(doc Document, filter Filter) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok || !sameValue(got, want) {
			return false
		}
	}
	return true
}

// sameValue compares two JSON-ish values. Numbers compare by value so that an
// int filter matches a float64 decoded from JSON.
func sameValue(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// normalize round-trips a document through JSON so every backend hands back
// the same value shapes (float64 numbers, []any arrays, string ids).
func normalize(src Document) (Document, error) {
	if src == nil {
		return nil, nil
	}
	b, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	var dst Document
	if err := json.Unmarshal(b, &dst); err != nil {
		return nil, err
	}
	return dst, nil
}
