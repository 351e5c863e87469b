// Package schema provides JSON Schema validation for incoming payloads.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"
)

// FieldError describes a single violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError enumerates every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks a document against a JSON Schema (draft-07 subset) and
// returns a *ValidationError listing every violation, or nil.
//
// Supported JSON Schema keywords:
//   - type (string, number, integer, boolean, object, array, null, or a list of these)
//   - properties, required, additionalProperties
//   - items (for arrays)
//   - minimum, maximum, exclusiveMinimum, exclusiveMaximum
//   - minLength, maxLength
//   - minItems, maxItems
//   - enum
func Validate(schema map[string]any, doc map[string]any) error {
	if schema == nil {
		return nil
	}
	v := &validator{}
	v.value(schema, doc, "")
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errs}
}

// ApplyDefaults fills top-level properties that are absent from doc with the
// "default" declared in schema.
func ApplyDefaults(schema map[string]any, doc map[string]any) {
	props, _ := schema["properties"].(map[string]any)
	for field, raw := range props {
		ps, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		def, ok := ps["default"]
		if !ok {
			continue
		}
		if _, exists := doc[field]; !exists {
			doc[field] = def
		}
	}
}

type validator struct {
	errs []FieldError
}

func (v *validator) fail(path, format string, args ...any) {
	if path == "" {
		path = "body"
	}
	v.errs = append(v.errs, FieldError{Field: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) value(schema map[string]any, value any, path string) {
	// Check type constraint
	if t, ok := schema["type"]; ok {
		if !checkType(typeList(t), value) {
			v.fail(path, "expected type %s, got %q", describeTypes(typeList(t)), jsonType(value))
			return
		}
	}

	// Check enum
	if enumList, ok := schema["enum"].([]any); ok {
		if !inEnum(enumList, value) {
			v.fail(path, "value not in enum %v", enumList)
		}
	}

	switch val := value.(type) {
	case map[string]any:
		v.object(schema, val, path)
	case []any:
		v.array(schema, val, path)
	case []string:
		arr := make([]any, len(val))
		for i, s := range val {
			arr[i] = s
		}
		v.array(schema, arr, path)
	case string:
		v.text(schema, val, path)
	case bool, nil:
	default:
		if f, ok := toFloat(val); ok {
			v.number(schema, f, path)
		}
	}
}

func typeList(t any) []string {
	switch tt := t.(type) {
	case string:
		return []string{tt}
	case []string:
		return tt
	case []any:
		out := make([]string, 0, len(tt))
		for _, e := range tt {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func describeTypes(types []string) string {
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return strings.Join(quoted, " or ")
}

func checkType(expected []string, value any) bool {
	actual := jsonType(value)
	for _, want := range expected {
		switch {
		case want == actual:
			return true
		case want == "integer":
			// Accept float values that are whole numbers
			if f, ok := toFloat(value); ok && actual != "boolean" && f == float64(int64(f)) {
				return true
			}
		case want == "number" && actual == "integer":
			return true
		case want == "array" && actual == "string-array":
			return true
		}
	}
	return false
}

func jsonType(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case []string:
		return "string-array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32:
		return "number"
	case json.Number:
		return "number"
	case int, int32, int64:
		return "integer"
	default:
		return reflect.TypeOf(v).String()
	}
}

func inEnum(allowed []any, value any) bool {
	for _, a := range allowed {
		if reflect.DeepEqual(a, value) {
			return true
		}
	}
	return false
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func (v *validator) object(schema map[string]any, obj map[string]any, path string) {
	// Check required fields
	if reqList, ok := schema["required"].([]any); ok {
		for _, r := range reqList {
			if field, ok := r.(string); ok {
				if _, exists := obj[field]; !exists {
					v.fail(join(path, field), "field required")
				}
			}
		}
	}

	propsMap, _ := schema["properties"].(map[string]any)

	// Validate properties in a stable order so error lists are deterministic.
	fields := make([]string, 0, len(propsMap))
	for field := range propsMap {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		val, exists := obj[field]
		if !exists {
			continue
		}
		ps, ok := propsMap[field].(map[string]any)
		if !ok {
			continue
		}
		v.value(ps, val, join(path, field))
	}

	// Check additionalProperties
	if apBool, ok := schema["additionalProperties"].(bool); ok && !apBool {
		var extra []string
		for field := range obj {
			if _, defined := propsMap[field]; !defined {
				extra = append(extra, field)
			}
		}
		sort.Strings(extra)
		for _, field := range extra {
			v.fail(join(path, field), "unknown field")
		}
	}
}

func (v *validator) array(schema map[string]any, arr []any, path string) {
	if n, ok := toFloat(schema["minItems"]); ok && float64(len(arr)) < n {
		v.fail(path, "array length %d is less than minItems %v", len(arr), n)
	}
	if n, ok := toFloat(schema["maxItems"]); ok && float64(len(arr)) > n {
		v.fail(path, "array length %d is greater than maxItems %v", len(arr), n)
	}
	// Validate items
	if itemSchema, ok := schema["items"].(map[string]any); ok {
		for i, elem := range arr {
			v.value(itemSchema, elem, fmt.Sprintf("%s[%d]", path, i))
		}
	}
}

func (v *validator) text(schema map[string]any, s string, path string) {
	length := utf8.RuneCountInString(s)
	if n, ok := toFloat(schema["minLength"]); ok && float64(length) < n {
		v.fail(path, "string length %d is less than minLength %v", length, n)
	}
	if n, ok := toFloat(schema["maxLength"]); ok && float64(length) > n {
		v.fail(path, "string length %d is greater than maxLength %v", length, n)
	}
}

func (v *validator) number(schema map[string]any, n float64, path string) {
	if m, ok := toFloat(schema["minimum"]); ok && n < m {
		v.fail(path, "%v is less than minimum %v", n, m)
	}
	if m, ok := toFloat(schema["maximum"]); ok && n > m {
		v.fail(path, "%v is greater than maximum %v", n, m)
	}
	if m, ok := toFloat(schema["exclusiveMinimum"]); ok && n <= m {
		v.fail(path, "%v is not greater than exclusiveMinimum %v", n, m)
	}
	if m, ok := toFloat(schema["exclusiveMaximum"]); ok && n >= m {
		v.fail(path, "%v is not less than exclusiveMaximum %v", n, m)
	}
}

func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
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
