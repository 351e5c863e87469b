package schema_test

import (
	"errors"
	"testing"

	"github.com/stevemurr/study-app-server/schema"
)

func fields(t *testing.T, err error) []string {
	t.Helper()
	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	out := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		out = append(out, fe.Field)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func TestValidateNilSchema(t *testing.T) {
	if err := schema.Validate(nil, map[string]any{"anything": "goes"}); err != nil {
		t.Fatalf("nil schema should pass: %v", err)
	}
}

func TestValidateKeywords(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"code":  map[string]any{"type": "string", "minLength": 2, "maxLength": 5},
			"score": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
			"count": map[string]any{"type": "integer"},
			"role":  map[string]any{"type": "string", "enum": []any{"admin", "user"}},
			"tags": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
				"maxItems": 3,
			},
			"address": map[string]any{
				"type":       "object",
				"properties": map[string]any{"city": map[string]any{"type": "string"}},
				"required":   []any{"city"},
			},
			"nickname": map[string]any{"type": []any{"string", "null"}},
		},
	}

	tests := []struct {
		name  string
		doc   map[string]any
		field string // empty means the document is valid
	}{
		{"valid", map[string]any{"code": "ABC", "score": float64(50), "count": float64(5)}, ""},
		{"short string", map[string]any{"code": "A"}, "code"},
		{"long string", map[string]any{"code": "ABCDEF"}, "code"},
		{"below minimum", map[string]any{"score": float64(-1)}, "score"},
		{"above maximum", map[string]any{"score": float64(101)}, "score"},
		{"fractional integer", map[string]any{"count": 5.5}, "count"},
		{"boolean is not integer", map[string]any{"count": true}, "count"},
		{"enum miss", map[string]any{"role": "root"}, "role"},
		{"empty array", map[string]any{"tags": []any{}}, "tags"},
		{"long array", map[string]any{"tags": []any{"a", "b", "c", "d"}}, "tags"},
		{"bad item", map[string]any{"tags": []any{"a", float64(1)}}, "tags[1]"},
		{"nested required", map[string]any{"address": map[string]any{}}, "address.city"},
		{"nullable null", map[string]any{"nickname": nil}, ""},
		{"nullable wrong type", map[string]any{"nickname": float64(3)}, "nickname"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := schema.Validate(s, tc.doc)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("expected pass: %v", err)
				}
				return
			}
			if got := fields(t, err); !contains(got, tc.field) {
				t.Fatalf("expected violation on %q, got %v", tc.field, got)
			}
		})
	}
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	err := schema.Validate(schema.Lesson, map[string]any{
		"grade": float64(13),
		"title": "",
		"extra": "x",
	})
	got := fields(t, err)
	for _, want := range []string{"grade", "subject", "title", "content", "extra"} {
		if !contains(got, want) {
			t.Errorf("expected violation on %q, got %v", want, got)
		}
	}
}

func TestLessonSchema(t *testing.T) {
	valid := map[string]any{
		"grade":   float64(5),
		"subject": "Math",
		"title":   "Fractions",
		"content": "...",
	}
	if err := schema.Validate(schema.Lesson, valid); err != nil {
		t.Fatalf("expected pass: %v", err)
	}

	valid["video_url"] = nil
	if err := schema.Validate(schema.Lesson, valid); err != nil {
		t.Fatalf("null video_url should pass: %v", err)
	}

	for _, grade := range []float64{0, 13} {
		doc := map[string]any{"grade": grade, "subject": "Math", "title": "T", "content": ""}
		if got := fields(t, schema.Validate(schema.Lesson, doc)); !contains(got, "grade") {
			t.Errorf("grade %v: expected violation, got %v", grade, got)
		}
	}
}

func TestQuizQuestionSchema(t *testing.T) {
	doc := map[string]any{
		"lesson_id":     "65a1b2c3d4e5f60718293a4b",
		"question":      "Q",
		"options":       []any{"A", "B"},
		"correct_index": float64(5),
	}
	// correct_index beyond the options is accepted; only 0..5 is enforced.
	if err := schema.Validate(schema.QuizQuestion, doc); err != nil {
		t.Fatalf("expected pass: %v", err)
	}

	doc["options"] = []any{"A"}
	doc["correct_index"] = float64(6)
	got := fields(t, schema.Validate(schema.QuizQuestion, doc))
	if !contains(got, "options") || !contains(got, "correct_index") {
		t.Fatalf("expected options and correct_index violations, got %v", got)
	}

	doc["options"] = []any{"1", "2", "3", "4", "5", "6", "7"}
	doc["correct_index"] = float64(0)
	if got := fields(t, schema.Validate(schema.QuizQuestion, doc)); !contains(got, "options") {
		t.Fatalf("expected options violation, got %v", got)
	}
}

func TestProgressSchema(t *testing.T) {
	if err := schema.Validate(schema.Progress, map[string]any{"lesson_id": "x"}); err != nil {
		t.Fatalf("expected pass: %v", err)
	}
	if err := schema.Validate(schema.Progress, map[string]any{"lesson_id": "x", "score": nil, "student": nil}); err != nil {
		t.Fatalf("nulls should pass: %v", err)
	}
	got := fields(t, schema.Validate(schema.Progress, map[string]any{"lesson_id": "x", "score": float64(101)}))
	if !contains(got, "score") {
		t.Fatalf("expected score violation, got %v", got)
	}
}

func TestApplyDefaults(t *testing.T) {
	doc := map[string]any{"lesson_id": "x"}
	schema.ApplyDefaults(schema.Progress, doc)
	if doc["completed"] != false {
		t.Fatalf("expected completed=false, got %v", doc["completed"])
	}

	doc = map[string]any{"lesson_id": "x", "completed": true}
	schema.ApplyDefaults(schema.Progress, doc)
	if doc["completed"] != true {
		t.Fatal("default must not override a provided value")
	}
	if _, ok := doc["score"]; ok {
		t.Fatal("fields without a default must stay absent")
	}
}
