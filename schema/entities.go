package schema

// Lesson is the shape of a lesson payload.
var Lesson = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"grade":     map[string]any{"type": "integer", "minimum": 1, "maximum": 12},
		"subject":   map[string]any{"type": "string", "minLength": 1},
		"title":     map[string]any{"type": "string", "minLength": 1},
		"content":   map[string]any{"type": "string"},
		"video_url": map[string]any{"type": []any{"string", "null"}},
	},
	"required":             []any{"grade", "subject", "title", "content"},
	"additionalProperties": false,
}

// QuizQuestion is the shape of a quiz question payload. correct_index is
// bounded on its own and not checked against the options length.
var QuizQuestion = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"lesson_id": map[string]any{"type": "string"},
		"question":  map[string]any{"type": "string"},
		"options": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string"},
			"minItems": 2,
			"maxItems": 6,
		},
		"correct_index": map[string]any{"type": "integer", "minimum": 0, "maximum": 5},
	},
	"required":             []any{"lesson_id", "question", "options", "correct_index"},
	"additionalProperties": false,
}

// Progress is the shape of a progress payload.
var Progress = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"student":   map[string]any{"type": []any{"string", "null"}},
		"lesson_id": map[string]any{"type": "string"},
		"completed": map[string]any{"type": "boolean", "default": false},
		"score":     map[string]any{"type": []any{"integer", "null"}, "minimum": 0, "maximum": 100},
	},
	"required":             []any{"lesson_id"},
	"additionalProperties": false,
}
