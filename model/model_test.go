package model_test

import (
	"testing"

	"github.com/stevemurr/study-app-server/model"
)

func TestDecodeAndDocument(t *testing.T) {
	var p model.Progress
	err := model.Decode(map[string]any{"lesson_id": "abc", "completed": true, "score": float64(70)}, &p)
	if err != nil {
		t.Fatal(err)
	}
	if p.Score == nil || *p.Score != 70 || p.Student != nil {
		t.Fatalf("unexpected record %+v", p)
	}

	doc, err := model.ToDocument(p)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"student", "lesson_id", "completed", "score"} {
		if _, ok := doc[field]; !ok {
			t.Errorf("field %q missing from document", field)
		}
	}
	if doc["student"] != nil {
		t.Fatalf("expected null student, got %v", doc["student"])
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	var l model.Lesson
	if err := model.Decode(map[string]any{"grade": float64(3), "extra": 1}, &l); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestDecodeRejectsFractionalInt(t *testing.T) {
	var q model.QuizQuestion
	if err := model.Decode(map[string]any{"correct_index": 1.5}, &q); err == nil {
		t.Fatal("expected error for fractional correct_index")
	}
}
