// Package model holds the fixed-shape records stored by the service.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/stevemurr/study-app-server/store"
)

// Collection names.
const (
	LessonCollection       = "lesson"
	QuizQuestionCollection = "quizquestion"
	ProgressCollection     = "progress"
)

type Lesson struct {
	Grade    int     `json:"grade"`
	Subject  string  `json:"subject"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	VideoURL *string `json:"video_url"`
}

// QuizQuestion belongs to a lesson. CorrectIndex is an index into Options.
type QuizQuestion struct {
	LessonID     string   `json:"lesson_id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// Progress records a student's result for a lesson. Student and Score are
// optional and serialized as null when unset.
type Progress struct {
	Student   *string `json:"student"`
	LessonID  string  `json:"lesson_id"`
	Completed bool    `json:"completed"`
	Score     *int    `json:"score"`
}

// Decode converts an already validated payload into a typed record.
// Unknown fields are rejected.
func Decode(payload map[string]any, dst any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode %T: %w", dst, err)
	}
	return nil
}

// ToDocument serializes a record into a store document with every field present.
func ToDocument(v any) (store.Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc store.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
