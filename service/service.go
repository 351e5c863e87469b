// Package service implements the lesson, quiz and progress operations on top
// of a document store.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stevemurr/study-app-server/apierr"
	"github.com/stevemurr/study-app-server/logger"
	"github.com/stevemurr/study-app-server/model"
	"github.com/stevemurr/study-app-server/schema"
	"github.com/stevemurr/study-app-server/store"
)

// Service is safe for concurrent use; it holds no mutable state besides the
// store handle. A nil store makes every operation fail with StoreUnavailable.
type Service struct {
	store store.Store
	log   *logger.Logger

	// DatabaseURLSet is reported by diagnostics.
	DatabaseURLSet bool
}

func New(st store.Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: st, log: log}
}

var errNotInitialized = errors.New("store not initialized")

func (s *Service) ready() error {
	if s.store == nil {
		return apierr.StoreUnavailable(errNotInitialized)
	}
	return nil
}

// LessonFilter constrains ListLessons. Nil fields are unconstrained.
type LessonFilter struct {
	Grade   *int
	Subject *string
}

func (s *Service) CreateLesson(ctx context.Context, payload map[string]any) (string, error) {
	var lesson model.Lesson
	if err := s.decode(schema.Lesson, payload, &lesson); err != nil {
		return "", err
	}
	return s.insert(ctx, model.LessonCollection, lesson)
}

func (s *Service) ListLessons(ctx context.Context, f LessonFilter) ([]map[string]any, error) {
	filter := store.Filter{}
	if f.Grade != nil {
		filter["grade"] = *f.Grade
	}
	if f.Subject != nil {
		filter["subject"] = *f.Subject
	}
	return s.find(ctx, model.LessonCollection, filter)
}

func (s *Service) GetLesson(ctx context.Context, id string) (map[string]any, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	doc, err := s.store.FindByID(ctx, model.LessonCollection, id)
	switch {
	case errors.Is(err, store.ErrInvalidID):
		return nil, apierr.InvalidIdentifier("Invalid lesson id", err)
	case err != nil:
		return nil, apierr.From(err)
	case doc == nil:
		return nil, apierr.NotFound("Lesson not found")
	}
	return store.Public(doc), nil
}

// CreateQuizQuestion stores a question only if its lesson exists.
func (s *Service) CreateQuizQuestion(ctx context.Context, payload map[string]any) (string, error) {
	var q model.QuizQuestion
	if err := s.decode(schema.QuizQuestion, payload, &q); err != nil {
		return "", err
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	lesson, err := s.store.FindByID(ctx, model.LessonCollection, q.LessonID)
	switch {
	case errors.Is(err, store.ErrInvalidID):
		return "", apierr.InvalidReference(http.StatusBadRequest, "Invalid lesson id", err)
	case err != nil:
		return "", apierr.From(err)
	case lesson == nil:
		return "", apierr.InvalidReference(http.StatusNotFound, "Lesson not found", nil)
	}
	return s.insert(ctx, model.QuizQuestionCollection, q)
}

func (s *Service) ListQuizQuestions(ctx context.Context, lessonID string) ([]map[string]any, error) {
	filter := store.Filter{}
	if lessonID != "" {
		filter["lesson_id"] = lessonID
	}
	return s.find(ctx, model.QuizQuestionCollection, filter)
}

// CreateProgress always inserts a new record; the lesson is not checked and
// earlier records for the same student and lesson are kept.
func (s *Service) CreateProgress(ctx context.Context, payload map[string]any) (string, error) {
	var p model.Progress
	if err := s.decode(schema.Progress, payload, &p); err != nil {
		return "", err
	}
	return s.insert(ctx, model.ProgressCollection, p)
}

func (s *Service) ListProgress(ctx context.Context, student, lessonID string) ([]map[string]any, error) {
	filter := store.Filter{}
	if student != "" {
		filter["student"] = student
	}
	if lessonID != "" {
		filter["lesson_id"] = lessonID
	}
	return s.find(ctx, model.ProgressCollection, filter)
}

// decode validates payload against sch, applies defaults and fills dst.
// The payload map is not modified.
func (s *Service) decode(sch map[string]any, payload map[string]any, dst any) error {
	if err := schema.Validate(sch, payload); err != nil {
		return apierr.From(err)
	}
	withDefaults := make(map[string]any, len(payload))
	for k, v := range payload {
		withDefaults[k] = v
	}
	schema.ApplyDefaults(sch, withDefaults)
	if err := model.Decode(withDefaults, dst); err != nil {
		return apierr.New(http.StatusBadRequest, apierr.CodeValidation, err.Error(), err)
	}
	return nil
}

func (s *Service) insert(ctx context.Context, collection string, record any) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	doc, err := model.ToDocument(record)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", collection, err)
	}
	id, err := s.store.Insert(ctx, collection, doc)
	if err != nil {
		s.log.Error("insert failed", "collection", collection, "error", err)
		return "", apierr.From(err)
	}
	s.log.Debug("document created", "collection", collection, "id", id)
	return id, nil
}

func (s *Service) find(ctx context.Context, collection string, filter store.Filter) ([]map[string]any, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	docs, err := s.store.Find(ctx, collection, filter)
	if err != nil {
		s.log.Error("find failed", "collection", collection, "error", err)
		return nil, apierr.From(err)
	}
	return store.PublicAll(docs), nil
}
