// Package handler provides the HTTP handlers for the study app server.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/stevemurr/study-app-server/apierr"
	"github.com/stevemurr/study-app-server/logger"
	"github.com/stevemurr/study-app-server/schema"
	"github.com/stevemurr/study-app-server/service"
)

// DefaultMaxRequestBytes caps request bodies unless overridden.
const DefaultMaxRequestBytes = 1 << 20

// Handler holds the server dependencies and registers routes.
type Handler struct {
	svc *service.Service
	log *logger.Logger
	mux *http.ServeMux

	MaxRequestBytes int64
}

// New creates a Handler and wires up all routes.
func New(svc *service.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{
		svc:             svc,
		log:             log,
		mux:             http.NewServeMux(),
		MaxRequestBytes: DefaultMaxRequestBytes,
	}
	h.routes()
	return h
}

// ServeHTTP makes Handler an http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	// Liveness / diagnostics
	h.mux.HandleFunc("GET /{$}", h.root)
	h.mux.HandleFunc("GET /test", h.diagnostics)

	h.mux.HandleFunc("POST /lessons", h.createLesson)
	h.mux.HandleFunc("GET /lessons", h.listLessons)
	h.mux.HandleFunc("GET /lessons/{id}", h.getLesson)

	h.mux.HandleFunc("POST /quizzes", h.createQuizQuestion)
	h.mux.HandleFunc("GET /quizzes", h.listQuizQuestions)

	h.mux.HandleFunc("POST /progress", h.createProgress)
	h.mux.HandleFunc("GET /progress", h.listProgress)
}

// ---------- helpers ----------

type errorBody struct {
	Detail string              `json:"detail"`
	Code   string              `json:"code,omitempty"`
	Errors []schema.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := apierr.From(err)
	if ae.Status >= http.StatusInternalServerError {
		h.log.With("request_id", r.Header.Get(RequestIDHeader)).
			Error("request failed", "path", r.URL.Path, "error", ae.Err)
	}
	writeJSON(w, ae.Status, errorBody{Detail: ae.Error(), Code: ae.Code, Errors: ae.Fields})
}

// readJSON decodes a JSON object body. Anything else is a 400.
func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	defer r.Body.Close()
	body := http.MaxBytesReader(w, r.Body, h.MaxRequestBytes)
	dec := json.NewDecoder(body)
	var v map[string]any
	if err := dec.Decode(&v); err != nil {
		return nil, badBody(err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after JSON object")
		}
		return nil, badBody(err)
	}
	if v == nil {
		v = map[string]any{}
	}
	return v, nil
}

func badBody(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierr.New(http.StatusRequestEntityTooLarge, apierr.CodeValidation, "request body too large", err)
	}
	return apierr.New(http.StatusBadRequest, apierr.CodeValidation, "invalid JSON: "+err.Error(), err)
}

func queryInt(r *http.Request, key string) (*int, error) {
	q := r.URL.Query()
	if !q.Has(key) {
		return nil, nil
	}
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return nil, &schema.ValidationError{Errors: []schema.FieldError{{
			Field:   key,
			Message: fmt.Sprintf("%q is not an integer", q.Get(key)),
		}}}
	}
	return &n, nil
}

func queryString(r *http.Request, key string) *string {
	q := r.URL.Query()
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

func (h *Handler) created(w http.ResponseWriter, r *http.Request, create func(map[string]any) (string, error)) {
	payload, err := h.readJSON(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := create(payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// ---------- status endpoints ----------

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Study App Backend Running"})
}

func (h *Handler) diagnostics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Diagnose(r.Context()))
}

// ---------- lessons ----------

func (h *Handler) createLesson(w http.ResponseWriter, r *http.Request) {
	h.created(w, r, func(p map[string]any) (string, error) {
		return h.svc.CreateLesson(r.Context(), p)
	})
}

func (h *Handler) listLessons(w http.ResponseWriter, r *http.Request) {
	grade, err := queryInt(r, "grade")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	docs, err := h.svc.ListLessons(r.Context(), service.LessonFilter{
		Grade:   grade,
		Subject: queryString(r, "subject"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *Handler) getLesson(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.GetLesson(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ---------- quizzes ----------

func (h *Handler) createQuizQuestion(w http.ResponseWriter, r *http.Request) {
	h.created(w, r, func(p map[string]any) (string, error) {
		return h.svc.CreateQuizQuestion(r.Context(), p)
	})
}

func (h *Handler) listQuizQuestions(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListQuizQuestions(r.Context(), r.URL.Query().Get("lesson_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// ---------- progress ----------

func (h *Handler) createProgress(w http.ResponseWriter, r *http.Request) {
	h.created(w, r, func(p map[string]any) (string, error) {
		return h.svc.CreateProgress(r.Context(), p)
	})
}

func (h *Handler) listProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	docs, err := h.svc.ListProgress(r.Context(), q.Get("student"), q.Get("lesson_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}
