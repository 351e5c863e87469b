package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stevemurr/study-app-server/apierr"
	"github.com/stevemurr/study-app-server/schema"
	"github.com/stevemurr/study-app-server/store"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid id", fmt.Errorf("lookup: %w", store.ErrInvalidID), http.StatusBadRequest, apierr.CodeInvalidIdentifier},
		{"unavailable", fmt.Errorf("%w: dial tcp", store.ErrUnavailable), http.StatusServiceUnavailable, apierr.CodeStoreUnavailable},
		{"validation", &schema.ValidationError{Errors: []schema.FieldError{{Field: "grade", Message: "bad"}}}, http.StatusBadRequest, apierr.CodeValidation},
		{"passthrough", apierr.NotFound("Lesson not found"), http.StatusNotFound, apierr.CodeNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, apierr.CodeInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := apierr.From(tc.err)
			if got.Status != tc.status || got.Code != tc.code {
				t.Fatalf("got %d/%s, want %d/%s", got.Status, got.Code, tc.status, tc.code)
			}
		})
	}
	if apierr.From(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestValidationKeepsFields(t *testing.T) {
	ve := &schema.ValidationError{Errors: []schema.FieldError{{Field: "title", Message: "field required"}}}
	got := apierr.From(fmt.Errorf("create: %w", ve))
	if len(got.Fields) != 1 || got.Fields[0].Field != "title" {
		t.Fatalf("unexpected fields %v", got.Fields)
	}
	if !errors.Is(got, ve) {
		t.Fatal("expected wrapped validation error")
	}
	if want := "validation failed: title: field required"; got.Error() != want {
		t.Fatalf("got %q, want %q", got.Error(), want)
	}
}
