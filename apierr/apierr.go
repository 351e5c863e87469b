// Package apierr carries the error taxonomy surfaced by the HTTP API.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/stevemurr/study-app-server/schema"
	"github.com/stevemurr/study-app-server/store"
)

// Codes reported in error bodies.
const (
	CodeValidation        = "validation_error"
	CodeInvalidIdentifier = "invalid_identifier"
	CodeNotFound          = "not_found"
	CodeInvalidReference  = "invalid_reference"
	CodeStoreUnavailable  = "store_unavailable"
	CodeInternal          = "internal_error"
)

type Error struct {
	Status  int
	Code    string
	Message string
	Fields  []schema.FieldError
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" && len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, fe := range e.Fields {
			parts = append(parts, fe.Field+": "+fe.Message)
		}
		return e.Message + ": " + strings.Join(parts, "; ")
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code, message string, err error) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

func Validation(err *schema.ValidationError) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: "validation failed",
		Fields:  err.Errors,
		Err:     err,
	}
}

func InvalidIdentifier(message string, err error) *Error {
	return New(http.StatusBadRequest, CodeInvalidIdentifier, message, err)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, CodeNotFound, message, nil)
}

// InvalidReference reports a foreign id that is malformed (400) or points at
// nothing (404).
func InvalidReference(status int, message string, err error) *Error {
	return New(status, CodeInvalidReference, message, err)
}

func StoreUnavailable(err error) *Error {
	return New(http.StatusServiceUnavailable, CodeStoreUnavailable, "store unavailable", err)
}

// From maps any error onto an *Error. Unknown errors become 500s; store
// sentinels and validation errors get their dedicated kinds.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		return Validation(ve)
	}
	switch {
	case errors.Is(err, store.ErrInvalidID):
		return InvalidIdentifier("invalid identifier", err)
	case errors.Is(err, store.ErrUnavailable):
		return StoreUnavailable(err)
	}
	return New(http.StatusInternalServerError, CodeInternal, "internal error", err)
}
