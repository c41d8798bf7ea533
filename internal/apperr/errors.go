// Package apperr provides the standardized error taxonomy shared by the
// domain, storage and API layers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code represents semantic error codes for consistent error handling
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeStorage    Code = "STORAGE_ERROR"
)

// FieldViolation describes a single field-scoped validation failure.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the unified error type carried across layers. Violations is only
// populated for validation errors.
type Error struct {
	Code       Code
	Message    string
	Violations []FieldViolation
	cause      error
}

// Error implements the error interface
func (e *Error) Error() string {
	if len(e.Violations) > 0 {
		msgs := make([]string, 0, len(e.Violations))
		for _, v := range e.Violations {
			msgs = append(msgs, fmt.Sprintf("%s: %s", v.Field, v.Message))
		}
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(msgs, "; "))
	}
	return e.Message
}

// Unwrap exposes the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the error code to its HTTP status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewValidation creates a validation error carrying field-scoped details.
func NewValidation(violations ...FieldViolation) *Error {
	return &Error{
		Code:       CodeValidation,
		Message:    "validation failed",
		Violations: violations,
	}
}

// NewNotFound creates a not-found error for an absent record.
func NewNotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// NewConflict creates a conflict error for an immutable-field mutation.
func NewConflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewStorage wraps a backing-store failure. Store errors are never retried;
// they surface as generic server errors.
func NewStorage(message string, cause error) *Error {
	return &Error{Code: CodeStorage, Message: message, cause: cause}
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// CodeOf returns the code of err, or CodeStorage for unclassified errors.
func CodeOf(err error) Code {
	if ae, ok := As(err); ok {
		return ae.Code
	}
	return CodeStorage
}
