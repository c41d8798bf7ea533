// Package response provides standardized HTTP response structures and
// utilities for the API layer.
package response

import (
	"encoding/json"
	"net/http"
	"time"

	"tasktrack/internal/apperr"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	ErrorCodeBadRequest       ErrorCode = "BAD_REQUEST"
	ErrorCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrorCodeConflict         ErrorCode = "CONFLICT"
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error     ErrorDetails `json:"error"`
	Timestamp string       `json:"timestamp"`
	RequestID string       `json:"request_id,omitempty"`
}

// ErrorDetails contains detailed error information. Violations carries the
// field-scoped list for validation failures.
type ErrorDetails struct {
	Code       ErrorCode               `json:"code"`
	Message    string                  `json:"message"`
	Violations []apperr.FieldViolation `json:"violations,omitempty"`
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// WriteError writes a standardized error response
func WriteError(w http.ResponseWriter, statusCode int, code ErrorCode, message string, violations ...apperr.FieldViolation) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error: ErrorDetails{
			Code:       code,
			Message:    message,
			Violations: violations,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: w.Header().Get("X-Request-ID"),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, ErrorCodeBadRequest, message)
}

// WriteValidationError writes a 422 response carrying the field-scoped
// violation list.
func WriteValidationError(w http.ResponseWriter, violations ...apperr.FieldViolation) {
	WriteError(w, http.StatusUnprocessableEntity, ErrorCodeValidationFailed, "validation failed", violations...)
}

// WriteInternalError writes a 500 Internal Server Error
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, ErrorCodeInternalError, message)
}

// WriteAppError maps a domain error onto the wire: 422 with violations, 404,
// 409, or a generic 500 for store failures.
func WriteAppError(w http.ResponseWriter, err error) {
	ae, ok := apperr.As(err)
	if !ok {
		WriteInternalError(w, "internal server error")
		return
	}

	var code ErrorCode
	switch ae.Code {
	case apperr.CodeValidation:
		code = ErrorCodeValidationFailed
	case apperr.CodeNotFound:
		code = ErrorCodeNotFound
	case apperr.CodeConflict:
		code = ErrorCodeConflict
	default:
		code = ErrorCodeInternalError
	}
	WriteError(w, ae.HTTPStatus(), code, ae.Message, ae.Violations...)
}
