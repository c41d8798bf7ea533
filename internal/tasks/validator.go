// Package tasks provides the task domain logic: boundary validation,
// filtering and sorting, and the service orchestrating store access and
// smart suggestions.
package tasks

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tasktrack/internal/apperr"
	"tasktrack/pkg/types"
)

// Validator validates task input at the boundary, before any store access.
type Validator struct {
	config ValidationConfig
}

// ValidationConfig represents configuration for task validation
type ValidationConfig struct {
	MaxDescriptionLength int `json:"max_description_length"`
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxDescriptionLength: 300,
	}
}

// NewValidator creates a new task validator
func NewValidator() *Validator {
	return &Validator{config: DefaultValidationConfig()}
}

// NewValidatorWithConfig creates a new task validator with custom config
func NewValidatorWithConfig(config ValidationConfig) *Validator {
	return &Validator{config: config}
}

// ValidateInput checks required fields, the closed status set and the two
// cross-field date rules. All violations are collected so the caller gets
// the complete field-scoped list in one response.
func (v *Validator) ValidateInput(in *types.TaskInput) error {
	var violations []apperr.FieldViolation
	add := func(field, message string) {
		violations = append(violations, apperr.FieldViolation{Field: field, Message: message})
	}

	if strings.TrimSpace(in.Title) == "" {
		add("title", "title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		add("description", "description is required")
	} else if utf8.RuneCountInString(in.Description) > v.config.MaxDescriptionLength {
		add("description", fmt.Sprintf("description must not exceed %d characters", v.config.MaxDescriptionLength))
	}
	if in.CreationDate.IsZero() {
		add("creation_date", "creation date is required")
	}

	switch {
	case in.Status == "":
		add("status", "status is required")
	case !in.Status.Valid():
		add("status", fmt.Sprintf("status must be one of %s, %s, %s",
			types.StatusPending, types.StatusInProgress, types.StatusCompleted))
	default:
		if in.Status != types.StatusPending && in.DueDate == nil {
			add("due_date", "the task is not in pending state, please provide a due date")
		}
	}

	if in.DueDate != nil && !in.CreationDate.IsZero() && in.DueDate.Before(in.CreationDate) {
		add("due_date", "due date cannot be less than creation date")
	}

	if len(violations) > 0 {
		return apperr.NewValidation(violations...)
	}
	return nil
}
