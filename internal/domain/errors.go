package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

// Scheduling validation errors. Each one matches ErrValidation via errors.Is,
// so callers that only care about "bad input" need a single check.
var (
	ErrInvalidTimestamp      = fmt.Errorf("%w: invalid timestamp", ErrValidation)
	ErrInvalidRecurrenceRule = fmt.Errorf("%w: invalid recurrence rule", ErrValidation)
	ErrInvalidInterval       = fmt.Errorf("%w: invalid interval", ErrValidation)
	ErrInvalidScope          = fmt.Errorf("%w: invalid scope", ErrValidation)
	ErrInvalidState          = fmt.Errorf("%w: invalid move state", ErrValidation)
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
