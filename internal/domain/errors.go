// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrInvalidArgument is the root of every caller-input failure: malformed
	// enum names, missing required fields, out-of-range values.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrValidation is returned when a domain entity fails validation.
	// This is usually wrapped by a *ValidationError naming the field.
	ErrValidation = fmt.Errorf("%w: validation failed", ErrInvalidArgument)

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrInvalidArgument)

	// ErrInvalidStatus is returned when a task status name is not recognized.
	ErrInvalidStatus = fmt.Errorf("%w: invalid task status", ErrInvalidArgument)

	// ErrInvalidPriority is returned when a task priority name is not recognized.
	ErrInvalidPriority = fmt.Errorf("%w: invalid task priority", ErrInvalidArgument)

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = fmt.Errorf("%w: content cannot be empty", ErrInvalidArgument)

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError. If err is nil the error
// unwraps to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
