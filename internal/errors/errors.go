// Package errors defines the error taxonomy the core services expose to
// their callers. The HTTP layer maps these to status codes.
package errors

import "fmt"

// ErrNotFound is the sentinel for resources that do not exist.
// A lookup by id returning this is a valid outcome, not a failure.
var ErrNotFound = &NotFoundError{}

// NotFoundError indicates a requested resource doesn't exist.
type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Resource != "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return "resource not found"
}

// Is matches any *NotFoundError, so errors.Is(err, ErrNotFound) works
// regardless of which resource was missing.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// NewNotFoundError creates a NotFoundError for the given resource.
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{Resource: resource, Message: message}
}

// ErrValidation is the sentinel for client input that fails validation
// before any store call is made.
var ErrValidation = &ValidationError{}

// ValidationError indicates malformed input (bad category, missing
// required metadata).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field: %s", e.Field)
	}
	return "validation error"
}

// Is matches any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
