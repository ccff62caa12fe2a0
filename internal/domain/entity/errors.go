package entity

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every ValidationError so callers can test with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError reports which field failed validation and why.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match any validation failure.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
