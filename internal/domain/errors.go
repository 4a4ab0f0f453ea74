package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrGoalNotFound is returned when a goal cannot be located for the user.
	ErrGoalNotFound = errors.New("goal not found")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
