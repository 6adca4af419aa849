package snaps

import (
	"errors"
	"fmt"
)

var (
	// ErrSnapNotFound is returned for absent snaps and for ids that are not valid UUIDs
	ErrSnapNotFound = errors.New("snap not found")

	// ErrNotAuthorized is returned when a user modifies a snap they did not author
	ErrNotAuthorized = errors.New("user is not the author of this snap")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
