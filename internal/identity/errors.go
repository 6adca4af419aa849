package identity

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when the identity service has no such user
	ErrUserNotFound = errors.New("user not found")

	// ErrUpstream is returned when the identity service is unreachable or misbehaves
	ErrUpstream = errors.New("identity service unavailable")

	// ErrCacheMiss is returned by a ProfileCache when the user is not cached
	ErrCacheMiss = errors.New("cache miss")
)

// StatusError carries an unexpected HTTP status from the identity service
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("identity service returned %d for %s", e.StatusCode, e.Path)
}

// Unwrap lets callers match every status failure as ErrUpstream
func (e *StatusError) Unwrap() error {
	return ErrUpstream
}
