package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup by identity key matches nothing.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a new record collides with an existing
	// identity key.
	ErrDuplicate = errors.New("already exists")
)

// ValidationError reports a single field that failed a business rule.
// The attempted mutation is aborted and nothing is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErrorf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
