// Package repository defines the per-entity repositories and the error
// values shared by the layers above them. Handlers translate ErrNotFound
// into 404, ErrForbidden into 403 and *ValidationError into 400.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by lookups whose id does not exist. Mutations
// never return it: a missing target is reported as found=false instead.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict signals an insert whose id is already taken.
var ErrConflict = errors.New("conflict")

// ValidationError reports missing or out-of-range input. Fields holds the
// JSON names of the offending fields, if any.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// NewValidationError builds a *ValidationError.
func NewValidationError(msg string, fields ...string) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
