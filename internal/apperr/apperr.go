// Package apperr holds the error taxonomy shared by the quiz engine and its stores.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable: the backend cannot be reached; the operation did nothing.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNotFound: a referenced user or question id is absent.
	ErrNotFound = errors.New("not found")
	// ErrNoQuestions: the question bank is empty at quiz start.
	ErrNoQuestions = errors.New("no questions available")
	// ErrValidation: an input field is outside its expected domain.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials: unknown user name or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError names the offending field. errors.Is(err, ErrValidation) holds for it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
