// Package errors defines the error categories shared by the identity and loan
// request use cases. Domain errors wrap one of these sentinels and the HTTP
// layer maps the category to a status code.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: an identity, borrower or loan request id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a write would break email or national ID uniqueness, remove a
	// referenced identity or lose a concurrent status update.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput: a value failed boundary or use case validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition: the requested loan request status is not reachable
	// from the current one.
	ErrInvalidTransition = errors.New("invalid transition")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// New is errors.New.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message and keeps it in the chain. Wrap(nil, ...) is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is is errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
