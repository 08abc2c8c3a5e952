package domain

import (
	"github.com/allisson/loans/internal/errors"
)

// Identity errors.
var (
	// ErrIdentityNotFound indicates an identity with the specified ID was not found.
	ErrIdentityNotFound = errors.Wrap(errors.ErrNotFound, "identity not found")

	// ErrEmailAlreadyInUse indicates another identity already owns the email.
	ErrEmailAlreadyInUse = errors.Wrap(errors.ErrConflict, "email already in use")

	// ErrNationalIDAlreadyInUse indicates another identity already owns the national ID.
	ErrNationalIDAlreadyInUse = errors.Wrap(errors.ErrConflict, "national id already in use")

	// ErrIdentityInUse indicates the identity is referenced by loan requests and cannot be deleted.
	ErrIdentityInUse = errors.Wrap(errors.ErrConflict, "identity is referenced by loan requests")

	// ErrInvalidRole indicates the role is not one of the assignable roles.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "invalid role")
)
