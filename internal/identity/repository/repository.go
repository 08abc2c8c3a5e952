// Package repository provides data persistence implementations for identity entities.
package repository

import (
	"database/sql"

	"github.com/allisson/loans/internal/database"
	apperrors "github.com/allisson/loans/internal/errors"
	identityDomain "github.com/allisson/loans/internal/identity/domain"
	"github.com/allisson/loans/internal/query"
)

const identityColumns = `id, name, national_id, email, role, created_at`

// Unique constraint names declared by the identities migrations.
const (
	emailConstraint      = "uq_identities_email"
	nationalIDConstraint = "uq_identities_national_id"
)

// mapWriteError translates constraint violations into identity domain errors.
func mapWriteError(err error, message string) error {
	if constraint, ok := database.UniqueViolation(err); ok {
		switch constraint {
		case emailConstraint:
			return identityDomain.ErrEmailAlreadyInUse
		case nationalIDConstraint:
			return identityDomain.ErrNationalIDAlreadyInUse
		default:
			return apperrors.Wrap(apperrors.ErrConflict, message)
		}
	}
	return apperrors.Wrap(err, message)
}

func listPredicates(filter identityDomain.ListFilter) []query.Predicate {
	return []query.Predicate{
		query.Optional("email", filter.Email, func(v string) any { return v }),
		query.Optional("national_id", filter.NationalID, func(v string) any { return v }),
		query.Optional("role", filter.Role, func(v identityDomain.Role) any { return string(v) }),
	}
}

func roleValue(role identityDomain.Role) sql.NullString {
	return sql.NullString{String: string(role), Valid: role != identityDomain.RoleNone}
}
