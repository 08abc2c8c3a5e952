// Package repository provides data persistence implementations for loan requests.
package repository

import (
	"github.com/google/uuid"

	"github.com/allisson/loans/internal/database"
	apperrors "github.com/allisson/loans/internal/errors"
	loanDomain "github.com/allisson/loans/internal/loan/domain"
	"github.com/allisson/loans/internal/query"
)

const loanRequestColumns = `id, borrower_id, amount, currency, status, created_at`

// mapCreateError translates a borrower foreign key violation into ErrBorrowerNotFound.
func mapCreateError(err error) error {
	if database.IsForeignKeyViolation(err) {
		return loanDomain.ErrBorrowerNotFound
	}
	return apperrors.Wrap(err, "failed to create loan request")
}

// listPredicates describes the loan request filters. borrowerID converts the borrower
// UUID into the value stored by the dialect.
func listPredicates(filter loanDomain.ListFilter, borrowerID func(uuid.UUID) any) []query.Predicate {
	return []query.Predicate{
		query.Optional("status", filter.Status, func(v loanDomain.Status) any { return string(v) }),
		query.Optional("borrower_id", filter.BorrowerID, borrowerID),
		query.OptionalFold("currency", filter.Currency),
	}
}
