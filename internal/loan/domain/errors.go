package domain

import (
	"fmt"

	"github.com/allisson/loans/internal/errors"
)

// Loan request errors.
var (
	// ErrLoanRequestNotFound indicates a loan request with the specified ID was not found.
	ErrLoanRequestNotFound = errors.Wrap(errors.ErrNotFound, "loan request not found")

	// ErrBorrowerNotFound indicates the referenced borrower identity does not exist.
	ErrBorrowerNotFound = errors.Wrap(errors.ErrNotFound, "borrower not found")

	// ErrInvalidAmount indicates the amount is not strictly positive.
	ErrInvalidAmount = errors.Wrap(errors.ErrInvalidInput, "amount must be greater than zero")

	// ErrInvalidCurrency indicates the currency is not supported.
	ErrInvalidCurrency = errors.Wrap(errors.ErrInvalidInput, "currency must be one of EUR, USD, GBP")

	// ErrInvalidStatus indicates the status is unknown.
	ErrInvalidStatus = errors.Wrap(
		errors.ErrInvalidInput,
		"status must be one of PENDING, APPROVED, REJECTED, CANCELLED",
	)

	// ErrLoanRequestStatusChanged indicates another writer changed the status first.
	ErrLoanRequestStatusChanged = errors.Wrap(errors.ErrConflict, "loan request status changed concurrently")
)

// InvalidTransitionError reports a status change that is not an edge of the state machine.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// Unwrap lets errors.Is match the ErrInvalidTransition category.
func (e *InvalidTransitionError) Unwrap() error {
	return errors.ErrInvalidTransition
}
