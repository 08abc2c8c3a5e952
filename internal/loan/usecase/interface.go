// Package usecase defines the Loan Lifecycle Engine: loan request creation bound to an
// existing borrower and status changes governed by the state machine.
package usecase

import (
	"context"

	"github.com/google/uuid"

	identityDomain "github.com/allisson/loans/internal/identity/domain"
	loanDomain "github.com/allisson/loans/internal/loan/domain"
	outboxDomain "github.com/allisson/loans/internal/outbox/domain"
)

// LoanRequestRepository defines persistence operations for loan requests.
// Implementations must support transaction-aware operations via context propagation.
type LoanRequestRepository interface {
	// Create stores a new loan request. Returns ErrBorrowerNotFound when the borrower
	// foreign key is violated.
	Create(ctx context.Context, loanRequest *loanDomain.LoanRequest) error

	// Get retrieves a loan request by ID. Returns ErrLoanRequestNotFound if not found.
	Get(ctx context.Context, loanRequestID uuid.UUID) (*loanDomain.LoanRequest, error)

	// List returns the loan requests matching every supplied filter, ordered by ID.
	List(ctx context.Context, filter loanDomain.ListFilter) ([]*loanDomain.LoanRequest, error)

	// UpdateStatus moves a loan request from one status to another only if its stored
	// status still equals from. Returns ErrLoanRequestStatusChanged otherwise.
	UpdateStatus(ctx context.Context, loanRequestID uuid.UUID, from, to loanDomain.Status) error
}

// OutboxEventRepository records domain events in the same transaction as the change.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// BorrowerResolver resolves borrower identities. The identity use case satisfies it.
type BorrowerResolver interface {
	Get(ctx context.Context, identityID uuid.UUID) (*identityDomain.Identity, error)
}

// LoanRequestUseCase defines the Loan Lifecycle Engine operations.
type LoanRequestUseCase interface {
	// Create files a PENDING loan request for an existing borrower.
	// Returns ErrBorrowerNotFound when the borrower doesn't exist.
	Create(ctx context.Context, input *loanDomain.CreateLoanRequestInput) (*loanDomain.LoanRequest, error)

	// Get retrieves a loan request by ID. Returns ErrLoanRequestNotFound if not found.
	Get(ctx context.Context, loanRequestID uuid.UUID) (*loanDomain.LoanRequest, error)

	// List returns loan requests matching all supplied filters. Returns ErrBorrowerNotFound
	// when the borrower filter names an unknown identity.
	List(ctx context.Context, filter loanDomain.ListFilter) ([]*loanDomain.LoanRequest, error)

	// UpdateStatus moves a loan request to target. Returns *InvalidTransitionError when
	// target is not reachable from the current status.
	UpdateStatus(
		ctx context.Context,
		loanRequestID uuid.UUID,
		target loanDomain.Status,
	) (*loanDomain.LoanRequest, error)
}
