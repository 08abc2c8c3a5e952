package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/loans/internal/database"
	apperrors "github.com/allisson/loans/internal/errors"
	loanDomain "github.com/allisson/loans/internal/loan/domain"
	outboxDomain "github.com/allisson/loans/internal/outbox/domain"
)

// loanRequestUseCase implements LoanRequestUseCase.
type loanRequestUseCase struct {
	txManager  database.TxManager
	borrowers  BorrowerResolver
	loanRepo   LoanRequestRepository
	outboxRepo OutboxEventRepository
}

// Create files a new loan request. The borrower lookup, the insert and the outbox event
// share one transaction, and the borrower foreign key guards against a concurrent delete.
func (l *loanRequestUseCase) Create(
	ctx context.Context,
	input *loanDomain.CreateLoanRequestInput,
) (*loanDomain.LoanRequest, error) {
	if !(input.Amount > 0) {
		return nil, loanDomain.ErrInvalidAmount
	}
	currency, err := loanDomain.ParseCurrency(string(input.Currency))
	if err != nil {
		return nil, err
	}

	loanRequest := &loanDomain.LoanRequest{
		ID:         uuid.Must(uuid.NewV7()),
		BorrowerID: input.BorrowerID,
		Amount:     input.Amount,
		Currency:   currency,
		Status:     loanDomain.StatusPending,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	err = l.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := l.ensureBorrowerExists(ctx, input.BorrowerID); err != nil {
			return err
		}

		if err := l.loanRepo.Create(ctx, loanRequest); err != nil {
			return err
		}

		return l.recordEvent(ctx, outboxDomain.EventTypeLoanRequestCreated, map[string]any{
			"loan_request_id": loanRequest.ID.String(),
			"borrower_id":     loanRequest.BorrowerID.String(),
			"amount":          loanRequest.Amount,
			"currency":        string(loanRequest.Currency),
			"status":          string(loanRequest.Status),
			"created_at":      loanRequest.CreatedAt.Format(time.RFC3339Nano),
		})
	})
	if err != nil {
		return nil, err
	}

	return loanRequest, nil
}

// Get retrieves a loan request by ID.
func (l *loanRequestUseCase) Get(ctx context.Context, loanRequestID uuid.UUID) (*loanDomain.LoanRequest, error) {
	return l.loanRepo.Get(ctx, loanRequestID)
}

// List returns loan requests matching the filter.
func (l *loanRequestUseCase) List(
	ctx context.Context,
	filter loanDomain.ListFilter,
) ([]*loanDomain.LoanRequest, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, loanDomain.ErrInvalidStatus
	}
	if filter.Currency != nil {
		currency, err := loanDomain.ParseCurrency(string(*filter.Currency))
		if err != nil {
			return nil, err
		}
		filter.Currency = &currency
	}

	var loanRequests []*loanDomain.LoanRequest

	err := l.txManager.WithTx(ctx, func(ctx context.Context) error {
		if filter.BorrowerID != nil {
			if err := l.ensureBorrowerExists(ctx, *filter.BorrowerID); err != nil {
				return err
			}
		}

		var err error
		loanRequests, err = l.loanRepo.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	return loanRequests, nil
}

// UpdateStatus applies a state machine transition. The stored status is compared and
// set in one statement, so two callers starting from the same status cannot both win.
func (l *loanRequestUseCase) UpdateStatus(
	ctx context.Context,
	loanRequestID uuid.UUID,
	target loanDomain.Status,
) (*loanDomain.LoanRequest, error) {
	if !target.IsValid() {
		return nil, loanDomain.ErrInvalidStatus
	}

	var loanRequest *loanDomain.LoanRequest

	err := l.txManager.WithTx(ctx, func(ctx context.Context) error {
		current, err := l.loanRepo.Get(ctx, loanRequestID)
		if err != nil {
			return err
		}

		if !loanDomain.CanTransition(current.Status, target) {
			return &loanDomain.InvalidTransitionError{From: current.Status, To: target}
		}

		if err := l.loanRepo.UpdateStatus(ctx, loanRequestID, current.Status, target); err != nil {
			return err
		}

		updated := *current
		updated.Status = target
		loanRequest = &updated

		return l.recordEvent(ctx, outboxDomain.EventTypeLoanRequestStatusChanged, map[string]any{
			"loan_request_id": loanRequestID.String(),
			"borrower_id":     current.BorrowerID.String(),
			"from":            string(current.Status),
			"to":              string(target),
		})
	})
	if err != nil {
		return nil, err
	}

	return loanRequest, nil
}

// ensureBorrowerExists maps a missing identity to ErrBorrowerNotFound so callers can
// tell it apart from a missing loan request.
func (l *loanRequestUseCase) ensureBorrowerExists(ctx context.Context, borrowerID uuid.UUID) error {
	if _, err := l.borrowers.Get(ctx, borrowerID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return loanDomain.ErrBorrowerNotFound
		}
		return err
	}
	return nil
}

func (l *loanRequestUseCase) recordEvent(ctx context.Context, eventType string, payload map[string]any) error {
	event, err := outboxDomain.NewOutboxEvent(eventType, payload)
	if err != nil {
		return err
	}
	return l.outboxRepo.Create(ctx, event)
}

// NewLoanRequestUseCase creates a new LoanRequestUseCase with the provided dependencies.
func NewLoanRequestUseCase(
	txManager database.TxManager,
	borrowers BorrowerResolver,
	loanRepo LoanRequestRepository,
	outboxRepo OutboxEventRepository,
) LoanRequestUseCase {
	return &loanRequestUseCase{
		txManager:  txManager,
		borrowers:  borrowers,
		loanRepo:   loanRepo,
		outboxRepo: outboxRepo,
	}
}
