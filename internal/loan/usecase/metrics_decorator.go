package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	loanDomain "github.com/allisson/loans/internal/loan/domain"
	"github.com/allisson/loans/internal/metrics"
)

const metricsDomain = "loan"

// loanRequestUseCaseWithMetrics decorates LoanRequestUseCase with metrics instrumentation.
type loanRequestUseCaseWithMetrics struct {
	next    LoanRequestUseCase
	metrics metrics.BusinessMetrics
}

// NewLoanRequestUseCaseWithMetrics wraps a LoanRequestUseCase with metrics recording.
func NewLoanRequestUseCaseWithMetrics(useCase LoanRequestUseCase, m metrics.BusinessMetrics) LoanRequestUseCase {
	return &loanRequestUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (l *loanRequestUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, l.metrics, metricsDomain, operation, start, err)
}

// Create records metrics for loan request creation operations.
func (l *loanRequestUseCaseWithMetrics) Create(
	ctx context.Context,
	input *loanDomain.CreateLoanRequestInput,
) (*loanDomain.LoanRequest, error) {
	start := time.Now()
	loanRequest, err := l.next.Create(ctx, input)
	l.record(ctx, "loan_request_create", start, err)
	return loanRequest, err
}

// Get records metrics for loan request retrieval operations.
func (l *loanRequestUseCaseWithMetrics) Get(
	ctx context.Context,
	loanRequestID uuid.UUID,
) (*loanDomain.LoanRequest, error) {
	start := time.Now()
	loanRequest, err := l.next.Get(ctx, loanRequestID)
	l.record(ctx, "loan_request_get", start, err)
	return loanRequest, err
}

// List records metrics for loan request listing operations.
func (l *loanRequestUseCaseWithMetrics) List(
	ctx context.Context,
	filter loanDomain.ListFilter,
) ([]*loanDomain.LoanRequest, error) {
	start := time.Now()
	loanRequests, err := l.next.List(ctx, filter)
	l.record(ctx, "loan_request_list", start, err)
	return loanRequests, err
}

// UpdateStatus records metrics for status transitions.
func (l *loanRequestUseCaseWithMetrics) UpdateStatus(
	ctx context.Context,
	loanRequestID uuid.UUID,
	target loanDomain.Status,
) (*loanDomain.LoanRequest, error) {
	start := time.Now()
	loanRequest, err := l.next.UpdateStatus(ctx, loanRequestID, target)
	l.record(ctx, "loan_request_update_status", start, err)
	return loanRequest, err
}
