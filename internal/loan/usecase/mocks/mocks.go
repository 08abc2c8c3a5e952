// Package mocks provides testify mocks for the loan request use case contracts.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	loanDomain "github.com/allisson/loans/internal/loan/domain"
)

// MockLoanRequestUseCase is a mock implementation of usecase.LoanRequestUseCase.
type MockLoanRequestUseCase struct {
	mock.Mock
}

// NewMockLoanRequestUseCase creates a MockLoanRequestUseCase and asserts its expectations on test cleanup.
func NewMockLoanRequestUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLoanRequestUseCase {
	m := &MockLoanRequestUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLoanRequestUseCase) Create(
	ctx context.Context,
	input *loanDomain.CreateLoanRequestInput,
) (*loanDomain.LoanRequest, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loanDomain.LoanRequest), args.Error(1)
}

func (m *MockLoanRequestUseCase) Get(ctx context.Context, loanRequestID uuid.UUID) (*loanDomain.LoanRequest, error) {
	args := m.Called(ctx, loanRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loanDomain.LoanRequest), args.Error(1)
}

func (m *MockLoanRequestUseCase) List(
	ctx context.Context,
	filter loanDomain.ListFilter,
) ([]*loanDomain.LoanRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*loanDomain.LoanRequest), args.Error(1)
}

func (m *MockLoanRequestUseCase) UpdateStatus(
	ctx context.Context,
	loanRequestID uuid.UUID,
	target loanDomain.Status,
) (*loanDomain.LoanRequest, error) {
	args := m.Called(ctx, loanRequestID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loanDomain.LoanRequest), args.Error(1)
}
