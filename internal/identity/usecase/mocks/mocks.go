// Package mocks provides testify mocks for the identity use case contracts.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	identityDomain "github.com/allisson/loans/internal/identity/domain"
)

// MockIdentityUseCase is a mock implementation of usecase.IdentityUseCase.
type MockIdentityUseCase struct {
	mock.Mock
}

// NewMockIdentityUseCase creates a MockIdentityUseCase and asserts its expectations on test cleanup.
func NewMockIdentityUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIdentityUseCase {
	m := &MockIdentityUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockIdentityUseCase) Create(
	ctx context.Context,
	input *identityDomain.CreateIdentityInput,
) (*identityDomain.Identity, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}

func (m *MockIdentityUseCase) Update(
	ctx context.Context,
	identityID uuid.UUID,
	input *identityDomain.UpdateIdentityInput,
) (*identityDomain.Identity, error) {
	args := m.Called(ctx, identityID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}

func (m *MockIdentityUseCase) Get(ctx context.Context, identityID uuid.UUID) (*identityDomain.Identity, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}

func (m *MockIdentityUseCase) List(
	ctx context.Context,
	filter identityDomain.ListFilter,
) ([]*identityDomain.Identity, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identityDomain.Identity), args.Error(1)
}

func (m *MockIdentityUseCase) Delete(ctx context.Context, identityID uuid.UUID) (bool, error) {
	args := m.Called(ctx, identityID)
	return args.Bool(0), args.Error(1)
}
