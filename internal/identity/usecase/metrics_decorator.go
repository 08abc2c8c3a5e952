package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/allisson/loans/internal/identity/domain"
	"github.com/allisson/loans/internal/metrics"
)

const metricsDomain = "identity"

// identityUseCaseWithMetrics decorates IdentityUseCase with metrics instrumentation.
type identityUseCaseWithMetrics struct {
	next    IdentityUseCase
	metrics metrics.BusinessMetrics
}

// NewIdentityUseCaseWithMetrics wraps an IdentityUseCase with metrics recording.
func NewIdentityUseCaseWithMetrics(useCase IdentityUseCase, m metrics.BusinessMetrics) IdentityUseCase {
	return &identityUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (i *identityUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	i.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	i.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Create records metrics for identity creation operations.
func (i *identityUseCaseWithMetrics) Create(
	ctx context.Context,
	input *identityDomain.CreateIdentityInput,
) (*identityDomain.Identity, error) {
	start := time.Now()
	identity, err := i.next.Create(ctx, input)
	i.record(ctx, "identity_create", start, err)
	return identity, err
}

// Update records metrics for identity update operations.
func (i *identityUseCaseWithMetrics) Update(
	ctx context.Context,
	identityID uuid.UUID,
	input *identityDomain.UpdateIdentityInput,
) (*identityDomain.Identity, error) {
	start := time.Now()
	identity, err := i.next.Update(ctx, identityID, input)
	i.record(ctx, "identity_update", start, err)
	return identity, err
}

// Get records metrics for identity retrieval operations.
func (i *identityUseCaseWithMetrics) Get(ctx context.Context, identityID uuid.UUID) (*identityDomain.Identity, error) {
	start := time.Now()
	identity, err := i.next.Get(ctx, identityID)
	i.record(ctx, "identity_get", start, err)
	return identity, err
}

// List records metrics for identity listing operations.
func (i *identityUseCaseWithMetrics) List(
	ctx context.Context,
	filter identityDomain.ListFilter,
) ([]*identityDomain.Identity, error) {
	start := time.Now()
	identities, err := i.next.List(ctx, filter)
	i.record(ctx, "identity_list", start, err)
	return identities, err
}

// Delete records metrics for identity deletion operations.
func (i *identityUseCaseWithMetrics) Delete(ctx context.Context, identityID uuid.UUID) (bool, error) {
	start := time.Now()
	deleted, err := i.next.Delete(ctx, identityID)
	i.record(ctx, "identity_delete", start, err)
	return deleted, err
}
