// Package usecase defines the Identity Registry: business operations over identities
// and the persistence contracts they rely on.
package usecase

import (
	"context"

	"github.com/google/uuid"

	identityDomain "github.com/allisson/loans/internal/identity/domain"
	outboxDomain "github.com/allisson/loans/internal/outbox/domain"
)

// IdentityRepository defines persistence operations for identities.
// Implementations must support transaction-aware operations via context propagation.
type IdentityRepository interface {
	// Create stores a new identity. Returns ErrEmailAlreadyInUse or ErrNationalIDAlreadyInUse
	// when a unique constraint is violated.
	Create(ctx context.Context, identity *identityDomain.Identity) error

	// Update overwrites name, national ID, email and role of an existing identity.
	Update(ctx context.Context, identity *identityDomain.Identity) error

	// Get retrieves an identity by ID. Returns ErrIdentityNotFound if not found.
	Get(ctx context.Context, identityID uuid.UUID) (*identityDomain.Identity, error)

	// List returns the identities matching every supplied filter, ordered by ID.
	List(ctx context.Context, filter identityDomain.ListFilter) ([]*identityDomain.Identity, error)

	// Delete removes an identity and reports whether a row was deleted.
	// Returns ErrIdentityInUse when loan requests reference the identity.
	Delete(ctx context.Context, identityID uuid.UUID) (bool, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
}

// OutboxEventRepository records domain events in the same transaction as the change.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// IdentityUseCase defines the Identity Registry operations. Email and national ID are
// unique across all identities, and every mutation runs in a single transaction.
type IdentityUseCase interface {
	// Create registers a new identity after checking that neither its email nor its
	// national ID is in use. CreatedAt is stamped by the registry.
	Create(ctx context.Context, input *identityDomain.CreateIdentityInput) (*identityDomain.Identity, error)

	// Update overwrites the mutable fields of an identity. Uniqueness is only re-checked
	// for an email or national ID that differs from the identity's stored value.
	//
	// Returns ErrIdentityNotFound if the identity doesn't exist.
	Update(
		ctx context.Context,
		identityID uuid.UUID,
		input *identityDomain.UpdateIdentityInput,
	) (*identityDomain.Identity, error)

	// Get retrieves an identity by ID. Returns ErrIdentityNotFound if not found.
	Get(ctx context.Context, identityID uuid.UUID) (*identityDomain.Identity, error)

	// List returns identities matching all supplied filters. An empty filter lists everything.
	List(ctx context.Context, filter identityDomain.ListFilter) ([]*identityDomain.Identity, error)

	// Delete removes an identity. It returns false without error when the identity doesn't exist.
	Delete(ctx context.Context, identityID uuid.UUID) (bool, error)
}
