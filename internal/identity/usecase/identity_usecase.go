package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/loans/internal/database"
	identityDomain "github.com/allisson/loans/internal/identity/domain"
	outboxDomain "github.com/allisson/loans/internal/outbox/domain"
	customValidation "github.com/allisson/loans/internal/validation"
)

// identityUseCase implements IdentityUseCase.
type identityUseCase struct {
	txManager    database.TxManager
	identityRepo IdentityRepository
	outboxRepo   OutboxEventRepository
}

// Create registers a new identity. The uniqueness checks, the insert and the outbox
// event share one transaction; the unique constraints in the store remain authoritative
// when two registrations race.
func (i *identityUseCase) Create(
	ctx context.Context,
	input *identityDomain.CreateIdentityInput,
) (*identityDomain.Identity, error) {
	identity := &identityDomain.Identity{
		ID:         uuid.Must(uuid.NewV7()),
		Name:       strings.TrimSpace(input.Name),
		NationalID: strings.TrimSpace(input.NationalID),
		Email:      normalizeEmail(input.Email),
		Role:       input.Role,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := validateIdentity(identity); err != nil {
		return nil, err
	}

	err := i.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := i.ensureEmailAvailable(ctx, identity.Email); err != nil {
			return err
		}
		if err := i.ensureNationalIDAvailable(ctx, identity.NationalID); err != nil {
			return err
		}

		if err := i.identityRepo.Create(ctx, identity); err != nil {
			return err
		}

		return i.recordEvent(ctx, outboxDomain.EventTypeIdentityCreated, identityPayload(identity))
	})
	if err != nil {
		return nil, err
	}

	return identity, nil
}

// Update overwrites name, national ID, email and role. An identity keeping its own
// email or national ID never conflicts with itself.
func (i *identityUseCase) Update(
	ctx context.Context,
	identityID uuid.UUID,
	input *identityDomain.UpdateIdentityInput,
) (*identityDomain.Identity, error) {
	var identity *identityDomain.Identity

	err := i.txManager.WithTx(ctx, func(ctx context.Context) error {
		current, err := i.identityRepo.Get(ctx, identityID)
		if err != nil {
			return err
		}

		updated := *current
		updated.Name = strings.TrimSpace(input.Name)
		updated.NationalID = strings.TrimSpace(input.NationalID)
		updated.Email = normalizeEmail(input.Email)
		updated.Role = input.Role

		if err := validateIdentity(&updated); err != nil {
			return err
		}

		if updated.Email != current.Email {
			if err := i.ensureEmailAvailable(ctx, updated.Email); err != nil {
				return err
			}
		}
		if updated.NationalID != current.NationalID {
			if err := i.ensureNationalIDAvailable(ctx, updated.NationalID); err != nil {
				return err
			}
		}

		if err := i.identityRepo.Update(ctx, &updated); err != nil {
			return err
		}

		identity = &updated
		return i.recordEvent(ctx, outboxDomain.EventTypeIdentityUpdated, identityPayload(identity))
	})
	if err != nil {
		return nil, err
	}

	return identity, nil
}

// Get retrieves an identity by ID.
func (i *identityUseCase) Get(ctx context.Context, identityID uuid.UUID) (*identityDomain.Identity, error) {
	return i.identityRepo.Get(ctx, identityID)
}

// List returns identities matching the filter. The email filter is normalized the
// same way stored emails are.
func (i *identityUseCase) List(
	ctx context.Context,
	filter identityDomain.ListFilter,
) ([]*identityDomain.Identity, error) {
	if filter.Email != nil {
		email := normalizeEmail(*filter.Email)
		filter.Email = &email
	}
	if filter.Role != nil && !filter.Role.IsValid() {
		return nil, identityDomain.ErrInvalidRole
	}
	return i.identityRepo.List(ctx, filter)
}

// Delete removes an identity, returning false when it doesn't exist.
func (i *identityUseCase) Delete(ctx context.Context, identityID uuid.UUID) (bool, error) {
	var deleted bool

	err := i.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = i.identityRepo.Delete(ctx, identityID)
		if err != nil || !deleted {
			return err
		}

		return i.recordEvent(ctx, outboxDomain.EventTypeIdentityDeleted, map[string]any{
			"identity_id": identityID.String(),
		})
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

func (i *identityUseCase) ensureEmailAvailable(ctx context.Context, email string) error {
	exists, err := i.identityRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return identityDomain.ErrEmailAlreadyInUse
	}
	return nil
}

func (i *identityUseCase) ensureNationalIDAvailable(ctx context.Context, nationalID string) error {
	exists, err := i.identityRepo.ExistsByNationalID(ctx, nationalID)
	if err != nil {
		return err
	}
	if exists {
		return identityDomain.ErrNationalIDAlreadyInUse
	}
	return nil
}

func (i *identityUseCase) recordEvent(ctx context.Context, eventType string, payload map[string]any) error {
	event, err := outboxDomain.NewOutboxEvent(eventType, payload)
	if err != nil {
		return err
	}
	return i.outboxRepo.Create(ctx, event)
}

func identityPayload(identity *identityDomain.Identity) map[string]any {
	return map[string]any{
		"identity_id": identity.ID.String(),
		"name":        identity.Name,
		"national_id": identity.NationalID,
		"email":       identity.Email,
		"role":        string(identity.Role),
		"created_at":  identity.CreatedAt.Format(time.RFC3339Nano),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateIdentity re-checks the identity invariants that the HTTP and CLI boundaries
// already enforce.
func validateIdentity(identity *identityDomain.Identity) error {
	err := validation.ValidateStruct(identity,
		validation.Field(&identity.Name, validation.Required, customValidation.NotBlank),
		validation.Field(&identity.NationalID, validation.Required, customValidation.NationalID),
		validation.Field(&identity.Email, validation.Required, customValidation.Email),
		validation.Field(&identity.Role, validation.By(func(value any) error {
			if role, _ := value.(identityDomain.Role); !role.IsValid() {
				return identityDomain.ErrInvalidRole
			}
			return nil
		})),
	)
	return customValidation.WrapValidationError(err)
}

// NewIdentityUseCase creates a new IdentityUseCase with the provided dependencies.
func NewIdentityUseCase(
	txManager database.TxManager,
	identityRepo IdentityRepository,
	outboxRepo OutboxEventRepository,
) IdentityUseCase {
	return &identityUseCase{
		txManager:    txManager,
		identityRepo: identityRepo,
		outboxRepo:   outboxRepo,
	}
}
