package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/allisson/loans/internal/database/mocks"
	apperrors "github.com/allisson/loans/internal/errors"
	identityDomain "github.com/allisson/loans/internal/identity/domain"
	outboxDomain "github.com/allisson/loans/internal/outbox/domain"
)

// mockIdentityRepository is a mock implementation of IdentityRepository for testing.
type mockIdentityRepository struct {
	mock.Mock
}

func (m *mockIdentityRepository) Create(ctx context.Context, identity *identityDomain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *mockIdentityRepository) Update(ctx context.Context, identity *identityDomain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *mockIdentityRepository) Get(ctx context.Context, identityID uuid.UUID) (*identityDomain.Identity, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}

func (m *mockIdentityRepository) List(
	ctx context.Context,
	filter identityDomain.ListFilter,
) ([]*identityDomain.Identity, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identityDomain.Identity), args.Error(1)
}

func (m *mockIdentityRepository) Delete(ctx context.Context, identityID uuid.UUID) (bool, error) {
	args := m.Called(ctx, identityID)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdentityRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdentityRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	args := m.Called(ctx, nationalID)
	return args.Bool(0), args.Error(1)
}

// mockOutboxRepository is a mock implementation of OutboxEventRepository for testing.
type mockOutboxRepository struct {
	mock.Mock
}

func (m *mockOutboxRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func eventOfType(eventType string) any {
	return mock.MatchedBy(func(event *outboxDomain.OutboxEvent) bool {
		return event.EventType == eventType && event.Status == outboxDomain.OutboxEventStatusPending
	})
}

func adaInput() *identityDomain.CreateIdentityInput {
	return &identityDomain.CreateIdentityInput{
		Name:       "Ada",
		NationalID: "12345678A",
		Email:      "ada@x.com",
	}
}

func TestIdentityUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CreateNewIdentity", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}
		mockOutboxRepo := &mockOutboxRepository{}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("ExistsByEmail", ctx, "ada@x.com").Return(false, nil).Once()
		mockIdentityRepo.On("ExistsByNationalID", ctx, "12345678A").Return(false, nil).Once()
		mockIdentityRepo.On("Create", ctx, mock.MatchedBy(func(identity *identityDomain.Identity) bool {
			return identity.Name == "Ada" &&
				identity.NationalID == "12345678A" &&
				identity.Email == "ada@x.com" &&
				identity.Role == identityDomain.RoleNone &&
				!identity.CreatedAt.IsZero()
		})).Return(nil).Once()
		mockOutboxRepo.On("Create", ctx, eventOfType(outboxDomain.EventTypeIdentityCreated)).Return(nil).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, mockOutboxRepo)
		identity, err := uc.Create(ctx, adaInput())

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, identity.ID)
		assert.Equal(t, "Ada", identity.Name)
		assert.Equal(t, "UTC", identity.CreatedAt.Location().String())
		mockIdentityRepo.AssertExpectations(t)
		mockOutboxRepo.AssertExpectations(t)
	})

	t.Run("Success_NormalizesEmailAndName", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}
		mockOutboxRepo := &mockOutboxRepository{}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("ExistsByEmail", ctx, "ada@x.com").Return(false, nil).Once()
		mockIdentityRepo.On("ExistsByNationalID", ctx, "12345678A").Return(false, nil).Once()
		mockIdentityRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockOutboxRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, mockOutboxRepo)
		identity, err := uc.Create(ctx, &identityDomain.CreateIdentityInput{
			Name:       "  Ada ",
			NationalID: "12345678A",
			Email:      " Ada@X.com",
			Role:       identityDomain.RoleManager,
		})

		require.NoError(t, err)
		assert.Equal(t, "Ada", identity.Name)
		assert.Equal(t, "ada@x.com", identity.Email)
		assert.Equal(t, identityDomain.RoleManager, identity.Role)
	})

	t.Run("Error_DuplicateEmail", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}
		mockOutboxRepo := &mockOutboxRepository{}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("ExistsByEmail", ctx, "ada@x.com").Return(true, nil).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, mockOutboxRepo)
		identity, err := uc.Create(ctx, adaInput())

		assert.Nil(t, identity)
		assert.ErrorIs(t, err, identityDomain.ErrEmailAlreadyInUse)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		mockIdentityRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockOutboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_DuplicateNationalID", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}
		mockOutboxRepo := &mockOutboxRepository{}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("ExistsByEmail", ctx, "ada@x.com").Return(false, nil).Once()
		mockIdentityRepo.On("ExistsByNationalID", ctx, "12345678A").Return(true, nil).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, mockOutboxRepo)
		_, err := uc.Create(ctx, adaInput())

		assert.ErrorIs(t, err, identityDomain.ErrNationalIDAlreadyInUse)
		mockIdentityRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_ConstraintViolationFromStore", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}
		mockOutboxRepo := &mockOutboxRepository{}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("ExistsByEmail", ctx, "ada@x.com").Return(false, nil).Once()
		mockIdentityRepo.On("ExistsByNationalID", ctx, "12345678A").Return(false, nil).Once()
		mockIdentityRepo.On("Create", ctx, mock.Anything).Return(identityDomain.ErrNationalIDAlreadyInUse).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, mockOutboxRepo)
		_, err := uc.Create(ctx, adaInput())

		assert.ErrorIs(t, err, identityDomain.ErrNationalIDAlreadyInUse)
		mockOutboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidInput", func(t *testing.T) {
		tests := []struct {
			name  string
			input *identityDomain.CreateIdentityInput
		}{
			{"blank name", &identityDomain.CreateIdentityInput{Name: "  ", NationalID: "12345678A", Email: "ada@x.com"}},
			{"bad national id", &identityDomain.CreateIdentityInput{Name: "Ada", NationalID: "1234567A", Email: "ada@x.com"}},
			{"lowercase letter", &identityDomain.CreateIdentityInput{Name: "Ada", NationalID: "12345678a", Email: "ada@x.com"}},
			{"bad email", &identityDomain.CreateIdentityInput{Name: "Ada", NationalID: "12345678A", Email: "ada"}},
			{
				"unknown role",
				&identityDomain.CreateIdentityInput{Name: "Ada", NationalID: "12345678A", Email: "ada@x.com", Role: "ADMIN"},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockTxManager := databaseMocks.NewMockTxManager(t)
				uc := NewIdentityUseCase(mockTxManager, &mockIdentityRepository{}, &mockOutboxRepository{})

				_, err := uc.Create(ctx, tt.input)

				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				mockTxManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Error_OutboxFails", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}
		mockOutboxRepo := &mockOutboxRepository{}
		outboxErr := errors.New("outbox insert failed")

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil).Once()
		mockIdentityRepo.On("ExistsByNationalID", ctx, mock.Anything).Return(false, nil).Once()
		mockIdentityRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockOutboxRepo.On("Create", ctx, mock.Anything).Return(outboxErr).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, mockOutboxRepo)
		identity, err := uc.Create(ctx, adaInput())

		assert.Nil(t, identity)
		assert.ErrorIs(t, err, outboxErr)
	})
}

func TestIdentityUseCase_Update(t *testing.T) {
	ctx := context.Background()
	identityID := uuid.Must(uuid.NewV7())

	stored := func() *identityDomain.Identity {
		return &identityDomain.Identity{
			ID:         identityID,
			Name:       "Ada",
			NationalID: "12345678A",
			Email:      "ada@x.com",
		}
	}

	t.Run("Success_SameValuesNeverConflict", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}
		mockOutboxRepo := &mockOutboxRepository{}
		current := stored()

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("Get", ctx, identityID).Return(current, nil).Once()
		mockIdentityRepo.On("Update", ctx, mock.MatchedBy(func(identity *identityDomain.Identity) bool {
			return identity.ID == identityID &&
				identity.Name == "Ada Lovelace" &&
				identity.Role == identityDomain.RoleClient &&
				identity.CreatedAt.Equal(current.CreatedAt)
		})).Return(nil).Once()
		mockOutboxRepo.On("Create", ctx, eventOfType(outboxDomain.EventTypeIdentityUpdated)).Return(nil).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, mockOutboxRepo)
		identity, err := uc.Update(ctx, identityID, &identityDomain.UpdateIdentityInput{
			Name:       "Ada Lovelace",
			NationalID: "12345678A",
			Email:      "ADA@x.com",
			Role:       identityDomain.RoleClient,
		})

		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", identity.Name)
		mockIdentityRepo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
		mockIdentityRepo.AssertNotCalled(t, "ExistsByNationalID", mock.Anything, mock.Anything)
		mockIdentityRepo.AssertExpectations(t)
		mockOutboxRepo.AssertExpectations(t)
	})

	t.Run("Success_ChangedEmailIsChecked", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}
		mockOutboxRepo := &mockOutboxRepository{}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("Get", ctx, identityID).Return(stored(), nil).Once()
		mockIdentityRepo.On("ExistsByEmail", ctx, "lovelace@x.com").Return(false, nil).Once()
		mockIdentityRepo.On("Update", ctx, mock.Anything).Return(nil).Once()
		mockOutboxRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, mockOutboxRepo)
		identity, err := uc.Update(ctx, identityID, &identityDomain.UpdateIdentityInput{
			Name:       "Ada",
			NationalID: "12345678A",
			Email:      "lovelace@x.com",
		})

		require.NoError(t, err)
		assert.Equal(t, "lovelace@x.com", identity.Email)
		mockIdentityRepo.AssertExpectations(t)
	})

	t.Run("Error_ChangedNationalIDInUse", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}
		mockOutboxRepo := &mockOutboxRepository{}
		current := stored()

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("Get", ctx, identityID).Return(current, nil).Once()
		mockIdentityRepo.On("ExistsByNationalID", ctx, "87654321B").Return(true, nil).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, mockOutboxRepo)
		_, err := uc.Update(ctx, identityID, &identityDomain.UpdateIdentityInput{
			Name:       "Ada",
			NationalID: "87654321B",
			Email:      "ada@x.com",
		})

		assert.ErrorIs(t, err, identityDomain.ErrNationalIDAlreadyInUse)
		assert.Equal(t, "12345678A", current.NationalID)
		mockIdentityRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("Get", ctx, identityID).Return(nil, identityDomain.ErrIdentityNotFound).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, &mockOutboxRepository{})
		identity, err := uc.Update(ctx, identityID, &identityDomain.UpdateIdentityInput{
			Name:       "Ada",
			NationalID: "12345678A",
			Email:      "ada@x.com",
		})

		assert.Nil(t, identity)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Error_InvalidInput", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("Get", ctx, identityID).Return(stored(), nil).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, &mockOutboxRepository{})
		_, err := uc.Update(ctx, identityID, &identityDomain.UpdateIdentityInput{
			Name:       "Ada",
			NationalID: "12345678A",
			Email:      "not-an-email",
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockIdentityRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestIdentityUseCase_Get(t *testing.T) {
	ctx := context.Background()
	identityID := uuid.Must(uuid.NewV7())
	mockIdentityRepo := &mockIdentityRepository{}
	uc := NewIdentityUseCase(databaseMocks.NewMockTxManager(t), mockIdentityRepo, &mockOutboxRepository{})

	expected := &identityDomain.Identity{ID: identityID, Name: "Ada"}
	mockIdentityRepo.On("Get", ctx, identityID).Return(expected, nil).Once()

	identity, err := uc.Get(ctx, identityID)

	require.NoError(t, err)
	assert.Equal(t, expected, identity)
}

func TestIdentityUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NormalizesEmailFilter", func(t *testing.T) {
		mockIdentityRepo := &mockIdentityRepository{}
		uc := NewIdentityUseCase(databaseMocks.NewMockTxManager(t), mockIdentityRepo, &mockOutboxRepository{})

		email := " ADA@x.com "
		mockIdentityRepo.On("List", ctx, mock.MatchedBy(func(filter identityDomain.ListFilter) bool {
			return filter.Email != nil && *filter.Email == "ada@x.com" && filter.NationalID == nil && filter.Role == nil
		})).Return([]*identityDomain.Identity{{Email: "ada@x.com"}}, nil).Once()

		identities, err := uc.List(ctx, identityDomain.ListFilter{Email: &email})

		require.NoError(t, err)
		assert.Len(t, identities, 1)
		assert.Equal(t, " ADA@x.com ", email)
	})

	t.Run("Error_InvalidRole", func(t *testing.T) {
		uc := NewIdentityUseCase(databaseMocks.NewMockTxManager(t), &mockIdentityRepository{}, &mockOutboxRepository{})

		role := identityDomain.Role("ADMIN")
		_, err := uc.List(ctx, identityDomain.ListFilter{Role: &role})

		assert.ErrorIs(t, err, identityDomain.ErrInvalidRole)
	})
}

func TestIdentityUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	identityID := uuid.Must(uuid.NewV7())

	t.Run("Success_Deleted", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}
		mockOutboxRepo := &mockOutboxRepository{}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("Delete", ctx, identityID).Return(true, nil).Once()
		mockOutboxRepo.On("Create", ctx, eventOfType(outboxDomain.EventTypeIdentityDeleted)).Return(nil).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, mockOutboxRepo)
		deleted, err := uc.Delete(ctx, identityID)

		require.NoError(t, err)
		assert.True(t, deleted)
		mockOutboxRepo.AssertExpectations(t)
	})

	t.Run("Success_NotFoundReportsFalse", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}
		mockOutboxRepo := &mockOutboxRepository{}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("Delete", ctx, identityID).Return(false, nil).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, mockOutboxRepo)
		deleted, err := uc.Delete(ctx, identityID)

		require.NoError(t, err)
		assert.False(t, deleted)
		mockOutboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_IdentityInUse", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockIdentityRepo := &mockIdentityRepository{}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockIdentityRepo.On("Delete", ctx, identityID).Return(false, identityDomain.ErrIdentityInUse).Once()

		uc := NewIdentityUseCase(mockTxManager, mockIdentityRepo, &mockOutboxRepository{})
		deleted, err := uc.Delete(ctx, identityID)

		assert.False(t, deleted)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

// memoryIdentityRepository is an in-memory IdentityRepository used to exercise the
// registry over random operation sequences.
type memoryIdentityRepository struct {
	identities map[uuid.UUID]identityDomain.Identity
}

func (r *memoryIdentityRepository) Create(_ context.Context, identity *identityDomain.Identity) error {
	r.identities[identity.ID] = *identity
	return nil
}

func (r *memoryIdentityRepository) Update(_ context.Context, identity *identityDomain.Identity) error {
	r.identities[identity.ID] = *identity
	return nil
}

func (r *memoryIdentityRepository) Get(_ context.Context, id uuid.UUID) (*identityDomain.Identity, error) {
	identity, ok := r.identities[id]
	if !ok {
		return nil, identityDomain.ErrIdentityNotFound
	}
	return &identity, nil
}

func (r *memoryIdentityRepository) List(context.Context, identityDomain.ListFilter) ([]*identityDomain.Identity, error) {
	identities := make([]*identityDomain.Identity, 0, len(r.identities))
	for _, identity := range r.identities {
		identities = append(identities, &identity)
	}
	sort.Slice(identities, func(i, j int) bool { return identities[i].ID.String() < identities[j].ID.String() })
	return identities, nil
}

func (r *memoryIdentityRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.identities[id]
	delete(r.identities, id)
	return ok, nil
}

func (r *memoryIdentityRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, identity := range r.identities {
		if identity.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryIdentityRepository) ExistsByNationalID(_ context.Context, nationalID string) (bool, error) {
	for _, identity := range r.identities {
		if identity.NationalID == nationalID {
			return true, nil
		}
	}
	return false, nil
}

func TestIdentityUseCase_UniquenessHoldsAcrossRandomOperations(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(42, 7))

	mockTxManager := databaseMocks.NewMockTxManager(t)
	mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil)
	mockOutboxRepo := &mockOutboxRepository{}
	mockOutboxRepo.On("Create", ctx, mock.Anything).Return(nil)
	repo := &memoryIdentityRepository{identities: map[uuid.UUID]identityDomain.Identity{}}
	uc := NewIdentityUseCase(mockTxManager, repo, mockOutboxRepo)

	// A small value pool forces frequent collisions.
	email := func() string { return fmt.Sprintf("user%d@x.com", rng.IntN(6)) }
	nationalID := func() string { return fmt.Sprintf("1234567%dA", rng.IntN(6)) }

	var ids []uuid.UUID
	for range 300 {
		if len(ids) == 0 || rng.IntN(2) == 0 {
			identity, err := uc.Create(ctx, &identityDomain.CreateIdentityInput{
				Name:       "User",
				NationalID: nationalID(),
				Email:      email(),
			})
			if err != nil {
				require.ErrorIs(t, err, apperrors.ErrConflict)
				continue
			}
			ids = append(ids, identity.ID)
			continue
		}

		id := ids[rng.IntN(len(ids))]
		current, err := repo.Get(ctx, id)
		require.NoError(t, err)

		input := &identityDomain.UpdateIdentityInput{Name: "User", NationalID: current.NationalID, Email: current.Email}
		switch rng.IntN(3) {
		case 0:
			input.Email = email()
		case 1:
			input.NationalID = nationalID()
		}

		_, err = uc.Update(ctx, id, input)
		if input.Email == current.Email && input.NationalID == current.NationalID {
			require.NoError(t, err, "resubmitting the stored values must not conflict")
		} else if err != nil {
			require.ErrorIs(t, err, apperrors.ErrConflict)
		}

		emails := map[string]bool{}
		nationalIDs := map[string]bool{}
		for _, identity := range repo.identities {
			require.False(t, emails[identity.Email], "duplicate email %s", identity.Email)
			require.False(t, nationalIDs[identity.NationalID], "duplicate national id %s", identity.NationalID)
			emails[identity.Email] = true
			nationalIDs[identity.NationalID] = true
		}
	}
}
