package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/allisson/loans/internal/identity/domain"
)

func newMySQLMock(t *testing.T) (*MySQLIdentityRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewMySQLIdentityRepository(db), mock
}

func binaryID(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLIdentityRepository_Create(t *testing.T) {
	ctx := context.Background()
	insert := regexp.QuoteMeta(`INSERT INTO identities (id, name, national_id, email, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`)

	t.Run("success", func(t *testing.T) {
		repo, mock := newMySQLMock(t)
		identity := testIdentity()

		mock.ExpectExec(insert).
			WithArgs(binaryID(t, identity.ID), "Ada", "12345678A", "ada@x.com", nil, identity.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, identity))
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, mock := newMySQLMock(t)

		mock.ExpectExec(insert).WillReturnError(&mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry 'ada@x.com' for key 'identities.uq_identities_email'",
		})

		assert.ErrorIs(t, repo.Create(ctx, testIdentity()), identityDomain.ErrEmailAlreadyInUse)
	})

	t.Run("duplicate national id on older servers", func(t *testing.T) {
		repo, mock := newMySQLMock(t)

		mock.ExpectExec(insert).WillReturnError(&mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry '12345678A' for key 'uq_identities_national_id'",
		})

		assert.ErrorIs(t, repo.Create(ctx, testIdentity()), identityDomain.ErrNationalIDAlreadyInUse)
	})
}

func TestMySQLIdentityRepository_Update(t *testing.T) {
	ctx := context.Background()
	update := regexp.QuoteMeta(`UPDATE identities SET name = ?, national_id = ?, email = ?, role = ? WHERE id = ?`)
	exists := regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM identities WHERE id = ?)`)

	t.Run("unchanged row still exists", func(t *testing.T) {
		repo, mock := newMySQLMock(t)
		identity := testIdentity()

		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(exists).
			WithArgs(binaryID(t, identity.ID)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

		assert.NoError(t, repo.Update(ctx, identity))
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMySQLMock(t)

		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(exists).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(0))

		assert.ErrorIs(t, repo.Update(ctx, testIdentity()), identityDomain.ErrIdentityNotFound)
	})
}

func TestMySQLIdentityRepository_GetAndList(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "name", "national_id", "email", "role", "created_at"}
	identity := testIdentity()

	t.Run("get", func(t *testing.T) {
		repo, mock := newMySQLMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM identities WHERE id = ?`)).
			WithArgs(binaryID(t, identity.ID)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(binaryID(t, identity.ID), "Ada", "12345678A", "ada@x.com", nil, identity.CreatedAt))

		got, err := repo.Get(ctx, identity.ID)

		require.NoError(t, err)
		assert.Equal(t, identity.ID, got.ID)
		assert.Equal(t, identityDomain.RoleNone, got.Role)
	})

	t.Run("list by national id", func(t *testing.T) {
		repo, mock := newMySQLMock(t)
		nationalID := "12345678A"

		mock.ExpectQuery(regexp.QuoteMeta(`FROM identities WHERE national_id = ? ORDER BY id ASC`)).
			WithArgs(nationalID).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(binaryID(t, identity.ID), "Ada", "12345678A", "ada@x.com", "CLIENT", identity.CreatedAt))

		got, err := repo.List(ctx, identityDomain.ListFilter{NationalID: &nationalID})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, identityDomain.RoleClient, got[0].Role)
	})
}

func TestMySQLIdentityRepository_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.Must(uuid.NewV7())

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newMySQLMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM identities WHERE id = ?`)).
			WithArgs(binaryID(t, id)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		deleted, err := repo.Delete(ctx, id)

		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("referenced by loan requests", func(t *testing.T) {
		repo, mock := newMySQLMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM identities WHERE id = ?`)).
			WillReturnError(&mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"})

		_, err := repo.Delete(ctx, id)

		assert.ErrorIs(t, err, identityDomain.ErrIdentityInUse)
	})
}
