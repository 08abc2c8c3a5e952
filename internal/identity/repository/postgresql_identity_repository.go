package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/loans/internal/database"
	apperrors "github.com/allisson/loans/internal/errors"
	identityDomain "github.com/allisson/loans/internal/identity/domain"
	"github.com/allisson/loans/internal/query"
)

// PostgreSQLIdentityRepository handles identity persistence for PostgreSQL
type PostgreSQLIdentityRepository struct {
	db *sql.DB
}

// NewPostgreSQLIdentityRepository creates a new PostgreSQLIdentityRepository
func NewPostgreSQLIdentityRepository(db *sql.DB) *PostgreSQLIdentityRepository {
	return &PostgreSQLIdentityRepository{db: db}
}

// Create inserts a new identity
func (r *PostgreSQLIdentityRepository) Create(ctx context.Context, identity *identityDomain.Identity) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO identities (` + identityColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(ctx, query, identity.ID, identity.Name, identity.NationalID,
		identity.Email, roleValue(identity.Role), identity.CreatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create identity")
	}
	return nil
}

// Update overwrites the mutable fields of an identity
func (r *PostgreSQLIdentityRepository) Update(ctx context.Context, identity *identityDomain.Identity) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE identities SET name = $1, national_id = $2, email = $3, role = $4 WHERE id = $5`

	result, err := querier.ExecContext(ctx, query, identity.Name, identity.NationalID, identity.Email,
		roleValue(identity.Role), identity.ID)
	if err != nil {
		return mapWriteError(err, "failed to update identity")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return identityDomain.ErrIdentityNotFound
	}
	return nil
}

// Get retrieves an identity by ID
func (r *PostgreSQLIdentityRepository) Get(ctx context.Context, identityID uuid.UUID) (*identityDomain.Identity, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + identityColumns + ` FROM identities WHERE id = $1`

	identity, err := scanPostgreSQLIdentity(querier.QueryRowContext(ctx, query, identityID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identityDomain.ErrIdentityNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get identity")
	}
	return identity, nil
}

// List returns the identities matching every supplied filter, ordered by ID.
func (r *PostgreSQLIdentityRepository) List(
	ctx context.Context,
	filter identityDomain.ListFilter,
) ([]*identityDomain.Identity, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := query.Where(query.Postgres, 0, listPredicates(filter)...)
	rows, err := querier.QueryContext(ctx, `SELECT `+identityColumns+` FROM identities`+where+` ORDER BY id ASC`, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list identities")
	}
	defer rows.Close() //nolint:errcheck

	identities := make([]*identityDomain.Identity, 0)
	for rows.Next() {
		identity, err := scanPostgreSQLIdentity(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan identity")
		}
		identities = append(identities, identity)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate identities")
	}

	return identities, nil
}

// Delete removes an identity and reports whether it existed
func (r *PostgreSQLIdentityRepository) Delete(ctx context.Context, identityID uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM identities WHERE id = $1`, identityID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return false, identityDomain.ErrIdentityInUse
		}
		return false, apperrors.Wrap(err, "failed to delete identity")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get affected rows")
	}
	return rows > 0, nil
}

// ExistsByEmail reports whether any identity uses email
func (r *PostgreSQLIdentityRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE email = $1)`, email)
}

// ExistsByNationalID reports whether any identity uses nationalID
func (r *PostgreSQLIdentityRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE national_id = $1)`, nationalID)
}

func (r *PostgreSQLIdentityRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	var exists bool
	if err := querier.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check identity existence")
	}
	return exists, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLIdentity(row scanner) (*identityDomain.Identity, error) {
	var identity identityDomain.Identity
	var role sql.NullString

	err := row.Scan(&identity.ID, &identity.Name, &identity.NationalID, &identity.Email, &role, &identity.CreatedAt)
	if err != nil {
		return nil, err
	}

	identity.Role = identityDomain.Role(role.String)
	identity.CreatedAt = identity.CreatedAt.UTC()
	return &identity, nil
}
