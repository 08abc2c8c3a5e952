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

// MySQLIdentityRepository handles identity persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLIdentityRepository struct {
	db *sql.DB
}

// NewMySQLIdentityRepository creates a new MySQLIdentityRepository
func NewMySQLIdentityRepository(db *sql.DB) *MySQLIdentityRepository {
	return &MySQLIdentityRepository{db: db}
}

// Create inserts a new identity
func (r *MySQLIdentityRepository) Create(ctx context.Context, identity *identityDomain.Identity) error {
	querier := database.GetTx(ctx, r.db)

	id, err := identity.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO identities (` + identityColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, identity.Name, identity.NationalID,
		identity.Email, roleValue(identity.Role), identity.CreatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create identity")
	}
	return nil
}

// Update overwrites the mutable fields of an identity. MySQL reports zero affected
// rows for an update that changes nothing, so existence is checked with a separate
// query when no row was touched.
func (r *MySQLIdentityRepository) Update(ctx context.Context, identity *identityDomain.Identity) error {
	querier := database.GetTx(ctx, r.db)

	id, err := identity.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE identities SET name = ?, national_id = ?, email = ?, role = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, identity.Name, identity.NationalID, identity.Email,
		roleValue(identity.Role), id)
	if err != nil {
		return mapWriteError(err, "failed to update identity")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		exists, err := r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE id = ?)`, id)
		if err != nil {
			return err
		}
		if !exists {
			return identityDomain.ErrIdentityNotFound
		}
	}
	return nil
}

// Get retrieves an identity by ID
func (r *MySQLIdentityRepository) Get(ctx context.Context, identityID uuid.UUID) (*identityDomain.Identity, error) {
	querier := database.GetTx(ctx, r.db)

	id, err := identityID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT ` + identityColumns + ` FROM identities WHERE id = ?`

	identity, err := scanMySQLIdentity(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identityDomain.ErrIdentityNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get identity")
	}
	return identity, nil
}

// List returns the identities matching every supplied filter, ordered by ID.
func (r *MySQLIdentityRepository) List(
	ctx context.Context,
	filter identityDomain.ListFilter,
) ([]*identityDomain.Identity, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := query.Where(query.MySQL, 0, listPredicates(filter)...)
	rows, err := querier.QueryContext(ctx, `SELECT `+identityColumns+` FROM identities`+where+` ORDER BY id ASC`, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list identities")
	}
	defer rows.Close() //nolint:errcheck

	identities := make([]*identityDomain.Identity, 0)
	for rows.Next() {
		identity, err := scanMySQLIdentity(rows)
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
func (r *MySQLIdentityRepository) Delete(ctx context.Context, identityID uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	id, err := identityID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM identities WHERE id = ?`, id)
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
func (r *MySQLIdentityRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE email = ?)`, email)
}

// ExistsByNationalID reports whether any identity uses nationalID
func (r *MySQLIdentityRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE national_id = ?)`, nationalID)
}

func (r *MySQLIdentityRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	var exists bool
	if err := querier.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check identity existence")
	}
	return exists, nil
}

func scanMySQLIdentity(row scanner) (*identityDomain.Identity, error) {
	var identity identityDomain.Identity
	var id []byte
	var role sql.NullString

	err := row.Scan(&id, &identity.Name, &identity.NationalID, &identity.Email, &role, &identity.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := identity.ID.UnmarshalBinary(id); err != nil {
		return nil, err
	}

	identity.Role = identityDomain.Role(role.String)
	identity.CreatedAt = identity.CreatedAt.UTC()
	return &identity, nil
}
