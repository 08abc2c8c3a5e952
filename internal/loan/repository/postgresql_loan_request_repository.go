package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/loans/internal/database"
	apperrors "github.com/allisson/loans/internal/errors"
	loanDomain "github.com/allisson/loans/internal/loan/domain"
	"github.com/allisson/loans/internal/query"
)

// PostgreSQLLoanRequestRepository handles loan request persistence for PostgreSQL
type PostgreSQLLoanRequestRepository struct {
	db *sql.DB
}

// NewPostgreSQLLoanRequestRepository creates a new PostgreSQLLoanRequestRepository
func NewPostgreSQLLoanRequestRepository(db *sql.DB) *PostgreSQLLoanRequestRepository {
	return &PostgreSQLLoanRequestRepository{db: db}
}

// Create inserts a new loan request
func (r *PostgreSQLLoanRequestRepository) Create(ctx context.Context, loanRequest *loanDomain.LoanRequest) error {
	querier := database.GetTx(ctx, r.db)

	insert := `INSERT INTO loan_requests (` + loanRequestColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(ctx, insert, loanRequest.ID, loanRequest.BorrowerID, loanRequest.Amount,
		string(loanRequest.Currency), string(loanRequest.Status), loanRequest.CreatedAt)
	if err != nil {
		return mapCreateError(err)
	}
	return nil
}

// Get retrieves a loan request by ID
func (r *PostgreSQLLoanRequestRepository) Get(
	ctx context.Context,
	loanRequestID uuid.UUID,
) (*loanDomain.LoanRequest, error) {
	querier := database.GetTx(ctx, r.db)

	row := querier.QueryRowContext(ctx,
		`SELECT `+loanRequestColumns+` FROM loan_requests WHERE id = $1`, loanRequestID)

	loanRequest, err := scanPostgreSQLLoanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, loanDomain.ErrLoanRequestNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get loan request")
	}
	return loanRequest, nil
}

// List returns the loan requests matching every supplied filter, ordered by ID.
// The currency filter ignores case.
func (r *PostgreSQLLoanRequestRepository) List(
	ctx context.Context,
	filter loanDomain.ListFilter,
) ([]*loanDomain.LoanRequest, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := query.Where(query.Postgres, 0, listPredicates(filter, func(id uuid.UUID) any { return id })...)
	rows, err := querier.QueryContext(ctx,
		`SELECT `+loanRequestColumns+` FROM loan_requests`+where+` ORDER BY id ASC`, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list loan requests")
	}
	defer rows.Close() //nolint:errcheck

	loanRequests := make([]*loanDomain.LoanRequest, 0)
	for rows.Next() {
		loanRequest, err := scanPostgreSQLLoanRequest(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan loan request")
		}
		loanRequests = append(loanRequests, loanRequest)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate loan requests")
	}

	return loanRequests, nil
}

// UpdateStatus sets the status only if the stored status still equals from.
func (r *PostgreSQLLoanRequestRepository) UpdateStatus(
	ctx context.Context,
	loanRequestID uuid.UUID,
	from, to loanDomain.Status,
) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE loan_requests SET status = $1 WHERE id = $2 AND status = $3`,
		string(to), loanRequestID, string(from))
	if err != nil {
		return apperrors.Wrap(err, "failed to update loan request status")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return loanDomain.ErrLoanRequestStatusChanged
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLLoanRequest(row scanner) (*loanDomain.LoanRequest, error) {
	var loanRequest loanDomain.LoanRequest
	var currency, status string

	err := row.Scan(&loanRequest.ID, &loanRequest.BorrowerID, &loanRequest.Amount,
		&currency, &status, &loanRequest.CreatedAt)
	if err != nil {
		return nil, err
	}

	loanRequest.Currency = loanDomain.Currency(currency)
	loanRequest.Status = loanDomain.Status(status)
	loanRequest.CreatedAt = loanRequest.CreatedAt.UTC()
	return &loanRequest, nil
}
