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

// MySQLLoanRequestRepository handles loan request persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLLoanRequestRepository struct {
	db *sql.DB
}

// NewMySQLLoanRequestRepository creates a new MySQLLoanRequestRepository
func NewMySQLLoanRequestRepository(db *sql.DB) *MySQLLoanRequestRepository {
	return &MySQLLoanRequestRepository{db: db}
}

// Create inserts a new loan request
func (r *MySQLLoanRequestRepository) Create(ctx context.Context, loanRequest *loanDomain.LoanRequest) error {
	querier := database.GetTx(ctx, r.db)

	id, err := loanRequest.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	borrowerID, err := loanRequest.BorrowerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal borrower UUID")
	}

	insert := `INSERT INTO loan_requests (` + loanRequestColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, insert, id, borrowerID, loanRequest.Amount,
		string(loanRequest.Currency), string(loanRequest.Status), loanRequest.CreatedAt)
	if err != nil {
		return mapCreateError(err)
	}
	return nil
}

// Get retrieves a loan request by ID
func (r *MySQLLoanRequestRepository) Get(
	ctx context.Context,
	loanRequestID uuid.UUID,
) (*loanDomain.LoanRequest, error) {
	querier := database.GetTx(ctx, r.db)

	id, err := loanRequestID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	row := querier.QueryRowContext(ctx, `SELECT `+loanRequestColumns+` FROM loan_requests WHERE id = ?`, id)

	loanRequest, err := scanMySQLLoanRequest(row)
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
func (r *MySQLLoanRequestRepository) List(
	ctx context.Context,
	filter loanDomain.ListFilter,
) ([]*loanDomain.LoanRequest, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := query.Where(query.MySQL, 0, listPredicates(filter, mysqlUUID)...)
	rows, err := querier.QueryContext(ctx,
		`SELECT `+loanRequestColumns+` FROM loan_requests`+where+` ORDER BY id ASC`, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list loan requests")
	}
	defer rows.Close() //nolint:errcheck

	loanRequests := make([]*loanDomain.LoanRequest, 0)
	for rows.Next() {
		loanRequest, err := scanMySQLLoanRequest(rows)
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

// UpdateStatus sets the status only if the stored status still equals from. Callers
// never pass from == to, so zero affected rows always means the status moved.
func (r *MySQLLoanRequestRepository) UpdateStatus(
	ctx context.Context,
	loanRequestID uuid.UUID,
	from, to loanDomain.Status,
) error {
	querier := database.GetTx(ctx, r.db)

	id, err := loanRequestID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx,
		`UPDATE loan_requests SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from))
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

// mysqlUUID converts a UUID to its BINARY(16) form. A UUID is always 16 bytes.
func mysqlUUID(id uuid.UUID) any {
	return id[:]
}

func scanMySQLLoanRequest(row scanner) (*loanDomain.LoanRequest, error) {
	var loanRequest loanDomain.LoanRequest
	var id, borrowerID []byte
	var currency, status string

	err := row.Scan(&id, &borrowerID, &loanRequest.Amount, &currency, &status, &loanRequest.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := loanRequest.ID.UnmarshalBinary(id); err != nil {
		return nil, err
	}
	if err := loanRequest.BorrowerID.UnmarshalBinary(borrowerID); err != nil {
		return nil, err
	}

	loanRequest.Currency = loanDomain.Currency(currency)
	loanRequest.Status = loanDomain.Status(status)
	loanRequest.CreatedAt = loanRequest.CreatedAt.UTC()
	return &loanRequest, nil
}
