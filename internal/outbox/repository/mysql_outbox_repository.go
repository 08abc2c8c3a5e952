package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/loans/internal/database"
	apperrors "github.com/allisson/loans/internal/errors"
	"github.com/allisson/loans/internal/outbox/domain"
)

// MySQLOutboxEventRepository stores outbox events in MySQL, with ids as BINARY(16).
type MySQLOutboxEventRepository struct {
	db *sql.DB
}

// NewMySQLOutboxEventRepository creates a new MySQLOutboxEventRepository.
func NewMySQLOutboxEventRepository(db *sql.DB) *MySQLOutboxEventRepository {
	return &MySQLOutboxEventRepository{db: db}
}

// Create inserts a new outbox event inside the transaction carried by ctx, if any.
func (r *MySQLOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	query := `INSERT INTO outbox_events (` + outboxColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, NOW(6), NOW(6))`

	idBytes, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to encode outbox event id")
	}

	_, err = database.GetTx(ctx, r.db).ExecContext(ctx, query, idBytes, event.EventType, event.Payload,
		event.Status, event.Retries, event.LastError, event.ProcessedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create outbox event")
	}
	return nil
}

// GetPendingEvents locks and returns up to limit pending events, oldest first.
func (r *MySQLOutboxEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*domain.OutboxEvent, error) {
	query := `SELECT ` + outboxColumns + `
			  FROM outbox_events
			  WHERE status = ?
			  ORDER BY created_at ASC, id ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := database.GetTx(ctx, r.db).QueryContext(ctx, query, domain.OutboxEventStatusPending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to select pending outbox events")
	}

	events, err := collectEvents(rows, binaryID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan outbox events")
	}
	return events, nil
}

// Update persists the delivery state of an outbox event.
func (r *MySQLOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	query := `UPDATE outbox_events
			  SET status = ?, retries = ?, last_error = ?, processed_at = ?, updated_at = NOW(6)
			  WHERE id = ?`

	idBytes, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to encode outbox event id")
	}

	_, err = database.GetTx(ctx, r.db).ExecContext(ctx, query, event.Status, event.Retries,
		event.LastError, event.ProcessedAt, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to update outbox event")
	}
	return nil
}

// DeleteProcessedBefore removes processed events delivered before the given time.
// With dryRun it only counts them. Failed events are never removed.
func (r *MySQLOutboxEventRepository) DeleteProcessedBefore(
	ctx context.Context,
	before time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM outbox_events WHERE status = ? AND processed_at < ?`
		if err := querier.QueryRowContext(ctx, query, domain.OutboxEventStatusProcessed, before).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count processed outbox events")
		}
		return count, nil
	}

	query := `DELETE FROM outbox_events WHERE status = ? AND processed_at < ?`
	result, err := querier.ExecContext(ctx, query, domain.OutboxEventStatusProcessed, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete processed outbox events")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}
	return count, nil
}
