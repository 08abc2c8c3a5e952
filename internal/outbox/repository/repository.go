// Package repository persists outbox events for PostgreSQL and MySQL.
package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/loans/internal/outbox/domain"
)

const outboxColumns = `id, event_type, payload, status, retries, last_error, processed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanEvent reads one row selected with outboxColumns. decodeID converts the
// driver's id column into a UUID.
func scanEvent[ID any](scanner rowScanner, decodeID func(ID) (uuid.UUID, error)) (*domain.OutboxEvent, error) {
	var (
		event domain.OutboxEvent
		rawID ID
	)

	err := scanner.Scan(&rawID, &event.EventType, &event.Payload, &event.Status,
		&event.Retries, &event.LastError, &event.ProcessedAt, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if event.ID, err = decodeID(rawID); err != nil {
		return nil, err
	}
	return &event, nil
}

func collectEvents[ID any](rows *sql.Rows, decodeID func(ID) (uuid.UUID, error)) ([]*domain.OutboxEvent, error) {
	defer rows.Close() //nolint:errcheck

	events := make([]*domain.OutboxEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows, decodeID)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func identityID(id uuid.UUID) (uuid.UUID, error) { return id, nil }

func binaryID(raw []byte) (uuid.UUID, error) { return uuid.FromBytes(raw) }
