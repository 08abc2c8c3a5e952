// Package domain defines outbox events: the record of an identity or loan request
// change, written in the same transaction and delivered later by the worker.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEventStatus is the delivery state of an event.
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// Event types written by the identity and loan use cases.
const (
	EventTypeIdentityCreated          = "identity.created"
	EventTypeIdentityUpdated          = "identity.updated"
	EventTypeIdentityDeleted          = "identity.deleted"
	EventTypeLoanRequestCreated       = "loan_request.created"
	EventTypeLoanRequestStatusChanged = "loan_request.status_changed"
)

// OutboxEvent is a pending, delivered or abandoned domain event.
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOutboxEvent builds a pending event with a JSON encoded payload.
func NewOutboxEvent(eventType string, payload any) (*OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		ID:        id,
		EventType: eventType,
		Payload:   string(data),
		Status:    OutboxEventStatusPending,
	}, nil
}

// MarkProcessed records a successful delivery.
func (e *OutboxEvent) MarkProcessed(at time.Time) {
	e.Status = OutboxEventStatusProcessed
	e.ProcessedAt = &at
}

// RecordFailure counts a failed delivery and keeps its message. The event is
// marked failed, and no longer picked up, once it has failed maxRetries times.
func (e *OutboxEvent) RecordFailure(err error, maxRetries int) {
	msg := err.Error()
	e.Retries++
	e.LastError = &msg
	if e.Retries >= maxRetries {
		e.Status = OutboxEventStatusFailed
	}
}
