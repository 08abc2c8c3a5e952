// Package usecase implements the outbox business logic and orchestrates outbox domain operations.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/allisson/loans/internal/database"
	apperrors "github.com/allisson/loans/internal/errors"
	"github.com/allisson/loans/internal/outbox/domain"
)

// Config holds outbox use case configuration
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// OutboxEventRepository defines outbox event repository operations
type OutboxEventRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	Update(ctx context.Context, event *domain.OutboxEvent) error
	DeleteProcessedBefore(ctx context.Context, before time.Time, dryRun bool) (int64, error)
}

// EventProcessor delivers a single outbox event to its destination.
type EventProcessor interface {
	Process(ctx context.Context, event *domain.OutboxEvent) error
}

// UseCase defines the interface for outbox use cases
type UseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
	Cleanup(ctx context.Context, days int, dryRun bool) (int64, error)
}

// OutboxUseCase polls pending outbox events and hands them to an EventProcessor.
type OutboxUseCase struct {
	config         Config
	txManager      database.TxManager
	outboxRepo     OutboxEventRepository
	eventProcessor EventProcessor
	logger         *slog.Logger
}

// NewOutboxUseCase creates a new OutboxUseCase. A nil logger discards output.
func NewOutboxUseCase(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	eventProcessor EventProcessor,
	logger *slog.Logger,
) *OutboxUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &OutboxUseCase{
		config:         config,
		txManager:      txManager,
		outboxRepo:     outboxRepo,
		eventProcessor: eventProcessor,
		logger:         logger,
	}
}

// Start runs ProcessEvents every configured interval until ctx is cancelled.
func (uc *OutboxUseCase) Start(ctx context.Context) error {
	uc.logger.Info("starting outbox event processor",
		slog.Duration("interval", uc.config.Interval),
		slog.Int("batch_size", uc.config.BatchSize),
		slog.Int("max_retries", uc.config.MaxRetries),
	)

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("stopping outbox event processor")
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessEvents(ctx); err != nil {
				uc.logger.Error("failed to process events", slog.Any("error", err))
			}
		}
	}
}

// ProcessEvents locks a batch of pending events and processes them in a single transaction.
// A processor failure increments the retry counter; the event is marked failed once
// MaxRetries is reached.
func (uc *OutboxUseCase) ProcessEvents(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := uc.outboxRepo.GetPendingEvents(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		uc.logger.Info("processing events", slog.Int("count", len(events)))

		for _, event := range events {
			if err := uc.eventProcessor.Process(ctx, event); err != nil {
				uc.logger.Error("failed to process event",
					slog.String("event_id", event.ID.String()),
					slog.String("event_type", event.EventType),
					slog.Int("retries", event.Retries),
					slog.Any("error", err),
				)

				event.RecordFailure(err, uc.config.MaxRetries)
				if err := uc.outboxRepo.Update(ctx, event); err != nil {
					return err
				}
				continue
			}

			event.MarkProcessed(time.Now().UTC())
			if err := uc.outboxRepo.Update(ctx, event); err != nil {
				return err
			}
		}

		return nil
	})
}

// Cleanup deletes events processed more than days ago, or only counts them when
// dryRun is set.
func (uc *OutboxUseCase) Cleanup(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "days must be zero or positive, got %d", days)
	}

	before := time.Now().UTC().AddDate(0, 0, -days)

	count, err := uc.outboxRepo.DeleteProcessedBefore(ctx, before, dryRun)
	if err != nil {
		return 0, err
	}

	uc.logger.Info("outbox cleanup",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
		slog.Int64("count", count),
	)
	return count, nil
}

// LogEventProcessor writes events to the application log. It is used when no
// message broker is configured.
type LogEventProcessor struct {
	logger *slog.Logger
}

// NewLogEventProcessor creates a new LogEventProcessor
func NewLogEventProcessor(logger *slog.Logger) *LogEventProcessor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogEventProcessor{logger: logger}
}

// Process decodes the event payload and logs it. Malformed payloads are returned
// as errors so the event is retried and eventually marked failed.
func (p *LogEventProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	var payload map[string]any
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return err
	}

	switch event.EventType {
	case domain.EventTypeIdentityCreated,
		domain.EventTypeIdentityUpdated,
		domain.EventTypeIdentityDeleted,
		domain.EventTypeLoanRequestCreated,
		domain.EventTypeLoanRequestStatusChanged:
		p.logger.InfoContext(ctx, "outbox event",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
			slog.Any("payload", payload),
		)
	default:
		p.logger.WarnContext(ctx, "unknown event type",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
		)
	}

	return nil
}
