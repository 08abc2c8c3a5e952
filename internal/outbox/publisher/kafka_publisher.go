// Package publisher delivers outbox events to Kafka.
package publisher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/allisson/loans/internal/outbox/domain"
)

// Writer is the subset of kafka.Writer used by KafkaPublisher.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher implements usecase.EventProcessor by writing each outbox event
// as a Kafka message. The message key is the event ID and the value is the JSON payload.
type KafkaPublisher struct {
	writer Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a KafkaPublisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return NewKafkaPublisherWithWriter(w, logger)
}

// NewKafkaPublisherWithWriter creates a KafkaPublisher around an existing writer.
func NewKafkaPublisherWithWriter(w Writer, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

// Process writes the event to Kafka. Write errors are returned so the outbox
// worker retries the event.
func (p *KafkaPublisher) Process(ctx context.Context, event *domain.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.ID.String()),
		Value: []byte(event.Payload),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.ID.String())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}

	p.logger.DebugContext(ctx, "event published",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.EventType),
	)

	return nil
}

// Close flushes pending writes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
