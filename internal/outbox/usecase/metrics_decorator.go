package usecase

import (
	"context"
	"time"

	"github.com/allisson/loans/internal/metrics"
	"github.com/allisson/loans/internal/outbox/domain"
)

const metricsDomain = "outbox"

type eventProcessorWithMetrics struct {
	next    EventProcessor
	metrics metrics.BusinessMetrics
}

// NewEventProcessorWithMetrics records one "outbox_<event type>" operation per processed event.
func NewEventProcessorWithMetrics(processor EventProcessor, m metrics.BusinessMetrics) EventProcessor {
	return &eventProcessorWithMetrics{next: processor, metrics: m}
}

func (e *eventProcessorWithMetrics) Process(ctx context.Context, event *domain.OutboxEvent) error {
	start := time.Now()
	err := e.next.Process(ctx, event)
	metrics.Observe(ctx, e.metrics, metricsDomain, "outbox_"+event.EventType, start, err)
	return err
}
