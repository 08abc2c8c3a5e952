package metrics

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DBStatser is satisfied by *sql.DB.
type DBStatser interface {
	Stats() sql.DBStats
}

// RegisterDBStats exposes connection pool gauges for db, read at collection time.
// The returned registration must be unregistered when the pool is closed.
func RegisterDBStats(
	meterProvider metric.MeterProvider,
	namespace string,
	driver string,
	db DBStatser,
) (metric.Registration, error) {
	meter := meterProvider.Meter(namespace)

	connections, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_db_connections", namespace),
		metric.WithDescription("Database pool connections by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connections gauge: %w", err)
	}

	maxOpen, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_db_max_open_connections", namespace),
		metric.WithDescription("Configured maximum number of open database connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db max open gauge: %w", err)
	}

	waits, err := meter.Int64ObservableCounter(
		fmt.Sprintf("%s_db_wait_count_total", namespace),
		metric.WithDescription("Total number of connections waited for"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db wait counter: %w", err)
	}

	driverAttr := attribute.String("driver", driver)

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := db.Stats()
		o.ObserveInt64(connections, int64(stats.InUse),
			metric.WithAttributes(driverAttr, attribute.String("state", "in_use")))
		o.ObserveInt64(connections, int64(stats.Idle),
			metric.WithAttributes(driverAttr, attribute.String("state", "idle")))
		o.ObserveInt64(maxOpen, int64(stats.MaxOpenConnections), metric.WithAttributes(driverAttr))
		o.ObserveInt64(waits, stats.WaitCount, metric.WithAttributes(driverAttr))
		return nil
	}, connections, maxOpen, waits)
}
