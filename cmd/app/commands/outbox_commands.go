package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	outboxUsecase "github.com/allisson/loans/internal/outbox/usecase"
)

type cleanOutboxResult struct {
	Count  int64 `json:"count"`
	Days   int   `json:"days"`
	DryRun bool  `json:"dry_run"`
}

// RunCleanOutboxEvents deletes outbox events processed more than days ago.
// With dryRun it reports how many would be deleted.
func RunCleanOutboxEvents(
	ctx context.Context,
	useCase outboxUsecase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("cleaning outbox events", slog.Int("days", days), slog.Bool("dry_run", dryRun))

	count, err := useCase.Cleanup(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean outbox events: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, cleanOutboxResult{Count: count, Days: days, DryRun: dryRun})
	}

	if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: would delete %d outbox event(s) processed more than %d day(s) ago\n", count, days)
	} else {
		_, _ = fmt.Fprintf(writer, "Deleted %d outbox event(s) processed more than %d day(s) ago\n", count, days)
	}
	return nil
}
