package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/loans/internal/errors"
)

func TestRunCleanOutboxEvents(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("text", func(t *testing.T) {
		uc := &mockOutboxUseCase{}
		uc.On("Cleanup", ctx, 7, false).Return(int64(4), nil).Once()
		var out bytes.Buffer

		err := RunCleanOutboxEvents(ctx, uc, logger, &out, 7, false, "text")

		require.NoError(t, err)
		assert.Equal(t, "Deleted 4 outbox event(s) processed more than 7 day(s) ago\n", out.String())
		uc.AssertExpectations(t)
	})

	t.Run("dry-run-json", func(t *testing.T) {
		uc := &mockOutboxUseCase{}
		uc.On("Cleanup", ctx, 30, true).Return(int64(2), nil).Once()
		var out bytes.Buffer

		err := RunCleanOutboxEvents(ctx, uc, logger, &out, 30, true, "json")

		require.NoError(t, err)
		var result cleanOutboxResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, cleanOutboxResult{Count: 2, Days: 30, DryRun: true}, result)
	})

	t.Run("invalid-format", func(t *testing.T) {
		uc := &mockOutboxUseCase{}

		err := RunCleanOutboxEvents(ctx, uc, logger, io.Discard, 7, false, "yaml")

		assert.ErrorContains(t, err, "invalid format")
		uc.AssertNotCalled(t, "Cleanup")
	})

	t.Run("use-case-error", func(t *testing.T) {
		uc := &mockOutboxUseCase{}
		uc.On("Cleanup", ctx, -1, false).Return(int64(0), apperrors.ErrInvalidInput).Once()

		err := RunCleanOutboxEvents(ctx, uc, logger, io.Discard, -1, false, "text")

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
