package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	startErr  error
	shutdowns atomic.Int32
	stopped   chan struct{}
}

func newFakeService(startErr error) *fakeService {
	return &fakeService{startErr: startErr, stopped: make(chan struct{})}
}

func (f *fakeService) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stopped
	return nil
}

func (f *fakeService) Shutdown(context.Context) error {
	if f.shutdowns.Add(1) == 1 {
		close(f.stopped)
	}
	return nil
}

type mockOutboxUseCase struct {
	mock.Mock
}

func (m *mockOutboxUseCase) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockOutboxUseCase) ProcessEvents(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockOutboxUseCase) Cleanup(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

func TestRunServices(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("stops-all-on-cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		api := newFakeService(nil)
		metrics := newFakeService(nil)

		done := make(chan error, 1)
		go func() { done <- runServices(ctx, logger, api, metrics) }()

		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("runServices did not return")
		}
		assert.Equal(t, int32(1), api.shutdowns.Load())
		assert.Equal(t, int32(1), metrics.shutdowns.Load())
	})

	t.Run("start-failure-shuts-down-others", func(t *testing.T) {
		api := newFakeService(errors.New("address already in use"))
		metrics := newFakeService(nil)

		err := runServices(context.Background(), logger, api, metrics)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "address already in use")
		assert.Equal(t, int32(1), metrics.shutdowns.Load())
	})
}

func TestWorkerService(t *testing.T) {
	ctx := context.Background()

	t.Run("cancellation-is-clean-exit", func(t *testing.T) {
		uc := &mockOutboxUseCase{}
		uc.On("Start", ctx).Return(context.Canceled).Once()

		assert.NoError(t, workerService{useCase: uc}.Start(ctx))
		uc.AssertExpectations(t)
	})

	t.Run("other-errors-propagate", func(t *testing.T) {
		uc := &mockOutboxUseCase{}
		uc.On("Start", ctx).Return(errors.New("boom")).Once()

		err := workerService{useCase: uc}.Start(ctx)
		assert.ErrorContains(t, err, "outbox worker error")
		uc.AssertExpectations(t)
	})
}
