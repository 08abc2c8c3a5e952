package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/loans/internal/app"
	"github.com/allisson/loans/internal/config"
	outboxUsecase "github.com/allisson/loans/internal/outbox/usecase"
)

const shutdownTimeout = 15 * time.Second

// service is a long running component started and stopped by runServices.
type service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// workerService runs the outbox worker until its context is cancelled.
type workerService struct {
	useCase outboxUsecase.UseCase
}

func (w workerService) Start(ctx context.Context) error {
	if err := w.useCase.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("outbox worker error: %w", err)
	}
	return nil
}

func (w workerService) Shutdown(context.Context) error {
	return nil
}

// runServices starts every service and blocks until ctx is cancelled or one of them fails,
// then shuts all of them down within shutdownTimeout.
func runServices(ctx context.Context, logger *slog.Logger, services ...service) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, svc := range services {
		g.Go(func() error {
			return svc.Start(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down services")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var shutdownErrors []error
		for _, svc := range services {
			if err := svc.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, err)
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}

// RunServer starts the API server, the metrics server (when enabled) and the outbox worker.
// Blocks until SIGINT/SIGTERM or until one of them fails.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))
	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	outboxUseCase, err := container.OutboxUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize outbox worker: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	services := []service{server, workerService{useCase: outboxUseCase}}
	if metricsServer != nil {
		services = append(services, metricsServer)
	}

	return runServices(ctx, logger, services...)
}

// RunWorker runs only the outbox worker, for deployments that scale it separately.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting outbox worker", slog.String("version", version))
	defer closeContainer(container, logger)

	outboxUseCase, err := container.OutboxUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize outbox worker: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return runServices(ctx, logger, workerService{useCase: outboxUseCase})
}
