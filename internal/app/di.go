// Package app provides the dependency injection container that assembles application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/allisson/loans/internal/config"
	"github.com/allisson/loans/internal/database"
	"github.com/allisson/loans/internal/http"
	identityHTTP "github.com/allisson/loans/internal/identity/http"
	identityRepository "github.com/allisson/loans/internal/identity/repository"
	identityUsecase "github.com/allisson/loans/internal/identity/usecase"
	loanHTTP "github.com/allisson/loans/internal/loan/http"
	loanRepository "github.com/allisson/loans/internal/loan/repository"
	loanUsecase "github.com/allisson/loans/internal/loan/usecase"
	"github.com/allisson/loans/internal/metrics"
	"github.com/allisson/loans/internal/outbox/publisher"
	outboxRepository "github.com/allisson/loans/internal/outbox/repository"
	outboxUsecase "github.com/allisson/loans/internal/outbox/usecase"
)

// Container holds all application dependencies. Components are created on first access
// and every getter returns the same instance (or the same error) afterwards.
type Container struct {
	config *config.Config

	// lifetime of background work owned by the container (rate limiter cleanup)
	ctx    context.Context
	cancel context.CancelFunc

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	dbStats         metric.Registration

	// Repositories
	identityRepo    identityUsecase.IdentityRepository
	loanRequestRepo loanUsecase.LoanRequestRepository
	outboxRepo      outboxUsecase.OutboxEventRepository

	// Use Cases
	identityUseCase    identityUsecase.IdentityUseCase
	loanRequestUseCase loanUsecase.LoanRequestUseCase
	outboxUseCase      outboxUsecase.UseCase
	kafkaPublisher     *publisher.KafkaPublisher
	eventProcessor     outboxUsecase.EventProcessor

	// Handlers
	identityHandler    *identityHTTP.IdentityHandler
	loanRequestHandler *loanHTTP.LoanRequestHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                     sync.Mutex
	loggerInit             sync.Once
	dbInit                 sync.Once
	txManagerInit          sync.Once
	metricsProviderInit    sync.Once
	businessMetricsInit    sync.Once
	identityRepoInit       sync.Once
	loanRequestRepoInit    sync.Once
	outboxRepoInit         sync.Once
	identityUseCaseInit    sync.Once
	loanRequestUseCaseInit sync.Once
	eventProcessorInit     sync.Once
	outboxUseCaseInit      sync.Once
	identityHandlerInit    sync.Once
	loanRequestHandlerInit sync.Once
	httpServerInit         sync.Once
	metricsServerInit      sync.Once
	initErrors             map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	ctx, cancel := context.WithCancel(context.Background())
	return &Container{
		config:     cfg,
		ctx:        ctx,
		cancel:     cancel,
		initErrors: make(map[string]error),
	}
}

// lazy runs init once for the named component and replays its error on later calls.
func lazy[T any](c *Container, once *sync.Once, name string, target *T, init func() (T, error)) (T, error) {
	once.Do(func() {
		value, err := init()
		if err != nil {
			c.mu.Lock()
			c.initErrors[name] = err
			c.mu.Unlock()
			return
		}
		*target = value
	})

	c.mu.Lock()
	err := c.initErrors[name]
	c.mu.Unlock()
	if err != nil {
		var zero T
		return zero, err
	}
	return *target, nil
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger configured from LOG_LEVEL.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	return lazy(c, &c.dbInit, "db", &c.db, c.initDB)
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	return lazy(c, &c.txManagerInit, "txManager", &c.txManager, c.initTxManager)
}

// MetricsProvider returns the Prometheus backed meter provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return lazy(c, &c.metricsProviderInit, "metricsProvider", &c.metricsProvider, c.initMetricsProvider)
}

// BusinessMetrics returns the business metrics recorder, a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return lazy(c, &c.businessMetricsInit, "businessMetrics", &c.businessMetrics, c.initBusinessMetrics)
}

// IdentityRepository returns the identity repository for the configured driver.
func (c *Container) IdentityRepository() (identityUsecase.IdentityRepository, error) {
	return lazy(c, &c.identityRepoInit, "identityRepo", &c.identityRepo, c.initIdentityRepository)
}

// LoanRequestRepository returns the loan request repository for the configured driver.
func (c *Container) LoanRequestRepository() (loanUsecase.LoanRequestRepository, error) {
	return lazy(c, &c.loanRequestRepoInit, "loanRequestRepo", &c.loanRequestRepo, c.initLoanRequestRepository)
}

// OutboxRepository returns the outbox event repository for the configured driver.
func (c *Container) OutboxRepository() (outboxUsecase.OutboxEventRepository, error) {
	return lazy(c, &c.outboxRepoInit, "outboxRepo", &c.outboxRepo, c.initOutboxRepository)
}

// IdentityUseCase returns the identity registry use case.
func (c *Container) IdentityUseCase() (identityUsecase.IdentityUseCase, error) {
	return lazy(c, &c.identityUseCaseInit, "identityUseCase", &c.identityUseCase, c.initIdentityUseCase)
}

// LoanRequestUseCase returns the loan lifecycle use case.
func (c *Container) LoanRequestUseCase() (loanUsecase.LoanRequestUseCase, error) {
	return lazy(
		c,
		&c.loanRequestUseCaseInit,
		"loanRequestUseCase",
		&c.loanRequestUseCase,
		c.initLoanRequestUseCase,
	)
}

// EventProcessor returns the outbox event destination: Kafka when brokers are configured,
// the application log otherwise.
func (c *Container) EventProcessor() (outboxUsecase.EventProcessor, error) {
	return lazy(c, &c.eventProcessorInit, "eventProcessor", &c.eventProcessor, c.initEventProcessor)
}

// OutboxUseCase returns the outbox worker.
func (c *Container) OutboxUseCase() (outboxUsecase.UseCase, error) {
	return lazy(c, &c.outboxUseCaseInit, "outboxUseCase", &c.outboxUseCase, c.initOutboxUseCase)
}

// IdentityHandler returns the identity HTTP handler.
func (c *Container) IdentityHandler() (*identityHTTP.IdentityHandler, error) {
	return lazy(c, &c.identityHandlerInit, "identityHandler", &c.identityHandler, c.initIdentityHandler)
}

// LoanRequestHandler returns the loan request HTTP handler.
func (c *Container) LoanRequestHandler() (*loanHTTP.LoanRequestHandler, error) {
	return lazy(
		c,
		&c.loanRequestHandlerInit,
		"loanRequestHandler",
		&c.loanRequestHandler,
		c.initLoanRequestHandler,
	)
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	return lazy(c, &c.httpServerInit, "httpServer", &c.httpServer, c.initHTTPServer)
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return lazy(c, &c.metricsServerInit, "metricsServer", &c.metricsServer, c.initMetricsServer)
}

// Shutdown releases every initialized resource. Servers are expected to be stopped by their
// callers first; the database is closed last.
func (c *Container) Shutdown(ctx context.Context) error {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.kafkaPublisher != nil {
		if err := c.kafkaPublisher.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("kafka publisher close: %w", err))
		}
	}

	if c.dbStats != nil {
		if err := c.dbStats.Unregister(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("db stats unregister: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if provider != nil {
		registration, err := metrics.RegisterDBStats(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
			c.config.DBDriver,
			db,
		)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to register db stats: %w", err)
		}
		c.dbStats = registration
	}

	return db, nil
}

func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

func (c *Container) initIdentityRepository() (identityUsecase.IdentityRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for identity repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return identityRepository.NewPostgreSQLIdentityRepository(db), nil
	case database.DriverMySQL:
		return identityRepository.NewMySQLIdentityRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initLoanRequestRepository() (loanUsecase.LoanRequestRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for loan request repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return loanRepository.NewPostgreSQLLoanRequestRepository(db), nil
	case database.DriverMySQL:
		return loanRepository.NewMySQLLoanRequestRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initOutboxRepository() (outboxUsecase.OutboxEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return outboxRepository.NewPostgreSQLOutboxEventRepository(db), nil
	case database.DriverMySQL:
		return outboxRepository.NewMySQLOutboxEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initIdentityUseCase() (identityUsecase.IdentityUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for identity use case: %w", err)
	}

	identityRepo, err := c.IdentityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity repository for identity use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for identity use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for identity use case: %w", err)
	}

	useCase := identityUsecase.NewIdentityUseCase(txManager, identityRepo, outboxRepo)
	return identityUsecase.NewIdentityUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initLoanRequestUseCase() (loanUsecase.LoanRequestUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for loan request use case: %w", err)
	}

	identityUseCase, err := c.IdentityUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity use case for loan request use case: %w", err)
	}

	loanRequestRepo, err := c.LoanRequestRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get loan request repository for loan request use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for loan request use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for loan request use case: %w", err)
	}

	useCase := loanUsecase.NewLoanRequestUseCase(txManager, identityUseCase, loanRequestRepo, outboxRepo)
	return loanUsecase.NewLoanRequestUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initEventProcessor() (outboxUsecase.EventProcessor, error) {
	logger := c.Logger()

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for event processor: %w", err)
	}

	var processor outboxUsecase.EventProcessor
	if c.config.KafkaEnabled() {
		logger.Info("publishing outbox events to kafka",
			slog.Any("brokers", c.config.KafkaBrokers),
			slog.String("topic", c.config.KafkaTopic),
		)
		c.kafkaPublisher = publisher.NewKafkaPublisher(c.config.KafkaBrokers, c.config.KafkaTopic, logger)
		processor = c.kafkaPublisher
	} else {
		processor = outboxUsecase.NewLogEventProcessor(logger)
	}

	return outboxUsecase.NewEventProcessorWithMetrics(processor, businessMetrics), nil
}

func (c *Container) initOutboxUseCase() (outboxUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for outbox use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox use case: %w", err)
	}

	eventProcessor, err := c.EventProcessor()
	if err != nil {
		return nil, fmt.Errorf("failed to get event processor for outbox use case: %w", err)
	}

	useCaseConfig := outboxUsecase.Config{
		Interval:   c.config.WorkerInterval,
		BatchSize:  c.config.WorkerBatchSize,
		MaxRetries: c.config.WorkerMaxRetries,
	}

	return outboxUsecase.NewOutboxUseCase(useCaseConfig, txManager, outboxRepo, eventProcessor, c.Logger()), nil
}

func (c *Container) initIdentityHandler() (*identityHTTP.IdentityHandler, error) {
	useCase, err := c.IdentityUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity use case for identity handler: %w", err)
	}
	return identityHTTP.NewIdentityHandler(useCase, c.Logger()), nil
}

func (c *Container) initLoanRequestHandler() (*loanHTTP.LoanRequestHandler, error) {
	useCase, err := c.LoanRequestUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get loan request use case for loan request handler: %w", err)
	}
	return loanHTTP.NewLoanRequestHandler(useCase, c.Logger()), nil
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	identityHandler, err := c.IdentityHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity handler for http server: %w", err)
	}

	loanRequestHandler, err := c.LoanRequestHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get loan request handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(c.ctx, http.RouterConfig{
		CORSEnabled:          c.config.CORSEnabled,
		CORSAllowOrigins:     c.config.CORSAllowOrigins,
		RateLimitEnabled:     c.config.RateLimitEnabled,
		RateLimitRequestsSec: c.config.RateLimitRequestsPerSec,
		RateLimitBurst:       c.config.RateLimitBurst,
		MetricsProvider:      provider,
		MetricsNamespace:     c.config.MetricsNamespace,
	}, identityHandler, loanRequestHandler)

	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
