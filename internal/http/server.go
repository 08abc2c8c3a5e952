// Package http wires the public REST API: router, middleware chain, health probes and the
// separate Prometheus metrics server.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityHTTP "github.com/allisson/loans/internal/identity/http"
	loanHTTP "github.com/allisson/loans/internal/loan/http"
	"github.com/allisson/loans/internal/metrics"
)

const readinessTimeout = 2 * time.Second

// Server is the API HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// RouterConfig carries the optional middleware settings for SetupRouter.
type RouterConfig struct {
	CORSEnabled          bool
	CORSAllowOrigins     string
	RateLimitEnabled     bool
	RateLimitRequestsSec float64
	RateLimitBurst       int
	MetricsProvider      *metrics.Provider
	MetricsNamespace     string
}

// NewServer creates a Server. The router is built later by SetupRouter; db is pinged by /ready.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with the middleware chain and every API route.
// ctx bounds background work started by middleware such as the rate limiter cleanup.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg RouterConfig,
	identityHandler *identityHTTP.IdentityHandler,
	loanRequestHandler *loanHTTP.LoanRequestHandler,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsSec, cfg.RateLimitBurst, s.logger))
	}

	identities := v1.Group("/identities")
	{
		identities.POST("", identityHandler.CreateHandler)
		identities.GET("", identityHandler.ListHandler)
		identities.GET("/:id", identityHandler.GetHandler)
		identities.PUT("/:id", identityHandler.UpdateHandler)
		identities.DELETE("/:id", identityHandler.DeleteHandler)
	}

	loanRequests := v1.Group("/loan-requests")
	{
		loanRequests.POST("", loanRequestHandler.CreateHandler)
		loanRequests.GET("", loanRequestHandler.ListHandler)
		loanRequests.GET("/:id", loanRequestHandler.GetHandler)
		loanRequests.PATCH("/:id/status", loanRequestHandler.UpdateStatusHandler)
	}

	s.router = router
}

// GetHandler returns the configured router, or nil before SetupRouter.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// Start serves the router until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		s.notReady(c, nil)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.notReady(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}

func (s *Server) notReady(c *gin.Context, err error) {
	if err != nil {
		s.logger.Warn("database ping failed", slog.Any("error", err))
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":     "not_ready",
		"components": gin.H{"database": "error"},
	})
}
