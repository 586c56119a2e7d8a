package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinvar-diff-reconciler/internal/domain"
	"github.com/clinvar-diff-reconciler/internal/middleware"
)

// Reconciler runs one assay's diff through the pipeline
type Reconciler interface {
	Reconcile(ctx context.Context, assay string, in io.Reader) (*domain.AssayResult, error)
}

// Server represents the HTTP server
type Server struct {
	config     domain.ServerConfig
	logger     *logrus.Logger
	reconciler Reconciler
	results    domain.ResultStore
	router     *gin.Engine
	server     *http.Server
}

// NewServer creates a new HTTP server instance. results may be nil when no
// queryable sink is configured; the runs endpoint then answers 404.
func NewServer(config domain.ServerConfig, logger *logrus.Logger, reconciler Reconciler, results domain.ResultStore) *Server {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodyLimit(config.MaxBodyBytes))
	router.Use(middleware.RequestTimeout(config.RequestTimeout))

	server := &Server{
		config:     config,
		logger:     logger,
		reconciler: reconciler,
		results:    results,
		router:     router,
	}

	server.setupRoutes()

	return server
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving HTTP: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/reconcile", s.handleReconcile)
		v1.GET("/runs/:assay", s.handleLatestRun)
	}
}
