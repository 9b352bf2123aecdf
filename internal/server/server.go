// Package server exposes jsondelta's comparison and formatting operations over
// HTTP. Every JSON response is wrapped in a {success, message, data,
// timestamp} envelope; report exports are the one exception and return the
// rendered report body directly.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mcncl/jsondelta/internal/compare"
	"github.com/mcncl/jsondelta/internal/report"
)

const (
	// ServiceName is reported by the health endpoint
	ServiceName = "jsondelta"

	// DefaultAddr is where Start listens when no address is configured
	DefaultAddr = ":8080"

	maxBodySize     = 32 << 20
	shutdownTimeout = 10 * time.Second
)

// Server is the HTTP API
type Server struct {
	addr     string
	router   chi.Router
	logger   *log.Logger
	comparer compare.Comparer
	reports  *report.Generator
	version  string
	now      func() time.Time
}

// Option configures a Server
type Option func(*Server)

// WithComparer replaces the comparer behind /api/compare
func WithComparer(c compare.Comparer) Option {
	return func(s *Server) {
		if c != nil {
			s.comparer = c
		}
	}
}

// WithLogger sets the request logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported by /api/health and report metadata
func WithVersion(version string) Option {
	return func(s *Server) {
		if version != "" {
			s.version = version
		}
	}
}

// WithClock overrides the time source used for envelope timestamps and reports
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a server listening on addr once started
func New(addr string, opts ...Option) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		addr:    addr,
		logger:  log.Default(),
		version: report.DefaultVersion,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.comparer == nil {
		s.comparer = compare.NewLocal(s.logger)
	}
	s.reports = report.NewGenerator(report.WithClock(s.now), report.WithVersion(s.version))
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		r.Post("/compare", s.handleCompare)
		r.Post("/validate", s.handleValidate)
		r.Post("/format", s.handleFormat)
		r.Post("/compress", s.handleCompress)
		r.Post("/convert", s.handleConvert)
		r.Post("/export", s.handleExport)
		r.Get("/samples/{type}", s.handleSample)
		r.Get("/health", s.handleHealth)
	})
	return r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("failed to start server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
