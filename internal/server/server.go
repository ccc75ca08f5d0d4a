// Package server exposes the selector over a small JSON HTTP API. Every
// request reads the state file; mutations go through the store lock, so the
// API and the CLI can work on the same state concurrently.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kamusis/socsel/internal/report"
	"github.com/kamusis/socsel/internal/store"
)

// Options configures a Server.
type Options struct {
	StatePath   string
	LockTimeout time.Duration
	Locale      string
}

// Server is the HTTP front end of socsel serve.
type Server struct {
	opts      Options
	formatter *report.Formatter
	router    *chi.Mux

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// New builds a Server with its routes.
func New(opts Options) *Server {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = store.DefaultLockTimeout
	}
	s := &Server{
		opts:      opts,
		formatter: report.NewFormatter(opts.Locale),
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/requirements", s.handleRequirements)
		r.Get("/match", s.handleMatch)
		r.Get("/report", s.handleReport)
		r.Get("/socs/{id}/utilization", s.handleUtilization)

		r.Post("/selection/{id}", s.handleToggle)
		r.Delete("/selection", s.handleClearSelection)
	})
}

// ServeHTTP lets the server be mounted or driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.server = srv
	s.mu.Unlock()

	slog.Info("starting server", "addr", addr, "state", s.opts.StatePath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.closed = true
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
