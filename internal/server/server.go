// Package server exposes the read-only status API for a running strategy.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/rebalance"
	"github.com/akastanis/holdwise/internal/strategy"
)

// Server is the HTTP status API.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	strategy  *strategy.Service
	rebalance *rebalance.Scheduler
	log       zerolog.Logger
}

// New creates a server bound to the given port.
func New(port int, svc *strategy.Service, reb *rebalance.Scheduler, log zerolog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		strategy:  svc,
		rebalance: reb,
		log:       log.With().Str("component", "server").Logger(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/positions", s.handlePositions)
		r.Get("/performance", s.handlePerformance)
	})
}

// Start begins serving. It blocks until the listener fails or Shutdown is
// called; a clean shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Status API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down status API")
	return s.server.Shutdown(ctx)
}

// Router exposes the mux for tests.
func (s *Server) Router() http.Handler { return s.router }
