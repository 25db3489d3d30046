// Package http exposes the ingest and read API for the signal engine.
package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/courtside/internal/domain"
)

// DeltaProcessor applies an inbound game delta and returns the merged
// snapshot plus any corrections the reducer emitted.
type DeltaProcessor interface {
	HandleDelta(ctx context.Context, delta domain.GameDelta) (*domain.GameSnapshot, []domain.CorrectionNote, error)
}

// SignalSource lists currently active signals.
type SignalSource interface {
	AllActive() []*domain.Signal
}

// GameSource reads merged game snapshots.
type GameSource interface {
	Get(ctx context.Context, gameID string) (*domain.GameSnapshot, error)
	List(ctx context.Context) ([]*domain.GameSnapshot, error)
}

// Server is the ingest HTTP server.
type Server struct {
	router   *mux.Router
	server   *http.Server
	handlers *Handlers
	config   ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// DefaultServerConfig returns default server configuration.
func DefaultServerConfig() ServerConfig {
	port := 8080
	if portStr := os.Getenv("HTTP_PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	return ServerConfig{
		Host:           "127.0.0.1", // Local-only by default
		Port:           port,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		RateLimitRPS:   20,
		RateLimitBurst: 40,
	}
}

// NewServer creates a new HTTP server instance.
func NewServer(config ServerConfig, handlers *Handlers) (*Server, error) {
	// Check if port is available
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("port %d is busy or unavailable: %w", config.Port, err)
	}
	listener.Close()

	server := &Server{
		router:   mux.NewRouter(),
		handlers: handlers,
		config:   config,
	}
	server.setupRoutes()

	server.server = &http.Server{
		Addr:         addr,
		Handler:      server.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Middleware for all routes
	s.router.Use(requestIDMiddleware)
	s.router.Use(requestLoggingMiddleware)
	s.router.Use(timeoutMiddleware)

	// Metrics in exposition format, outside the JSON subrouter
	if s.handlers.metrics != nil {
		s.router.Handle("/metrics", s.handlers.metrics.Handler()).Methods("GET")
	}

	// API routes (JSON only)
	api := s.router.PathPrefix("/").Subrouter()
	api.Use(jsonContentTypeMiddleware)

	// Delta ingest, rate limited per client
	ingest := api.PathPrefix("/ingest").Subrouter()
	ingest.Use(rateLimitMiddleware(s.config.RateLimitRPS, s.config.RateLimitBurst))
	ingest.HandleFunc("/delta", s.handlers.IngestDelta).Methods("POST")

	api.HandleFunc("/health", s.handlers.Health).Methods("GET")
	api.HandleFunc("/signals/active", s.handlers.ActiveSignals).Methods("GET")
	api.HandleFunc("/games", s.handlers.Games).Methods("GET")
	api.HandleFunc("/games/{gameID}", s.handlers.Game).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(s.handlers.NotFound)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Info().Str("addr", s.GetAddress()).Msg("Starting ingest HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// GetAddress returns the server address.
func (s *Server) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Router exposes the mux router for tests.
func (s *Server) Router() http.Handler { return s.router }
