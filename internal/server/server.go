package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/server/handler"
	"github.com/bichocore/settler/internal/server/middleware"
	"github.com/bichocore/settler/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port            int
	CORSOrigins     []string
	APIKey          string // if empty, authentication is disabled
	RateLimit       int    // requests per window per client IP; 0 disables
	RateLimitWindow time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health     *handler.HealthHandler
	Wagers     *handler.WagerHandler
	Results    *handler.ResultsHandler
	Schedules  *handler.ScheduleHandler
	Settlement *handler.SettlementHandler
}

// Server is the HTTP + WebSocket API for the settlement engine.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (logging, CORS, auth, optional rate limiting) and
// attaches the WebSocket hub.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check (no auth required).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Wager endpoints.
	mux.HandleFunc("POST /api/wagers", handlers.Wagers.Place)
	mux.HandleFunc("GET /api/wagers", handlers.Wagers.List)
	mux.HandleFunc("GET /api/wagers/{id}", handlers.Wagers.Get)
	mux.HandleFunc("GET /api/users/{id}/ledger", handlers.Wagers.Ledger)

	// Official results.
	mux.HandleFunc("GET /api/results", handlers.Results.Get)

	// Draw schedules.
	mux.HandleFunc("GET /api/schedules", handlers.Schedules.List)
	mux.HandleFunc("GET /api/schedules/windows", handlers.Schedules.Windows)

	// Settlement endpoints.
	mux.HandleFunc("GET /api/settlement/stats", handlers.Settlement.Stats)
	mux.HandleFunc("GET /api/settlement/diagnostics", handlers.Settlement.Diagnostics)
	mux.HandleFunc("POST /api/settlement/run", handlers.Settlement.Run)
	mux.HandleFunc("POST /api/settlement/external-callback", handlers.Settlement.ExternalCallback)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Build the middleware chain.
	var h http.Handler = mux

	// Auth first so unauthorized requests never reach handlers.
	h = middleware.Auth(cfg.APIKey)(h)

	if limiter != nil && cfg.RateLimit > 0 {
		window := cfg.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		h = middleware.RateLimit(limiter, cfg.RateLimit, window)(h)
	}

	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute, // manual settlement runs block on upstream fetches
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
