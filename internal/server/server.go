package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/transcheck/internal/translators"
)

// Server serves the repository's translators to the extension under test
type Server struct {
	catalog *translators.Catalog
	logger  arbor.ILogger
	router  *http.ServeMux
	server  *http.Server
}

// New creates a translator server listening on host:port
func New(catalog *translators.Catalog, host string, port int, logger arbor.ILogger) *Server {
	s := &Server{
		catalog: catalog,
		logger:  logger,
	}

	s.router = s.setupRoutes()

	s.server = &http.Server{
		Addr:         net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		Handler:      s.withMiddleware(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the server's HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Int("translators", s.catalog.Len()).
		Msg("Translator server starting")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("translator server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Debug().Msg("Shutting down translator server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("translator server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("Translator server stopped")
	return nil
}

// WaitReady polls baseURL/status until the server answers 200 or timeout elapses
func WaitReady(ctx context.Context, baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}

	for time.Now().Before(deadline) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/status", nil)
		if err != nil {
			return fmt.Errorf("failed to build readiness request: %w", err)
		}

		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	return fmt.Errorf("translator server did not become ready within %v", timeout)
}
