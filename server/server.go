// Package server exposes visualization sessions over HTTP. Each
// WebSocket connection gets its own session: one graph, one simulation
// loop, one tooltip, all torn down with the connection.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/papergraph/papergraph/interact"
	"github.com/papergraph/papergraph/models"
	"github.com/papergraph/papergraph/physics"
	"github.com/papergraph/papergraph/render"
)

// Config carries the per-session component configuration.
type Config struct {
	Physics  physics.Config
	Interact interact.Config
	Render   render.Options
	Registry *models.TypeRegistry
}

// Server hosts visualization sessions.
type Server struct {
	cfg      Config
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New creates a server. A nil registry falls back to the default
// styling.
func New(cfg Config, logger *zap.Logger) *Server {
	if cfg.Registry == nil {
		cfg.Registry = models.DefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1 << 20,
			WriteBufferSize: 1 << 20,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return mux
}

// handleSession upgrades the connection and runs a session until the
// peer disconnects or asks to stop.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade websocket", zap.Error(err))
		return
	}

	sess := newSession(conn, &s.cfg, s.logger)
	sess.notify(serverMsg{Op: "session", Session: sess.id})
	go sess.readPump()
	sess.run()
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}
