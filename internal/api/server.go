package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"nivix-bridge-go/internal/models"

	"go.uber.org/zap"
)

// Server represents the HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
}

// NewServer constructs a Server instance using the provided router.
func NewServer(cfg models.ServerConfig, handler http.Handler) *Server {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{httpServer: httpServer}
}

// Start begins listening for HTTP traffic.
func (s *Server) Start() error {
	zap.L().Info("Starting http server", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully terminates all active connections.
func (s *Server) Shutdown(ctx context.Context) error {
	zap.L().Info("Shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
