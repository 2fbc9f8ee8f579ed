package transport

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
	httptransport "github.com/diavgeia-watch/diavgeia/core/infrastructure/transport/http"
)

// Server owns the HTTP facade and its shutdown signal
type Server struct {
	httpServer     *httptransport.Server
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewServer creates a new server
func NewServer(opts httptransport.Options) *Server {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	return &Server{
		httpServer:     httptransport.NewServer(opts),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}
}

// RegisterRoutes registers HTTP routes
func (s *Server) RegisterRoutes(cfg httptransport.RouteConfig) {
	httptransport.RegisterRoutes(s.httpServer.Router(), cfg)
	s.httpServer.SetShutdownFunc(s.shutdownCancel)
}

// Done is closed when the server begins shutting down
func (s *Server) Done() <-chan struct{} {
	return s.shutdownCtx.Done()
}

// Run starts the server and blocks until ctx is cancelled or the process
// receives SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.httpServer.Start(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-ctx.Done():
	case <-quit:
	case <-s.shutdownCtx.Done():
	}
	return s.Stop()
}

// Stop stops the server gracefully
func (s *Server) Stop() error {
	log := logging.New("server")
	log.Infof("Shutting down server")

	if err := s.httpServer.Stop(); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	log.Infof("Server stopped")
	return nil
}
