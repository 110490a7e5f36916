// Package server exposes the stripper over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/aleister1102/urlstripper/internal/config"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// Server runs the echo router on the configured address.
type Server struct {
	cfg    config.ServerConfig
	echo   *echo.Echo
	logger zerolog.Logger
}

// NewServer wraps router with the listen address and timeouts of cfg.
func NewServer(cfg config.ServerConfig, router *echo.Echo, logger zerolog.Logger) *Server {
	router.Server.ReadTimeout = cfg.ReadTimeout()
	router.Server.WriteTimeout = cfg.WriteTimeout()
	return &Server{
		cfg:    cfg,
		echo:   router,
		logger: logger.With().Str("component", "Server").Logger(),
	}
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.echo.Listener = listener

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", listener.Addr().String()).Msg("HTTP server listening")
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
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
	s.logger.Info().Msg("Shutting down HTTP server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
