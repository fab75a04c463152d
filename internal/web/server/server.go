// Package server runs the transpiler API with production timeouts and
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Config holds server settings
type Config struct {
	Address           string
	Handler           http.Handler
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	Logger            *zap.Logger
}

// DefaultConfig returns production defaults for handler
func DefaultConfig(handler http.Handler) *Config {
	return &Config{
		Address:           "localhost:5080",
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   30 * time.Second,
	}
}

// ShutdownHook runs after the server stops accepting requests
type ShutdownHook func(ctx context.Context) error

// Server wraps http.Server
type Server struct {
	httpServer *http.Server
	config     *Config
	logger     *zap.Logger
	hooks      []ShutdownHook
	listener   net.Listener
	ready      chan struct{}
}

// New creates a server from config
func New(config *Config) (*Server, error) {
	if config == nil {
		return nil, errors.New("server config cannot be nil")
	}
	if config.Handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              config.Address,
			Handler:           config.Handler,
			ReadTimeout:       config.ReadTimeout,
			WriteTimeout:      config.WriteTimeout,
			IdleTimeout:       config.IdleTimeout,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
		},
		config: config,
		logger: logger,
		ready:  make(chan struct{}),
	}, nil
}

// OnShutdown registers a hook run during Run's shutdown, in order
func (s *Server) OnShutdown(hook ShutdownHook) {
	s.hooks = append(s.hooks, hook)
}

// Ready is closed once the server is listening
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address once listening, else the configured one
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Address
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// ShutdownTimeout and runs the shutdown hooks
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address, err)
	}
	s.listener = listener
	close(s.ready)

	s.logger.Info("server listening", zap.String("addr", s.Addr()))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down", zap.Duration("timeout", timeout))

	var shutdownErr error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		shutdownErr = fmt.Errorf("server shutdown error: %w", err)
	}

	for i, hook := range s.hooks {
		if err := hook(shutdownCtx); err != nil {
			s.logger.Warn("shutdown hook failed", zap.Int("hook", i), zap.Error(err))
		}
	}

	<-errCh
	s.logger.Info("server stopped")
	return shutdownErr
}
