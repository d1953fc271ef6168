// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves the rendered bot page and its operational endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ngsim/botindex/internal/api/middleware"
	"github.com/ngsim/botindex/internal/config"
	"github.com/ngsim/botindex/internal/health"
	"github.com/ngsim/botindex/internal/log"
	"github.com/ngsim/botindex/internal/site"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// PageSource supplies the latest published build.
type PageSource interface {
	Current() *site.Result
}

// Config holds the HTTP server settings.
type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPM    int
	// Service names the tracing instrumentation. Empty disables tracing.
	Service string
}

// ConfigFrom derives server settings from the application config.
func ConfigFrom(app config.AppConfig) Config {
	cfg := Config{
		ListenAddr:      app.Server.ListenAddr,
		ReadTimeout:     app.Server.ReadTimeout,
		WriteTimeout:    app.Server.WriteTimeout,
		IdleTimeout:     app.Server.IdleTimeout,
		ShutdownTimeout: app.Server.ShutdownTimeout,
		RateLimitRPM:    app.Server.RateLimitRPM,
	}
	if app.Telemetry.Enabled {
		cfg.Service = app.TelemetrySettings().ServiceName
	}
	return cfg
}

// Server is the botindex HTTP server.
type Server struct {
	cfg    Config
	pages  PageSource
	health *health.Manager
	router *chi.Mux
	logger zerolog.Logger

	mu   sync.Mutex
	addr net.Addr
}

// New wires routes and middleware. It does not listen yet.
func New(cfg Config, pages PageSource, hm *health.Manager) *Server {
	s := &Server{
		cfg:    cfg,
		pages:  pages,
		health: hm,
		logger: log.WithComponent("api"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *chi.Mux {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        s.cfg.Service,
		EnableLogging:         true,
		RateLimitRPM:          s.cfg.RateLimitRPM,
	})

	r.Get("/", s.handleIndex)
	r.Head("/", s.handleIndex)
	r.Get("/api/bots", s.handleBots)
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr reports the bound address once Start is listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start listens and serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str(log.FieldEvent, "http.listening").
			Str("addr", ln.Addr().String()).
			Msg("HTTP server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Str(log.FieldEvent, "http.shutdown").Msg("shutting down HTTP server")
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
