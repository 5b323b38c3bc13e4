// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the analyzer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"legallens/internal/analysis"
	"legallens/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Analyzer produces a result for one uploaded document.
type Analyzer interface {
	Analyze(ctx context.Context, upload analysis.Upload) (*analysis.Result, error)
}

// Server is the analyzer HTTP service.
type Server struct {
	cfg      config.ServerConfig
	analyzer Analyzer
	logger   *zap.Logger
	results  *cache.Cache
	router   chi.Router
	started  time.Time
}

// New builds the router. A zero CacheTTL disables result caching.
func New(cfg config.ServerConfig, analyzer Analyzer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   logger.Named("server"),
		started:  time.Now(),
	}
	if cfg.CacheTTL > 0 {
		s.results = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		// OPTIONS /analyze answers with its own body.
		OptionsPassthrough: true,
		MaxAge:             300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/analyze", s.handleAnalyzeInfo)
	r.Options("/analyze", s.handleAnalyzeOptions)
	r.Group(func(r chi.Router) {
		if s.cfg.MaxConcurrent > 0 {
			// Excess uploads wait for a slot, and get 429 if none frees up in time.
			r.Use(middleware.ThrottleBacklog(s.cfg.MaxConcurrent, 4*s.cfg.MaxConcurrent, time.Minute))
		}
		r.Post("/analyze", s.handleAnalyze)
	})
	return r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer returns an http.Server configured with the service timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := s.HTTPServer()
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("LegalLens analyzer listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down analyzer", zap.Duration("timeout", timeout))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
