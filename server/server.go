// Package server exposes a running simulation over HTTP: JSON snapshots and
// stats, a websocket snapshot stream and Prometheus metrics. It only reads
// published snapshots and never mutates simulation state.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pthm-cable/cellsoup/config"
	"github.com/pthm-cable/cellsoup/telemetry"
)

// Server combines the router, websocket hub and metrics.
type Server struct {
	cfg     config.ServerConfig
	source  Source
	router  *chi.Mux
	hub     *Hub
	limiter *IPRateLimiter
	metrics *Metrics

	window atomic.Pointer[telemetry.WindowStats]
}

// New builds a server. Background work starts in Start.
func New(cfg config.ServerConfig, src Source, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	s := &Server{
		cfg:     cfg,
		source:  src,
		metrics: metrics,
		hub:     NewHub(cfg.CORSOrigins, metrics),
	}

	rc := DefaultRateLimitConfig
	if cfg.RequestsPerSecond > 0 {
		rc.RequestsPerSecond = cfg.RequestsPerSecond
	}
	if cfg.Burst > 0 {
		rc.Burst = cfg.Burst
	}
	s.limiter = NewIPRateLimiter(rc)

	s.router = NewRouter(RouterConfig{
		Source:      src,
		Metrics:     metrics,
		Hub:         s.hub,
		Window:      s.Window,
		RateLimiter: s.limiter,
		CORSOrigins: cfg.CORSOrigins,
	})
	return s
}

// RecordStats stores a flushed stats window. It is meant to be passed as
// game.Options.StatsCallback and is safe to call from the simulation goroutine.
func (s *Server) RecordStats(w telemetry.WindowStats) {
	s.window.Store(&w)
	s.metrics.ObserveWindow(w)
}

// Window returns the latest stats window, or nil.
func (s *Server) Window() *telemetry.WindowStats {
	return s.window.Load()
}

// Router returns the HTTP handler, for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start runs the hub, the broadcast loop and the HTTP listener until ctx is
// done, then shuts the listener down.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	interval := time.Duration(s.cfg.BroadcastInterval * float64(time.Second))
	s.hub.StartBroadcastLoop(ctx, s.source, interval)
	go s.observe(ctx, interval)

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_started", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.limiter.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.limiter.Stop()
	if err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// observe refreshes snapshot gauges.
func (s *Server) observe(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.metrics.ObserveSnapshot(s.source.Snapshot())
		}
	}
}

// Stop releases the rate limiter. Start's context controls everything else.
func (s *Server) Stop() {
	s.limiter.Stop()
}
