package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pthm-cable/cellsoup/game"
	"github.com/pthm-cable/cellsoup/telemetry"
)

// Source is the read side of a running simulation.
type Source interface {
	// Snapshot returns the latest published snapshot, or nil.
	Snapshot() *game.Snapshot
}

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Source  Source   // required
	Metrics *Metrics // nil disables /metrics
	Hub     *Hub     // nil disables /ws

	// Window returns the latest stats window, or nil before the first flush.
	Window func() *telemetry.WindowStats

	// RateLimiter is used as is when set; otherwise one is built from
	// RateLimitConfig, or DefaultRateLimitConfig when that is nil too.
	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig

	CORSOrigins    []string
	DisableLogging bool
}

// NewRouter builds the router. It starts no goroutines other than the rate
// limiter's cleanup loop when it has to create a limiter.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	limiter := cfg.RateLimiter
	if limiter == nil {
		rc := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rc = *cfg.RateLimitConfig
		}
		limiter = NewIPRateLimiter(rc)
	}
	if cfg.Metrics != nil && limiter.onReject == nil {
		limiter.onReject = func() { cfg.Metrics.recordRejected("rate_limit") }
	}
	r.Use(limiter.Middleware)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	window := cfg.Window
	if window == nil {
		window = func() *telemetry.WindowStats { return nil }
	}
	h := &handlers{source: cfg.Source, window: window}

	r.Get("/healthz", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", h.handleStats)
		r.Get("/agents", h.handleAgents)
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}
	if cfg.Hub != nil {
		r.Get("/ws", cfg.Hub.HandleWebSocket)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return r
}
