package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/finsense/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	Handler *Handler
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewRouter creates the HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	h := cfg.Handler
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Ingest)
			r.Post("/batch", h.IngestBatch)
			r.Get("/summary", h.Summary)
			r.Post("/reset", h.ResetAll)
			r.Get("/{id}", h.Get)
			r.Post("/{id}/approve", h.Approve)
			r.Post("/{id}/recategorize", h.Recategorize)
			r.Post("/{id}/reset", h.Reset)
			r.Get("/{id}/history", h.History)
		})

		r.Get("/categories", h.Categories)

		r.Route("/session", func(r chi.Router) {
			r.Get("/flags", h.GetFlags)
			r.Put("/flags", h.PutFlags)
			r.Post("/complete", h.Complete)
		})

		r.Post("/demo/reset", h.ResetDemo)
	})

	return r
}

// NewServer wraps handler in an http.Server with conservative timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()))
		})
	}
}
