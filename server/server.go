// Package server exposes the rate engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/spektr-org/ratelens/config"
	"github.com/spektr-org/ratelens/engine"
	"github.com/spektr-org/ratelens/fallback"
	"github.com/spektr-org/ratelens/ingest"
	"github.com/spektr-org/ratelens/intent"
)

// Server holds the shared state behind the HTTP routes.
type Server struct {
	cfg       config.ServerConfig
	store     *engine.Store
	router    *intent.Router
	loader    *ingest.Loader
	responder fallback.Responder
	log       *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithResponder sets the fallback for unrecognized questions.
// Without one, such questions get fallback.Canned.
func WithResponder(r fallback.Responder) Option {
	return func(s *Server) { s.responder = r }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRouter replaces the default intent router.
func WithRouter(r *intent.Router) Option {
	return func(s *Server) {
		if r != nil {
			s.router = r
		}
	}
}

// New creates a server around store. The store may already hold a dataset.
func New(cfg config.ServerConfig, store *engine.Store, opts ...Option) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.router == nil {
		s.router = intent.NewRouter(intent.WithLogger(s.log))
	}
	s.loader = ingest.NewLoader(s.log)
	return s
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/chat", s.chat())
	r.Post("/upload", s.upload())
	r.Post("/chart", s.chart())
	r.Get("/summary", s.summary())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found.")
	})
	return r
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("🚀 server listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("🛑 server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("requestId", middleware.GetReqID(r.Context())),
		)
	})
}

// ============================================================================
// RESPONSE HELPERS
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
