// Package api exposes the draw engine as a read-only JSON API for the web front end.
// Handlers call the engine on every request; the only shared state is the history,
// which is never mutated after the server is built.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/rewired-gh/draworacle/internal/analysis"
	"github.com/rewired-gh/draworacle/internal/config"
	"github.com/rewired-gh/draworacle/internal/models"
)

// Options holds server dependencies
type Options struct {
	History   models.History
	Analysis  config.AnalysisConfig
	Server    config.ServerConfig
	PageSize  int
	Predictor *analysis.Predictor // its source must be safe for concurrent use
	Log       zerolog.Logger
	Now       func() time.Time
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	history   models.History
	analysis  config.AnalysisConfig
	pageSize  int
	predictor *analysis.Predictor
	now       func() time.Time
}

// New creates a new HTTP server
func New(opts Options) *Server {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		router:    chi.NewRouter(),
		log:       opts.Log.With().Str("component", "api").Logger(),
		history:   opts.History,
		analysis:  opts.Analysis,
		pageSize:  opts.PageSize,
		predictor: opts.Predictor,
		now:       now,
	}

	s.setupMiddleware(opts.Server.AllowedOrigins)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         opts.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  opts.Server.ReadTimeout,
		WriteTimeout: opts.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/dashboard", s.handleDashboard)

		r.Route("/draws", func(r chi.Router) {
			r.Get("/", s.handleDraws)
			r.Get("/latest", s.handleLatest)
		})

		r.Get("/frequency", s.handleFrequency)
		r.Get("/hotcold", s.handleHotCold)
		r.Get("/predict", s.handlePredict)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Int("draws", len(s.history)).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
