package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/dgallion1/policyquery/internal/config"
	"github.com/dgallion1/policyquery/internal/dispatch"
	"github.com/dgallion1/policyquery/internal/stats"
)

// QueryService answers a question batch against an optional document locator.
// It never fails; the bool reports whether the results are degraded (served
// by the local fallback responder).
type QueryService interface {
	ProcessQueries(ctx context.Context, questions []string, documentURL string) ([]dispatch.QueryResult, bool)
}

// Server is the HTTP API server for policyquery.
type Server struct {
	router     chi.Router
	dispatcher QueryService
	stats      *stats.QueryStats
	validate   *validator.Validate
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(dispatcher QueryService, qs *stats.QueryStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		dispatcher: dispatcher,
		stats:      qs,
		validate:   validator.New(),
		log:        log,
		cfg:        cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.PolicyQueryAPIKey, s.log))

		r.Post("/api/query", s.handleQuery)
		r.Get("/api/stats/queries", s.handleQueryStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
