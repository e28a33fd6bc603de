// Package server is the HTTP surface of the plan generator: JSON handlers
// over the engine plus plan persistence.
package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/stride/internal/library"
	"github.com/claude/stride/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers. db may be nil in dev; plan
// generation then runs without persistence.
type Server struct {
	db     *storage.DB
	lib    *library.Catalog
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, lib *library.Catalog, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		lib:    lib,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read-only engine endpoints (no auth)
	s.router.Get("/api/v1/health", s.handleHealth)
	s.router.Get("/api/v1/paces", s.handlePaces)
	s.router.Post("/api/v1/phases/preview", s.handlePhasePreview)
	s.router.Get("/api/v1/templates", s.handleTemplates)

	// Plan store
	s.router.Route("/api/v1/plans", func(r chi.Router) {
		r.Get("/", s.handleListPlans)
		r.Get("/{id}", s.handleGetPlan)

		// Mutations require the API key
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/", s.handleCreatePlan)
			r.Delete("/{id}", s.handleDeletePlan)
		})
	})
}
