package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ankit1478/LLM-Internals/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted.
// Reads are public. authEnabled controls whether Bearer token auth is
// enforced on the admin routes.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *docservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Articles and navigation.
	r.Get("/articles", h.ListArticles)
	r.Get("/articles/{slug}", h.GetArticle)
	r.Get("/roadmap", h.Roadmap)
	r.Get("/modules/{module}/topics", h.ModuleTopics)

	// Search.
	r.Get("/search", h.Search)

	// Admin.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Post("/admin/reload", h.Reload)
	})

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// MountHealth registers the liveness and readiness probes on r.
func MountHealth(r chi.Router, svc *docservice.Service) {
	h := NewHandler(svc)
	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)
}
