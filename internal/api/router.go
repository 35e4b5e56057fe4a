package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/starford/roamshare/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/discover", h.Discover)
	r.Post("/rewrite", h.Rewrite)
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/*", h.GetNote)

	return r
}
