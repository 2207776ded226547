package projects

import (
	"net/http"

	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/go-chi/chi/v5"
)

// AdminRoutes mounts at /api/admin/projects. Requirements is a comma list.
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

// PublicRoutes mounts at /api/site/projects.
func PublicRoutes(h *Handler, cache *revalidate.Cache) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/", cache.Handler(func(*http.Request) string {
		return "/portfolio"
	}, http.HandlerFunc(h.list)))
	r.Method(http.MethodGet, "/{slug}", cache.Handler(func(r *http.Request) string {
		return "/portfolio/" + chi.URLParam(r, "slug")
	}, http.HandlerFunc(h.publicShow)))
	return r
}
