package posts

import (
	"net/http"

	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns the editing endpoints.
//
// When mounted at /api/admin/posts:
//   - GET    /api/admin/posts      - list posts
//   - POST   /api/admin/posts      - create (multipart with an image file or imageUrl)
//   - GET    /api/admin/posts/{id} - one post
//   - PUT    /api/admin/posts/{id} - partial update; absent fields are kept
//   - DELETE /api/admin/posts/{id} - delete
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

// PublicRoutes returns the read API, cached under the blog page routes so
// a post change drops exactly the responses it affects.
func PublicRoutes(h *Handler, cache *revalidate.Cache) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/", cache.Handler(func(*http.Request) string {
		return "/blog"
	}, http.HandlerFunc(h.publicList)))
	r.Method(http.MethodGet, "/{slug}", cache.Handler(func(r *http.Request) string {
		return "/blog/" + chi.URLParam(r, "slug")
	}, http.HandlerFunc(h.publicShow)))
	return r
}
