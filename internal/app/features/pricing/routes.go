package pricing

import (
	"net/http"

	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/go-chi/chi/v5"
)

// AdminRoutes mounts at /api/admin/pricing.
//
//   - GET    /                                 - the table as stored
//   - GET    /countries                        - country codes
//   - GET    /countries/{code}                 - one country
//   - PUT    /countries/{code}                 - add or update a country
//   - DELETE /countries/{code}                 - remove a country and its plans
//   - POST   /countries/{code}/plans           - add a plan
//   - PUT    /countries/{code}/plans/{planID}  - update a plan
//   - DELETE /countries/{code}/plans/{planID}  - remove a plan
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.all)
	r.Route("/countries", func(r chi.Router) {
		r.Get("/", h.countries)
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", h.country)
			r.Put("/", h.upsertCountry)
			r.Delete("/", h.deleteCountry)
			r.Post("/plans", h.savePlan)
			r.Put("/plans/{planID}", h.savePlan)
			r.Delete("/plans/{planID}", h.deletePlan)
		})
	})
	return r
}

// PublicRoutes mounts at /api/site/pricing and serves plans sorted by price.
func PublicRoutes(h *Handler, cache *revalidate.Cache) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/", cache.Handler(func(*http.Request) string {
		return "/pricing"
	}, http.HandlerFunc(h.display)))
	return r
}
