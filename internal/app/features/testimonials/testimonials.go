// Package testimonials serves client quotes.
package testimonials

import (
	"net/http"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	testimonialstore "github.com/dalemusser/wavesite/internal/app/store/testimonials"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/formutil"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/dalemusser/wavesite/internal/app/system/uploads"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	store       *testimonialstore.Store
	images      *uploads.Images
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

func NewHandler(store *testimonialstore.Store, images *uploads.Images, auditLogger *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, images: images, auditLogger: auditLogger, errLog: errLog, logger: logger}
}

// AdminRoutes mounts at /api/admin/testimonials.
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

// PublicRoutes mounts at /api/site/testimonials. Quotes appear on the home
// page, so responses are cached under "/".
func PublicRoutes(h *Handler, cache *revalidate.Cache) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/", cache.Handler(func(*http.Request) string {
		return "/"
	}, http.HandlerFunc(h.list)))
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.All(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to list testimonials", err)
		return
	}
	jsonutil.OK(w, all)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to load testimonial", err)
		return
	}
	jsonutil.OK(w, t)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	f, err := formutil.Parse(w, r, formutil.MaxUploadSize)
	if err != nil {
		h.errLog.Write(w, r, "failed to parse testimonial form", err)
		return
	}
	img, err := h.images.Stage(r)
	if err != nil {
		h.errLog.Write(w, r, "failed to store testimonial photo", err)
		return
	}
	image := img.ImageURL()

	in := testimonialstore.Input{
		Quote:     f.String("quote"),
		Author:    f.String("author"),
		Company:   f.String("company"),
		ImageHint: f.String("imageHint"),
	}
	if image != nil {
		in.Image = *image
	}

	t, err := h.store.Create(r.Context(), in)
	if err != nil {
		img.Discard(r.Context())
		h.errLog.Write(w, r, "failed to create testimonial", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentCreated, testimonialstore.Name, t.ID)
	jsonutil.Done(w, http.StatusCreated, "Testimonial created", t)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	f, err := formutil.Parse(w, r, formutil.MaxUploadSize)
	if err != nil {
		h.errLog.Write(w, r, "failed to parse testimonial form", err)
		return
	}
	img, err := h.images.Stage(r)
	if err != nil {
		h.errLog.Write(w, r, "failed to store testimonial photo", err)
		return
	}
	image := img.ImageURL()

	t, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), testimonialstore.Patch{
		Quote:     f.Opt("quote"),
		Author:    f.Opt("author"),
		Company:   f.Opt("company"),
		ImageHint: f.Opt("imageHint"),
		Image:     image,
	})
	if err != nil {
		img.Discard(r.Context())
		h.errLog.Write(w, r, "failed to update testimonial", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentUpdated, testimonialstore.Name, t.ID)
	jsonutil.Done(w, http.StatusOK, "Testimonial updated", t)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to delete testimonial", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentDeleted, testimonialstore.Name, t.ID)
	jsonutil.Done(w, http.StatusOK, "Testimonial deleted", nil)
}
