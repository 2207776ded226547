// Package team serves the team section shown on the about page.
package team

import (
	"net/http"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	teamstore "github.com/dalemusser/wavesite/internal/app/store/team"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/formutil"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/dalemusser/wavesite/internal/app/system/uploads"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	store       *teamstore.Store
	images      *uploads.Images
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

func NewHandler(store *teamstore.Store, images *uploads.Images, auditLogger *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, images: images, auditLogger: auditLogger, errLog: errLog, logger: logger}
}

// AdminRoutes mounts at /api/admin/team.
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

// PublicRoutes mounts at /api/site/team.
func PublicRoutes(h *Handler, cache *revalidate.Cache) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/", cache.Handler(func(*http.Request) string {
		return "/about"
	}, http.HandlerFunc(h.list)))
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.All(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to list team", err)
		return
	}
	jsonutil.OK(w, all)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to load team member", err)
		return
	}
	jsonutil.OK(w, m)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	f, err := formutil.Parse(w, r, formutil.MaxUploadSize)
	if err != nil {
		h.errLog.Write(w, r, "failed to parse team form", err)
		return
	}
	img, err := h.images.Stage(r)
	if err != nil {
		h.errLog.Write(w, r, "failed to store team photo", err)
		return
	}
	image := img.ImageURL()

	in := teamstore.Input{
		Name:      f.String("name"),
		Role:      f.String("role"),
		Twitter:   f.String("twitter"),
		LinkedIn:  f.String("linkedin"),
		ImageHint: f.String("imageHint"),
	}
	if image != nil {
		in.Image = *image
	}

	m, err := h.store.Create(r.Context(), in)
	if err != nil {
		img.Discard(r.Context())
		h.errLog.Write(w, r, "failed to create team member", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentCreated, teamstore.Name, m.ID)
	jsonutil.Done(w, http.StatusCreated, "Team member added", m)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	f, err := formutil.Parse(w, r, formutil.MaxUploadSize)
	if err != nil {
		h.errLog.Write(w, r, "failed to parse team form", err)
		return
	}
	img, err := h.images.Stage(r)
	if err != nil {
		h.errLog.Write(w, r, "failed to store team photo", err)
		return
	}
	image := img.ImageURL()

	m, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), teamstore.Patch{
		Name:      f.Opt("name"),
		Role:      f.Opt("role"),
		Twitter:   f.Opt("twitter"),
		LinkedIn:  f.Opt("linkedin"),
		ImageHint: f.Opt("imageHint"),
		Image:     image,
	})
	if err != nil {
		img.Discard(r.Context())
		h.errLog.Write(w, r, "failed to update team member", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentUpdated, teamstore.Name, m.ID)
	jsonutil.Done(w, http.StatusOK, "Team member updated", m)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to delete team member", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentDeleted, teamstore.Name, m.ID)
	jsonutil.Done(w, http.StatusOK, "Team member removed", nil)
}
