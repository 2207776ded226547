// Package projects serves the portfolio.
package projects

import (
	"net/http"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	projectstore "github.com/dalemusser/wavesite/internal/app/store/projects"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/formutil"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/dalemusser/wavesite/internal/app/system/uploads"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	store       *projectstore.Store
	images      *uploads.Images
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

func NewHandler(
	store *projectstore.Store,
	images *uploads.Images,
	auditLogger *auditlog.Logger,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		store:       store,
		images:      images,
		auditLogger: auditLogger,
		errLog:      errLog,
		logger:      logger,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.All(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to list projects", err)
		return
	}
	jsonutil.OK(w, all)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to load project", err)
		return
	}
	jsonutil.OK(w, p)
}

// publicShow answers by slug only, matching the route its cache entry is
// filed under.
func (h *Handler) publicShow(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	opt, err := h.store.Lookup(r.Context(), slug)
	if err != nil {
		h.errLog.Write(w, r, "failed to load project", err)
		return
	}
	p, ok := opt.Get()
	if !ok || p.Slug != slug {
		jsonutil.NotFound(w, "Project not found")
		return
	}
	jsonutil.OK(w, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	f, err := formutil.Parse(w, r, formutil.MaxUploadSize)
	if err != nil {
		h.errLog.Write(w, r, "failed to parse project form", err)
		return
	}
	img, err := h.images.Stage(r)
	if err != nil {
		h.errLog.Write(w, r, "failed to store project image", err)
		return
	}
	image := img.ImageURL()

	in := projectstore.Input{
		Title:           f.String("title"),
		Slug:            f.String("slug"),
		Category:        f.String("category"),
		Client:          f.String("client"),
		Location:        f.String("location"),
		CompletedDate:   f.String("completedDate"),
		Description:     f.String("description"),
		LongDescription: f.String("longDescription"),
		Solution:        f.String("solution"),
		ImageHint:       f.String("imageHint"),
		Requirements:    f.List("requirements"),
	}
	if image != nil {
		in.Image = *image
	}

	p, err := h.store.Create(r.Context(), in)
	if err != nil {
		img.Discard(r.Context())
		h.errLog.Write(w, r, "failed to create project", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentCreated, projectstore.Name, p.ID)
	jsonutil.Done(w, http.StatusCreated, "Project created", p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	f, err := formutil.Parse(w, r, formutil.MaxUploadSize)
	if err != nil {
		h.errLog.Write(w, r, "failed to parse project form", err)
		return
	}
	img, err := h.images.Stage(r)
	if err != nil {
		h.errLog.Write(w, r, "failed to store project image", err)
		return
	}
	image := img.ImageURL()

	p, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), projectstore.Patch{
		Title:           f.Opt("title"),
		Slug:            f.Opt("slug"),
		Category:        f.Opt("category"),
		Client:          f.Opt("client"),
		Location:        f.Opt("location"),
		CompletedDate:   f.Opt("completedDate"),
		Description:     f.Opt("description"),
		LongDescription: f.Opt("longDescription"),
		Solution:        f.Opt("solution"),
		ImageHint:       f.Opt("imageHint"),
		Requirements:    f.OptList("requirements"),
		Image:           image,
	})
	if err != nil {
		img.Discard(r.Context())
		h.errLog.Write(w, r, "failed to update project", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentUpdated, projectstore.Name, p.ID)
	jsonutil.Done(w, http.StatusOK, "Project updated", p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to delete project", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentDeleted, projectstore.Name, p.ID)
	jsonutil.Done(w, http.StatusOK, "Project deleted", nil)
}
