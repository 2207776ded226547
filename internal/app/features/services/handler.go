// Package services serves the services pages. Points and Tags are comma
// lists in the admin form.
package services

import (
	"net/http"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	servicestore "github.com/dalemusser/wavesite/internal/app/store/services"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/formutil"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/dalemusser/wavesite/internal/app/system/uploads"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Handler struct {
	store       *servicestore.Store
	images      *uploads.Images
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

func NewHandler(
	store *servicestore.Store,
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

// withIcon replaces an icon name the front end cannot render. The stored
// record keeps what the editor typed.
func withIcon(sv models.Service, _ int) models.Service {
	sv.Icon = models.ResolveIcon(sv.Icon)
	return sv
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.All(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to list services", err)
		return
	}
	jsonutil.OK(w, all)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	sv, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to load service", err)
		return
	}
	jsonutil.OK(w, sv)
}

func (h *Handler) publicList(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.All(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to list services", err)
		return
	}
	jsonutil.OK(w, lo.Map(all, withIcon))
}

// publicShow answers by slug only, matching the route its cache entry is
// filed under.
func (h *Handler) publicShow(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	opt, err := h.store.Lookup(r.Context(), slug)
	if err != nil {
		h.errLog.Write(w, r, "failed to load service", err)
		return
	}
	sv, ok := opt.Get()
	if !ok || sv.Slug != slug {
		jsonutil.NotFound(w, "Service not found")
		return
	}
	jsonutil.OK(w, withIcon(sv, 0))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	f, err := formutil.Parse(w, r, formutil.MaxUploadSize)
	if err != nil {
		h.errLog.Write(w, r, "failed to parse service form", err)
		return
	}
	img, err := h.images.Stage(r)
	if err != nil {
		h.errLog.Write(w, r, "failed to store service image", err)
		return
	}
	image := img.ImageURL()

	in := servicestore.Input{
		Title:           f.String("title"),
		Slug:            f.String("slug"),
		Icon:            f.String("icon"),
		Description:     f.String("description"),
		LongDescription: f.String("longDescription"),
		Points:          f.List("points"),
		Tags:            f.List("tags"),
		ImageHint:       f.String("imageHint"),
		BgColor:         f.String("bgColor"),
		TextColor:       f.String("textColor"),
	}
	if image != nil {
		in.Image = *image
	}

	sv, err := h.store.Create(r.Context(), in)
	if err != nil {
		img.Discard(r.Context())
		h.errLog.Write(w, r, "failed to create service", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentCreated, servicestore.Name, sv.ID)
	jsonutil.Done(w, http.StatusCreated, "Service created", sv)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	f, err := formutil.Parse(w, r, formutil.MaxUploadSize)
	if err != nil {
		h.errLog.Write(w, r, "failed to parse service form", err)
		return
	}
	img, err := h.images.Stage(r)
	if err != nil {
		h.errLog.Write(w, r, "failed to store service image", err)
		return
	}
	image := img.ImageURL()

	sv, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), servicestore.Patch{
		Title:           f.Opt("title"),
		Slug:            f.Opt("slug"),
		Icon:            f.Opt("icon"),
		Description:     f.Opt("description"),
		LongDescription: f.Opt("longDescription"),
		Points:          f.OptList("points"),
		Tags:            f.OptList("tags"),
		ImageHint:       f.Opt("imageHint"),
		BgColor:         f.Opt("bgColor"),
		TextColor:       f.Opt("textColor"),
		Image:           image,
	})
	if err != nil {
		img.Discard(r.Context())
		h.errLog.Write(w, r, "failed to update service", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentUpdated, servicestore.Name, sv.ID)
	jsonutil.Done(w, http.StatusOK, "Service updated", sv)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	sv, err := h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to delete service", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentDeleted, servicestore.Name, sv.ID)
	jsonutil.Done(w, http.StatusOK, "Service deleted", nil)
}
