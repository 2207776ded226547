// internal/app/features/settings/settings.go
package settings

import (
	"net/http"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	settingsstore "github.com/dalemusser/wavesite/internal/app/store/settings"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler provides settings handlers.
type Handler struct {
	settingsStore *settingsstore.Store
	auditLogger   *auditlog.Logger
	errLog        *errorsfeature.ErrorLogger
	logger        *zap.Logger
}

// NewHandler creates a new settings Handler.
func NewHandler(
	settingsStore *settingsstore.Store,
	auditLogger *auditlog.Logger,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		settingsStore: settingsStore,
		auditLogger:   auditLogger,
		errLog:        errLog,
		logger:        logger,
	}
}

// updateRequest is the settings form. Omitted fields keep their value; an
// empty social URL removes the link.
type updateRequest struct {
	ContactEmail  *string `json:"contactEmail"`
	ContactPhone  *string `json:"contactPhone"`
	OfficeAddress *string `json:"officeAddress"`
	TwitterURL    *string `json:"twitterUrl"`
	LinkedInURL   *string `json:"linkedinUrl"`
	GitHubURL     *string `json:"githubUrl"`
}

// MountRoutes mounts the admin settings routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
	r.Put("/", h.update)
	r.Patch("/", h.update)
}

// PublicRoutes mounts at /api/site/settings. Settings appear in the layout
// of every page; any change drops every cached route.
func PublicRoutes(h *Handler, cache *revalidate.Cache) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/", cache.Handler(func(*http.Request) string {
		return "/"
	}, http.HandlerFunc(h.show)))
	return r
}

// show returns the saved settings, or the defaults when none are saved.
func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsStore.Get(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to get settings", err)
		return
	}
	jsonutil.OK(w, settings)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := jsonutil.Decode(w, r, &req); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	settings, err := h.settingsStore.Upsert(r.Context(), settingsstore.UpdateInput{
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		OfficeAddress: req.OfficeAddress,
		TwitterURL:    req.TwitterURL,
		LinkedInURL:   req.LinkedInURL,
		GitHubURL:     req.GitHubURL,
	})
	if err != nil {
		h.errLog.Write(w, r, "failed to save settings", err)
		return
	}

	h.auditLogger.Content(r.Context(), r, audit.EventContentUpdated, settingsstore.Name, settingsstore.Name)
	h.logger.Info("site settings updated")
	jsonutil.Done(w, http.StatusOK, "Settings updated", settings)
}
