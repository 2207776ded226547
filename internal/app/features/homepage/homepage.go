// Package homepage serves the editable home and about page content.
//
// The admin editor works on the flat form (homepagestore.Form), where the
// card, step and FAQ lists are JSON arrays in string fields; a malformed
// list rejects the whole submission.
package homepage

import (
	"net/http"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	homepagestore "github.com/dalemusser/wavesite/internal/app/store/homepage"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	store       *homepagestore.Store
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

func NewHandler(store *homepagestore.Store, auditLogger *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, auditLogger: auditLogger, errLog: errLog, logger: logger}
}

// AdminRoutes mounts at /api/admin/homepage.
//   - GET / - the current content as editor form values
//   - PUT / - replace the content from a full form
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.form)
	r.Put("/", h.update)
	return r
}

// PublicRoutes mounts at /api/site/homepage.
func PublicRoutes(h *Handler, cache *revalidate.Cache) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/", cache.Handler(func(*http.Request) string {
		return "/"
	}, http.HandlerFunc(h.content)))
	return r
}

func (h *Handler) form(w http.ResponseWriter, r *http.Request) {
	hc, err := h.store.Get(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to load homepage", err)
		return
	}
	jsonutil.OK(w, homepagestore.FormFrom(hc))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var f homepagestore.Form
	if err := jsonutil.Decode(w, r, &f); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	hc, err := h.store.Update(r.Context(), f)
	if err != nil {
		h.errLog.Write(w, r, "failed to save homepage", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentUpdated, homepagestore.Name, homepagestore.Name)
	jsonutil.Done(w, http.StatusOK, "Homepage updated", hc)
}

func (h *Handler) content(w http.ResponseWriter, r *http.Request) {
	hc, err := h.store.Get(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to load homepage", err)
		return
	}
	jsonutil.OK(w, resolveIcons(hc))
}

func resolveIcons(hc models.HomepageContent) models.HomepageContent {
	hc.AboutPage.MissionCards = resolveCards(hc.AboutPage.MissionCards)
	hc.WhyUs.Cards = resolveCards(hc.WhyUs.Cards)
	return hc
}

func resolveCards(cards []models.IconCard) []models.IconCard {
	out := make([]models.IconCard, len(cards))
	for i, c := range cards {
		c.Icon = models.ResolveIcon(c.Icon)
		out[i] = c
	}
	return out
}
