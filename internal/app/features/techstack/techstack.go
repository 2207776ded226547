// Package techstack serves the technology strip on the home page.
package techstack

import (
	"net/http"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	techstackstore "github.com/dalemusser/wavesite/internal/app/store/techstack"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	store       *techstackstore.Store
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

func NewHandler(store *techstackstore.Store, auditLogger *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, auditLogger: auditLogger, errLog: errLog, logger: logger}
}

// AdminRoutes mounts at /api/admin/techstack.
//   - POST   / {"name"}        - add
//   - PUT    /{id} {"name"}    - rename
//   - DELETE /{id}             - remove
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.save)
	r.Put("/{id}", h.save)
	r.Delete("/{id}", h.delete)
	return r
}

// PublicRoutes mounts at /api/site/techstack.
func PublicRoutes(h *Handler, cache *revalidate.Cache) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/", cache.Handler(func(*http.Request) string {
		return "/"
	}, http.HandlerFunc(h.list)))
	return r
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.All(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to list tech stack", err)
		return
	}
	jsonutil.OK(w, all)
}

// save adds when there is no id in the path and renames otherwise.
func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := jsonutil.Decode(w, r, &req); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	tech, err := h.store.Save(r.Context(), id, req.Name)
	if err != nil {
		h.errLog.Write(w, r, "failed to save technology", err)
		return
	}

	if id == "" {
		h.auditLogger.Content(r.Context(), r, audit.EventContentCreated, techstackstore.Name, tech.ID)
		jsonutil.Done(w, http.StatusCreated, "Technology added", tech)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentUpdated, techstackstore.Name, tech.ID)
	jsonutil.Done(w, http.StatusOK, "Technology updated", tech)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	tech, err := h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to delete technology", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentDeleted, techstackstore.Name, tech.ID)
	jsonutil.Done(w, http.StatusOK, "Technology removed", nil)
}
