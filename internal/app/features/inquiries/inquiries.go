// Package inquiries accepts the public contact forms and lets the admin
// read and remove what was sent.
package inquiries

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	inquirystore "github.com/dalemusser/wavesite/internal/app/store/inquiries"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	store       *inquirystore.Store
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger

	notify func(context.Context, models.Inquiry)
}

func NewHandler(store *inquirystore.Store, auditLogger *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, auditLogger: auditLogger, errLog: errLog, logger: logger}
}

// SetNotify registers fn to run in the background after each stored
// submission. The visitor's response does not wait for it.
func (h *Handler) SetNotify(fn func(context.Context, models.Inquiry)) {
	h.notify = fn
}

// PublicRoutes mounts at /api/site/inquiries. Submissions are never cached.
//   - POST /contact  - contact page form
//   - POST /homepage - short form on the home page and blog sidebar
//   - POST /pricing  - plan enquiry
func PublicRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/contact", submit(h, h.store.SubmitContact))
	r.Post("/homepage", submit(h, h.store.SubmitHomepage))
	r.Post("/pricing", submit(h, h.store.SubmitPricing))
	return r
}

// AdminRoutes mounts at /api/admin/inquiries.
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Delete("/{id}", h.delete)
	return r
}

// receipt is what a visitor gets back; the stored message is not echoed.
type receipt struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

func submit[T any](h *Handler, save func(context.Context, T) (models.Inquiry, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in T
		if err := jsonutil.Decode(w, r, &in); err != nil {
			jsonutil.BadRequest(w, err.Error())
			return
		}

		inq, err := save(r.Context(), in)
		if err != nil {
			h.errLog.Write(w, r, "failed to record inquiry", err)
			return
		}
		h.logger.Info("inquiry received", zap.String("id", inq.ID), zap.String("subject", inq.Subject))
		if h.notify != nil {
			go h.notify(context.WithoutCancel(r.Context()), inq)
		}
		jsonutil.Done(w, http.StatusCreated, "Thank you! Your message has been sent.", receipt{ID: inq.ID, Date: inq.Date})
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.All(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to list inquiries", err)
		return
	}
	jsonutil.OK(w, all)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	inq, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to load inquiry", err)
		return
	}
	jsonutil.OK(w, inq)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	inq, err := h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Write(w, r, "failed to delete inquiry", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentDeleted, inquirystore.Name, inq.ID)
	jsonutil.Done(w, http.StatusOK, "Inquiry deleted", nil)
}
