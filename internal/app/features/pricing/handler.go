// Package pricing serves the per-country pricing table.
package pricing

import (
	"net/http"
	"strconv"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	pricingstore "github.com/dalemusser/wavesite/internal/app/store/pricing"
	"github.com/dalemusser/wavesite/internal/app/system/auditlog"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	store       *pricingstore.Store
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

func NewHandler(store *pricingstore.Store, auditLogger *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, auditLogger: auditLogger, errLog: errLog, logger: logger}
}

type countryRequest struct {
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	CurrencySymbol string `json:"currencySymbol"`
}

// planRequest takes the price as a JSON number or string so a bad value is
// reported as a field error rather than a decode failure.
type planRequest struct {
	Name         string   `json:"name"`
	PriceMonthly any      `json:"priceMonthly"`
	PriceSuffix  string   `json:"priceSuffix"`
	Features     []string `json:"features"`
}

func priceText(v any) string {
	switch p := v.(type) {
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64)
	case string:
		return p
	default:
		return ""
	}
}

func (h *Handler) all(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.All(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to load pricing", err)
		return
	}
	jsonutil.OK(w, data)
}

func (h *Handler) display(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.Display(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to load pricing", err)
		return
	}
	jsonutil.OK(w, data)
}

func (h *Handler) countries(w http.ResponseWriter, r *http.Request) {
	codes, err := h.store.Countries(r.Context())
	if err != nil {
		h.errLog.Write(w, r, "failed to list countries", err)
		return
	}
	jsonutil.OK(w, codes)
}

func (h *Handler) country(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Country(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.errLog.Write(w, r, "failed to load country", err)
		return
	}
	jsonutil.OK(w, c)
}

func (h *Handler) upsertCountry(w http.ResponseWriter, r *http.Request) {
	var req countryRequest
	if err := jsonutil.Decode(w, r, &req); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	code := chi.URLParam(r, "code")
	c, err := h.store.UpsertCountry(r.Context(), pricingstore.CountryInput{
		CountryCode:    code,
		Name:           req.Name,
		Currency:       req.Currency,
		CurrencySymbol: req.CurrencySymbol,
	})
	if err != nil {
		h.errLog.Write(w, r, "failed to save country", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentUpdated, pricingstore.Name, code)
	jsonutil.Done(w, http.StatusOK, "Country saved", c)
}

func (h *Handler) deleteCountry(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.store.DeleteCountry(r.Context(), code); err != nil {
		h.errLog.Write(w, r, "failed to delete country", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentDeleted, pricingstore.Name, code)
	jsonutil.Done(w, http.StatusOK, "Country deleted", nil)
}

// savePlan creates a plan on POST and replaces the plan named in the path
// on PUT.
func (h *Handler) savePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := jsonutil.Decode(w, r, &req); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	planID := chi.URLParam(r, "planID")
	plan, err := h.store.SavePlan(r.Context(), pricingstore.PlanInput{
		ID:           planID,
		CountryCode:  chi.URLParam(r, "code"),
		Name:         req.Name,
		PriceMonthly: priceText(req.PriceMonthly),
		PriceSuffix:  req.PriceSuffix,
		Features:     req.Features,
	})
	if err != nil {
		h.errLog.Write(w, r, "failed to save plan", err)
		return
	}

	if planID == "" {
		h.auditLogger.Content(r.Context(), r, audit.EventContentCreated, pricingstore.Name, plan.ID)
		jsonutil.Done(w, http.StatusCreated, "Plan added", plan)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentUpdated, pricingstore.Name, plan.ID)
	jsonutil.Done(w, http.StatusOK, "Plan updated", plan)
}

func (h *Handler) deletePlan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planID")
	if err := h.store.DeletePlan(r.Context(), chi.URLParam(r, "code"), planID); err != nil {
		h.errLog.Write(w, r, "failed to delete plan", err)
		return
	}
	h.auditLogger.Content(r.Context(), r, audit.EventContentDeleted, pricingstore.Name, planID)
	jsonutil.Done(w, http.StatusOK, "Plan deleted", nil)
}
