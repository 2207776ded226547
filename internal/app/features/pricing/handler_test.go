package pricing

import (
	"net/http"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/content"
	pricingstore "github.com/dalemusser/wavesite/internal/app/store/pricing"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/dalemusser/wavesite/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *revalidate.Cache) {
	t.Helper()
	logger := zap.NewNop()
	cache := revalidate.NewCache(revalidate.NewMemoryStore(), time.Minute, logger)
	store := pricingstore.New(content.Deps{Backend: snapshot.NewMemory(), Notifier: cache, Logger: logger})
	return NewHandler(store, nil, errorsfeature.NewErrorLogger(logger), logger), cache
}

func serve(t *testing.T, h http.Handler, method, target string, body any) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewAdminJSONRequest(method, target, body))
	return rec
}

func TestPlans_SortedOnPublicRead(t *testing.T) {
	h, cache := newTestHandler(t)
	admin := AdminRoutes(h)

	serve(t, admin, http.MethodPut, "/countries/in", map[string]string{
		"name": "India", "currency": "inr", "currencySymbol": "₹",
	}).AssertStatus(t, http.StatusOK)

	serve(t, admin, http.MethodPost, "/countries/IN/plans", map[string]any{
		"name": "Pro", "priceMonthly": 4999, "priceSuffix": "/mo", "features": []string{"Support"},
	}).AssertStatus(t, http.StatusCreated)
	serve(t, admin, http.MethodPost, "/countries/IN/plans", map[string]any{
		"name": "Starter", "priceMonthly": "999", "priceSuffix": "/mo",
	}).AssertStatus(t, http.StatusCreated)

	rec := testutil.NewRecorder()
	PublicRoutes(h, cache).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusOK)

	var data models.PricingData
	rec.DecodeData(t, &data)
	in, ok := data["IN"]
	if !ok {
		t.Fatalf("pricing = %v, want an IN entry", data)
	}
	if in.Currency != "INR" {
		t.Errorf("Currency = %q, want INR", in.Currency)
	}
	if len(in.Plans) != 2 || in.Plans[0].Name != "Starter" {
		t.Errorf("plans = %+v, want Starter first", in.Plans)
	}
}

func TestSavePlan_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       map[string]any
		wantStatus int
		wantField  string
	}{
		{"non-numeric price", "/countries/US/plans", map[string]any{"name": "Pro", "priceMonthly": "lots", "priceSuffix": "/mo"}, http.StatusBadRequest, "priceMonthly"},
		{"zero price", "/countries/US/plans", map[string]any{"name": "Pro", "priceMonthly": 0, "priceSuffix": "/mo"}, http.StatusBadRequest, "priceMonthly"},
		{"unknown country", "/countries/FR/plans", map[string]any{"name": "Pro", "priceMonthly": 10, "priceSuffix": "/mo"}, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			admin := AdminRoutes(h)
			serve(t, admin, http.MethodPut, "/countries/US", map[string]string{
				"name": "United States", "currency": "USD", "currencySymbol": "$",
			}).AssertStatus(t, http.StatusOK)

			rec := serve(t, admin, http.MethodPost, tt.target, tt.body)
			rec.AssertStatus(t, tt.wantStatus)
			if tt.wantField != "" {
				if _, ok := rec.DecodeEnvelope(t).Errors[tt.wantField]; !ok {
					t.Errorf("want a %s field error, body %s", tt.wantField, rec.Body.String())
				}
			}
		})
	}
}

func TestDeleteCountry(t *testing.T) {
	h, _ := newTestHandler(t)
	admin := AdminRoutes(h)
	serve(t, admin, http.MethodPut, "/countries/US", map[string]string{
		"name": "United States", "currency": "USD", "currencySymbol": "$",
	}).AssertStatus(t, http.StatusOK)

	serve(t, admin, http.MethodDelete, "/countries/us", nil).AssertStatus(t, http.StatusOK)
	serve(t, admin, http.MethodGet, "/countries/US", nil).AssertStatus(t, http.StatusNotFound)
}
