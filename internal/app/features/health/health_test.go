package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/dalemusser/wavesite/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func okCheck(name string) Check {
	return Check{Name: name, Probe: func(context.Context) error { return nil }}
}

func failingCheck(name string) Check {
	return Check{Name: name, Probe: func(context.Context) error { return errors.New("down") }}
}

func TestHandler_Check(t *testing.T) {
	tests := []struct {
		name       string
		checks     []Check
		wantCode   int
		wantStatus string
		wantSvc    map[string]string
	}{
		{
			name:       "all healthy",
			checks:     []Check{BackendCheck(snapshot.NewMemory()), okCheck("redis")},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantSvc:    map[string]string{"content": "ok", "redis": "ok"},
		},
		{
			name:       "one backend down",
			checks:     []Check{okCheck("content"), failingCheck("nats")},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			wantSvc:    map[string]string{"content": "ok", "nats": "unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(zap.NewNop(), tt.checks...)
			rec := httptest.NewRecorder()
			h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("Check() status = %d, want %d", rec.Code, tt.wantCode)
			}
			var resp Response
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("response status = %q, want %q", resp.Status, tt.wantStatus)
			}
			for svc, want := range tt.wantSvc {
				if resp.Services[svc] != want {
					t.Errorf("%s status = %q, want %q", svc, resp.Services[svc], want)
				}
			}
		})
	}
}

func TestHandler_Ready(t *testing.T) {
	h := NewHandler(zap.NewNop(), okCheck("content"))
	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Ready() status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); body != `{"status":"ready"}` {
		t.Errorf("Ready() body = %q, want %q", body, `{"status":"ready"}`)
	}

	h = NewHandler(zap.NewNop(), failingCheck("content"))
	rec = httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Ready() status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHandler_Live(t *testing.T) {
	h := NewHandler(zap.NewNop(), failingCheck("content"))
	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Live() status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestMongoCheck(t *testing.T) {
	db := testutil.SetupTestDB(t)
	if err := MongoCheck(db.Client()).Probe(context.Background()); err != nil {
		t.Errorf("MongoCheck() error = %v", err)
	}
}

func TestRoutes(t *testing.T) {
	h := NewHandler(zap.NewNop(), okCheck("content"))
	r := chi.NewRouter()
	r.Mount("/health", Routes(h))
	MountRootEndpoints(r, h)

	for _, path := range []string{"/health", "/health/ready", "/health/live", "/ready", "/readyz", "/livez"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}
