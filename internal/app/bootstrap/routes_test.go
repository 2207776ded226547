package bootstrap

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/wavesite/internal/app/store/content"
	sitestore "github.com/dalemusser/wavesite/internal/app/store/site"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/dalemusser/wavesite/internal/testutil"
	"go.uber.org/zap"
)

const testAPIKey = "test-api-key"

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	files, err := storage.NewLocal(storage.LocalConfig{BasePath: t.TempDir(), BaseURL: "/uploads"})
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	backend := snapshot.NewMemory()
	cache := revalidate.NewCache(revalidate.NewMemoryStore(), time.Hour, logger)
	deps := DBDeps{
		Backend:     backend,
		Cache:       cache,
		Stores:      sitestore.New(content.Deps{Backend: backend, Notifier: cache, Logger: logger}),
		FileStorage: files,
	}
	appCfg := AppConfig{
		SessionKey:       "this-is-a-32-character-long-key!",
		SessionName:      "wavesite-session",
		SessionMaxAge:    time.Hour,
		CSRFKey:          "0123456789abcdef0123456789abcdef",
		APIKey:           testAPIKey,
		StorageType:      "local",
		StorageLocalURL:  "/uploads",
		StorageLocalPath: t.TempDir(),
		SiteURL:          "https://example.com",
	}

	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, appCfg, deps, logger)
	if err != nil {
		t.Fatalf("BuildHandler() error = %v", err)
	}
	return h
}

func withKey(r *http.Request) *http.Request {
	r.Header.Set("Authorization", "Bearer "+testAPIKey)
	return r
}

func TestBuildHandler_Routes(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantBody   string
	}{
		{"public list", testutil.NewRequest(http.MethodGet, "/api/site/techstack"), http.StatusOK, `"success":true`},
		{"public settings defaults", testutil.NewRequest(http.MethodGet, "/api/site/settings"), http.StatusOK, "contactEmail"},
		{"admin without credentials", testutil.NewRequest(http.MethodGet, "/api/admin/inquiries"), http.StatusUnauthorized, ""},
		{"admin with wrong key", func() *http.Request {
			r := testutil.NewRequest(http.MethodGet, "/api/admin/inquiries")
			r.Header.Set("Authorization", "Bearer nope")
			return r
		}(), http.StatusUnauthorized, ""},
		{"admin with key", withKey(testutil.NewRequest(http.MethodGet, "/api/admin/inquiries")), http.StatusOK, ""},
		{"cookie write without csrf token", testutil.NewJSONRequest(http.MethodPost, "/api/admin/techstack", map[string]string{"name": "Go"}), http.StatusForbidden, ""},
		{"audit needs mongo", withKey(testutil.NewRequest(http.MethodGet, "/api/admin/audit")), http.StatusNotFound, ""},
		{"sitemap", testutil.NewRequest(http.MethodGet, "/sitemap.xml"), http.StatusOK, "https://example.com/blog"},
		{"health", testutil.NewRequest(http.MethodGet, "/health"), http.StatusOK, "content"},
		{"liveness", testutil.NewRequest(http.MethodGet, "/livez"), http.StatusOK, ""},
		{"unknown route", testutil.NewRequest(http.MethodGet, "/nope"), http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.ServeHTTP(rec, tt.req)
			rec.AssertStatus(t, tt.wantStatus)
			if tt.wantBody != "" {
				rec.AssertContains(t, tt.wantBody)
			}
		})
	}
}

func TestBuildHandler_APIKeyWriteReachesPublicAPI(t *testing.T) {
	h := newTestHandler(t)

	// Prime the cache so the write has something to invalidate.
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/site/techstack"))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	h.ServeHTTP(rec, withKey(testutil.NewJSONRequest(http.MethodPost, "/api/admin/techstack", map[string]string{"name": "Go"})))
	rec.AssertStatus(t, http.StatusCreated)

	rec = testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/site/techstack"))
	rec.AssertStatus(t, http.StatusOK)
	var items []models.Technology
	rec.DecodeData(t, &items)
	if len(items) != 1 || items[0].Name != "Go" {
		t.Errorf("public tech stack = %+v, want [Go]", items)
	}
}

func TestBuildHandler_PublicFormSkipsCSRF(t *testing.T) {
	h := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/api/site/inquiries/homepage", map[string]string{
		"name": "Ada", "email": "ada@example.com", "message": "Call me back please.",
	}))
	rec.AssertStatus(t, http.StatusCreated)
}

func TestSkipCSRF(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		bearer string
		want   bool
	}{
		{"public api", "/api/site/inquiries/contact", "", true},
		{"public api root", "/api/site", "", true},
		{"lookalike prefix", "/api/sitemap", "", false},
		{"admin cookie", "/api/admin/posts", "", false},
		{"admin api key", "/api/admin/posts", testAPIKey, true},
		{"admin wrong key", "/api/admin/posts", "other", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testutil.NewRequest(http.MethodPost, tt.path)
			if tt.bearer != "" {
				r.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			if got := skipCSRF(r, testAPIKey); got != tt.want {
				t.Errorf("skipCSRF(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
