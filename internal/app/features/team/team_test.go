package team

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	teamstore "github.com/dalemusser/wavesite/internal/app/store/team"
	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/dalemusser/wavesite/internal/app/system/uploads"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/dalemusser/wavesite/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *revalidate.Cache) {
	t.Helper()
	logger := zap.NewNop()
	cache := revalidate.NewCache(revalidate.NewMemoryStore(), time.Minute, logger)
	store := teamstore.New(content.Deps{Backend: snapshot.NewMemory(), Notifier: cache, Logger: logger})
	return NewHandler(store, uploads.New(testutil.NewMemStorage(), nil), nil, errorsfeature.NewErrorLogger(logger), logger), cache
}

func TestTeam_CRUD(t *testing.T) {
	h, _ := newTestHandler(t)
	admin := AdminRoutes(h)

	rec := testutil.NewRecorder()
	admin.ServeHTTP(rec, testutil.NewFormRequest(http.MethodPost, "/", url.Values{
		"name":      {"Grace"},
		"role":      {"Principal engineer"},
		"linkedin":  {"https://linkedin.com/in/grace"},
		"imageHint": {"portrait"},
		"imageUrl":  {"https://images.example.com/grace.jpg"},
	}))
	rec.AssertStatus(t, http.StatusCreated)
	var m models.TeamMember
	rec.DecodeData(t, &m)

	rec = testutil.NewRecorder()
	admin.ServeHTTP(rec, testutil.NewFormRequest(http.MethodPut, "/"+m.ID, url.Values{"linkedin": {""}}))
	rec.AssertStatus(t, http.StatusOK)
	var updated models.TeamMember
	rec.DecodeData(t, &updated)
	if updated.LinkedIn != "" {
		t.Errorf("LinkedIn = %q, want cleared", updated.LinkedIn)
	}

	rec = testutil.NewRecorder()
	admin.ServeHTTP(rec, testutil.WithAdmin(testutil.NewRequest(http.MethodDelete, "/"+m.ID)))
	rec.AssertStatus(t, http.StatusOK)
}

func TestCreate_RejectsBadSocialURL(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := testutil.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, testutil.NewFormRequest(http.MethodPost, "/", url.Values{
		"name":      {"Grace"},
		"role":      {"Principal engineer"},
		"twitter":   {"not a url"},
		"imageHint": {"portrait"},
		"imageUrl":  {"https://images.example.com/grace.jpg"},
	}))
	rec.AssertStatus(t, http.StatusBadRequest)
	if _, ok := rec.DecodeEnvelope(t).Errors["twitter"]; !ok {
		t.Error("want a twitter field error")
	}
}

func TestPublicList_EmptyIsList(t *testing.T) {
	h, cache := newTestHandler(t)
	rec := testutil.NewRecorder()
	PublicRoutes(h, cache).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusOK)
	if env := rec.DecodeEnvelope(t); string(env.Data) != "[]" {
		t.Errorf("data = %s, want []", env.Data)
	}
}
