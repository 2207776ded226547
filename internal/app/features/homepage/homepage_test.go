package homepage

import (
	"net/http"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/content"
	homepagestore "github.com/dalemusser/wavesite/internal/app/store/homepage"
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
	store := homepagestore.New(content.Deps{Backend: snapshot.NewMemory(), Notifier: cache, Logger: logger})
	return NewHandler(store, nil, errorsfeature.NewErrorLogger(logger), logger), cache
}

func currentForm(t *testing.T, h *Handler) homepagestore.Form {
	t.Helper()
	rec := testutil.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, testutil.WithAdmin(testutil.NewRequest(http.MethodGet, "/")))
	rec.AssertStatus(t, http.StatusOK)
	var f homepagestore.Form
	rec.DecodeData(t, &f)
	return f
}

func TestUpdate_RoundTripsDefaults(t *testing.T) {
	h, _ := newTestHandler(t)
	f := currentForm(t, h)

	rec := testutil.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, testutil.NewAdminJSONRequest(http.MethodPut, "/", f))
	rec.AssertStatus(t, http.StatusOK)

	var hc models.HomepageContent
	rec.DecodeData(t, &hc)
	want := models.DefaultHomepageContent()
	if hc.Hero.Headline != want.Hero.Headline || len(hc.FAQ.Items) != len(want.FAQ.Items) {
		t.Errorf("saved content differs from the defaults it was built from")
	}
}

func TestUpdate_MalformedListRejected(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*homepagestore.Form)
		field string
	}{
		{"not json", func(f *homepagestore.Form) { f.FAQItems = "[{question: x}" }, "faqItems"},
		{"object not array", func(f *homepagestore.Form) { f.WhyUsCards = `{"icon":"Zap"}` }, "whyUsCards"},
		{"short headline", func(f *homepagestore.Form) { f.HeroHeadline = "Hi" }, "heroHeadline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			f := currentForm(t, h)
			tt.edit(&f)

			rec := testutil.NewRecorder()
			AdminRoutes(h).ServeHTTP(rec, testutil.NewAdminJSONRequest(http.MethodPut, "/", f))
			rec.AssertStatus(t, http.StatusBadRequest)
			if _, ok := rec.DecodeEnvelope(t).Errors[tt.field]; !ok {
				t.Errorf("want a %s field error, body %s", tt.field, rec.Body.String())
			}
		})
	}
}

func TestPublic_ResolvesUnknownIcons(t *testing.T) {
	h, cache := newTestHandler(t)
	f := currentForm(t, h)
	f.WhyUsCards = `[{"icon":"Unicorn","title":"Magic","description":"Works every time."}]`

	rec := testutil.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, testutil.NewAdminJSONRequest(http.MethodPut, "/", f))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	PublicRoutes(h, cache).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusOK)
	var hc models.HomepageContent
	rec.DecodeData(t, &hc)
	if len(hc.WhyUs.Cards) != 1 || hc.WhyUs.Cards[0].Icon != models.FallbackIcon {
		t.Errorf("why-us cards = %+v, want one card with the fallback icon", hc.WhyUs.Cards)
	}
}
