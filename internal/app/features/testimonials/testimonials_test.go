package testimonials

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	testimonialstore "github.com/dalemusser/wavesite/internal/app/store/testimonials"
	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/dalemusser/wavesite/internal/app/system/uploads"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/dalemusser/wavesite/internal/testutil"
	"go.uber.org/zap"
)

func TestTestimonials_CreateInvalidatesHomeCache(t *testing.T) {
	logger := zap.NewNop()
	cache := revalidate.NewCache(revalidate.NewMemoryStore(), time.Minute, logger)
	store := testimonialstore.New(content.Deps{Backend: snapshot.NewMemory(), Notifier: cache, Logger: logger})
	h := NewHandler(store, uploads.New(testutil.NewMemStorage(), nil), nil, errorsfeature.NewErrorLogger(logger), logger)
	public := PublicRoutes(h, cache)

	read := func() []models.Testimonial {
		rec := testutil.NewRecorder()
		public.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
		rec.AssertStatus(t, http.StatusOK)
		var out []models.Testimonial
		rec.DecodeData(t, &out)
		return out
	}
	if got := read(); len(got) != 0 {
		t.Fatalf("initial list = %v, want empty", got)
	}

	rec := testutil.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, testutil.NewFormRequest(http.MethodPost, "/", url.Values{
		"quote":     {"They shipped on time, twice."},
		"author":    {"Linus"},
		"company":   {"Kernel Ltd"},
		"imageHint": {"portrait"},
		"imageUrl":  {"https://images.example.com/linus.jpg"},
	}))
	rec.AssertStatus(t, http.StatusCreated)

	if got := read(); len(got) != 1 || got[0].Company != "Kernel Ltd" {
		t.Errorf("list after create = %+v, want the new testimonial", got)
	}
}

func TestCreate_MissingImage(t *testing.T) {
	logger := zap.NewNop()
	store := testimonialstore.New(content.Deps{Backend: snapshot.NewMemory(), Logger: logger})
	h := NewHandler(store, uploads.New(testutil.NewMemStorage(), nil), nil, errorsfeature.NewErrorLogger(logger), logger)

	rec := testutil.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, testutil.NewFormRequest(http.MethodPost, "/", url.Values{
		"quote":     {"They shipped on time, twice."},
		"author":    {"Linus"},
		"company":   {"Kernel Ltd"},
		"imageHint": {"portrait"},
	}))
	rec.AssertStatus(t, http.StatusBadRequest)
	if _, ok := rec.DecodeEnvelope(t).Errors["image"]; !ok {
		t.Error("want an image field error")
	}
}
