package inquiries

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/content"
	inquirystore "github.com/dalemusser/wavesite/internal/app/store/inquiries"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"github.com/dalemusser/wavesite/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler() *Handler {
	logger := zap.NewNop()
	store := inquirystore.New(content.Deps{Backend: snapshot.NewMemory(), Logger: logger})
	return NewHandler(store, nil, errorsfeature.NewErrorLogger(logger), logger)
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		body        map[string]string
		wantStatus  int
		wantField   string
		wantSubject string
	}{
		{
			name: "contact",
			path: "/contact",
			body: map[string]string{
				"name": "Ada", "email": "ada@example.com", "subject": "New project",
				"message": "We would like a quote.", "preferredDate": "2026-11-02",
			},
			wantStatus:  http.StatusCreated,
			wantSubject: "New project",
		},
		{
			name:        "homepage without company",
			path:        "/homepage",
			body:        map[string]string{"name": "Ada", "email": "ada@example.com", "message": "Call me back please."},
			wantStatus:  http.StatusCreated,
			wantSubject: "Inquiry from Homepage Form",
		},
		{
			name: "pricing",
			path: "/pricing",
			body: map[string]string{
				"name": "Ada", "email": "ada@example.com", "phone": "+1 555 010 0000", "planName": "Pro",
			},
			wantStatus:  http.StatusCreated,
			wantSubject: "Pricing Inquiry: Pro",
		},
		{
			name:       "contact bad email",
			path:       "/contact",
			body:       map[string]string{"name": "Ada", "email": "ada", "subject": "New project", "message": "We would like a quote."},
			wantStatus: http.StatusBadRequest,
			wantField:  "email",
		},
		{
			name: "contact bad date",
			path: "/contact",
			body: map[string]string{
				"name": "Ada", "email": "ada@example.com", "subject": "New project",
				"message": "We would like a quote.", "preferredDate": "someday",
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "preferredDate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			rec := testutil.NewRecorder()
			PublicRoutes(h).ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, tt.path, tt.body))
			rec.AssertStatus(t, tt.wantStatus)

			if tt.wantField != "" {
				if _, ok := rec.DecodeEnvelope(t).Errors[tt.wantField]; !ok {
					t.Errorf("want a %s field error, body %s", tt.wantField, rec.Body.String())
				}
				return
			}

			all, err := h.store.All(t.Context())
			if err != nil {
				t.Fatalf("All() error = %v", err)
			}
			if len(all) != 1 || all[0].Subject != tt.wantSubject {
				t.Errorf("stored = %+v, want one inquiry with subject %q", all, tt.wantSubject)
			}
		})
	}
}

func TestSubmit_DoesNotEchoMessage(t *testing.T) {
	rec := testutil.NewRecorder()
	PublicRoutes(newTestHandler()).ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/homepage", map[string]string{
		"name": "Ada", "email": "ada@example.com", "message": "A private message body.",
	}))
	rec.AssertStatus(t, http.StatusCreated)
	if strings.Contains(rec.Body.String(), "private message") {
		t.Error("response echoes the submitted message")
	}
}

func TestSubmit_NotifiesInBackground(t *testing.T) {
	h := newTestHandler()
	got := make(chan models.Inquiry, 1)
	h.SetNotify(func(_ context.Context, inq models.Inquiry) { got <- inq })

	rec := testutil.NewRecorder()
	PublicRoutes(h).ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/homepage", map[string]string{
		"name": "Ada", "email": "ada@example.com", "message": "Call me back please.",
	}))
	rec.AssertStatus(t, http.StatusCreated)

	select {
	case inq := <-got:
		if inq.Email != "ada@example.com" {
			t.Errorf("notified inquiry email = %q, want ada@example.com", inq.Email)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notify was not called")
	}
}

func TestAdmin_ListAndDelete(t *testing.T) {
	h := newTestHandler()
	rec := testutil.NewRecorder()
	PublicRoutes(h).ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/homepage", map[string]string{
		"name": "Ada", "email": "ada@example.com", "message": "Call me back please.",
	}))
	rec.AssertStatus(t, http.StatusCreated)

	admin := AdminRoutes(h)
	rec = testutil.NewRecorder()
	admin.ServeHTTP(rec, testutil.WithAdmin(testutil.NewRequest(http.MethodGet, "/")))
	rec.AssertStatus(t, http.StatusOK)
	var all []models.Inquiry
	rec.DecodeData(t, &all)
	if len(all) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(all))
	}

	rec = testutil.NewRecorder()
	admin.ServeHTTP(rec, testutil.WithAdmin(testutil.NewRequest(http.MethodDelete, "/"+all[0].ID)))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	admin.ServeHTTP(rec, testutil.WithAdmin(testutil.NewRequest(http.MethodGet, "/"+all[0].ID)))
	rec.AssertStatus(t, http.StatusNotFound)
}
