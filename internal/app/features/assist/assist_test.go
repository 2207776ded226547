package assist

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/wavesite/internal/app/features/errors"
	"github.com/dalemusser/wavesite/internal/app/store/content"
	inquirystore "github.com/dalemusser/wavesite/internal/app/store/inquiries"
	poststore "github.com/dalemusser/wavesite/internal/app/store/posts"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/dalemusser/wavesite/internal/app/system/assist"
	"github.com/dalemusser/wavesite/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

// scriptedModel answers every request with reply and records the prompts.
type scriptedModel struct {
	reply   string
	err     error
	prompts []string
}

func (m *scriptedModel) Generate(_ context.Context, req assist.Request) (string, error) {
	m.prompts = append(m.prompts, req.Prompt)
	return m.reply, m.err
}

func newTestHandler(t *testing.T, model assist.Model) (*Handler, *poststore.Store, *inquirystore.Store) {
	t.Helper()
	logger := zap.NewNop()
	deps := content.Deps{Backend: snapshot.NewMemory(), Logger: logger}
	posts := poststore.New(deps)
	inquiries := inquirystore.New(deps)
	h := NewHandler(assist.New(model, logger), posts, inquiries, nil, errorsfeature.NewErrorLogger(logger), logger)
	return h, posts, inquiries
}

func TestDraft(t *testing.T) {
	model := &scriptedModel{reply: `{"content":"<h1>Title</h1><h2>Intro</h2><p>Body</p><script>x</script>"}`}
	h, _, _ := newTestHandler(t, model)

	rec := testutil.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, testutil.NewAdminJSONRequest(http.MethodPost, "/draft", map[string]string{"title": "Go at scale"}))
	rec.AssertStatus(t, http.StatusOK)

	var got draftResponse
	rec.DecodeData(t, &got)
	if strings.Contains(got.Content, "<h1>") || strings.Contains(got.Content, "<script>") {
		t.Errorf("Content = %q, want h1 and script removed", got.Content)
	}
	if !strings.Contains(got.Content, "<h2>Intro</h2>") {
		t.Errorf("Content = %q, want the h2 kept", got.Content)
	}
}

func TestDraft_Failures(t *testing.T) {
	tests := []struct {
		name       string
		model      *scriptedModel
		title      string
		wantStatus int
	}{
		{"blank title", &scriptedModel{}, "  ", http.StatusBadRequest},
		{"model error", &scriptedModel{err: errors.New("quota")}, "Go at scale", http.StatusBadGateway},
		{"malformed output", &scriptedModel{reply: "not json"}, "Go at scale", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTestHandler(t, tt.model)
			rec := testutil.NewRecorder()
			AdminRoutes(h).ServeHTTP(rec, testutil.NewAdminJSONRequest(http.MethodPost, "/draft", map[string]string{"title": tt.title}))
			rec.AssertStatus(t, tt.wantStatus)
		})
	}
}

func TestRecommend_UsesPostsAndInquiries(t *testing.T) {
	model := &scriptedModel{reply: `["/blog/go-at-scale","/blog/not-a-post"]`}
	h, posts, inquiries := newTestHandler(t, model)
	ctx := t.Context()

	if _, err := posts.Create(ctx, poststore.Input{
		Title: "Go at scale", Slug: "go-at-scale", Author: "Ada", ImageHint: "gopher",
		Excerpt: "Running Go in production.", Content: strings.Repeat("Body text here. ", 10),
		Image: "https://images.example.com/go.jpg",
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := inquiries.SubmitHomepage(ctx, inquirystore.HomepageInput{
		Name: "Ada", Email: "ada@example.com", Message: "We need help scaling Go services.",
	}); err != nil {
		t.Fatalf("SubmitHomepage() error = %v", err)
	}

	rec := testutil.NewRecorder()
	PublicRoutes(h).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/recommend"))
	rec.AssertStatus(t, http.StatusOK)

	var got []assist.Candidate
	rec.DecodeData(t, &got)
	want := []assist.Candidate{{URL: "/blog/go-at-scale", Title: "Go at scale"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("recommendations mismatch (-want +got):\n%s", diff)
	}

	if len(model.prompts) != 1 {
		t.Fatalf("model called %d times, want 1", len(model.prompts))
	}
	for _, s := range []string{"URL: /blog/go-at-scale, Title: Go at scale", "Subject: Inquiry from Homepage Form"} {
		if !strings.Contains(model.prompts[0], s) {
			t.Errorf("prompt missing %q", s)
		}
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{"valid", map[string]string{"currentUrl": "/services/cloud", "activity": "read the cloud page"}, http.StatusOK},
		{"missing activity", map[string]string{"currentUrl": "/services/cloud"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTestHandler(t, &scriptedModel{reply: `{"suggestions":["Cloud costs"," "]}`})
			rec := testutil.NewRecorder()
			PublicRoutes(h).ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/suggest", tt.body))
			rec.AssertStatus(t, tt.wantStatus)
		})
	}
}
