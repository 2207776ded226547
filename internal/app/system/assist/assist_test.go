package assist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// fakeModel returns a canned response and records the last request.
type fakeModel struct {
	out  string
	err  error
	last Request
}

func (f *fakeModel) Generate(_ context.Context, req Request) (string, error) {
	f.last = req
	return f.out, f.err
}

func TestDraftArticle(t *testing.T) {
	m := &fakeModel{out: `{"content":"<h1>Go Tips</h1><h2>Why</h2><p>Because.</p><script>steal()</script>"}`}
	h := New(m, zap.NewNop())

	got, err := h.DraftArticle(context.Background(), "  Go Tips ")
	if err != nil {
		t.Fatalf("DraftArticle() error = %v", err)
	}
	if strings.Contains(got, "<h1>") || strings.Contains(got, "script") {
		t.Errorf("DraftArticle() = %q, want h1 and script stripped", got)
	}
	if !strings.Contains(got, "<h2>Why</h2><p>Because.</p>") {
		t.Errorf("DraftArticle() = %q, want the sections kept", got)
	}
	if !strings.Contains(m.last.Prompt, `"Go Tips"`) {
		t.Errorf("prompt = %q, want the trimmed title", m.last.Prompt)
	}
	if m.last.Schema == nil || m.last.Schema.Type != genai.TypeObject {
		t.Errorf("schema = %+v, want an object schema", m.last.Schema)
	}
}

func TestDraftArticle_Failures(t *testing.T) {
	tests := []struct {
		name  string
		title string
		model *fakeModel
	}{
		{"blank title", "  ", &fakeModel{}},
		{"model error", "Title", &fakeModel{err: errors.New("quota")}},
		{"malformed output", "Title", &fakeModel{out: `not json`}},
		{"empty content", "Title", &fakeModel{out: `{"content":"<script>x()</script>"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.model, zap.NewNop()).DraftArticle(context.Background(), tt.title)
			var ge *GenerationError
			if !errors.As(err, &ge) {
				t.Fatalf("error = %v, want *GenerationError", err)
			}
			if ge.Op != "draft article" {
				t.Errorf("Op = %q, want %q", ge.Op, "draft article")
			}
		})
	}
}

func TestRecommend(t *testing.T) {
	candidates := []Candidate{
		{URL: "/blog/go-tips", Title: "Go Tips"},
		{URL: "/blog/scaling", Title: "Scaling"},
		{URL: "/blog/seo", Title: "SEO"},
		{URL: "/blog/design", Title: "Design"},
	}

	tests := []struct {
		name string
		out  string
		want []Candidate
	}{
		{
			name: "unknown urls dropped",
			out:  `["/blog/go-tips","/blog/invented","https://evil.example"]`,
			want: []Candidate{candidates[0]},
		},
		{
			name: "duplicates dropped",
			out:  `["/blog/seo","/blog/seo"," /blog/scaling "]`,
			want: []Candidate{candidates[2], candidates[1]},
		},
		{
			name: "capped at three",
			out:  `["/blog/design","/blog/seo","/blog/scaling","/blog/go-tips"]`,
			want: []Candidate{candidates[3], candidates[2], candidates[1]},
		},
		{
			name: "full candidate line accepted",
			out:  `["URL: /blog/design, Title: Design"]`,
			want: []Candidate{candidates[3]},
		},
		{
			name: "nothing relevant",
			out:  `[]`,
			want: []Candidate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeModel{out: tt.out}
			got, err := New(m, zap.NewNop()).Recommend(context.Background(), candidates, []string{"Subject: Speed, Message: our site is slow"})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Recommend() mismatch (-want +got):\n%s", diff)
			}
			if !strings.Contains(m.last.Prompt, "URL: /blog/go-tips, Title: Go Tips") {
				t.Errorf("prompt does not list candidates: %q", m.last.Prompt)
			}
			if !strings.Contains(m.last.Prompt, "Subject: Speed") {
				t.Errorf("prompt does not list inquiries: %q", m.last.Prompt)
			}
		})
	}
}

func TestRecommend_NoCandidatesSkipsModel(t *testing.T) {
	m := &fakeModel{err: errors.New("should not be called")}
	got, err := New(m, zap.NewNop()).Recommend(context.Background(), nil, []string{"x"})
	if err != nil || len(got) != 0 {
		t.Errorf("Recommend() = %v, %v; want empty and nil", got, err)
	}
}

func TestRecommend_MalformedOutput(t *testing.T) {
	m := &fakeModel{out: `{"urls":[]}`}
	_, err := New(m, zap.NewNop()).Recommend(context.Background(), []Candidate{{URL: "/blog/a", Title: "A"}}, nil)
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Errorf("error = %v, want *GenerationError", err)
	}
}

func TestSuggestRelated(t *testing.T) {
	m := &fakeModel{out: `{"suggestions":[" Cloud Migration Guide ",""," Case Study: Retail "]}`}
	got, err := New(m, zap.NewNop()).SuggestRelated(context.Background(), "/services/cloud", "viewed pricing")
	if err != nil {
		t.Fatalf("SuggestRelated() error = %v", err)
	}
	want := []string{"Cloud Migration Guide", "Case Study: Retail"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SuggestRelated() mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(m.last.Prompt, "/services/cloud") || !strings.Contains(m.last.Prompt, "viewed pricing") {
		t.Errorf("prompt = %q", m.last.Prompt)
	}
}

func TestUnavailable(t *testing.T) {
	_, err := New(Unavailable{}, zap.NewNop()).SuggestRelated(context.Background(), "/", "")
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Errorf("error = %v, want *GenerationError", err)
	}
}
