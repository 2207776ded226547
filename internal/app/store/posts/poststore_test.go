package poststore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

type recorder struct{ routes [][]string }

func (r *recorder) Invalidate(_ context.Context, routes ...string) {
	r.routes = append(r.routes, routes)
}

func newStore(t *testing.T) (*Store, *recorder, *snapshot.Memory) {
	t.Helper()
	mem := snapshot.NewMemory()
	rec := &recorder{}
	s := New(content.Deps{Backend: mem, Notifier: rec, Logger: zap.NewNop()})
	s.now = func() time.Time { return time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC) }
	return s, rec, mem
}

func validInput(slug string) Input {
	return Input{
		Title:     "Hello World",
		Slug:      slug,
		Author:    "Asha",
		ImageHint: "laptop desk",
		Excerpt:   "A first look at what we do.",
		Content:   "<p>" + strings.Repeat("Lorem ipsum dolor sit amet. ", 5) + "</p>",
		Image:     "/uploads/images/2024/03/abcd1234.jpg",
	}
}

func TestCreate(t *testing.T) {
	s, rec, _ := newStore(t)
	ctx := context.Background()

	p, err := s.Create(ctx, validInput("hello-world"))
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if p.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if p.Date != "2024-03-09" {
		t.Errorf("Date = %q, want 2024-03-09", p.Date)
	}

	got, err := s.Get(ctx, "hello-world")
	if err != nil {
		t.Fatalf("Get(slug) error: %v", err)
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	want := []string{"/blog", "/admin/blog", "/blog/hello-world"}
	if diff := cmp.Diff(want, rec.routes[0]); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestCreate_SlugCollision(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, validInput("hello-world")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	_, err := s.Create(ctx, validInput("hello-world"))
	if !errors.Is(err, content.ErrConflict) {
		t.Fatalf("Create(duplicate) error = %v, want ErrConflict", err)
	}
	all, _ := s.All(ctx)
	if len(all) != 1 {
		t.Errorf("len(All()) = %d, want 1", len(all))
	}
}

func TestCreate_ValidationReportsEveryField(t *testing.T) {
	s, rec, mem := newStore(t)
	ctx := context.Background()

	in := validInput("Bad Slug")
	in.Title = "Hi"
	in.Content = "too short"
	in.Image = ""
	in.RedirectURL = "not-a-url"

	_, err := s.Create(ctx, in)
	var ve *content.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Create() error = %v, want ValidationError", err)
	}
	fields := ve.Fields()
	for _, f := range []string{"title", "slug", "content", "image", "redirectUrl"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("missing error for %q in %v", f, fields)
		}
	}
	if data, _ := mem.Load(ctx, Name); data != nil {
		t.Error("failed create wrote a snapshot")
	}
	if len(rec.routes) != 0 {
		t.Error("failed create sent invalidations")
	}
}

func TestCreate_SanitizesContent(t *testing.T) {
	s, _, _ := newStore(t)
	in := validInput("safe-post")
	in.Content += `<script>alert(1)</script>`

	p, err := s.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if strings.Contains(p.Content, "<script") {
		t.Errorf("Content not sanitized: %q", p.Content)
	}
}

func TestUpdate_PartialAndSlugChange(t *testing.T) {
	s, rec, _ := newStore(t)
	ctx := context.Background()
	p, _ := s.Create(ctx, validInput("old-slug"))

	got, err := s.Update(ctx, p.ID, Patch{Slug: content.Ptr("new-slug"), Image: content.Ptr("")})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if got.Title != p.Title || got.Image != p.Image {
		t.Errorf("Update() changed untouched fields: %+v", got)
	}

	want := []string{"/blog", "/admin/blog", "/blog/old-slug", "/blog/new-slug"}
	if diff := cmp.Diff(want, rec.routes[len(rec.routes)-1]); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Get(ctx, "old-slug"); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("Get(old-slug) error = %v, want ErrNotFound", err)
	}
}

func TestUpdate_RevalidatesMergedRecord(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()
	p, _ := s.Create(ctx, validInput("valid-post"))

	_, err := s.Update(ctx, p.ID, Patch{Excerpt: content.Ptr("short")})
	var ve *content.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Update() error = %v, want ValidationError", err)
	}
	got, _ := s.Get(ctx, p.ID)
	if got.Excerpt != p.Excerpt {
		t.Errorf("Excerpt = %q after rejected update", got.Excerpt)
	}
}

func TestUpdateDelete_NotFound(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()
	if _, err := s.Update(ctx, "missing", Patch{}); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Delete(ctx, "missing"); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
