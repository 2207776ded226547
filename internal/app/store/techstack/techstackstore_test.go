package techstackstore

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/google/go-cmp/cmp"
)

func names(t *testing.T, s *Store) []string {
	t.Helper()
	all, err := s.All(context.Background())
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	out := make([]string, len(all))
	for i, tech := range all {
		out[i] = tech.Name
	}
	return out
}

func TestSave_AppendsAndRenames(t *testing.T) {
	s := New(content.Deps{Backend: snapshot.NewMemory()})
	ctx := context.Background()

	goTech, err := s.Save(ctx, "", "Go")
	if err != nil {
		t.Fatalf("Save(new) error: %v", err)
	}
	if _, err := s.Save(ctx, "", " React "); err != nil {
		t.Fatalf("Save(new) error: %v", err)
	}
	if diff := cmp.Diff([]string{"Go", "React"}, names(t, s)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Save(ctx, goTech.ID, "Golang"); err != nil {
		t.Fatalf("Save(existing) error: %v", err)
	}
	if diff := cmp.Diff([]string{"Golang", "React"}, names(t, s)); diff != "" {
		t.Errorf("rename mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_Errors(t *testing.T) {
	s := New(content.Deps{Backend: snapshot.NewMemory()})
	ctx := context.Background()

	var ve *content.ValidationError
	if _, err := s.Save(ctx, "", "   "); !errors.As(err, &ve) {
		t.Errorf("Save(blank) error = %v, want ValidationError", err)
	}
	if _, err := s.Save(ctx, "nope", "Rust"); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("Save(unknown id) error = %v, want ErrNotFound", err)
	}
}
