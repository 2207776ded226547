package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

// exerciseBackend runs the behaviour every backend must share.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	got, err := b.Load(ctx, "posts")
	if err != nil {
		t.Fatalf("Load(missing) error: %v", err)
	}
	if got != nil {
		t.Errorf("Load(missing) = %q, want nil", got)
	}

	if err := b.Save(ctx, "posts", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := b.Save(ctx, "posts", []byte(`[{"id":"2"}]`)); err != nil {
		t.Fatalf("Save() second error: %v", err)
	}
	got, err = b.Load(ctx, "posts")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(got) != `[{"id":"2"}]` {
		t.Errorf("Load() = %s, want the latest snapshot", got)
	}

	if err := b.Save(ctx, "../etc", []byte("x")); err != ErrInvalidName {
		t.Errorf("Save(../etc) error = %v, want ErrInvalidName", err)
	}

	if l, ok := b.(Lister); ok {
		if err := b.Save(ctx, "team", []byte(`[]`)); err != nil {
			t.Fatalf("Save(team) error: %v", err)
		}
		names, err := l.Names(ctx)
		if err != nil {
			t.Fatalf("Names() error: %v", err)
		}
		if diff := cmp.Diff([]string{"posts", "team"}, names); diff != "" {
			t.Errorf("Names() mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestMemory(t *testing.T) {
	exerciseBackend(t, NewMemory())
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	exerciseBackend(t, f)

	// No temp files left behind.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestFile_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "content")
	if _, err := NewFile(dir); err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("content dir not created: %v", err)
	}
}

func TestBolt(t *testing.T) {
	b, err := OpenBolt(filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatalf("OpenBolt() error: %v", err)
	}
	defer b.Close()
	exerciseBackend(t, b)
}

func TestBolt_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")
	ctx := context.Background()

	b, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt() error: %v", err)
	}
	if err := b.Save(ctx, "settings", []byte(`{"contactEmail":"a@b.co"}`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	b.Close()

	b, err = OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt() reopen error: %v", err)
	}
	defer b.Close()
	got, err := b.Load(ctx, "settings")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(got) != `{"contactEmail":"a@b.co"}` {
		t.Errorf("Load() after reopen = %s", got)
	}
}

func TestReadOnly_DropsWrites(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	_ = inner.Save(ctx, "posts", []byte(`["original"]`))

	ro := NewReadOnly(inner, zap.NewNop())
	if err := ro.Save(ctx, "posts", []byte(`["changed"]`)); err != nil {
		t.Fatalf("Save() error = %v, want nil in degraded mode", err)
	}
	got, err := ro.Load(ctx, "posts")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(got) != `["original"]` {
		t.Errorf("Load() = %s, want the durable snapshot untouched", got)
	}
}

func TestFile_WatchIgnoresOwnWrites(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan string, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.Watch(ctx, zap.NewNop(), func(name string) { changed <- name })
	}()
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := f.Save(ctx, "posts", []byte(`[]`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := os.WriteFile(f.Path("team"), []byte(`[{"id":"x"}]`), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case name := <-changed:
			if name == "posts" {
				t.Fatal("watcher reported a write made through Save")
			}
			if name == "team" {
				return
			}
		case <-deadline:
			t.Fatal("watcher did not report the external edit")
		}
	}
}
