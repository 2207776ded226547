// internal/app/store/snapshot/file.go
package snapshot

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// File keeps each collection in <dir>/<name>.json.
type File struct {
	dir string

	mu      sync.Mutex
	written map[string][sha256.Size]byte // last content this process wrote, per name
}

// NewFile creates the data directory if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}
	return &File{dir: dir, written: make(map[string][sha256.Size]byte)}, nil
}

// Dir returns the data directory.
func (f *File) Dir() string { return f.dir }

// Path returns the file that holds the named collection.
func (f *File) Path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

// Load reads the collection file. A missing file is an empty collection.
func (f *File) Load(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Save writes to a temp file in the same directory and renames it over the
// collection file, so readers see either the old or the new snapshot.
func (f *File) Save(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	f.mu.Lock()
	f.written[name] = sha256.Sum256(data)
	f.mu.Unlock()

	if err := os.Rename(tmpName, f.Path(name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// Names lists the collections present in the data directory.
func (f *File) Names(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || !strings.HasSuffix(n, ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(n, ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// ownWrite reports whether data is exactly what this process last saved
// for name. The watcher uses it to ignore events caused by Save.
func (f *File) ownWrite(name string, data []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum, ok := f.written[name]
	return ok && sum == sha256.Sum256(data)
}
