// internal/app/store/snapshot/watch.go
package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reports collection files changed by another process (a hand edit,
// a deploy, contentctl import). Writes made through this File are ignored.
// It blocks until ctx is cancelled.
func (f *File) Watch(ctx context.Context, logger *zap.Logger, onChange func(name string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(f.dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			base := filepath.Base(event.Name)
			if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, ".json") {
				continue
			}
			name := strings.TrimSuffix(base, ".json")
			if checkName(name) != nil {
				continue
			}
			data, err := os.ReadFile(event.Name)
			if err != nil {
				continue // renamed away or mid-write; the next event catches it
			}
			if f.ownWrite(name, data) {
				continue
			}
			logger.Info("content file changed on disk", zap.String("collection", name))
			onChange(name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("content watcher error", zap.Error(err))
		}
	}
}
