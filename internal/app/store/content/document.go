// internal/app/store/content/document.go
package content

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// DocKind describes a singleton content type.
type DocKind[T any] struct {
	Name string
	// Default is returned while nothing has been saved.
	Default func() T
	// Clone deep-copies a value so an update can work on a private copy.
	// Nil means T has no shared references and a plain copy is enough.
	Clone func(T) T
	// Routes lists the routes made stale by any change.
	Routes []string
}

// Document is a single persisted value.
type Document[T any] struct {
	kind   DocKind[T]
	deps   Deps
	logger *zap.Logger

	mu      sync.RWMutex
	loaded  bool
	present bool
	value   T
}

// NewDocument returns a document that loads lazily on first use.
func NewDocument[T any](deps Deps, kind DocKind[T]) *Document[T] {
	return &Document[T]{
		kind:   kind,
		deps:   deps,
		logger: deps.logger().With(zap.String("collection", kind.Name)),
	}
}

// Name returns the document's snapshot name.
func (d *Document[T]) Name() string { return d.kind.Name }

// Get returns the stored value, or the default when none was saved.
func (d *Document[T]) Get(ctx context.Context) (T, error) {
	d.mu.RLock()
	if d.loaded {
		v := d.clone(d.value)
		d.mu.RUnlock()
		return v, nil
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.loadLocked(ctx, false); err != nil {
		var zero T
		return zero, err
	}
	return d.clone(d.value), nil
}

// Exists reports whether a value has been saved.
func (d *Document[T]) Exists(ctx context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.loadLocked(ctx, false); err != nil {
		return false, err
	}
	return d.present, nil
}

// Update applies fn to a private copy of the current value and persists the
// result. An error from fn leaves the stored value untouched.
func (d *Document[T]) Update(ctx context.Context, fn func(*T) error) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var zero T
	if err := d.loadLocked(ctx, false); err != nil {
		return zero, err
	}

	next := d.clone(d.value)
	if err := fn(&next); err != nil {
		return zero, err
	}

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return zero, &PersistenceError{Op: "save", Collection: d.kind.Name, Err: err}
	}
	if err := d.deps.Backend.Save(ctx, d.kind.Name, data); err != nil {
		d.logger.Error("failed to save document", zap.Error(err))
		return zero, &PersistenceError{Op: "save", Collection: d.kind.Name, Err: err}
	}
	d.value = next
	d.present = true

	d.invalidate(ctx)
	return d.clone(next), nil
}

// Set replaces the whole value.
func (d *Document[T]) Set(ctx context.Context, v T) (T, error) {
	return d.Update(ctx, func(cur *T) error {
		*cur = v
		return nil
	})
}

// Reload re-reads the backend, dropping any in-memory value.
func (d *Document[T]) Reload(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.loadLocked(ctx, true); err != nil {
		return err
	}
	d.invalidate(ctx)
	return nil
}

func (d *Document[T]) loadLocked(ctx context.Context, force bool) error {
	if d.loaded && !force {
		return nil
	}
	data, err := d.deps.Backend.Load(ctx, d.kind.Name)
	if err != nil {
		return &PersistenceError{Op: "load", Collection: d.kind.Name, Err: err}
	}
	if len(data) == 0 {
		d.value = d.defaultValue()
		d.present = false
	} else {
		v := d.defaultValue()
		if err := json.Unmarshal(data, &v); err != nil {
			return &PersistenceError{Op: "load", Collection: d.kind.Name, Err: err}
		}
		d.value = v
		d.present = true
	}
	d.loaded = true
	return nil
}

func (d *Document[T]) defaultValue() T {
	if d.kind.Default != nil {
		return d.kind.Default()
	}
	var zero T
	return zero
}

func (d *Document[T]) clone(v T) T {
	if d.kind.Clone != nil {
		return d.kind.Clone(v)
	}
	return v
}

func (d *Document[T]) invalidate(ctx context.Context) {
	if len(d.kind.Routes) > 0 {
		d.deps.notifier().Invalidate(ctx, d.kind.Routes...)
	}
}

// CloneJSON deep-copies v through a JSON round trip. Suitable for values
// that are persisted as JSON anyway.
func CloneJSON[T any](v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}
