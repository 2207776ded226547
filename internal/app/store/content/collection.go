// Package content is the generic store behind every site content type.
//
// A Collection holds an ordered list of records; a Document holds a single
// value (site settings, homepage, the pricing table). Both keep the last
// committed snapshot in memory and persist the whole snapshot through a
// snapshot.Backend on every mutation. Mutations on one collection are
// serialized; different collections never block each other.
package content

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"go.uber.org/zap"
)

// Deps are shared by every collection in a process.
type Deps struct {
	Backend  snapshot.Backend
	Notifier Notifier
	Logger   *zap.Logger
}

func (d Deps) notifier() Notifier {
	if d.Notifier == nil {
		return NopNotifier{}
	}
	return d.Notifier
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Kind describes one list content type.
type Kind[T any] struct {
	// Name is the snapshot name, e.g. "posts".
	Name string
	// ID returns the record's id.
	ID func(*T) string
	// Key returns the natural key (slug). Nil when the type has none.
	Key func(*T) string
	// KeyField names the natural key in conflict messages.
	KeyField string
	// Append puts new records at the end instead of the front.
	Append bool
	// Routes lists the logical routes made stale by a change from before to
	// after. before is nil on insert, after is nil on delete.
	Routes func(before, after *T) []string
}

// Collection is an ordered list of records of one kind.
type Collection[T any] struct {
	kind   Kind[T]
	deps   Deps
	logger *zap.Logger

	mu     sync.RWMutex
	loaded bool
	items  []T
}

// NewCollection returns a collection that loads lazily on first use.
func NewCollection[T any](deps Deps, kind Kind[T]) *Collection[T] {
	return &Collection[T]{
		kind:   kind,
		deps:   deps,
		logger: deps.logger().With(zap.String("collection", kind.Name)),
	}
}

// Name returns the collection's snapshot name.
func (c *Collection[T]) Name() string { return c.kind.Name }

// All returns the records in stored order. The returned slice is a copy;
// nested slices inside records are shared and must not be mutated.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out, nil
}

// Lookup finds a record by id or natural key.
func (c *Collection[T]) Lookup(ctx context.Context, key string) (mo.Option[T], error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return mo.None[T](), err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(key); i >= 0 {
		return mo.Some(c.items[i]), nil
	}
	return mo.None[T](), nil
}

// Get is Lookup that reports absence as a NotFoundError.
func (c *Collection[T]) Get(ctx context.Context, key string) (T, error) {
	opt, err := c.Lookup(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	item, ok := opt.Get()
	if !ok {
		return item, &NotFoundError{Collection: c.kind.Name, Key: key}
	}
	return item, nil
}

// Insert adds a fully built record. The caller has validated it and
// assigned its id.
func (c *Collection[T]) Insert(ctx context.Context, item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadLocked(ctx, false); err != nil {
		return item, err
	}

	if err := c.checkUnique(&item, -1); err != nil {
		return item, err
	}

	next := make([]T, 0, len(c.items)+1)
	if c.kind.Append {
		next = append(append(next, c.items...), item)
	} else {
		next = append(append(next, item), c.items...)
	}
	if err := c.commitLocked(ctx, next); err != nil {
		return item, err
	}
	c.invalidate(ctx, c.routes(nil, &item))
	return item, nil
}

// Update applies fn to a copy of the record with the given id. fn merges the
// caller's changes and re-validates the result; an error from fn aborts the
// update with nothing changed.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if err := c.loadLocked(ctx, false); err != nil {
		return zero, err
	}

	i := c.indexOfID(id)
	if i < 0 {
		return zero, &NotFoundError{Collection: c.kind.Name, Key: id}
	}
	before := c.items[i]
	after := before
	if err := fn(&after); err != nil {
		return zero, err
	}
	if err := c.checkUnique(&after, i); err != nil {
		return zero, err
	}

	next := make([]T, len(c.items))
	copy(next, c.items)
	next[i] = after
	if err := c.commitLocked(ctx, next); err != nil {
		return zero, err
	}
	c.invalidate(ctx, c.routes(&before, &after))
	return after, nil
}

// Delete removes the record with the given id.
func (c *Collection[T]) Delete(ctx context.Context, id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if err := c.loadLocked(ctx, false); err != nil {
		return zero, err
	}

	i := c.indexOfID(id)
	if i < 0 {
		return zero, &NotFoundError{Collection: c.kind.Name, Key: id}
	}
	removed := c.items[i]

	next := make([]T, 0, len(c.items)-1)
	next = append(append(next, c.items[:i]...), c.items[i+1:]...)
	if err := c.commitLocked(ctx, next); err != nil {
		return zero, err
	}
	c.invalidate(ctx, c.routes(&removed, nil))
	return removed, nil
}

// Replace swaps in a whole new list, as an import does. Natural keys must
// be unique within items.
func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadLocked(ctx, false); err != nil {
		return err
	}
	if c.kind.Key != nil {
		seen := make(map[string]bool, len(items))
		for i := range items {
			k := c.kind.Key(&items[i])
			if k != "" && seen[k] {
				return &ConflictError{Collection: c.kind.Name, Field: c.kind.KeyField, Value: k}
			}
			seen[k] = true
		}
	}
	old := c.items
	next := append([]T{}, items...)
	if err := c.commitLocked(ctx, next); err != nil {
		return err
	}
	c.invalidate(ctx, c.changedRoutes(old, next))
	return nil
}

// Reload discards the in-memory snapshot and reads the backend again.
// Used when another process changed the stored snapshot.
func (c *Collection[T]) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.items
	if err := c.loadLocked(ctx, true); err != nil {
		return err
	}
	c.invalidate(ctx, c.changedRoutes(old, c.items))
	return nil
}

func (c *Collection[T]) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx, false)
}

// loadLocked reads the snapshot unless it is already in memory. The caller
// holds the write lock.
func (c *Collection[T]) loadLocked(ctx context.Context, force bool) error {
	if c.loaded && !force {
		return nil
	}
	data, err := c.deps.Backend.Load(ctx, c.kind.Name)
	if err != nil {
		return &PersistenceError{Op: "load", Collection: c.kind.Name, Err: err}
	}
	items := []T{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			return &PersistenceError{Op: "load", Collection: c.kind.Name, Err: err}
		}
		if items == nil {
			items = []T{}
		}
	}
	c.items = items
	c.loaded = true
	return nil
}

// commitLocked persists next and, only on success, makes it the in-memory
// snapshot.
func (c *Collection[T]) commitLocked(ctx context.Context, next []T) error {
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", Collection: c.kind.Name, Err: err}
	}
	if err := c.deps.Backend.Save(ctx, c.kind.Name, data); err != nil {
		c.logger.Error("failed to save collection", zap.Error(err))
		return &PersistenceError{Op: "save", Collection: c.kind.Name, Err: err}
	}
	c.items = next
	return nil
}

func (c *Collection[T]) checkUnique(item *T, skip int) error {
	if c.kind.Key == nil {
		return nil
	}
	key := c.kind.Key(item)
	if key == "" {
		return nil
	}
	for i := range c.items {
		if i != skip && c.kind.Key(&c.items[i]) == key {
			return &ConflictError{Collection: c.kind.Name, Field: c.kind.KeyField, Value: key}
		}
	}
	return nil
}

func (c *Collection[T]) indexOfID(id string) int {
	for i := range c.items {
		if c.kind.ID(&c.items[i]) == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) indexOf(key string) int {
	if i := c.indexOfID(key); i >= 0 {
		return i
	}
	if c.kind.Key == nil || key == "" {
		return -1
	}
	for i := range c.items {
		if c.kind.Key(&c.items[i]) == key {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) changedRoutes(old, next []T) []string {
	var routes []string
	for i := range old {
		routes = append(routes, c.routes(&old[i], nil)...)
	}
	for i := range next {
		routes = append(routes, c.routes(nil, &next[i])...)
	}
	if len(routes) == 0 {
		routes = c.routes(nil, nil)
	}
	return routes
}

func (c *Collection[T]) invalidate(ctx context.Context, routes []string) {
	if len(routes) == 0 {
		return
	}
	c.deps.notifier().Invalidate(ctx, lo.Uniq(routes)...)
}

func (c *Collection[T]) routes(before, after *T) []string {
	if c.kind.Routes == nil {
		return nil
	}
	return c.kind.Routes(before, after)
}
