// internal/app/system/revalidate/store.go
package revalidate

import (
	"context"
	"sync"
	"time"
)

// Store holds cached pages. Every entry belongs to one logical route so a
// route can be dropped as a unit.
//
// DropRoute advances the route's generation and Flush advances every
// generation. PutIfCurrent stores a page only while the route is still at
// the generation read before the page was rendered, so a render that raced
// an invalidation is discarded instead of cached.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, route, key string, val []byte, ttl time.Duration) error
	Generation(ctx context.Context, route string) (Generation, error)
	PutIfCurrent(ctx context.Context, gen Generation, route, key string, val []byte, ttl time.Duration) (bool, error)
	DropRoute(ctx context.Context, route string) error
	Flush(ctx context.Context) error
}

// Generation identifies a route's invalidation state.
type Generation struct {
	Epoch uint64 // bumped by Flush
	Route uint64 // bumped by DropRoute
}

// Sweeper is implemented by stores that must remove expired entries
// themselves.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type memEntry struct {
	route   string
	val     []byte
	expires time.Time
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	routes  map[string]map[string]struct{}
	epoch   uint64
	gens    map[string]uint64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memEntry),
		routes:  make(map[string]map[string]struct{}),
		gens:    make(map[string]uint64),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.removeLocked(key)
		return nil, false, nil
	}
	return e.val, true, nil
}

func (m *MemoryStore) Put(_ context.Context, route, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putLocked(route, key, val, ttl)
	return nil
}

func (m *MemoryStore) Generation(_ context.Context, route string) (Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Generation{Epoch: m.epoch, Route: m.gens[route]}, nil
}

func (m *MemoryStore) PutIfCurrent(_ context.Context, gen Generation, route, key string, val []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != (Generation{Epoch: m.epoch, Route: m.gens[route]}) {
		return false, nil
	}
	m.putLocked(route, key, val, ttl)
	return true, nil
}

func (m *MemoryStore) putLocked(route, key string, val []byte, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	m.removeLocked(key)
	m.entries[key] = memEntry{route: route, val: val, expires: exp}
	if m.routes[route] == nil {
		m.routes[route] = make(map[string]struct{})
	}
	m.routes[route][key] = struct{}{}
}

func (m *MemoryStore) DropRoute(_ context.Context, route string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.routes[route] {
		delete(m.entries, key)
	}
	delete(m.routes, route)
	m.gens[route]++
	return nil
}

func (m *MemoryStore) Flush(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memEntry)
	m.routes = make(map[string]map[string]struct{})
	m.epoch++
	return nil
}

// Sweep removes expired entries and reports how many it removed.
func (m *MemoryStore) Sweep(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for key, e := range m.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			m.removeLocked(key)
			n++
		}
	}
	return n, nil
}

// Len returns the number of live and expired entries held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryStore) removeLocked(key string) {
	e, ok := m.entries[key]
	if !ok {
		return
	}
	delete(m.entries, key)
	if keys := m.routes[e.route]; keys != nil {
		delete(keys, key)
		if len(keys) == 0 {
			delete(m.routes, e.route)
		}
	}
}
