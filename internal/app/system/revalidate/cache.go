// internal/app/system/revalidate/cache.go
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Page is a cached response.
type Page struct {
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// Cache serves rendered pages from a Store and drops them when their
// logical route is invalidated. Concurrent misses for the same key share
// one render.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
	group  singleflight.Group
}

// NewCache creates a page cache. ttl <= 0 means entries live until
// invalidated.
func NewCache(store Store, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{store: store, ttl: ttl, logger: logger}
}

// Store returns the backing store.
func (c *Cache) Store() Store { return c.store }

// Invalidate drops every cached page of the given routes. "*" empties the
// cache. Store errors are logged; the caller's mutation has already been
// committed and must not fail because of them.
func (c *Cache) Invalidate(ctx context.Context, routes ...string) {
	if hasAll(routes) {
		if err := c.store.Flush(ctx); err != nil {
			c.logger.Warn("page cache flush failed", zap.Error(err))
		}
		return
	}
	for _, route := range routes {
		if err := c.store.DropRoute(ctx, route); err != nil {
			c.logger.Warn("page cache invalidation failed", zap.String("route", route), zap.Error(err))
		}
	}
}

// Fetch returns the cached page for key, rendering it with fill on a miss.
// A store failure degrades to rendering without the cache.
func (c *Cache) Fetch(ctx context.Context, route, key string, fill func(context.Context) (Page, error)) (Page, bool, error) {
	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.Warn("page cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var p Page
		if err := json.Unmarshal(raw, &p); err == nil {
			return p, true, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Read before rendering: a mutation committed during the render
		// bumps it and the rendered page is not kept.
		gen, genErr := c.store.Generation(ctx, route)
		p, err := fill(ctx)
		if err != nil {
			return Page{}, err
		}
		if genErr != nil {
			c.logger.Warn("page cache read failed", zap.String("route", route), zap.Error(genErr))
			return p, nil
		}
		raw, err := json.Marshal(p)
		stored := false
		if err == nil {
			stored, err = c.store.PutIfCurrent(ctx, gen, route, key, raw, c.ttl)
		}
		switch {
		case err != nil:
			c.logger.Warn("page cache write failed", zap.String("key", key), zap.Error(err))
		case !stored:
			c.logger.Debug("route invalidated during render; page not cached", zap.String("key", key))
		}
		return p, nil
	})
	if err != nil {
		return Page{}, false, err
	}
	return v.(Page), false, nil
}

// Sweep removes expired entries when the store needs it.
func (c *Cache) Sweep(ctx context.Context) (int, error) {
	if s, ok := c.store.(Sweeper); ok {
		return s.Sweep(ctx)
	}
	return 0, nil
}

// Handler caches successful GET responses of next under the logical route
// chosen by route. The request path is the key within that route.
func (c *Cache) Handler(route func(*http.Request) string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}
		rt := route(r)
		key := rt + "|" + r.URL.Path

		var failed *capture
		page, hit, err := c.Fetch(r.Context(), rt, key, func(ctx context.Context) (Page, error) {
			rec := newCapture()
			next.ServeHTTP(rec, r.WithContext(ctx))
			if rec.status != http.StatusOK {
				failed = rec
				return Page{}, errNotCacheable
			}
			return Page{ContentType: rec.Header().Get("Content-Type"), Body: rec.body.Bytes()}, nil
		})
		if err != nil {
			if failed != nil {
				failed.replay(w)
				return
			}
			// Another request's render failed; render our own.
			next.ServeHTTP(w, r)
			return
		}

		if page.ContentType != "" {
			w.Header().Set("Content-Type", page.ContentType)
		}
		if hit {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page.Body)
	})
}

type cacheError string

func (e cacheError) Error() string { return string(e) }

const errNotCacheable = cacheError("response not cacheable")

// capture buffers a handler's response so it can be cached or replayed.
type capture struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newCapture() *capture {
	return &capture{header: make(http.Header), status: http.StatusOK}
}

func (c *capture) Header() http.Header         { return c.header }
func (c *capture) Write(b []byte) (int, error) { return c.body.Write(b) }
func (c *capture) WriteHeader(status int)      { c.status = status }

func (c *capture) replay(w http.ResponseWriter) {
	for k, v := range c.header {
		w.Header()[k] = v
	}
	w.WriteHeader(c.status)
	_, _ = w.Write(c.body.Bytes())
}
