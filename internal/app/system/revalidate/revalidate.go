// Package revalidate keeps rendered responses fresh.
//
// After a committed content mutation the store calls Invalidate with the
// logical routes (like "/blog" or "/services/web-development") whose output
// is now stale. The page cache drops entries for those routes; the NATS
// broadcaster forwards them to other instances. "*" means every route.
package revalidate

import (
	"context"

	"github.com/dalemusser/wavesite/internal/app/store/content"
)

// Notifier receives stale routes. It matches content.Notifier.
type Notifier = content.Notifier

// Multi fans an invalidation out to several notifiers in order.
type Multi []Notifier

func (m Multi) Invalidate(ctx context.Context, routes ...string) {
	for _, n := range m {
		if n != nil {
			n.Invalidate(ctx, routes...)
		}
	}
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, routes ...string)

func (f Func) Invalidate(ctx context.Context, routes ...string) { f(ctx, routes...) }

func hasAll(routes []string) bool {
	for _, r := range routes {
		if r == content.AllRoutes {
			return true
		}
	}
	return false
}
