// internal/app/store/content/notifier.go
package content

import "context"

// Notifier is told which logical routes are stale after a committed mutation.
// Implementations must not block the caller on remote failures.
type Notifier interface {
	Invalidate(ctx context.Context, routes ...string)
}

// NopNotifier discards invalidations.
type NopNotifier struct{}

func (NopNotifier) Invalidate(context.Context, ...string) {}

// AllRoutes invalidates every cached route.
const AllRoutes = "*"
