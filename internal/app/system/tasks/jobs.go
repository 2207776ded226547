// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper drops expired entries. *revalidate.Cache implements it.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Pruner deletes records older than a cutoff. *audit.Store implements it.
type Pruner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Reloader re-reads content from its backend.
type Reloader interface {
	Reload(ctx context.Context) error
}

// CacheSweepJob evicts expired pages from the page cache.
func CacheSweepJob(s Sweeper, interval time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "page-cache-sweep",
		Interval: interval,
		Run: func(ctx context.Context) error {
			n, err := s.Sweep(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Debug("swept expired cached pages", zap.Int("evicted", n))
			}
			return nil
		},
	}
}

// AuditRetentionJob deletes audit events older than retention.
func AuditRetentionJob(p Pruner, retention time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "audit-retention",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			deleted, err := p.DeleteBefore(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("removed old audit events",
					zap.Int64("deleted", deleted),
					zap.Duration("retention", retention))
			}
			return nil
		},
	}
}

// ContentRefreshJob reloads every collection from a shared backend. It keeps
// instances that share Mongo consistent when no broadcast is configured.
func ContentRefreshJob(r Reloader, interval time.Duration) Job {
	return Job{
		Name:     "content-refresh",
		Interval: interval,
		Run:      r.Reload,
	}
}
