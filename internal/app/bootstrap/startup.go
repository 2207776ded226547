// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"sync"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/wavesite/internal/app/system/tasks"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema setup are complete,
// but before the HTTP handler is built and requests are served.
//
// It loads every content type so a broken snapshot fails the boot instead of
// the first request, then starts the background jobs, the content file
// watcher and the NATS subscription.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := deps.Stores.Reload(ctx); err != nil {
		logger.Error("failed to load content", zap.Error(err))
		return err
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	background.cancel = cancel

	startTaskRunner(bgCtx, appCfg, deps, logger)

	if deps.File != nil && !appCfg.ReadOnly {
		startWatcher(bgCtx, deps, logger)
	}

	if deps.Broadcaster != nil {
		// ctx is marked local, so the reload does not publish again.
		sub, err := deps.Broadcaster.Listen(onRemoteInvalidation(appCfg, deps, logger))
		if err != nil {
			logger.Error("failed to subscribe to invalidations", zap.Error(err))
			return err
		}
		background.sub = sub
	}

	return nil
}

// background holds what Startup starts so Shutdown can stop it.
var background struct {
	cancel  context.CancelFunc
	runner  *tasks.Runner
	watcher sync.WaitGroup
	sub     *nats.Subscription
}

// onRemoteInvalidation applies another instance's invalidation. A
// read-only instance keeps its in-memory changes until restart, so it only
// drops cached pages and does not reload from the backend.
func onRemoteInvalidation(appCfg AppConfig, deps DBDeps, logger *zap.Logger) func(context.Context, []string) {
	return func(ctx context.Context, routes []string) {
		if !appCfg.ReadOnly {
			if err := deps.Stores.Reload(ctx); err != nil {
				logger.Warn("reload after remote invalidation failed", zap.Error(err))
			}
		}
		deps.Cache.Invalidate(ctx, routes...)
	}
}

func backgroundJobs(appCfg AppConfig, deps DBDeps, logger *zap.Logger) []tasks.Job {
	var jobs []tasks.Job
	if appCfg.CacheSweepInterval > 0 {
		jobs = append(jobs, tasks.CacheSweepJob(deps.Cache, appCfg.CacheSweepInterval, logger))
	}
	if deps.AuditStore != nil && appCfg.AuditLogRetention > 0 {
		jobs = append(jobs, tasks.AuditRetentionJob(deps.AuditStore, appCfg.AuditLogRetention, logger))
	}
	// Instances sharing Mongo without NATS only see each other's writes
	// through a periodic reload. Read-only instances would lose their
	// in-memory changes to it.
	switch {
	case appCfg.ContentRefresh <= 0:
	case appCfg.ReadOnly:
		logger.Warn("content_refresh ignored in read-only mode")
	default:
		jobs = append(jobs, tasks.ContentRefreshJob(deps.Stores, appCfg.ContentRefresh))
	}
	return jobs
}

func startTaskRunner(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	runner := tasks.New(logger)
	for _, job := range backgroundJobs(appCfg, deps, logger) {
		runner.Register(job)
	}
	runner.Start(ctx)
	background.runner = runner
}

func startWatcher(ctx context.Context, deps DBDeps, logger *zap.Logger) {
	background.watcher.Add(1)
	go func() {
		defer background.watcher.Done()
		err := deps.File.Watch(ctx, logger, func(name string) {
			if !deps.Stores.Has(name) {
				return
			}
			// Reload invalidates the routes whose content changed.
			if err := deps.Stores.ReloadNamed(ctx, name); err != nil {
				logger.Warn("reload of edited content failed", zap.String("collection", name), zap.Error(err))
			}
		})
		if err != nil {
			logger.Error("content watcher stopped", zap.Error(err))
		}
	}()
	logger.Info("watching content directory", zap.String("dir", deps.File.Dir()))
}
