// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown is invoked during WAFFLE's shutdown phase, after the HTTP server
// has drained. It stops the background work Startup began and closes every
// backend. The first error is returned; the rest are logged.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if background.sub != nil {
		if err := background.sub.Unsubscribe(); err != nil {
			logger.Warn("NATS unsubscribe failed", zap.Error(err))
			keep(err)
		}
	}

	if background.cancel != nil {
		background.cancel()
	}
	background.watcher.Wait()

	if background.runner != nil {
		logger.Info("stopping background task runner")
		if err := background.runner.Stop(ctx); err != nil {
			logger.Warn("background task runner did not stop cleanly", zap.Error(err))
			keep(err)
		}
	}

	keep(closeDeps(ctx, deps, logger))
	return firstErr
}

// closeDeps closes every backend that is set, in reverse order of opening.
func closeDeps(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if deps.NATS != nil {
		logger.Info("draining NATS connection")
		if err := deps.NATS.Drain(); err != nil {
			logger.Error("NATS drain failed", zap.Error(err))
			keep(err)
		}
	}

	if deps.Redis != nil {
		logger.Info("closing Redis client")
		if err := deps.Redis.Close(); err != nil {
			logger.Error("Redis close failed", zap.Error(err))
			keep(err)
		}
	}

	if deps.Bolt != nil {
		logger.Info("closing bolt database")
		if err := deps.Bolt.Close(); err != nil {
			logger.Error("bolt close failed", zap.Error(err))
			keep(err)
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			keep(err)
		}
	}

	return firstErr
}
