// internal/app/store/snapshot/readonly.go
package snapshot

import (
	"context"

	"go.uber.org/zap"
)

// ReadOnly wraps a backend for deployments that forbid durable writes.
// Loads pass through. Saves are dropped with a warning and report success,
// so accepted changes live only in the caller's memory until restart.
type ReadOnly struct {
	inner  Backend
	logger *zap.Logger
}

// NewReadOnly returns the degraded-mode wrapper around inner.
func NewReadOnly(inner Backend, logger *zap.Logger) *ReadOnly {
	return &ReadOnly{inner: inner, logger: logger}
}

func (r *ReadOnly) Load(ctx context.Context, name string) ([]byte, error) {
	return r.inner.Load(ctx, name)
}

func (r *ReadOnly) Save(ctx context.Context, name string, data []byte) error {
	r.logger.Warn("write operations are disabled; change kept in memory only and will be lost on restart",
		zap.String("collection", name),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Names delegates when the wrapped backend can list collections.
func (r *ReadOnly) Names(ctx context.Context) ([]string, error) {
	if l, ok := r.inner.(Lister); ok {
		return l.Names(ctx)
	}
	return nil, nil
}
