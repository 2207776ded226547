// internal/app/system/revalidate/nats.go
package revalidate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DefaultSubject carries invalidation messages between instances.
const DefaultSubject = "wavesite.revalidate"

type message struct {
	Origin string   `json:"origin"`
	Routes []string `json:"routes"`
}

// ConnectNATS opens a connection that logs its lifecycle.
func ConnectNATS(url string, logger *zap.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("wavesite"),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("disconnected from NATS", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected to NATS", zap.String("server", nc.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			logger.Error("NATS async error", zap.String("subject", subject), zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("connected to NATS", zap.String("server", nc.ConnectedUrl()))
	return nc, nil
}

// Broadcaster publishes invalidations so other instances drop their
// cached pages and reload content.
type Broadcaster struct {
	nc      *nats.Conn
	subject string
	origin  string
	logger  *zap.Logger
}

// NewBroadcaster creates a broadcaster with a random instance id.
func NewBroadcaster(nc *nats.Conn, subject string, logger *zap.Logger) *Broadcaster {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Broadcaster{nc: nc, subject: subject, origin: uuid.NewString(), logger: logger}
}

type localKey struct{}

// Local marks ctx so a Broadcaster does not publish invalidations made
// under it. Reloads triggered by a remote message use it to avoid echoing
// the message back.
func Local(ctx context.Context) context.Context {
	return context.WithValue(ctx, localKey{}, true)
}

func isLocal(ctx context.Context) bool {
	v, _ := ctx.Value(localKey{}).(bool)
	return v
}

// Invalidate publishes the routes. Publish failures are logged only.
func (b *Broadcaster) Invalidate(ctx context.Context, routes ...string) {
	if isLocal(ctx) {
		return
	}
	data, err := json.Marshal(message{Origin: b.origin, Routes: routes})
	if err != nil {
		b.logger.Warn("encode invalidation", zap.Error(err))
		return
	}
	if err := b.nc.Publish(b.subject, data); err != nil {
		b.logger.Warn("publish invalidation failed", zap.String("subject", b.subject), zap.Error(err))
	}
}

// Listen subscribes to invalidations from other instances and hands their
// routes to onRemote. Messages this broadcaster sent are skipped.
func (b *Broadcaster) Listen(onRemote func(ctx context.Context, routes []string)) (*nats.Subscription, error) {
	return b.nc.Subscribe(b.subject, func(msg *nats.Msg) {
		var m message
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			b.logger.Warn("malformed invalidation message", zap.Error(err))
			return
		}
		if m.Origin == b.origin {
			return
		}
		b.logger.Debug("remote invalidation", zap.Strings("routes", m.Routes))
		onRemote(Local(context.Background()), m.Routes)
	})
}
