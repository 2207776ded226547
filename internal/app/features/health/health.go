// internal/app/features/health/health.go
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const checkTimeout = 5 * time.Second

// Check probes one backend. A nil error means healthy.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Handler provides health check endpoints over every configured backend.
type Handler struct {
	checks []Check
	logger *zap.Logger
}

// NewHandler creates a new health check Handler.
func NewHandler(logger *zap.Logger, checks ...Check) *Handler {
	sort.SliceStable(checks, func(i, j int) bool { return checks[i].Name < checks[j].Name })
	return &Handler{
		checks: checks,
		logger: logger,
	}
}

// Response represents the health check response.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes returns a chi.Router with health check routes mounted.
// Provides /health (full check), /health/ready, and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds /ready and /livez endpoints directly on the root router.
// This is the standard convention for Kubernetes probes:
//   - /ready (or /readyz) - readiness probe
//   - /livez - liveness probe
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// run probes every backend and reports per-service status.
func (h *Handler) run(ctx context.Context) Response {
	resp := Response{
		Status:   "ok",
		Services: make(map[string]string, len(h.checks)),
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	for _, c := range h.checks {
		if err := c.Probe(ctx); err != nil {
			resp.Status = "degraded"
			resp.Services[c.Name] = "unavailable"
			h.logger.Warn("health check failed", zap.String("service", c.Name), zap.Error(err))
			continue
		}
		resp.Services[c.Name] = "ok"
	}
	return resp
}

// Check performs a full health check of every backend.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := h.run(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(resp)
}

// Ready checks if the service is ready to accept requests.
// Used by Kubernetes readiness probes.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if resp := h.run(r.Context()); resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not ready"}`))
		return
	}
	w.Write([]byte(`{"status":"ready"}`))
}

// Live checks if the service is alive.
// Used by Kubernetes liveness probes.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"alive"}`))
}

// BackendCheck reads the settings snapshot through the content backend.
func BackendCheck(b snapshot.Backend) Check {
	return Check{Name: "content", Probe: func(ctx context.Context) error {
		_, err := b.Load(ctx, "settings")
		return err
	}}
}

// MongoCheck pings the primary.
func MongoCheck(client *mongo.Client) Check {
	return Check{Name: "mongodb", Probe: func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}}
}

// RedisCheck pings the page cache server.
func RedisCheck(client *redis.Client) Check {
	return Check{Name: "redis", Probe: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}

// NATSCheck reports whether the broadcast connection is up.
func NATSCheck(nc *nats.Conn) Check {
	return Check{Name: "nats", Probe: func(context.Context) error {
		if !nc.IsConnected() {
			return errors.New("nats: " + nc.Status().String())
		}
		return nil
	}}
}
