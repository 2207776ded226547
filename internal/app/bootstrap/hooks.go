// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires this app into the WAFFLE lifecycle.
// Each function is called in order by app.Run, from configuration
// loading through backend setup, one-time startup work, HTTP handler
// construction, and finally graceful shutdown.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "wavesite",     // used only for logging/diagnostics
	LoadConfig:     LoadConfig,     // load core + app config
	ValidateConfig: ValidateConfig, // backends, Mongo URI, admin credentials
	ConnectDB:      ConnectDB,      // content backend, Mongo, Redis, NATS, storage, model
	EnsureSchema:   EnsureSchema,   // Mongo collections + indexes, default content
	Startup:        Startup,        // load content, start jobs, watcher, subscription
	BuildHandler:   BuildHandler,   // build the HTTP router + middleware stack
	Shutdown:       Shutdown,       // stop background work, close backends
}
