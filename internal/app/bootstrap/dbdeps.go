// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	sitestore "github.com/dalemusser/wavesite/internal/app/store/site"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/dalemusser/wavesite/internal/app/system/assist"
	"github.com/dalemusser/wavesite/internal/app/system/authutil"
	"github.com/dalemusser/wavesite/internal/app/system/mailer"
	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// It is created in ConnectDB and passed to EnsureSchema, Startup,
// BuildHandler and Shutdown. Optional backends are nil when not configured;
// Shutdown closes whatever is set.
type DBDeps struct {
	// MongoDB client and database (nil unless mongo_uri is set)
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Content persistence. Backend is what the stores use (possibly the
	// read-only wrapper); File and Bolt are the concrete backends kept for
	// watching and closing.
	Backend snapshot.Backend
	File    *snapshot.File
	Bolt    *snapshot.Bolt

	// Content stores over Backend
	Stores *sitestore.Stores

	// Page cache, its optional Redis client and the NATS broadcaster
	Cache       *revalidate.Cache
	Redis       *redis.Client
	NATS        *nats.Conn
	Broadcaster *revalidate.Broadcaster

	// FileStorage for uploaded images
	FileStorage storage.Store

	// AuditStore is nil without Mongo; audit events then go to the log only.
	AuditStore *audit.Store

	// Admin credentials; nil when no admin is configured.
	Credentials *authutil.Credentials

	// Model backs the assist endpoints (assist.Unavailable when unset).
	Model assist.Model

	// Mailer sends inquiry notices.
	Mailer *mailer.Mailer
}
