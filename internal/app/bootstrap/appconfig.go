// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging, CORS and timeouts; everything specific to the site
// lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// Content persistence
	ContentBackend  string // file, bolt or mongo
	ContentDir      string // directory of <collection>.json files (file backend)
	ContentBoltPath string // Bolt database file (bolt backend)
	ReadOnly        bool   // degraded mode: writes are dropped with a warning
	ContentRefresh  time.Duration

	// MongoDB connection configuration. Mongo is optional unless it is the
	// content backend; when present it also stores audit events.
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: wavesite-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Maximum session cookie lifetime (default: 24h)

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// API key authentication for the admin API. Leave empty to allow only
	// session sign-in.
	APIKey string

	// Site administrator
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string // bcrypt; wins over AdminPassword

	// File storage configuration for uploaded images
	StorageType      string // "local" or "s3"
	StorageLocalPath string
	StorageLocalURL  string

	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageCFURL       string
	StorageCFKeyPairID string
	StorageCFKeyPath   string

	// Page cache and cross-instance invalidation
	CacheBackend       string // memory or redis
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	NATSURL            string // blank disables broadcasting
	NATSSubject        string

	// Generative helper
	GeminiAPIKey string // blank disables the assist endpoints
	GeminiModel  string

	// Email notice for new inquiries
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string
	MailNotifyTo string // blank means the contact email in site settings

	// Public site
	SiteURL        string   // base URL used in the sitemap
	SiteAPIOrigins []string // allowed origins for /api/site; empty allows any

	// Audit logging configuration. Values: "all", "db", "log", "off".
	AuditLogAuth      string
	AuditLogContent   string
	AuditLogRetention time.Duration // 0 keeps events forever
}

// mongoNeeded reports whether ConnectDB must reach Mongo.
func (c AppConfig) mongoNeeded() bool {
	return c.ContentBackend == backendMongo
}

// mongoConfigured reports whether Mongo should be connected at all.
func (c AppConfig) mongoConfigured() bool {
	return c.mongoNeeded() || c.MongoURI != ""
}
