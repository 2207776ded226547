// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/wavesite/internal/app/system/authutil"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "WAVESITE"

// Content backends
const (
	backendFile  = "file"
	backendBolt  = "bolt"
	backendMongo = "mongo"
)

// Cache backends
const (
	cacheMemory = "memory"
	cacheRedis  = "redis"
)

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: content_backend, mongo_uri, etc.
//   - Environment variables: WAVESITE_CONTENT_BACKEND, WAVESITE_MONGO_URI, etc.
//   - Command-line flags: --content_backend, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	{Name: "content_backend", Default: backendFile, Desc: "Content persistence: file, bolt or mongo"},
	{Name: "content_dir", Default: "data", Desc: "Directory for the file backend"},
	{Name: "content_bolt_path", Default: "data/wavesite.db", Desc: "Database file for the bolt backend"},
	{Name: "read_only", Default: false, Desc: "Serve content but drop writes (also on when VERCEL is set)"},
	{Name: "content_refresh", Default: "0s", Desc: "Re-read all content on this interval (0 disables)"},

	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI (required for the mongo backend; enables the audit store)"},
	{Name: "mongo_database", Default: "wavesite", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "wavesite-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},
	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars, must be strong in production)"},
	{Name: "api_key", Default: "", Desc: "Bearer key accepted on the admin API (blank disables)"},

	{Name: "admin_username", Default: "", Desc: "Site administrator username"},
	{Name: "admin_password", Default: "", Desc: "Site administrator password (hashed at startup)"},
	{Name: "admin_password_hash", Default: "", Desc: "Site administrator bcrypt hash (preferred over admin_password)"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage type for uploaded images: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded images"},
	{Name: "storage_local_url", Default: "/uploads", Desc: "URL prefix for serving local uploads"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3 storage"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "uploads/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},

	// Page cache and invalidation
	{Name: "cache_backend", Default: cacheMemory, Desc: "Page cache: memory or redis"},
	{Name: "cache_ttl", Default: "1h", Desc: "How long a cached response lives without invalidation"},
	{Name: "cache_sweep_interval", Default: "5m", Desc: "How often expired cached responses are evicted"},
	{Name: "redis_addr", Default: "localhost:6379", Desc: "Redis address for the redis cache"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "nats_url", Default: "", Desc: "NATS server URL for cross-instance invalidation (blank disables)"},
	{Name: "nats_subject", Default: "wavesite.revalidate", Desc: "NATS subject for invalidation messages"},

	{Name: "gemini_api_key", Default: "", Desc: "Gemini API key for drafting and recommendations (blank disables)"},
	{Name: "gemini_model", Default: "gemini-2.0-flash", Desc: "Gemini model name"},

	// Email configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank disables inquiry emails)"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@wavetechify.in", Desc: "Email sender address"},
	{Name: "mail_from_name", Default: "Wavetechify", Desc: "Email sender display name"},
	{Name: "mail_notify_to", Default: "", Desc: "Inquiry notice recipient (blank uses the site contact email)"},

	{Name: "site_url", Default: "https://www.wavetechify.in", Desc: "Public base URL used in the sitemap"},
	{Name: "site_api_origins", Default: "", Desc: "Comma-separated origins allowed on /api/site (blank allows any)"},

	// Audit logging configuration
	{Name: "audit_log_auth", Default: "all", Desc: "Audit logging for auth events: all, db, log, off"},
	{Name: "audit_log_content", Default: "all", Desc: "Audit logging for content changes: all, db, log, off"},
	{Name: "audit_log_retention", Default: "2160h", Desc: "Delete audit events older than this (0 keeps them)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		ContentBackend:  strings.ToLower(strings.TrimSpace(appValues.String("content_backend"))),
		ContentDir:      appValues.String("content_dir"),
		ContentBoltPath: appValues.String("content_bolt_path"),
		ReadOnly:        appValues.Bool("read_only") || os.Getenv("VERCEL") != "",
		ContentRefresh:  appValues.Duration("content_refresh", 0),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),
		APIKey:        appValues.String("api_key"),

		AdminUsername:     appValues.String("admin_username"),
		AdminPassword:     appValues.String("admin_password"),
		AdminPasswordHash: appValues.String("admin_password_hash"),

		StorageType:        appValues.String("storage_type"),
		StorageLocalPath:   appValues.String("storage_local_path"),
		StorageLocalURL:    appValues.String("storage_local_url"),
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),

		CacheBackend:       strings.ToLower(strings.TrimSpace(appValues.String("cache_backend"))),
		CacheTTL:           appValues.Duration("cache_ttl", time.Hour),
		CacheSweepInterval: appValues.Duration("cache_sweep_interval", 5*time.Minute),
		RedisAddr:          appValues.String("redis_addr"),
		RedisPassword:      appValues.String("redis_password"),
		RedisDB:            appValues.Int("redis_db"),
		NATSURL:            appValues.String("nats_url"),
		NATSSubject:        appValues.String("nats_subject"),

		GeminiAPIKey: appValues.String("gemini_api_key"),
		GeminiModel:  appValues.String("gemini_model"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),
		MailNotifyTo: appValues.String("mail_notify_to"),

		SiteURL:        appValues.String("site_url"),
		SiteAPIOrigins: splitList(appValues.String("site_api_origins")),

		AuditLogAuth:      appValues.String("audit_log_auth"),
		AuditLogContent:   appValues.String("audit_log_content"),
		AuditLogRetention: appValues.Duration("audit_log_retention", 90*24*time.Hour),
	}

	return coreCfg, appCfg, nil
}

func splitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string { return strings.TrimSpace(p) })
	return lo.Uniq(lo.Compact(parts))
}

var validAuditSettings = []string{"all", "db", "log", "off"}

// ValidateConfig performs app-specific config validation.
//
// Every problem is reported, not only the first, so a broken deployment
// can be fixed in one pass.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	var errs []error

	if !lo.Contains([]string{backendFile, backendBolt, backendMongo}, appCfg.ContentBackend) {
		errs = append(errs, fmt.Errorf("content_backend %q must be file, bolt or mongo", appCfg.ContentBackend))
	}
	if !lo.Contains([]string{cacheMemory, cacheRedis}, appCfg.CacheBackend) {
		errs = append(errs, fmt.Errorf("cache_backend %q must be memory or redis", appCfg.CacheBackend))
	}
	if !lo.Contains([]string{"local", "s3"}, appCfg.StorageType) {
		errs = append(errs, fmt.Errorf("storage_type %q must be local or s3", appCfg.StorageType))
	}

	if appCfg.mongoNeeded() && appCfg.MongoURI == "" {
		errs = append(errs, errors.New("mongo_uri is required for the mongo content backend"))
	}
	if appCfg.MongoURI != "" {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			errs = append(errs, fmt.Errorf("invalid MongoDB URI: %w", err))
		}
	}

	for key, v := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_content": appCfg.AuditLogContent} {
		if v != "" && !lo.Contains(validAuditSettings, v) {
			errs = append(errs, fmt.Errorf("%s %q must be one of %v", key, v, validAuditSettings))
		}
	}

	if coreCfg.Env == "prod" {
		if appCfg.AdminUsername == "" || (appCfg.AdminPassword == "" && appCfg.AdminPasswordHash == "") {
			errs = append(errs, errors.New("admin_username and admin_password or admin_password_hash are required in production"))
		} else if appCfg.AdminPasswordHash == "" {
			if err := authutil.ValidatePassword(appCfg.AdminPassword); err != nil {
				errs = append(errs, fmt.Errorf("admin_password: %w", err))
			}
		}
	} else if appCfg.AdminUsername == "" {
		logger.Warn("no admin configured; the admin API only accepts the API key")
	}

	err := errors.Join(errs...)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
	}
	return err
}
