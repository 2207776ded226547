// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/wavesite/internal/app/store/audit"
	"github.com/dalemusser/wavesite/internal/app/store/content"
	sitestore "github.com/dalemusser/wavesite/internal/app/store/site"
	"github.com/dalemusser/wavesite/internal/app/store/snapshot"
	"github.com/dalemusser/wavesite/internal/app/system/assist"
	"github.com/dalemusser/wavesite/internal/app/system/authutil"
	"github.com/dalemusser/wavesite/internal/app/system/indexes"
	"github.com/dalemusser/wavesite/internal/app/system/mailer"
	"github.com/dalemusser/wavesite/internal/app/system/revalidate"
	"github.com/dalemusser/wavesite/internal/app/system/seeding"
	"github.com/dalemusser/wavesite/internal/app/system/validators"
	"go.uber.org/zap"
)

// ConnectDB connects to every configured backend and builds the content
// stores over the chosen persistence backend.
//
// WAFFLE calls this after configuration is loaded but before EnsureSchema and
// Startup. Anything opened before a failure is closed again.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (deps DBDeps, err error) {
	defer func() {
		if err != nil {
			closeDeps(context.WithoutCancel(ctx), deps, logger)
			deps = DBDeps{}
		}
	}()

	if appCfg.mongoConfigured() {
		if err = connectMongo(ctx, appCfg, &deps, logger); err != nil {
			return deps, err
		}
	}

	if err = openBackend(appCfg, &deps, logger); err != nil {
		return deps, err
	}

	if err = connectCache(ctx, appCfg, &deps, logger); err != nil {
		return deps, err
	}

	var notifier content.Notifier = deps.Cache
	if deps.Broadcaster != nil {
		notifier = revalidate.Multi{deps.Cache, deps.Broadcaster}
	}
	deps.Stores = sitestore.New(content.Deps{Backend: deps.Backend, Notifier: notifier, Logger: logger})

	if deps.FileStorage, err = openStorage(ctx, appCfg, logger); err != nil {
		return deps, err
	}

	if appCfg.AdminUsername != "" {
		deps.Credentials, err = authutil.NewCredentials(appCfg.AdminUsername, appCfg.AdminPassword, appCfg.AdminPasswordHash)
		if err != nil {
			return deps, fmt.Errorf("admin credentials: %w", err)
		}
	}

	deps.Model = assist.Unavailable{}
	if appCfg.GeminiAPIKey != "" {
		g, gerr := assist.NewGemini(ctx, appCfg.GeminiAPIKey, appCfg.GeminiModel)
		if gerr != nil {
			return deps, fmt.Errorf("failed to create Gemini client: %w", gerr)
		}
		deps.Model = g
		logger.Info("generative helper enabled", zap.String("model", appCfg.GeminiModel))
	} else {
		logger.Info("gemini_api_key not set; assist endpoints will report unavailable")
	}

	deps.Mailer = mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)
	if deps.Mailer.Enabled() {
		logger.Info("initialized email mailer",
			zap.String("host", appCfg.MailSMTPHost),
			zap.Int("port", appCfg.MailSMTPPort),
		)
	}

	return deps, nil
}

func connectMongo(ctx context.Context, appCfg AppConfig, deps *DBDeps, logger *zap.Logger) error {
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return err
	}
	deps.MongoClient = client
	deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
	deps.AuditStore = audit.New(deps.MongoDatabase)

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)
	return nil
}

func openBackend(appCfg AppConfig, deps *DBDeps, logger *zap.Logger) error {
	switch appCfg.ContentBackend {
	case backendFile:
		f, err := snapshot.NewFile(appCfg.ContentDir)
		if err != nil {
			return fmt.Errorf("failed to open content directory: %w", err)
		}
		deps.File = f
		deps.Backend = f
		logger.Info("content backend: files", zap.String("dir", appCfg.ContentDir))
	case backendBolt:
		b, err := snapshot.OpenBolt(appCfg.ContentBoltPath)
		if err != nil {
			return fmt.Errorf("failed to open bolt database: %w", err)
		}
		deps.Bolt = b
		deps.Backend = b
		logger.Info("content backend: bolt", zap.String("path", appCfg.ContentBoltPath))
	case backendMongo:
		deps.Backend = snapshot.NewMongo(deps.MongoDatabase)
		logger.Info("content backend: mongo", zap.String("database", appCfg.MongoDatabase))
	default:
		return fmt.Errorf("unknown content backend: %s", appCfg.ContentBackend)
	}

	if appCfg.ReadOnly {
		deps.Backend = snapshot.NewReadOnly(deps.Backend, logger)
		logger.Warn("content is read-only; admin changes will not be saved")
	}
	return nil
}

func connectCache(ctx context.Context, appCfg AppConfig, deps *DBDeps, logger *zap.Logger) error {
	var store revalidate.Store
	switch appCfg.CacheBackend {
	case cacheRedis:
		client, err := revalidate.Connect(ctx, appCfg.RedisAddr, appCfg.RedisPassword, appCfg.RedisDB)
		if err != nil {
			return err
		}
		deps.Redis = client
		store = revalidate.NewRedisStore(client, "wavesite:")
		logger.Info("page cache: redis", zap.String("addr", appCfg.RedisAddr), zap.Int("db", appCfg.RedisDB))
	default:
		store = revalidate.NewMemoryStore()
		logger.Info("page cache: memory")
	}
	deps.Cache = revalidate.NewCache(store, appCfg.CacheTTL, logger)

	if appCfg.NATSURL != "" {
		nc, err := revalidate.ConnectNATS(appCfg.NATSURL, logger)
		if err != nil {
			return err
		}
		deps.NATS = nc
		deps.Broadcaster = revalidate.NewBroadcaster(nc, appCfg.NATSSubject, logger)
	}
	return nil
}

func openStorage(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (storage.Store, error) {
	switch appCfg.StorageType {
	case "s3":
		store, err := storage.NewS3(ctx, storage.S3Config{
			Region:                   appCfg.StorageS3Region,
			Bucket:                   appCfg.StorageS3Bucket,
			Prefix:                   appCfg.StorageS3Prefix,
			CloudFrontURL:            appCfg.StorageCFURL,
			CloudFrontKeyPairID:      appCfg.StorageCFKeyPairID,
			CloudFrontPrivateKeyPath: appCfg.StorageCFKeyPath,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		logger.Info("initialized S3/CloudFront image storage",
			zap.String("bucket", appCfg.StorageS3Bucket),
			zap.String("prefix", appCfg.StorageS3Prefix),
		)
		return store, nil
	case "local", "":
		store, err := storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		logger.Info("initialized local image storage",
			zap.String("path", appCfg.StorageLocalPath),
			zap.String("url", appCfg.StorageLocalURL),
		)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", appCfg.StorageType)
	}
}

// EnsureSchema prepares Mongo collections and indexes when Mongo is
// connected, then seeds the default site settings and homepage.
//
// The context has a timeout based on coreCfg.IndexBootTimeout.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if db := deps.MongoDatabase; db != nil {
		// Collections and validators first so indexes land on existing collections.
		logger.Info("ensuring collections and validators")
		if err := validators.EnsureAll(ctx, db, logger); err != nil {
			logger.Error("failed to ensure validators", zap.Error(err))
			return err
		}

		logger.Info("ensuring database indexes")
		if err := indexes.EnsureAll(ctx, db, logger); err != nil {
			logger.Error("failed to ensure indexes", zap.Error(err))
			return err
		}
	}

	if appCfg.ReadOnly {
		logger.Info("read-only mode; skipping default content seed")
		return nil
	}

	logger.Info("seeding default content")
	if err := seeding.SeedAll(ctx, deps.Stores.Settings, deps.Stores.Homepage, logger); err != nil {
		logger.Error("failed to seed default content", zap.Error(err))
		return err
	}

	logger.Info("schema ensured")
	return nil
}
