// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"

	homepagestore "github.com/dalemusser/wavesite/internal/app/store/homepage"
	settingsstore "github.com/dalemusser/wavesite/internal/app/store/settings"
	"github.com/dalemusser/wavesite/internal/domain/models"
	"go.uber.org/zap"
)

// SeedAll stores the default site settings and homepage content when none
// have been saved. Existing content is never touched.
func SeedAll(ctx context.Context, settings *settingsstore.Store, homepage *homepagestore.Store, logger *zap.Logger) error {
	if err := seedSettings(ctx, settings, logger); err != nil {
		return err
	}
	return seedHomepage(ctx, homepage, logger)
}

func seedSettings(ctx context.Context, store *settingsstore.Store, logger *zap.Logger) error {
	exists, err := store.Exists(ctx)
	if err != nil {
		logger.Error("failed to check if settings exist", zap.Error(err))
		return err
	}
	if exists {
		return nil
	}
	if _, err := store.Save(ctx, models.DefaultSiteSettings()); err != nil {
		logger.Error("failed to seed settings", zap.Error(err))
		return err
	}
	logger.Info("seeded default site settings")
	return nil
}

func seedHomepage(ctx context.Context, store *homepagestore.Store, logger *zap.Logger) error {
	exists, err := store.Exists(ctx)
	if err != nil {
		logger.Error("failed to check if homepage content exists", zap.Error(err))
		return err
	}
	if exists {
		return nil
	}
	if _, err := store.Save(ctx, models.DefaultHomepageContent()); err != nil {
		logger.Error("failed to seed homepage content", zap.Error(err))
		return err
	}
	logger.Info("seeded default homepage content")
	return nil
}
