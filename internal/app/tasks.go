package app

import (
	"context"

	"github.com/yungbote/amelfit-backend/internal/data/db"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
	"github.com/yungbote/amelfit-backend/internal/services"
)

// Migrate applies the schema and indexes, then exits.
func Migrate(log *logger.Logger) error {
	pg, err := OpenDB(log, db.PostgresConfigFromEnv(), true)
	if err != nil {
		return err
	}
	defer pg.Close()
	log.Info("migration complete")
	return nil
}

// Seed loads the embedded course catalog and default site content once.
func Seed(ctx context.Context, log *logger.Logger) (services.SeedResult, error) {
	pg, err := OpenDB(log, db.PostgresConfigFromEnv(), true)
	if err != nil {
		return services.SeedResult{}, err
	}
	defer pg.Close()
	r := wireRepos(pg.DB(), log)
	return services.NewCatalogService(log, r.Course, r.Purchase, r.SiteSection).Seed(ctx)
}
