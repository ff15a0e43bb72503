package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/catalogfeed"
	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/seed"
	"hotel_booking/internal/shared"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

// seeder loads the catalog into MySQL, from CATALOG_FEED_URL when set and
// from the embedded snapshot otherwise.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	for _, w := range cfg.Warnings {
		log.Warn().Msg(w)
	}

	log.Info().
		Str("feed", cfg.FeedURL).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	snap, err := loadSnapshot(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load catalog failed")
	}

	repo := mysqlrepo.New(db)
	rep, err := app.NewSeedService(repo, repo, cfg.SeedWorkers).Seed(ctx, snap)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Interface("report", rep).Msg("seeding completed")
}

func loadSnapshot(ctx context.Context, cfg shared.Config) (domain.CatalogSnapshot, error) {
	if cfg.FeedURL == "" {
		log.Info().Msg("CATALOG_FEED_URL empty; using embedded catalog")
		return seed.Default()
	}
	client, err := catalogfeed.New(cfg.FeedURL, cfg.FeedKey, 5)
	if err != nil {
		return domain.CatalogSnapshot{}, err
	}
	return client.GetSnapshot(ctx)
}
