package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_booking/internal/adapters/http_server"
	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/adapters/qrcode"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/seed"
	"hotel_booking/internal/shared"
	"hotel_booking/internal/storage/memory"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	for _, w := range cfg.Warnings {
		log.Warn().Msg(w)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()
	sessions := openSessions(ctx, cfg)

	if cfg.SeedOnStart {
		snap, err := seed.Default()
		if err != nil {
			log.Fatal().Err(err).Msg("embedded catalog is invalid")
		}
		if _, err := app.NewSeedService(store, store, cfg.SeedWorkers).Seed(ctx, snap); err != nil {
			log.Fatal().Err(err).Msg("seeding failed")
		}
	}

	srv := server.New(cfg.CORSOrigins)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:  app.NewCatalogService(store),
		Bookings: app.NewBookingService(store, store, cfg.TaxRate),
		Offers:   app.NewOfferService(store),
		Auth:     app.NewAuthService(store, sessions, cfg.JWTSecret, cfg.SessionTTL),
		QR:       qrcode.New(),
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("storage", cfg.StorageDriver).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

// openStore returns the one store this process runs on.
func openStore(ctx context.Context, cfg shared.Config) (domain.Store, func()) {
	if cfg.StorageDriver != shared.DriverMySQL {
		log.Info().Msg("using in-memory store; data is lost on restart")
		return memory.New(), func() {}
	}
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")
	return mysqlrepo.New(db), func() { _ = db.Close() }
}

func openSessions(ctx context.Context, cfg shared.Config) domain.SessionStore {
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR empty; sessions kept in memory")
		return memory.NewSessions()
	}
	rs := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := rs.Ping(ctx); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
	}
	return rs
}
