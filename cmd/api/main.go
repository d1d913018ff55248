package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mvolkova/shopbot-backend/api/routes"
	"github.com/mvolkova/shopbot-backend/internal/backup"
	"github.com/mvolkova/shopbot-backend/internal/cart"
	"github.com/mvolkova/shopbot-backend/internal/catalog"
	"github.com/mvolkova/shopbot-backend/internal/orders"
	"github.com/mvolkova/shopbot-backend/internal/users"
	"github.com/mvolkova/shopbot-backend/pkg/config"
	"github.com/mvolkova/shopbot-backend/pkg/db"
	"github.com/mvolkova/shopbot-backend/pkg/logger"
	"github.com/mvolkova/shopbot-backend/pkg/metrics"
	"github.com/mvolkova/shopbot-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	metricsReg := prometheus.NewRegistry()
	storeMetrics := metrics.NewStoreMetrics(metricsReg)

	usersRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	usersService, err := users.NewService(dbClient, usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(dbClient, catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, dbClient, usersRepo, catalogRepo, storeMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, dbClient, cartRepo, usersRepo, storeMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	backupService, err := backup.NewService(catalogRepo, dbClient, cfg.Backup.Dir, logg, storeMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create backup service", err)
		os.Exit(1)
	}

	bootstrap(cfg, logg, catalogService, usersService, backupService)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, metricsReg, catalogService, usersService, cartService, ordersService, backupService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// bootstrap seeds the fixed category list, promotes the configured admin, and
// optionally restores the catalog from the newest snapshot. Seeding failures
// are fatal; a missing snapshot on first boot is expected and only warned.
func bootstrap(cfg *config.Config, logg *logger.Logger, catalogService catalog.Service, usersService users.Service, backupService backup.Service) {
	ctx := context.Background()

	if err := catalogService.SeedCategories(ctx, cfg.Seed.Categories); err != nil {
		logg.Error(ctx, "failed to seed categories", err)
		os.Exit(1)
	}

	if adminID := cfg.Seed.FirstAdminID(); adminID != 0 {
		if err := usersService.EnsureAdmin(ctx, adminID); err != nil {
			logg.Error(ctx, "failed to seed admin user", err)
			os.Exit(1)
		}
	}

	if cfg.Backup.RestoreOnBoot {
		result, err := backupService.Import(ctx, "")
		if err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "catalog restore skipped")
			return
		}
		ctx := logg.WithFields(ctx, map[string]any{
			"imported": result.Imported,
			"skipped":  result.Skipped,
		})
		logg.Info(ctx, "catalog restored from snapshot")
	}
}
