package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mvolkova/shopbot-backend/internal/backup"
	"github.com/mvolkova/shopbot-backend/internal/catalog"
	"github.com/mvolkova/shopbot-backend/internal/cron"
	"github.com/mvolkova/shopbot-backend/pkg/config"
	"github.com/mvolkova/shopbot-backend/pkg/db"
	"github.com/mvolkova/shopbot-backend/pkg/logger"
	"github.com/mvolkova/shopbot-backend/pkg/metrics"
	"github.com/mvolkova/shopbot-backend/pkg/migrate"
	"github.com/mvolkova/shopbot-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "backup-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "backup-worker",
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

	catalogRepo := catalog.NewRepository(dbClient.DB())
	backupService, err := backup.NewService(catalogRepo, dbClient, cfg.Backup.Dir, logg, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create backup service", err)
		os.Exit(1)
	}

	lock, closeRedis, err := buildLock(cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler lock", err)
		os.Exit(1)
	}
	defer closeRedis()

	exportJob, err := cron.NewCatalogExportJob(cron.CatalogExportJobParams{
		Logger:   logg,
		Exporter: backupService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create export job", err)
		os.Exit(1)
	}

	retentionJob, err := cron.NewSnapshotRetentionJob(cron.SnapshotRetentionJobParams{
		Logger: logg,
		Dir:    cfg.Backup.Dir,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create retention job", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(exportJob, retentionJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Backup.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":        cfg.App.Env,
		"backup_dir": cfg.Backup.Dir,
		"interval":   cfg.Backup.Interval.String(),
	})
	logg.Info(ctx, "starting backup worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "backup worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "backup worker shutting down gracefully")
}

// buildLock returns a Redis-backed lock when Redis is configured, otherwise a
// process-local lock that only guards against overlap within this instance.
func buildLock(cfg *config.Config, logg *logger.Logger) (cron.Lock, func(), error) {
	if !cfg.Redis.Enabled() {
		logg.Info(context.Background(), "redis not configured, using process-local scheduler lock")
		return cron.NewLocalLock(), func() {}, nil
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		return nil, nil, err
	}

	env := cfg.App.Env
	if env == "" {
		env = "local"
	}
	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("backup-worker:"+env), 0)
	if err != nil {
		redisClient.Close()
		return nil, nil, err
	}

	return lock, func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}, nil
}
