package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/target/mmk-alert-notify/config"
	"github.com/target/mmk-alert-notify/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger("info")
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) (err error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.InitLogger(cfg.LogLevel)
	logStartupInfo(ctx, logger, &cfg)

	ctx, stop := bootstrap.SignalContext(ctx)
	defer stop()

	db, redisClient, err := initInfrastructure(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeInfrastructure(db, redisClient))
	}()

	if cfg.Postgres.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	}

	obs, err := bootstrap.BuildObservability(ctx, logger, cfg.Observability)
	if err != nil {
		return err
	}
	defer func() {
		// Flush spans even though ctx is already cancelled by the signal.
		if cerr := obs.Close(context.WithoutCancel(ctx)); cerr != nil {
			logger.Error("close observability failed", "error", cerr)
		}
	}()

	services, err := bootstrap.BuildServices(bootstrap.ServiceDeps{
		Config:        &cfg,
		DB:            db,
		RedisClient:   redisClient,
		Logger:        logger,
		Observability: obs,
	})
	if err != nil {
		return err
	}

	server := bootstrap.NewHTTPServer(bootstrap.HTTPServerConfig{
		Config:   cfg.HTTP,
		Services: services,
		DB:       db,
		Logger:   logger,
	})
	return bootstrap.Serve(ctx, bootstrap.ServeConfig{
		Server:          server,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		Logger:          logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting alert-notify",
		"http_addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev,
		"log_level", cfg.LogLevel,
		"redis_enabled", cfg.Redis.Enabled,
		"dispatch_concurrency", cfg.Notify.DispatchConcurrency,
		"notify_timeout", cfg.Notify.Timeout.String(),
		"template_dir_set", cfg.Notify.TemplateDir != "",
		"metrics_enabled", cfg.Observability.Metrics.IsEnabled(),
		"tracing_enabled", cfg.Observability.Tracing.Enabled,
	)
}

//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func initInfrastructure(
	ctx context.Context,
	cfg *config.AppConfig,
	logger *slog.Logger,
) (*sql.DB, redis.UniversalClient, error) {
	dbCfg := bootstrap.DatabaseConfig{
		DBConfig:    cfg.Postgres,
		RedisConfig: cfg.Redis,
		Logger:      logger,
	}

	db, err := bootstrap.ConnectDB(ctx, dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}

	redisClient, err := bootstrap.ConnectRedis(ctx, dbCfg)
	if err != nil {
		// The receiver cache is optional; reads fall back to postgres.
		logger.WarnContext(ctx, "redis unavailable; continuing without receiver cache", "error", err)
		redisClient = nil
	}
	return db, redisClient, nil
}

func closeInfrastructure(db *sql.DB, redisClient redis.UniversalClient) error {
	var errs []error
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if db != nil {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
