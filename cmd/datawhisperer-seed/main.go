package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/datawhisperer/datawhisperer/internal/config"
	"github.com/datawhisperer/datawhisperer/internal/customers"
	"github.com/datawhisperer/datawhisperer/internal/observability"
	"github.com/datawhisperer/datawhisperer/internal/query/sqldb"
	"github.com/datawhisperer/datawhisperer/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("datawhisperer-seed")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	seedCfg, err := seed.LoadConfigFromEnv(os.LookupEnv)
	if err != nil {
		slog.Error("failed to load seed config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqldb.Open(ctx, sqldb.DBConfig{DSN: cfg.Database.DSN, MaxOpenConns: 2})
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	repo := customers.NewRepository(db)
	if err := repo.HealthCheck(ctx); err != nil {
		logger.Error("database not ready", slog.Any("error", err))
		os.Exit(1)
	}

	service, err := seed.NewService(seedCfg, logger, repo)
	if err != nil {
		logger.Error("failed to initialize seeder", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("seeding customers",
		slog.Int("count", seedCfg.Count),
		slog.Int("batch_size", seedCfg.BatchSize),
		slog.Bool("include_canonical", seedCfg.IncludeCanonical),
		slog.Bool("truncate", seedCfg.Truncate),
	)
	if _, err := service.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("seeding interrupted")
			os.Exit(1)
		}
		logger.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
}
