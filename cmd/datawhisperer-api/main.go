package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/datawhisperer/datawhisperer/internal/api"
	"github.com/datawhisperer/datawhisperer/internal/auth"
	"github.com/datawhisperer/datawhisperer/internal/config"
	"github.com/datawhisperer/datawhisperer/internal/llm"
	"github.com/datawhisperer/datawhisperer/internal/nl2sql"
	"github.com/datawhisperer/datawhisperer/internal/observability"
	"github.com/datawhisperer/datawhisperer/internal/pipeline"
	"github.com/datawhisperer/datawhisperer/internal/query/sqldb"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("datawhisperer-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	systemPrompt, err := nl2sql.LoadPrompt(cfg.Prompt.File)
	if err != nil {
		logger.Error("failed to load system prompt", slog.Any("error", err))
		os.Exit(1)
	}

	translator, err := llm.New(cfg.LLM)
	if err != nil {
		logger.Error("failed to initialize llm client", slog.String("provider", cfg.LLM.Provider), slog.Any("error", err))
		os.Exit(1)
	}

	service := &pipeline.Service{
		Translator:   translator,
		Extractor:    nl2sql.PatternExtractor{},
		SystemPrompt: systemPrompt,
		Model:        cfg.LLM.Model,
		Logger:       logger,
	}

	// A database that cannot be reached at startup leaves the executor unset;
	// the server still starts and answers /query with 503.
	db, err := sqldb.Open(context.Background(), sqldb.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("database connection not available", slog.Any("error", err))
		db = nil
	} else {
		defer func() { _ = db.Close() }()
		service.Executor = sqldb.NewExecutor(db)
	}

	deps := api.Dependencies{
		Logger:            logger,
		Asker:             service,
		Readiness:         api.CheckDatabase(db),
		DependencyTimeout: time.Second,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		if validator.Len() == 0 {
			logger.Error("auth is required but DATAWHISPERER_AUTH_STATIC_KEYS (or API_KEY) is empty")
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server",
			slog.String("addr", cfg.HTTP.Address),
			slog.String("llm_provider", cfg.LLM.Provider),
			slog.String("llm_model", cfg.LLM.Model),
			slog.Bool("database_available", service.Executor != nil),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
