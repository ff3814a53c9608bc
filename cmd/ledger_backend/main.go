package main

import (
	"context"
	"log/slog"
	"os"

	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cargo_ledger/internal/core/services"
	"github.com/SscSPs/cargo_ledger/internal/handlers"
	"github.com/SscSPs/cargo_ledger/internal/middleware"
	"github.com/SscSPs/cargo_ledger/internal/platform/config"
	"github.com/SscSPs/cargo_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/cargo_ledger/internal/repositories/memory"
	"github.com/SscSPs/cargo_ledger/pkg/database"
	"github.com/gin-gonic/gin"
)

// @title Cargo Ledger API
// @version 1.0
// @description Back-office ledger for a Morocco to West Africa cargo business: accounts, orders, parcels, transport costs and reports.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := middleware.WithLogger(context.Background(), logger)

	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	serviceContainer := services.NewServiceContainer(cfg, repos)
	if err := serviceContainer.Setting.EnsureDefaultExchangeRate(ctx, cfg.DefaultMadToCfaRate, cfg.SystemActorID); err != nil {
		logger.Error("Failed to seed the default exchange rate", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openStore builds the repositories for the configured driver and returns a
// function releasing whatever it opened.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Info("Using the in-memory store")
		return memory.NewStore().Repositories(), func() {}, nil
	}

	if cfg.RunMigrations {
		logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
		applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		if applied {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}
