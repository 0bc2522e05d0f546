// Package app initializes and holds long-lived application services, acting
// as a dependency injection container for the CLI commands.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mercalytics/catalog-crawler/internal/config"
	"github.com/mercalytics/catalog-crawler/internal/logging"
	"github.com/mercalytics/catalog-crawler/internal/metrics"
	"github.com/mercalytics/catalog-crawler/internal/store"
)

// App holds the shared services for one process: configuration, logger and
// the product store. It is initialized once at startup and handed to the
// commands through the cobra context.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	store  store.Store
}

// New loads configuration and initializes every service the commands need.
// It fails fast: a configuration defect or an unreachable store aborts
// startup before any page is fetched.
func New(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	metrics.Init()

	st, err := newStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	return &App{cfg: cfg, logger: logger, store: st}, nil
}

func newStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Store.Provider {
	case "sqlite":
		logger.Info("Using SQLite store",
			zap.String("path", cfg.Store.SQLite.Path),
			zap.String("table", cfg.Store.Table),
		)
		return store.NewSQLite(cfg.Store.SQLite.Path, cfg.Store.Table)
	case "postgres":
		logger.Info("Using Postgres store", zap.String("table", cfg.Store.Table))
		return store.NewPostgres(ctx, store.PostgresConfig{
			DSN:             cfg.Store.Postgres.DSN,
			Table:           cfg.Store.Table,
			MaxConns:        cfg.Store.Postgres.MaxConns,
			MinConns:        cfg.Store.Postgres.MinConns,
			MaxConnLifetime: time.Duration(cfg.Store.Postgres.ConnLifetime) * time.Second,
		})
	case "noop":
		logger.Info("Using No-Op store. Normalized output will be discarded.")
		return store.NoOp{}, nil
	default:
		return nil, fmt.Errorf("unknown store provider: %s", cfg.Store.Provider)
	}
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Logger returns the shared zap logger instance.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Store returns the configured product store.
func (a *App) Store() store.Store {
	return a.store
}

// Close releases every service the App owns.
func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Failed to close store", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
