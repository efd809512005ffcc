package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/simfleet/internal/config"
	"github.com/phrazzld/simfleet/internal/platform/postgres"
	"github.com/phrazzld/simfleet/internal/platform/sqlite"
	"github.com/phrazzld/simfleet/internal/store"
	"github.com/phrazzld/simfleet/internal/store/memstore"
)

// ErrMigrationsUnsupported is returned by migrate for drivers whose schema
// is applied on open.
var ErrMigrationsUnsupported = errors.New("migrations are only managed for the postgres driver")

// openTree opens the tree backend selected by cfg.Driver. The returned
// *sql.DB is nil for the memory driver.
func openTree(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (store.Tree, *sql.DB, error) {
	switch cfg.Driver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on exit")
		return memstore.New(), nil, nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.DataDir, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("sqlite store opened", slog.String("data_dir", cfg.DataDir))
		return sqlite.NewTreeStore(db, logger), db, nil

	case "postgres":
		db, err := postgres.Open(ctx, cfg.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		logger.Info("postgres store opened")
		return postgres.NewTreeStore(db, logger), db, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// runMigrations applies a goose command to the configured postgres database.
func runMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Store.Driver != "postgres" {
		return fmt.Errorf("%w (driver is %q)", ErrMigrationsUnsupported, cfg.Store.Driver)
	}

	db, err := postgres.Open(ctx, cfg.Store.URL)
	if err != nil {
		return fmt.Errorf("failed to open postgres store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	return postgres.Migrate(ctx, db, command, logger)
}
