package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	dbfs "github.com/tomasfarkasovsky/trailhead/db"
	"github.com/tomasfarkasovsky/trailhead/internal/config"
	"github.com/tomasfarkasovsky/trailhead/internal/db"
	"github.com/tomasfarkasovsky/trailhead/internal/logging"
	"github.com/tomasfarkasovsky/trailhead/internal/repository/sqldb"
)

// app holds what every command shares: config, logger and the store.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *db.DB
	repo   *sqldb.SQLRepo
}

// loadApp reads and validates the configuration and builds the logger.
func loadApp(opts *rootOptions) (*app, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, withCode(exitConfig, fmt.Errorf("load config: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, withCode(exitConfig, fmt.Errorf("invalid config: %w", err))
	}

	logger, err := logging.New(cfg.Log, version)
	if err != nil {
		return nil, withCode(exitConfig, err)
	}

	return &app{cfg: cfg, logger: logger}, nil
}

// openStore connects to the database and optionally applies migrations.
func (a *app) openStore(ctx context.Context, migrate bool) error {
	d, err := db.Open(ctx, a.cfg.Database, a.logger)
	if err != nil {
		return withCode(exitDB, fmt.Errorf("open database: %w", err))
	}
	a.db = d

	if migrate {
		if _, err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
			return withCode(exitDB, err)
		}
	}

	a.repo = sqldb.New(d, a.logger)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
