package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hitprint/internal/config"
	"github.com/kailas-cloud/hitprint/internal/db"
	dbElastic "github.com/kailas-cloud/hitprint/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/hitprint/internal/db/redis"
	dbValkey "github.com/kailas-cloud/hitprint/internal/db/valkey"
	"github.com/kailas-cloud/hitprint/internal/domain"
)

// newStore creates the database store for the configured driver.
func newStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case "valkey":
		return dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	case "redis":
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	case "elasticsearch":
		return dbElastic.NewStore(dbElastic.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			APIKey:   cfg.APIKey,
		})
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDriver, cfg.Driver)
	}
}

// openStore is replaced in tests to run commands without a live backend.
var openStore = dialStore

// dialStore creates the store and waits for the backend to answer.
func dialStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	timeout := time.Duration(cfg.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}

	logger.Debug("Connected to database",
		zap.String("driver", cfg.Driver),
		zap.Strings("addrs", cfg.Addrs),
	)
	return store, nil
}
