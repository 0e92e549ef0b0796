package repository

import (
	"context"
	"fmt"
	"time"

	"dryfruto/storefront/internal/config"

	log "github.com/sirupsen/logrus"
)

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	switch cfg.Driver {
	case config.DriverMongo:
		return NewMongoStore(ctx, cfg.Mongo, timeout)
	case config.DriverPostgres:
		return NewPostgresStore(ctx, cfg.Postgres, timeout)
	case config.DriverMemory:
		log.Warn("⚠️ Using in-memory store, data is lost on restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
