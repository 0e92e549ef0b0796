package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"dryfruto/storefront/internal/config"
	"dryfruto/storefront/internal/httpapi"
	"dryfruto/storefront/internal/queue"
	"dryfruto/storefront/internal/repository"
	"dryfruto/storefront/internal/service"
	"dryfruto/storefront/internal/state"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config    *config.Config
	Store     repository.Store
	SeedLock  state.SeedLock
	Publisher queue.Stream

	Seeder   *service.Seeder
	Settings *service.SettingsStore
	Catalog  *service.Catalog
	Server   *httpapi.Server

	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Database.Driver, err)
	}
	container.Store = store

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		// Test connection
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.SeedLock = state.NewRedisSeedLock(rdb, cfg.Seed.LockKey, cfg.Seed.LockTTLDuration())
		container.Publisher = queue.NewRedisPublisher(rdb, cfg.Redis)
	} else {
		log.Info("Redis disabled, using in-process seed lock and no event publisher")
		container.SeedLock = state.NewLocalSeedLock()
		container.Publisher = queue.NewNoopPublisher()
	}

	container.Seeder = service.NewSeeder(store, container.SeedLock, container.Publisher)
	container.Settings = service.NewSettingsStore(store, container.Publisher)
	container.Catalog = service.NewCatalog(store)

	container.Server = httpapi.NewServer(
		cfg.Server,
		store,
		container.Seeder,
		container.Settings,
		container.Catalog,
		container.Publisher,
	)

	return container, nil
}

// Run serves HTTP until ctx is cancelled, seeding first when seed.on_start is set.
func (c *Container) Run(ctx context.Context) error {
	if c.Config.Seed.OnStart {
		result, err := c.Seeder.Seed(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed on start: %w", err)
		}
		log.Infof("🌱 %s", result.Message())
	}

	srv := &http.Server{
		Addr:              c.Config.Server.Addr(),
		Handler:           c.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Storefront API listening on %s%s", srv.Addr, c.Config.Server.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(c.Config.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if c.Store != nil {
		if err := c.Store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Info("Container shut down successfully")
	return nil
}
