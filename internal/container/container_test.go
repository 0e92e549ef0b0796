package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dryfruto/storefront/internal/config"
	"dryfruto/storefront/internal/domain"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8001,
			BasePath:        "/api",
			RequestTimeout:  5,
			ShutdownTimeout: 1,
		},
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
	}
}

func TestNewWiresMemoryStack(t *testing.T) {
	app, err := New(context.Background(), memoryConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer app.Close()

	result, err := app.Seeder.Seed(context.Background())
	if err != nil || result.Status != domain.SeedStatusSeeded {
		t.Fatalf("seed through container: %v %v", result.Status, err)
	}

	rr := httptest.NewRecorder()
	app.Server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := memoryConfig()
	cfg.Server.Port = 0
	cfg.Seed.OnStart = true

	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)
	if err := app.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	n, err := app.Store.Count(context.Background(), domain.SeedMarker)
	if err != nil || n != 6 {
		t.Fatalf("seed.on_start did not seed: count=%d err=%v", n, err)
	}
}
