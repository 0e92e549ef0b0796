package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dryfruto/storefront/internal/config"
	"dryfruto/storefront/internal/container"
	"dryfruto/storefront/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting DryFruto storefront API...")

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.Log)
	log.Info("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize container with all dependencies
	app, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Errorf("Failed to shut down cleanly: %v", err)
		}
	}()

	// Run the application
	if err := app.Run(ctx); err != nil {
		log.Errorf("Application exited with error: %v", err)
		return
	}

	log.Info("Application finished successfully")
}
