package logging

import (
	"os"
	"strings"

	"dryfruto/storefront/internal/config"

	log "github.com/sirupsen/logrus"
)

// Configure applies level and formatter to the standard logrus logger.
func Configure(cfg config.LogConfig) {
	log.SetOutput(os.Stdout)

	level, err := log.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		log.Warnf("⚠️ Unknown log level %q, falling back to info", cfg.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
