package logging

import (
	"testing"

	"dryfruto/storefront/internal/config"

	log "github.com/sirupsen/logrus"
)

func TestConfigure(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)
	defer log.SetFormatter(&log.TextFormatter{})

	tests := []struct {
		cfg       config.LogConfig
		wantLevel log.Level
		wantJSON  bool
	}{
		{cfg: config.LogConfig{Level: "debug", Format: "json"}, wantLevel: log.DebugLevel, wantJSON: true},
		{cfg: config.LogConfig{Level: " WARN ", Format: "text"}, wantLevel: log.WarnLevel},
		{cfg: config.LogConfig{Level: "chatty"}, wantLevel: log.InfoLevel},
	}
	for _, tt := range tests {
		Configure(tt.cfg)
		if log.GetLevel() != tt.wantLevel {
			t.Fatalf("%+v: level %v, want %v", tt.cfg, log.GetLevel(), tt.wantLevel)
		}
		_, isJSON := log.StandardLogger().Formatter.(*log.JSONFormatter)
		if isJSON != tt.wantJSON {
			t.Fatalf("%+v: json formatter=%v", tt.cfg, isJSON)
		}
	}
}
