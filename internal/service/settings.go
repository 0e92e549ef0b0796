package service

import (
	"context"
	"time"

	"dryfruto/storefront/internal/domain"
	"dryfruto/storefront/internal/domain/event"
	"dryfruto/storefront/internal/observability"
	"dryfruto/storefront/internal/queue"
	"dryfruto/storefront/internal/repository"

	log "github.com/sirupsen/logrus"
)

// SettingsStore serves the singleton site settings record.
type SettingsStore struct {
	repository repository.SettingsRepository
	publisher  queue.Publisher
}

func NewSettingsStore(repository repository.SettingsRepository, publisher queue.Publisher) *SettingsStore {
	return &SettingsStore{
		repository: repository,
		publisher:  publisher,
	}
}

// Get returns the stored settings, or the defaults when nothing was saved yet.
// Reading never creates the record.
func (s *SettingsStore) Get(ctx context.Context) (domain.SiteSettings, error) {
	settings, found, err := s.repository.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.DefaultSiteSettings(), nil
	}
	return settings, nil
}

// Update merges partial onto the stored settings and returns the result.
// Fields absent from partial keep their values; null values are ignored.
func (s *SettingsStore) Update(ctx context.Context, partial domain.SiteSettings) (domain.SiteSettings, error) {
	clean := partial.Sanitize()

	merged, err := s.repository.MergeSettings(ctx, domain.DefaultSiteSettings(), clean)
	observability.RecordSettingsUpdate(err == nil)
	if err != nil {
		log.Errorf("❌ Failed to update site settings: %v", err)
		return nil, err
	}

	keys := clean.Keys()
	log.Infof("⚙️ Site settings updated: %v", keys)

	if len(keys) > 0 {
		e := &event.SettingsUpdated{Keys: keys, UpdatedAt: time.Now().UTC()}
		if _, err := s.publisher.Publish(ctx, e); err != nil {
			log.Warnf("⚠️ Failed to publish %s: %v", e.EventType(), err)
		}
	}

	return merged, nil
}
