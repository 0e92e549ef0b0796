package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"dryfruto/storefront/internal/domain"
)

// CatalogRepository stores the seeded catalog collections.
type CatalogRepository interface {
	// Count reports how many documents c holds.
	Count(ctx context.Context, c domain.Collection) (int64, error)
	// InsertMany writes docs to c as one batch and returns how many were written.
	InsertMany(ctx context.Context, c domain.Collection, docs []any) (int, error)
	// FindAll decodes every document of c, ordered by insertion position, into out (a *[]T).
	FindAll(ctx context.Context, c domain.Collection, out any) error
}

// SettingsRepository stores the singleton site settings document.
type SettingsRepository interface {
	// GetSettings returns the stored record and whether it exists.
	GetSettings(ctx context.Context) (domain.SiteSettings, bool, error)
	// MergeSettings atomically applies partial onto the stored record, creating
	// it from defaults first when absent, and returns the merged record.
	MergeSettings(ctx context.Context, defaults, partial domain.SiteSettings) (domain.SiteSettings, error)
}

// Transactor runs fn inside a store transaction when the store supports one.
type Transactor interface {
	SupportsTransactions() bool
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Store interface {
	CatalogRepository
	SettingsRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func checkCollection(c domain.Collection) error {
	if !c.IsValid() {
		return fmt.Errorf("unknown collection %q", c)
	}
	return nil
}

// encodeDocuments marshals docs to JSON and extracts their ids.
func encodeDocuments(docs []any) ([]string, [][]byte, error) {
	ids := make([]string, 0, len(docs))
	payloads := make([][]byte, 0, len(docs))
	for i, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode document %d: %w", i, err)
		}
		var head struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			return nil, nil, fmt.Errorf("failed to read id of document %d: %w", i, err)
		}
		if head.ID == "" {
			return nil, nil, fmt.Errorf("document %d has no id", i)
		}
		ids = append(ids, head.ID)
		payloads = append(payloads, data)
	}
	return ids, payloads, nil
}

// decodeDocuments decodes JSON documents into out, a pointer to a slice.
func decodeDocuments(payloads [][]byte, out any) error {
	array := make([]json.RawMessage, 0, len(payloads))
	for _, p := range payloads {
		array = append(array, p)
	}
	data, err := json.Marshal(array)
	if err != nil {
		return fmt.Errorf("failed to assemble documents: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode documents: %w", err)
	}
	return nil
}

func decodeSettings(data []byte) (domain.SiteSettings, error) {
	settings := domain.SiteSettings{}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode site settings: %w", err)
	}
	delete(settings, "_id")
	delete(settings, "id")
	return settings, nil
}

// settingsJSON encodes s as a JSON object; an empty record encodes as {}.
func settingsJSON(s domain.SiteSettings) (string, error) {
	if len(s) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode site settings: %w", err)
	}
	return string(data), nil
}
