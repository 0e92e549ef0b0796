package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"dryfruto/storefront/internal/domain"
)

// ErrDuplicateID is returned by the memory store when a batch reuses an id.
var ErrDuplicateID = errors.New("duplicate document id")

type memoryStore struct {
	mu          sync.RWMutex
	collections map[domain.Collection][][]byte
	ids         map[domain.Collection]map[string]struct{}
	settings    []byte // nil until first write
}

// NewMemoryStore creates an in-process store for development and tests.
// It keeps JSON-encoded documents so reads never share memory with writers.
func NewMemoryStore() Store {
	return &memoryStore{
		collections: make(map[domain.Collection][][]byte),
		ids:         make(map[domain.Collection]map[string]struct{}),
	}
}

func (m *memoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *memoryStore) Close(ctx context.Context) error {
	return nil
}

func (m *memoryStore) Count(ctx context.Context, c domain.Collection) (int64, error) {
	if err := checkCollection(c); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.collections[c])), nil
}

// InsertMany is all-or-nothing per batch.
func (m *memoryStore) InsertMany(ctx context.Context, c domain.Collection, docs []any) (int, error) {
	if err := checkCollection(c); err != nil {
		return 0, err
	}
	ids, payloads, err := encodeDocuments(docs)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, domain.StoreUnavailable("insert "+c.String(), err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.ids[c]
	if existing == nil {
		existing = make(map[string]struct{})
		m.ids[c] = existing
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := existing[id]; dup {
			return 0, fmt.Errorf("failed to insert into %s: %w: %s", c, ErrDuplicateID, id)
		}
		if _, dup := seen[id]; dup {
			return 0, fmt.Errorf("failed to insert into %s: %w: %s", c, ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}

	for i, id := range ids {
		existing[id] = struct{}{}
		m.collections[c] = append(m.collections[c], payloads[i])
	}
	return len(ids), nil
}

func (m *memoryStore) FindAll(ctx context.Context, c domain.Collection, out any) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	m.mu.RLock()
	payloads := append([][]byte(nil), m.collections[c]...)
	m.mu.RUnlock()

	return decodeDocuments(payloads, out)
}

func (m *memoryStore) GetSettings(ctx context.Context) (domain.SiteSettings, bool, error) {
	m.mu.RLock()
	data := m.settings
	m.mu.RUnlock()

	if data == nil {
		return nil, false, nil
	}
	settings, err := decodeSettings(data)
	if err != nil {
		return nil, false, err
	}
	return settings, true, nil
}

func (m *memoryStore) MergeSettings(ctx context.Context, defaults, partial domain.SiteSettings) (domain.SiteSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreUnavailable("merge site settings", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := defaults.Clone()
	if m.settings != nil {
		stored, err := decodeSettings(m.settings)
		if err != nil {
			return nil, err
		}
		current = stored
	}

	merged := current.Merge(partial)
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode site settings: %w", err)
	}
	m.settings = data

	return decodeSettings(data)
}
