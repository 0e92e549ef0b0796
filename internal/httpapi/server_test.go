package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"dryfruto/storefront/internal/config"
	"dryfruto/storefront/internal/domain"
	"dryfruto/storefront/internal/domain/event"
	"dryfruto/storefront/internal/queue"
	"dryfruto/storefront/internal/repository"
	"dryfruto/storefront/internal/service"
	"dryfruto/storefront/internal/state"

	"github.com/gin-gonic/gin"
)

// memoryStream keeps published events in process so they can be read back.
type memoryStream struct {
	mu      sync.Mutex
	records []queue.Record
}

func (m *memoryStream) Publish(ctx context.Context, e event.Event) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("%d-0", len(m.records)+1)
	m.records = append(m.records, queue.Record{ID: id, Type: e.EventType(), Event: e})
	return id, nil
}

func (m *memoryStream) Recent(ctx context.Context, eventType string, count int64) ([]queue.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]queue.Record, 0)
	for i := len(m.records) - 1; i >= 0 && int64(len(out)) < count; i-- {
		if m.records[i].Type == eventType {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func newTestServer(t *testing.T, store repository.Store, lock state.SeedLock) *Server {
	t.Helper()
	stream := &memoryStream{}
	return NewServer(
		config.ServerConfig{BasePath: "/api", RequestTimeout: 5},
		store,
		service.NewSeeder(store, lock, stream),
		service.NewSettingsStore(store, stream),
		service.NewCatalog(store),
		stream,
	)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, repository.NewMemoryStore(), state.NewLocalSeedLock())

	rr := do(t, s, http.MethodGet, "/api/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decode[map[string]any](t, rr)
	if body["status"] != "healthy" || body["database"] != "connected" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestSeedDataIsIdempotent(t *testing.T) {
	s := newTestServer(t, repository.NewMemoryStore(), state.NewLocalSeedLock())

	rr := do(t, s, http.MethodPost, "/api/seed-data", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("seed: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	first := decode[map[string]any](t, rr)
	if msg, _ := first["message"].(string); !strings.Contains(msg, "seeded successfully") {
		t.Fatalf("unexpected message: %v", first["message"])
	}
	want := map[string]float64{"categories": 6, "products": 12, "heroSlides": 3, "testimonials": 6, "giftBoxes": 6}
	for key, n := range want {
		if first[key] != n {
			t.Fatalf("%s: expected %v, got %v", key, n, first[key])
		}
	}

	rr = do(t, s, http.MethodPost, "/api/seed-data", "")
	second := decode[map[string]any](t, rr)
	if msg, _ := second["message"].(string); rr.Code != http.StatusOK || !strings.Contains(msg, "already seeded") {
		t.Fatalf("expected already seeded, got %d %v", rr.Code, second)
	}
	if _, ok := second["categories"]; ok {
		t.Fatalf("already seeded response must not carry counts: %v", second)
	}

	for path, n := range map[string]int{
		"/api/categories":   6,
		"/api/products":     12,
		"/api/hero-slides":  3,
		"/api/testimonials": 6,
		"/api/gift-boxes":   6,
	} {
		items := decode[[]map[string]any](t, do(t, s, http.MethodGet, path, ""))
		if len(items) != n {
			t.Fatalf("%s: expected %d items after repeated seeding, got %d", path, n, len(items))
		}
	}
}

func TestListsCarryRequiredFields(t *testing.T) {
	s := newTestServer(t, repository.NewMemoryStore(), state.NewLocalSeedLock())
	if rr := do(t, s, http.MethodPost, "/api/seed-data", ""); rr.Code != http.StatusOK {
		t.Fatalf("seed: %d", rr.Code)
	}

	tests := []struct {
		path   string
		fields []string
	}{
		{path: "/api/categories", fields: []string{"id", "name", "slug", "image", "icon"}},
		{path: "/api/products", fields: []string{"id", "name", "slug", "category", "basePrice", "image"}},
		{path: "/api/testimonials", fields: []string{"id", "name", "review", "avatar"}},
		{path: "/api/gift-boxes", fields: []string{"id", "name", "image", "price"}},
		{path: "/api/hero-slides", fields: []string{"id", "title", "subtitle", "description", "image", "cta"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := do(t, s, http.MethodGet, tt.path, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rr.Code)
			}
			for i, item := range decode[[]map[string]any](t, rr) {
				for _, field := range tt.fields {
					v, ok := item[field]
					if !ok || v == nil || v == "" {
						t.Fatalf("item %d missing %q: %v", i, field, item)
					}
				}
			}
		})
	}
}

func TestProductsCategoryFilter(t *testing.T) {
	s := newTestServer(t, repository.NewMemoryStore(), state.NewLocalSeedLock())
	do(t, s, http.MethodPost, "/api/seed-data", "")

	all := decode[[]domain.Product](t, do(t, s, http.MethodGet, "/api/products", ""))
	slug := all[0].Category

	filtered := decode[[]domain.Product](t, do(t, s, http.MethodGet, "/api/products?category="+slug, ""))
	if len(filtered) == 0 || len(filtered) > len(all) {
		t.Fatalf("unexpected filtered size %d of %d", len(filtered), len(all))
	}
	for _, p := range filtered {
		if p.Category != slug {
			t.Fatalf("product %s not in %s", p.Slug, slug)
		}
	}

	none := decode[[]domain.Product](t, do(t, s, http.MethodGet, "/api/products?category=unknown", ""))
	if len(none) != 0 {
		t.Fatalf("expected no products for unknown category, got %d", len(none))
	}
}

func TestEmptyListsBeforeSeeding(t *testing.T) {
	s := newTestServer(t, repository.NewMemoryStore(), state.NewLocalSeedLock())

	rr := do(t, s, http.MethodGet, "/api/categories", "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty JSON array, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestSiteSettingsScenario(t *testing.T) {
	s := newTestServer(t, repository.NewMemoryStore(), state.NewLocalSeedLock())

	defaults := decode[map[string]any](t, do(t, s, http.MethodGet, "/api/site-settings", ""))
	for _, field := range []string{"businessName", "slogan", "phone", "email"} {
		if _, ok := defaults[field]; !ok {
			t.Fatalf("default settings missing %q: %v", field, defaults)
		}
	}
	if defaults["businessName"] != "DryFruto" || defaults["slogan"] != "Live With Health" {
		t.Fatalf("unexpected defaults: %v", defaults)
	}

	rr := do(t, s, http.MethodPut, "/api/site-settings", `{"businessName": "Test DryFruto"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	updated := decode[map[string]any](t, rr)
	if updated["businessName"] != "Test DryFruto" || updated["slogan"] != "Live With Health" {
		t.Fatalf("unexpected merged settings: %v", updated)
	}

	got := decode[map[string]any](t, do(t, s, http.MethodGet, "/api/site-settings", ""))
	if got["businessName"] != "Test DryFruto" {
		t.Fatalf("update not visible: %v", got)
	}

	restored := decode[map[string]any](t, do(t, s, http.MethodPut, "/api/site-settings", `{"businessName": "DryFruto"}`))
	if restored["businessName"] != "DryFruto" {
		t.Fatalf("restore failed: %v", restored)
	}

	final := decode[map[string]any](t, do(t, s, http.MethodGet, "/api/site-settings", ""))
	for _, field := range []string{"slogan", "phone", "email"} {
		if final[field] != defaults[field] {
			t.Fatalf("%s changed during the round-trip: %v -> %v", field, defaults[field], final[field])
		}
	}
}

func TestRecentEvents(t *testing.T) {
	s := newTestServer(t, repository.NewMemoryStore(), state.NewLocalSeedLock())

	do(t, s, http.MethodPut, "/api/site-settings", `{"phone": "1111111111"}`)
	do(t, s, http.MethodPut, "/api/site-settings", `{"businessName": "Test DryFruto"}`)

	rr := do(t, s, http.MethodGet, "/api/events/settings.updated?limit=1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	records := decode[[]map[string]any](t, rr)
	if len(records) != 1 || records[0]["type"] != "settings.updated" {
		t.Fatalf("unexpected records: %v", records)
	}
	payload, _ := records[0]["event"].(map[string]any)
	keys, _ := payload["keys"].([]any)
	if len(keys) != 1 || keys[0] != "businessName" {
		t.Fatalf("expected the newest update first, got %v", payload)
	}

	empty := decode[[]map[string]any](t, do(t, s, http.MethodGet, "/api/events/catalog.seeded", ""))
	if len(empty) != 0 {
		t.Fatalf("expected no catalog events before seeding, got %v", empty)
	}

	for _, path := range []string{"/api/events/orders.created", "/api/events/settings.updated?limit=0", "/api/events/settings.updated?limit=x"} {
		if rr := do(t, s, http.MethodGet, path, ""); rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, rr.Code)
		}
	}
}

func TestSiteSettingsRejectsMalformedJSON(t *testing.T) {
	s := newTestServer(t, repository.NewMemoryStore(), state.NewLocalSeedLock())

	for _, body := range []string{`{"businessName":`, `["not", "an", "object"]`} {
		rr := do(t, s, http.MethodPut, "/api/site-settings", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rr.Code)
		}
	}
}

func TestSeedInProgressConflict(t *testing.T) {
	lock := state.NewLocalSeedLock()
	release, err := lock.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	s := newTestServer(t, repository.NewMemoryStore(), lock)
	if rr := do(t, s, http.MethodPost, "/api/seed-data", ""); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

// downStore fails every call as if the database were unreachable.
type downStore struct {
	repository.Store
}

var errDown = domain.StoreUnavailable("dial", errors.New("connection refused"))

func (downStore) Ping(ctx context.Context) error { return errDown }

func (downStore) Count(ctx context.Context, c domain.Collection) (int64, error) { return 0, errDown }

func (downStore) FindAll(ctx context.Context, c domain.Collection, out any) error { return errDown }

func (downStore) GetSettings(ctx context.Context) (domain.SiteSettings, bool, error) {
	return nil, false, errDown
}

func (downStore) MergeSettings(ctx context.Context, defaults, partial domain.SiteSettings) (domain.SiteSettings, error) {
	return nil, errDown
}

func TestStoreUnavailableMapsTo503(t *testing.T) {
	s := newTestServer(t, downStore{Store: repository.NewMemoryStore()}, state.NewLocalSeedLock())

	tests := []struct {
		method, path, body string
	}{
		{method: http.MethodGet, path: "/api/health"},
		{method: http.MethodPost, path: "/api/seed-data"},
		{method: http.MethodGet, path: "/api/categories"},
		{method: http.MethodGet, path: "/api/site-settings"},
		{method: http.MethodPut, path: "/api/site-settings", body: `{"phone": "1"}`},
	}
	for _, tt := range tests {
		rr := do(t, s, tt.method, tt.path, tt.body)
		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s %s: expected 503, got %d", tt.method, tt.path, rr.Code)
		}
		body := decode[map[string]any](t, rr)
		if _, ok := body["error"]; !ok && tt.path != "/api/health" {
			t.Fatalf("%s %s: missing error field: %v", tt.method, tt.path, body)
		}
	}
}

func TestPartialSeedFailureMapsTo500(t *testing.T) {
	s := newTestServer(t, repository.NewMemoryStore(), state.NewLocalSeedLock())
	err := &domain.PartialSeedFailure{
		Written: []domain.Collection{domain.CollectionProducts},
		Failed:  domain.CollectionHeroSlides,
		Err:     errors.New("write conflict"),
	}

	s.router.GET("/partial", func(c *gin.Context) { writeError(c, err) })
	rr := do(t, s, http.MethodGet, "/partial", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	body := decode[map[string]any](t, rr)
	if body["failed"] != "hero_slides" || body["rolledBack"] != false {
		t.Fatalf("unexpected body: %v", body)
	}
	written, _ := body["written"].([]any)
	if len(written) != 1 || written[0] != "products" {
		t.Fatalf("unexpected written list: %v", body["written"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, repository.NewMemoryStore(), state.NewLocalSeedLock())
	do(t, s, http.MethodGet, "/api/health", "")

	rr := do(t, s, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "storefront_http_requests_total") {
		t.Fatalf("expected prometheus exposition, got %d", rr.Code)
	}
}
