package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	settings := map[string]any{"businessName": "DryFruto", "slogan": "Live With Health"}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "database": "connected"})
	})
	mux.HandleFunc("/api/seed-data", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "Data seeded successfully", "categories": 6, "products": 12})
	})
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": "1", "slug": "almonds"}})
	})
	mux.HandleFunc("/api/site-settings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			var partial map[string]any
			if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad payload"})
				return
			}
			for k, v := range partial {
				settings[k] = v
			}
		}
		_ = json.NewEncoder(w).Encode(settings)
	})
	mux.HandleFunc("/api/events/settings.updated", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "5" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "2-0", "type": "settings.updated", "event": map[string]any{"keys": []string{"businessName"}}},
		})
	})
	mux.HandleFunc("/api/gift-boxes", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "document store unavailable"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStorefrontClientCalls(t *testing.T) {
	srv := newFakeAPI(t)
	c := NewStorefrontClient(Config{BaseURL: srv.URL + "/api/"})
	defer Close(c)
	ctx := context.Background()

	health, err := c.Health(ctx)
	if err != nil || health.Status != "healthy" || health.Database != "connected" {
		t.Fatalf("unexpected health %+v err=%v", health, err)
	}

	seed, err := c.Seed(ctx)
	if err != nil || seed.Categories != 6 || seed.Products != 12 {
		t.Fatalf("unexpected seed response %+v err=%v", seed, err)
	}

	items, err := c.List(ctx, "categories")
	if err != nil || len(items) != 1 || items[0]["slug"] != "almonds" {
		t.Fatalf("unexpected categories %v err=%v", items, err)
	}

	updated, err := c.UpdateSettings(ctx, map[string]any{"businessName": "Test DryFruto"})
	if err != nil || updated["businessName"] != "Test DryFruto" || updated["slogan"] != "Live With Health" {
		t.Fatalf("unexpected update %v err=%v", updated, err)
	}

	got, err := c.Settings(ctx)
	if err != nil || got["businessName"] != "Test DryFruto" {
		t.Fatalf("unexpected settings %v err=%v", got, err)
	}

	events, err := c.Events(ctx, "settings.updated", 5)
	if err != nil || len(events) != 1 || events[0].ID != "2-0" || events[0].Type != "settings.updated" {
		t.Fatalf("unexpected events %+v err=%v", events, err)
	}
}

func TestStorefrontClientAPIError(t *testing.T) {
	srv := newFakeAPI(t)
	c := NewStorefrontClient(Config{BaseURL: srv.URL + "/api"})
	defer Close(c)

	_, err := c.List(context.Background(), "gift-boxes")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable || apiErr.Message != "document store unavailable" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}
