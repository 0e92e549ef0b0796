package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// StorefrontClient talks to a running storefront API.
type StorefrontClient interface {
	Health(ctx context.Context) (*HealthStatus, error)
	Seed(ctx context.Context) (*SeedResponse, error)
	// List fetches a collection endpoint such as "categories" as raw JSON objects.
	List(ctx context.Context, resource string) ([]map[string]any, error)
	Settings(ctx context.Context) (map[string]any, error)
	UpdateSettings(ctx context.Context, partial map[string]any) (map[string]any, error)
	// Events returns the newest published events of one type, newest first.
	Events(ctx context.Context, eventType string, limit int) ([]EventRecord, error)
}

type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type SeedResponse struct {
	Message      string `json:"message"`
	Status       string `json:"status"`
	Categories   int    `json:"categories"`
	Products     int    `json:"products"`
	HeroSlides   int    `json:"heroSlides"`
	Testimonials int    `json:"testimonials"`
	GiftBoxes    int    `json:"giftBoxes"`
}

type EventRecord struct {
	ID    string         `json:"id"`
	Type  string         `json:"type"`
	Event map[string]any `json:"event"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront API error: %d %s", e.StatusCode, e.Message)
}

type Config struct {
	BaseURL              string // including the API base path, e.g. http://localhost:8001/api
	Timeout              time.Duration
	MaxRequestsPerSecond int
}

type storefrontClient struct {
	rl         ratelimit.Limiter
	baseURL    string
	httpClient *resty.Client
}

func NewStorefrontClient(cfg Config) StorefrontClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRequestsPerSecond <= 0 {
		cfg.MaxRequestsPerSecond = 10
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "dryfruto-storefront-smoke/1.0")

	return &storefrontClient{
		rl:         ratelimit.New(cfg.MaxRequestsPerSecond),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *storefrontClient) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.do(ctx, "GET", "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *storefrontClient) Seed(ctx context.Context) (*SeedResponse, error) {
	var out SeedResponse
	if err := c.do(ctx, "POST", "/seed-data", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *storefrontClient) List(ctx context.Context, resource string) ([]map[string]any, error) {
	out := make([]map[string]any, 0)
	if err := c.do(ctx, "GET", "/"+url.PathEscape(resource), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *storefrontClient) Settings(ctx context.Context) (map[string]any, error) {
	out := make(map[string]any)
	if err := c.do(ctx, "GET", "/site-settings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *storefrontClient) UpdateSettings(ctx context.Context, partial map[string]any) (map[string]any, error) {
	out := make(map[string]any)
	if err := c.do(ctx, "PUT", "/site-settings", partial, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *storefrontClient) Events(ctx context.Context, eventType string, limit int) ([]EventRecord, error) {
	out := make([]EventRecord, 0)
	path := fmt.Sprintf("/events/%s?limit=%d", url.PathEscape(eventType), limit)
	if err := c.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *storefrontClient) do(ctx context.Context, method, path string, body, out any) error {
	c.rl.Take()

	req := c.httpClient.R().SetContext(ctx)
	if body != nil {
		req = req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	endpoint := c.baseURL + path
	resp, err := req.Execute(method, endpoint)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("failed to call %s %s: %w", method, endpoint, err)
	}

	raw := resp.String()
	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal([]byte(raw), &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, endpoint, err)
	}

	log.Debugf("%s %s -> %d", method, endpoint, resp.StatusCode())
	return nil
}

// Close releases idle connections.
func Close(c StorefrontClient) {
	if sc, ok := c.(*storefrontClient); ok {
		_ = sc.httpClient.Close()
	}
}
