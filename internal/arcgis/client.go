package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ax00z/Asset-Radar/internal/domain"
)

const (
	userAgent = "AssetRadar-Scraper/2.0"

	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 3
	defaultRetryDelay = 5 * time.Second
	defaultPageSize   = 2000
	defaultMaxRecords = 100_000
	defaultRate       = 4.0
	defaultBurst      = 2
)

// ClientConfig tunes the FeatureServer client. Zero values fall back to
// the defaults above.
type ClientConfig struct {
	HTTPClient    *http.Client
	MaxRetries    int
	RetryDelay    time.Duration
	PageSize      int
	MaxRecords    int
	RatePerSecond float64
	Burst         int
}

// Client talks to ArcGIS FeatureServer query endpoints. Every call is
// rate limited and retried; responses that embed an ArcGIS error payload
// under a 200 status are treated as call failures.
type Client struct {
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	pageSize   int
	maxRecords int
	logger     *slog.Logger
}

// NewClient wires an HTTP client and retry policy from config.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = defaultMaxRecords
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaultRate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	return &Client{
		http:       httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		pageSize:   cfg.PageSize,
		maxRecords: cfg.MaxRecords,
		logger:     logger,
	}
}

// queryResponse is the subset of the FeatureServer response we consume.
type queryResponse struct {
	Features              []domain.RawFeature `json:"features"`
	ExceededTransferLimit bool                `json:"exceededTransferLimit"`
	Fields                []fieldMeta         `json:"fields"`
	Error                 *apiError           `json:"error"`
}

type fieldMeta struct {
	Name string `json:"name"`
}

// apiError is the logical error object ArcGIS embeds in otherwise
// successful responses.
type apiError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func (e *apiError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown API error"
	}
	full := fmt.Sprintf("ArcGIS error %d: %s", e.Code, msg)
	if len(e.Details) > 0 {
		full += fmt.Sprintf(" [%s]", strings.Join(e.Details, "; "))
	}
	return full
}

// getJSON issues one GET with URL-encoded params, retrying transient
// transport failures, non-2xx statuses, and embedded ArcGIS errors
// uniformly up to the attempt budget.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values) (*queryResponse, error) {
	fullURL := endpoint + "?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			c.debug("retrying", "attempt", attempt, "delay", c.retryDelay)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := c.doOnce(ctx, fullURL)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		c.warn("request attempt failed", "attempt", attempt, "max_retries", c.maxRetries, "error", err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, fullURL string) (*queryResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service returned %s", resp.Status)
	}

	var payload queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if payload.Error != nil {
		return nil, payload.Error
	}

	return &payload, nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
