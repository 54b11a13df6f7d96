package arcgis

import (
	"context"
	"log/slog"
	"time"

	"github.com/ax00z/Asset-Radar/internal/domain"
	"github.com/ax00z/Asset-Radar/internal/ports"
)

// Source implements ports.FeatureSource against FeatureServer endpoints:
// discover the schema, build filter strategies for the recency window,
// then fetch with fallback.
type Source struct {
	client       *Client
	windowMonths int
	logger       *slog.Logger
	now          func() time.Time
}

var _ ports.FeatureSource = (*Source)(nil)

// NewSource wires a client with the configured recency window.
func NewSource(client *Client, windowMonths int, logger *slog.Logger) *Source {
	return &Source{
		client:       client,
		windowMonths: windowMonths,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Fetch returns all raw features for the endpoint, newest first. An empty
// result is a degraded outcome, not an error.
func (s *Source) Fetch(ctx context.Context, endpoint string) ([]domain.RawFeature, error) {
	fields := s.client.DiscoverFields(ctx, endpoint)
	if len(fields) > 0 {
		s.debug("discovered fields", "endpoint", endpoint, "count", len(fields))
	} else {
		s.debug("field discovery empty, trying common patterns", "endpoint", endpoint)
		fields = fallbackGuessFields
	}

	cutoff := domain.WindowCutoff(s.now(), s.windowMonths)
	strategies := BuildStrategies(fields, cutoff)

	return s.client.FetchFeatures(ctx, endpoint, strategies)
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
