package ports

import (
	"context"
	"time"

	"github.com/ax00z/Asset-Radar/internal/domain"
)

// FeatureSource pulls raw features from an upstream query endpoint.
type FeatureSource interface {
	Fetch(ctx context.Context, endpoint string) ([]domain.RawFeature, error)
}

// ArtifactWriter persists one category's canonical record set.
type ArtifactWriter interface {
	Save(records []domain.CanonicalRecord, path string) error
}

// RunArchive stores per-category run outcomes for audit and history.
type RunArchive interface {
	SaveRun(ctx context.Context, report domain.RunReport) error
	LastRecordCount(ctx context.Context, category domain.Category) (int, error)
}

// Notifier publishes a human-readable run summary to an external channel.
type Notifier interface {
	PublishSummary(ctx context.Context, summary string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
