package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ax00z/Asset-Radar/internal/config"
	"github.com/ax00z/Asset-Radar/internal/domain"
	"github.com/ax00z/Asset-Radar/internal/ports"
	"github.com/ax00z/Asset-Radar/internal/transform"
)

// ErrNoRecords signals that every dataset produced zero records; this is
// the only pipeline outcome reported to the invoking process as failure.
var ErrNoRecords = errors.New("no records extracted across all datasets")

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source   ports.FeatureSource
	Writer   ports.ArtifactWriter
	Archive  ports.RunArchive
	Notifier ports.Notifier
	Logger   *slog.Logger

	Datasets     []config.DatasetConfig
	OutputDir    string
	WindowMonths int
	Bounds       domain.BoundingBox
}

// Pipeline implements the extract-transform-load workflow. Datasets run
// sequentially with isolated failure handling: a failing dataset writes
// an empty artifact and never aborts the others.
type Pipeline struct {
	source   ports.FeatureSource
	writer   ports.ArtifactWriter
	archive  ports.RunArchive
	notifier ports.Notifier
	logger   *slog.Logger

	datasets     []config.DatasetConfig
	outputDir    string
	windowMonths int
	bounds       domain.BoundingBox
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:       deps.Source,
		writer:       deps.Writer,
		archive:      deps.Archive,
		notifier:     deps.Notifier,
		logger:       deps.Logger,
		datasets:     deps.Datasets,
		outputDir:    deps.OutputDir,
		windowMonths: deps.WindowMonths,
		bounds:       deps.Bounds,
	}
}

// Run executes the full pipeline once and returns the combined record
// count. It returns ErrNoRecords only when every dataset came up empty.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (int, error) {
	if p.source == nil || p.writer == nil {
		return 0, errors.New("pipeline misconfigured: source and writer are required")
	}

	runID := uuid.NewString()
	logger := p.loggerWith("run_id", runID)
	cutoff := domain.WindowCutoff(now, p.windowMonths)

	logger.Info("pipeline starting",
		"window_months", p.windowMonths,
		"cutoff", cutoff.Format("2006-01-02"),
		"datasets", len(p.datasets))

	started := time.Now()
	total := 0
	for _, ds := range p.datasets {
		total += p.processDataset(ctx, logger, runID, ds, now, cutoff)
	}

	elapsed := time.Since(started)
	logger.Info("pipeline complete", "total_records", total, "elapsed", elapsed.Round(time.Millisecond))

	if p.notifier != nil {
		summary := fmt.Sprintf("Asset Radar scrape finished: %d records across %d datasets in %s",
			total, len(p.datasets), elapsed.Round(time.Second))
		if err := p.notifier.PublishSummary(ctx, summary); err != nil {
			logger.Warn("publish summary failed", "error", err)
		}
	}

	if total == 0 {
		return 0, ErrNoRecords
	}
	return total, nil
}

// processDataset runs extract, transform and load for one dataset. Any
// failure degrades to an empty artifact so every expected output file
// exists after a run.
func (p *Pipeline) processDataset(ctx context.Context, logger *slog.Logger, runID string, ds config.DatasetConfig, now, cutoff time.Time) int {
	category := domain.Category(ds.Category)
	logger = logger.With("category", ds.Category)
	path := filepath.Join(p.outputDir, ds.Filename)
	started := time.Now()

	var records []domain.CanonicalRecord
	var discards domain.DiscardCounts

	features, err := p.source.Fetch(ctx, ds.Endpoint)
	if err != nil {
		logger.Error("fetch failed, writing empty artifact", "error", err)
	} else {
		records, discards = transform.Process(features, category, transform.Options{
			Cutoff: cutoff,
			Bounds: p.bounds,
			Now:    now,
		})
		logger.Info("processed features",
			"raw", len(features),
			"valid", len(records),
			"bad_coords", discards.BadCoords,
			"out_of_window", discards.OutOfWindow,
			"other", discards.Other)
	}

	if err := p.writer.Save(records, path); err != nil {
		logger.Error("write artifact failed", "path", path, "error", err)
		return 0
	}

	if p.archive != nil {
		if previous, err := p.archive.LastRecordCount(ctx, category); err != nil {
			logger.Warn("load previous run failed", "error", err)
		} else if previous > 0 {
			logger.Info("record delta vs previous run", "previous", previous, "current", len(records))
		}

		report := domain.RunReport{
			RunID:     runID,
			Category:  category,
			Records:   len(records),
			Discards:  discards,
			Duration:  time.Since(started),
			StartedAt: started.UTC(),
		}
		if err := p.archive.SaveRun(ctx, report); err != nil {
			logger.Warn("archive run failed", "error", err)
		}
	}

	return len(records)
}

func (p *Pipeline) loggerWith(args ...any) *slog.Logger {
	base := p.logger
	if base == nil {
		base = slog.Default()
	}
	return base.With(args...)
}
