package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ax00z/Asset-Radar/internal/arcgis"
	"github.com/ax00z/Asset-Radar/internal/config"
	"github.com/ax00z/Asset-Radar/internal/domain"
	"github.com/ax00z/Asset-Radar/internal/infrastructure/scheduler"
	"github.com/ax00z/Asset-Radar/internal/infrastructure/telegram"
	"github.com/ax00z/Asset-Radar/internal/logging"
	"github.com/ax00z/Asset-Radar/internal/ports"
	"github.com/ax00z/Asset-Radar/internal/storage"
	"github.com/ax00z/Asset-Radar/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	client := arcgis.NewClient(arcgis.ClientConfig{
		HTTPClient:    &http.Client{Timeout: cfg.Fetch.Timeout},
		MaxRetries:    cfg.Fetch.MaxRetries,
		RetryDelay:    cfg.Fetch.RetryDelay,
		PageSize:      cfg.Fetch.PageSize,
		MaxRecords:    cfg.Fetch.MaxRecords,
		RatePerSecond: cfg.Fetch.RatePerSecond,
		Burst:         cfg.Fetch.Burst,
	}, baseLogger.With("component", "arcgis"))

	source := arcgis.NewSource(client, cfg.Window.Months, baseLogger.With("component", "source"))
	writer := storage.NewJSONWriter(baseLogger.With("component", "writer"))

	var archive ports.RunArchive
	if cfg.Archive.DSN != "" {
		db, err := storage.OpenPostgres(cfg.Archive.DSN)
		if err != nil {
			baseLogger.Warn("run archive disabled", "error", err)
		} else {
			archive = storage.NewPostgresArchive(db)
		}
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:       source,
		Writer:       writer,
		Archive:      archive,
		Notifier:     notifier,
		Logger:       baseLogger.With("component", "pipeline"),
		Datasets:     cfg.Datasets,
		OutputDir:    cfg.Output.Dir,
		WindowMonths: cfg.Window.Months,
		Bounds: domain.BoundingBox{
			MinLat: cfg.Bounds.MinLat,
			MaxLat: cfg.Bounds.MaxLat,
			MinLng: cfg.Bounds.MinLng,
			MaxLng: cfg.Bounds.MaxLng,
		},
	})

	return &Application{cfg: cfg, pipeline: pipeline}
}

// Run executes the pipeline once, or on an interval when the scheduler
// is configured.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	if a.cfg.Scheduler.Interval > 0 {
		driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval)
		runner := usecase.NewScheduler(driver, a.pipeline)
		if err := runner.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return runner.Stop(context.Background())
	}

	_, err := a.pipeline.Run(ctx, time.Now().UTC())
	return err
}
