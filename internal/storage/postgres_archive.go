package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/ax00z/Asset-Radar/internal/domain"
	"github.com/ax00z/Asset-Radar/internal/ports"
)

// PostgresArchive records pipeline run outcomes into Postgres so scrape
// history survives the process. The pipeline works identically when no
// archive is configured.
type PostgresArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunArchive = (*PostgresArchive)(nil)

// OpenPostgres opens and pings a Postgres connection for the archive.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresArchive wires a sql.DB implementation.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRun inserts one category's run report.
func (a *PostgresArchive) SaveRun(ctx context.Context, report domain.RunReport) error {
	if a.db == nil {
		return nil
	}

	query := a.builder.
		Insert("scrape_runs").
		Columns("run_id", "category", "record_count",
			"bad_coords", "out_of_window", "other_discards",
			"duration_ms", "started_at").
		Values(report.RunID, string(report.Category), report.Records,
			report.Discards.BadCoords, report.Discards.OutOfWindow, report.Discards.Other,
			report.Duration.Milliseconds(), report.StartedAt)

	if _, err := query.RunWith(a.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert run report: %w", err)
	}
	return nil
}

// LastRecordCount returns the record count of the most recent archived
// run for a category, or 0 when none exists.
func (a *PostgresArchive) LastRecordCount(ctx context.Context, category domain.Category) (int, error) {
	if a.db == nil {
		return 0, nil
	}

	query := a.builder.
		Select("record_count").
		From("scrape_runs").
		Where(sq.Eq{"category": string(category)}).
		OrderBy("started_at DESC").
		Limit(1)

	var count int
	err := query.RunWith(a.db).QueryRowContext(ctx).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query last run: %w", err)
	}
	return count, nil
}
