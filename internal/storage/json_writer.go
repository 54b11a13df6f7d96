package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ax00z/Asset-Radar/internal/domain"
	"github.com/ax00z/Asset-Radar/internal/ports"
)

// JSONWriter serializes canonical records as compact JSON artifacts on
// the local filesystem. Writes are assumed reliable; there is no retry.
type JSONWriter struct {
	logger *slog.Logger
}

var _ ports.ArtifactWriter = (*JSONWriter)(nil)

// NewJSONWriter builds a writer with optional logging.
func NewJSONWriter(logger *slog.Logger) *JSONWriter {
	return &JSONWriter{logger: logger}
}

// Save writes the record set to path as a compact JSON array, creating
// parent directories and overwriting any existing file. An empty record
// set produces a valid empty array, never null.
func (w *JSONWriter) Save(records []domain.CanonicalRecord, path string) error {
	if records == nil {
		records = []domain.CanonicalRecord{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	if w.logger != nil {
		w.logger.Info("saved artifact",
			"path", path,
			"records", len(records),
			"size_kb", fmt.Sprintf("%.1f", float64(len(data))/1024))
	}
	return nil
}
