package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ax00z/Asset-Radar/internal/domain"
)

func TestSaveWritesCompactJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "auto_thefts.json")
	records := []domain.CanonicalRecord{
		{
			ID: "auto-GO-1", Type: domain.CategoryAuto, Date: "2024-03-15",
			Year: 2024, Month: 3, Day: 15, Hour: 2,
			Neighbourhood: "Annex", PremiseType: "Outside",
			Lat: 43.651235, Lng: -79.381235, Status: "NEW",
		},
	}

	writer := NewJSONWriter(nil)
	if err := writer.Save(records, path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	body := string(raw)
	if strings.ContainsAny(body, "\n\t") || strings.Contains(body, ": ") {
		t.Fatalf("expected compact JSON, got %q", body)
	}
	for _, key := range []string{`"id":"auto-GO-1"`, `"type":"auto"`, `"premiseType":"Outside"`, `"lat":43.651235`} {
		if !strings.Contains(body, key) {
			t.Fatalf("missing %s in %q", key, body)
		}
	}
	if strings.Contains(body, "Division") || strings.Contains(body, "LocationType") {
		t.Fatalf("internal fields leaked into artifact: %q", body)
	}
}

func TestSaveEmptyRecordSet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bike_thefts.json")

	writer := NewJSONWriter(nil)
	if err := writer.Save(nil, path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected empty array, got %q", raw)
	}
}

func TestSaveOverwritesExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "auto_thefts.json")
	if err := os.WriteFile(path, []byte(`[{"id":"stale"}]`), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	writer := NewJSONWriter(nil)
	if err := writer.Save([]domain.CanonicalRecord{}, path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected stale content replaced, got %q", raw)
	}
}
