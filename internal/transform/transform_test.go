package transform

import (
	"testing"
	"time"

	"github.com/ax00z/Asset-Radar/internal/domain"
)

var testBounds = domain.BoundingBox{MinLat: 41, MaxLat: 57, MinLng: -95, MaxLng: -73}

func testOptions() Options {
	return Options{
		Cutoff: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		Bounds: testBounds,
		Now:    time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFirstOf(t *testing.T) {
	t.Parallel()

	attrs := map[string]any{"OCC_YEAR": float64(2024)}
	if got := FirstOf(attrs, []string{"OCC_YEAR"}, nil); got != float64(2024) {
		t.Fatalf("expected 2024, got %v", got)
	}

	attrs = map[string]any{"HOOD_158": "Annex"}
	if got := FirstOf(attrs, DefaultFieldMap.Neighbourhood, "Unknown"); got != "Annex" {
		t.Fatalf("expected Annex, got %v", got)
	}

	attrs = map[string]any{"NEIGHBOURHOOD_158": nil, "HOOD_158": "Annex"}
	if got := FirstOf(attrs, DefaultFieldMap.Neighbourhood, "Unknown"); got != "Annex" {
		t.Fatalf("nil values should be skipped, got %v", got)
	}

	if got := FirstOf(map[string]any{}, DefaultFieldMap.Status, "Unknown"); got != "Unknown" {
		t.Fatalf("expected default, got %v", got)
	}
}

func TestParseMonth(t *testing.T) {
	t.Parallel()

	if got := parseMonth("March"); got != 3 {
		t.Fatalf("March: expected 3, got %d", got)
	}
	if got := parseMonth(float64(7)); got != 7 {
		t.Fatalf("7: expected 7, got %d", got)
	}
	if got := parseMonth("Unknownmonth"); got != 1 {
		t.Fatalf("unrecognized name: expected 1, got %d", got)
	}
	if got := parseMonth(nil); got != 1 {
		t.Fatalf("nil: expected 1, got %d", got)
	}
}

func TestParseDateString(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	if got := parseDateString(float64(1700000000000), nil, 1, nil, now); got != "2023-11-14" {
		t.Fatalf("epoch ms: expected 2023-11-14, got %s", got)
	}
	if got := parseDateString("2024-05-01T00:00:00", nil, 1, nil, now); got != "2024-05-01" {
		t.Fatalf("string date: expected 2024-05-01, got %s", got)
	}
	if got := parseDateString("", float64(2024), 3, float64(15), now); got != "2024-03-15" {
		t.Fatalf("components: expected 2024-03-15, got %s", got)
	}
	if got := parseDateString("", "notayear", 3, "notaday", now); got != "2024-01-01" {
		t.Fatalf("fallback: expected 2024-01-01, got %s", got)
	}
}

func TestProcessValidFeature(t *testing.T) {
	t.Parallel()

	features := []domain.RawFeature{
		{
			Attributes: map[string]any{
				"EVENT_UNIQUE_ID":   "GO-20241234",
				"OCC_DATE":          "2024-03-15T00:00:00",
				"OCC_YEAR":          float64(2024),
				"OCC_MONTH":         "March",
				"OCC_DAY":           float64(15),
				"OCC_HOUR":          float64(2),
				"NEIGHBOURHOOD_158": "  Annex  ",
				"PREMISES_TYPE":     "Outside",
				"STATUS":            "NEW",
			},
			Geometry: &domain.Geometry{X: -79.3812345678, Y: 43.6512345678},
		},
	}

	records, discards := Process(features, domain.CategoryBike, testOptions())
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d (discards %+v)", len(records), discards)
	}

	rec := records[0]
	if rec.ID != "bike-GO-20241234" {
		t.Fatalf("unexpected id: %s", rec.ID)
	}
	if rec.Type != domain.CategoryBike {
		t.Fatalf("unexpected type: %s", rec.Type)
	}
	if rec.Date != "2024-03-15" {
		t.Fatalf("unexpected date: %s", rec.Date)
	}
	if rec.Year != 2024 || rec.Month != 3 || rec.Day != 15 || rec.Hour != 2 {
		t.Fatalf("unexpected components: %d-%d-%d %d", rec.Year, rec.Month, rec.Day, rec.Hour)
	}
	if rec.Neighbourhood != "Annex" {
		t.Fatalf("expected trimmed neighbourhood, got %q", rec.Neighbourhood)
	}
	if rec.Lat != 43.651235 || rec.Lng != -79.381235 {
		t.Fatalf("expected 6-digit rounding, got %v,%v", rec.Lat, rec.Lng)
	}
}

func TestProcessDiscardsBadCoordinates(t *testing.T) {
	t.Parallel()

	features := []domain.RawFeature{
		{Attributes: map[string]any{"OCC_YEAR": float64(2024), "OCC_MONTH": float64(6)},
			Geometry: &domain.Geometry{X: 0, Y: 0}},
		{Attributes: map[string]any{"OCC_YEAR": float64(2024), "OCC_MONTH": float64(6)},
			Geometry: &domain.Geometry{X: 10, Y: 43.65}},
		{Attributes: map[string]any{"OCC_YEAR": float64(2024), "OCC_MONTH": float64(6)}},
	}

	records, discards := Process(features, domain.CategoryAuto, testOptions())
	if len(records) != 0 {
		t.Fatalf("expected 0 records, got %d", len(records))
	}
	if discards.BadCoords != 3 {
		t.Fatalf("expected 3 bad-coordinate discards, got %d", discards.BadCoords)
	}
}

func TestProcessAttributeCoordinateFallback(t *testing.T) {
	t.Parallel()

	features := []domain.RawFeature{
		{Attributes: map[string]any{
			"LAT_WGS84":  "43.70",
			"LONG_WGS84": "-79.40",
			"OCC_YEAR":   float64(2024),
			"OCC_MONTH":  float64(6),
		}},
	}

	records, discards := Process(features, domain.CategoryAuto, testOptions())
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d (discards %+v)", len(records), discards)
	}
	if records[0].Lat != 43.7 || records[0].Lng != -79.4 {
		t.Fatalf("unexpected coordinates: %v,%v", records[0].Lat, records[0].Lng)
	}
}

func TestProcessEnforcesWindow(t *testing.T) {
	t.Parallel()

	features := []domain.RawFeature{
		// 2023-12 is before the 2024-01 cutoff.
		{Attributes: map[string]any{"OCC_YEAR": float64(2023), "OCC_MONTH": float64(12)},
			Geometry: &domain.Geometry{X: -79.4, Y: 43.7}},
		// Cutoff month itself is kept.
		{Attributes: map[string]any{"OCC_YEAR": float64(2024), "OCC_MONTH": float64(1)},
			Geometry: &domain.Geometry{X: -79.4, Y: 43.7}},
		// Unparseable year is kept rather than discarded.
		{Attributes: map[string]any{"OCC_YEAR": "unknown", "OCC_MONTH": float64(1)},
			Geometry: &domain.Geometry{X: -79.4, Y: 43.7}},
	}

	records, discards := Process(features, domain.CategoryAuto, testOptions())
	if discards.OutOfWindow != 1 {
		t.Fatalf("expected 1 out-of-window discard, got %d", discards.OutOfWindow)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// The unparseable year degrades to the reference year.
	if records[1].Year != 2024 {
		t.Fatalf("expected defaulted year 2024, got %d", records[1].Year)
	}
}

func TestProcessDefaults(t *testing.T) {
	t.Parallel()

	features := []domain.RawFeature{
		{Attributes: map[string]any{}, Geometry: &domain.Geometry{X: -79.4, Y: 43.7}},
	}

	records, _ := Process(features, domain.CategoryAuto, testOptions())
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.ID != "auto-0" {
		t.Fatalf("expected running-index id, got %s", rec.ID)
	}
	if rec.Year != 2024 || rec.Month != 1 || rec.Day != 1 || rec.Hour != 12 {
		t.Fatalf("unexpected defaulted components: %d-%d-%d %d", rec.Year, rec.Month, rec.Day, rec.Hour)
	}
	if rec.Neighbourhood != "Unknown" || rec.PremiseType != "Unknown" || rec.Status != "Unknown" {
		t.Fatalf("expected Unknown sentinels, got %q %q %q", rec.Neighbourhood, rec.PremiseType, rec.Status)
	}
}
