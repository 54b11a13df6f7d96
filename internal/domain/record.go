package domain

import "time"

// Category tags which theft dataset a record belongs to.
type Category string

const (
	CategoryAuto Category = "auto"
	CategoryBike Category = "bike"
)

// RawFeature is one record returned by an ArcGIS FeatureServer query:
// an opaque attribute mapping plus optional point geometry.
type RawFeature struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   *Geometry      `json:"geometry,omitempty"`
}

// Geometry is a WGS-84 point; ArcGIS puts longitude in X and latitude in Y.
type Geometry struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// QueryStrategy pairs a WHERE expression with a human-readable description.
// Strategies are tried in declared order until one yields data.
type QueryStrategy struct {
	Where       string
	Description string
}

// CanonicalRecord is the normalized, schema-stable unit written to the
// output artifacts. Division and LocationType are resolved from upstream
// for parity with the source schema but are not part of the artifact shape.
type CanonicalRecord struct {
	ID            string   `json:"id"`
	Type          Category `json:"type"`
	Date          string   `json:"date"`
	Year          int      `json:"year"`
	Month         int      `json:"month"`
	Day           int      `json:"day"`
	Hour          int      `json:"hour"`
	Neighbourhood string   `json:"neighbourhood"`
	PremiseType   string   `json:"premiseType"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
	Status        string   `json:"status"`
	Division      string   `json:"-"`
	LocationType  string   `json:"-"`
}

// DiscardCounts tracks why raw features were dropped during transformation.
type DiscardCounts struct {
	BadCoords   int
	OutOfWindow int
	Other       int
}

// BoundingBox is a coarse rectangle used as a cheap geography sanity
// filter, not a precise boundary polygon.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains reports whether the point falls inside the box, inclusive.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// RunReport summarizes one category's pipeline execution.
type RunReport struct {
	RunID     string
	Category  Category
	Records   int
	Discards  DiscardCounts
	Duration  time.Duration
	StartedAt time.Time
}

// WindowCutoff returns the lower bound of the recency window. Months are a
// fixed 30 days, intentionally not calendar-accurate; consumers depend on
// the exact cutoff this produces.
func WindowCutoff(now time.Time, months int) time.Time {
	return now.Add(-time.Duration(months) * 30 * 24 * time.Hour)
}

var monthNameToNum = map[string]int{
	"January": 1, "February": 2, "March": 3, "April": 4,
	"May": 5, "June": 6, "July": 7, "August": 8,
	"September": 9, "October": 10, "November": 11, "December": 12,
}

// MonthNumber maps an English month name to its 1-12 number.
func MonthNumber(name string) (int, bool) {
	n, ok := monthNameToNum[name]
	return n, ok
}
