package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ax00z/Asset-Radar/internal/domain"
)

// epochSanityMS separates real epoch-millisecond timestamps from bare
// years or other small numbers that show up in the same attribute.
const epochSanityMS = 1_000_000_000

const coordPrecision = 6

// Options carries the per-run parameters the transformer needs. Now is
// injected so defaulted date components stay deterministic under test.
type Options struct {
	Cutoff time.Time
	Bounds domain.BoundingBox
	Fields FieldMap
	Now    time.Time
}

// Process converts raw features into canonical records, discarding
// features with degenerate or out-of-region coordinates and records older
// than the recency window. Malformed fields degrade to defaults; a single
// bad feature never fails the batch.
func Process(features []domain.RawFeature, category domain.Category, opts Options) ([]domain.CanonicalRecord, domain.DiscardCounts) {
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	if len(opts.Fields.ID) == 0 {
		opts.Fields = DefaultFieldMap
	}
	cutoffYM := opts.Cutoff.Year()*100 + int(opts.Cutoff.Month())

	records := make([]domain.CanonicalRecord, 0, len(features))
	var discards domain.DiscardCounts

	for _, feature := range features {
		attrs := feature.Attributes

		var lat, lng float64
		if feature.Geometry != nil {
			lat = feature.Geometry.Y
			lng = feature.Geometry.X
		} else {
			lat = toFloat(FirstOf(attrs, opts.Fields.Lat, nil))
			lng = toFloat(FirstOf(attrs, opts.Fields.Lng, nil))
		}

		if lat == 0 && lng == 0 {
			discards.BadCoords++
			continue
		}
		if !opts.Bounds.Contains(lat, lng) {
			discards.BadCoords++
			continue
		}

		rawID := FirstOf(attrs, opts.Fields.ID, nil)
		rawDate := FirstOf(attrs, opts.Fields.Date, "")
		rawYear := FirstOf(attrs, opts.Fields.Year, opts.Now.Year())
		rawMonth := FirstOf(attrs, opts.Fields.Month, 1)
		rawDay := FirstOf(attrs, opts.Fields.Day, 1)
		rawHour := FirstOf(attrs, opts.Fields.Hour, 12)
		neighbourhood := FirstOf(attrs, opts.Fields.Neighbourhood, "Unknown")
		premiseType := FirstOf(attrs, opts.Fields.Premise, "Unknown")
		status := FirstOf(attrs, opts.Fields.Status, "Unknown")
		division := FirstOf(attrs, opts.Fields.Division, "")
		locationType := FirstOf(attrs, opts.Fields.Location, "")

		month := parseMonth(rawMonth)
		dateStr := parseDateString(rawDate, rawYear, month, rawDay, opts.Now)

		if recordYM, ok := windowComposite(rawYear, month); ok && recordYM < cutoffYM {
			discards.OutOfWindow++
			continue
		}

		id := toString(rawID)
		if id == "" {
			id = strconv.Itoa(len(records))
		}

		records = append(records, domain.CanonicalRecord{
			ID:            string(category) + "-" + id,
			Type:          category,
			Date:          dateStr,
			Year:          intOrDefault(rawYear, opts.Now.Year()),
			Month:         month,
			Day:           intOrDefault(rawDay, 1),
			Hour:          intOrZero(rawHour),
			Neighbourhood: strings.TrimSpace(toString(neighbourhood)),
			PremiseType:   strings.TrimSpace(toString(premiseType)),
			Lat:           roundCoord(lat),
			Lng:           roundCoord(lng),
			Status:        strings.TrimSpace(toString(status)),
			Division:      strings.TrimSpace(toString(division)),
			LocationType:  strings.TrimSpace(toString(locationType)),
		})
	}

	return records, discards
}

// parseMonth converts a month attribute to its integer form. Names map to
// 1-12, unrecognized names fall back to 1; numbers pass through as-is.
func parseMonth(raw any) int {
	if n, ok := toInt(raw); ok {
		return n
	}
	if s, ok := raw.(string); ok {
		if n, ok := domain.MonthNumber(s); ok {
			return n
		}
		return 1
	}
	return 1
}

// parseDateString produces a YYYY-MM-DD string from whatever the API
// returned: an epoch-millisecond number, a date-prefixed string, or the
// individual year/month/day components.
func parseDateString(rawDate, rawYear any, month int, rawDay any, now time.Time) string {
	if ms, ok := toFloatOK(rawDate); ok && ms > epochSanityMS {
		return time.UnixMilli(int64(ms)).UTC().Format("2006-01-02")
	}
	if s, ok := rawDate.(string); ok && len(s) >= 10 {
		return s[:10]
	}
	year, okYear := toInt(rawYear)
	day, okDay := toInt(rawDay)
	if okYear && okDay {
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}
	return fmt.Sprintf("%d-01-01", now.Year())
}

// windowComposite returns year*100+month for the window comparison. ok is
// false when the year cannot be interpreted at all, in which case the
// record is kept rather than discarded.
func windowComposite(rawYear any, month int) (int, bool) {
	year := 0
	if !isEmpty(rawYear) {
		v, ok := toInt(rawYear)
		if !ok {
			return 0, false
		}
		year = v
	}
	return year*100 + month, true
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0
	case int:
		return t == 0
	}
	return false
}

func toFloat(v any) float64 {
	f, _ := toFloatOK(v)
	return f
}

func toFloatOK(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	f, ok := toFloatOK(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func intOrDefault(v any, def int) int {
	if isEmpty(v) {
		return def
	}
	if n, ok := toInt(v); ok {
		return n
	}
	return def
}

func intOrZero(v any) int {
	if isEmpty(v) {
		return 0
	}
	if n, ok := toInt(v); ok {
		return n
	}
	return 0
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func roundCoord(v float64) float64 {
	shift := math.Pow10(coordPrecision)
	return math.Round(v*shift) / shift
}
