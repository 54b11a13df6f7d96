package arcgis

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ax00z/Asset-Radar/internal/domain"
)

// epochSanityMS distinguishes a real epoch-millisecond timestamp from a
// bare year stored in the same column.
const epochSanityMS = 1_000_000_000

// sortByRecency orders features newest first. The remote service cannot
// be trusted to honor server-side ordering at scale, so the sort happens
// here after a strategy succeeds. Ties carry no guaranteed order.
func sortByRecency(features []domain.RawFeature) {
	keys := make([]int64, len(features))
	for i, f := range features {
		keys[i] = recencyKey(f)
	}
	sort.Sort(&byKeyDesc{features: features, keys: keys})
}

// recencyKey prefers a plausible epoch-millisecond timestamp; otherwise a
// composite assembled from year, month, day and hour, each neutral when
// absent.
func recencyKey(f domain.RawFeature) int64 {
	attrs := f.Attributes

	if ms, ok := attrNumber(attrs, "OCC_DATE"); ok && ms > epochSanityMS {
		return int64(ms)
	}
	if ms, ok := attrNumber(attrs, "REPORT_DATE"); ok && ms > epochSanityMS {
		return int64(ms)
	}

	year := attrInt(attrs, "OCC_YEAR")
	month := 0
	switch m := attrs["OCC_MONTH"].(type) {
	case string:
		if n, ok := domain.MonthNumber(m); ok {
			month = n
		}
	default:
		month = attrInt(attrs, "OCC_MONTH")
	}
	day := attrInt(attrs, "OCC_DAY")
	hour := attrInt(attrs, "OCC_HOUR")

	return int64(year)*100_000_000 + int64(month)*1_000_000 + int64(day)*10_000 + int64(hour)*100
}

type byKeyDesc struct {
	features []domain.RawFeature
	keys     []int64
}

func (b *byKeyDesc) Len() int           { return len(b.features) }
func (b *byKeyDesc) Less(i, j int) bool { return b.keys[i] > b.keys[j] }
func (b *byKeyDesc) Swap(i, j int) {
	b.features[i], b.features[j] = b.features[j], b.features[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

func attrNumber(attrs map[string]any, key string) (float64, bool) {
	switch v := attrs[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func attrInt(attrs map[string]any, key string) int {
	if v, ok := attrNumber(attrs, key); ok {
		return int(v)
	}
	return 0
}
