package transform

// FirstOf returns the value of the first key present in attrs with a
// non-nil value, or def when none match. Absence is expected upstream and
// handled by defaulting, never by failing.
func FirstOf(attrs map[string]any, keys []string, def any) any {
	for _, key := range keys {
		if val, ok := attrs[key]; ok && val != nil {
			return val
		}
	}
	return def
}

// FieldMap lists the acceptable raw attribute names for each canonical
// field role, ordered by preference. The Toronto Police open-data schemas
// drifted across dataset revisions; every historical spelling stays here.
type FieldMap struct {
	ID            []string
	Date          []string
	Year          []string
	Month         []string
	Day           []string
	Hour          []string
	Neighbourhood []string
	Premise       []string
	Lat           []string
	Lng           []string
	Status        []string
	Division      []string
	Location      []string
}

// DefaultFieldMap covers the attribute spellings observed on the auto and
// bicycle theft FeatureServer layers. Never mutated.
var DefaultFieldMap = FieldMap{
	ID:            []string{"EVENT_UNIQUE_ID", "OBJECTID"},
	Date:          []string{"OCC_DATE", "REPORT_DATE"},
	Year:          []string{"OCC_YEAR"},
	Month:         []string{"OCC_MONTH"},
	Day:           []string{"OCC_DAY", "OCC_DOW"},
	Hour:          []string{"OCC_HOUR"},
	Neighbourhood: []string{"NEIGHBOURHOOD_158", "NEIGHBOURHOOD_140", "HOOD_158", "NEIGHBOURHOOD"},
	Premise:       []string{"PREMISES_TYPE", "PREMISE_TYPE"},
	Lat:           []string{"LAT_WGS84", "Y"},
	Lng:           []string{"LONG_WGS84", "X"},
	Status:        []string{"STATUS"},
	Division:      []string{"DIVISION"},
	Location:      []string{"LOCATION_TYPE"},
}
