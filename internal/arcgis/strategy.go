package arcgis

import (
	"fmt"
	"time"

	"github.com/ax00z/Asset-Radar/internal/domain"
)

// fallbackGuessFields is used when discovery comes back empty: the most
// common date-like column names across Toronto Police layers.
var fallbackGuessFields = []string{"OCC_YEAR", "OCC_DATE", "REPORT_DATE"}

// BuildStrategies produces WHERE clause candidates from most specific to
// an unconditional fallback. Some deployments reject range filters on
// certain columns with a query error; the fetcher walks this list until
// one succeeds.
func BuildStrategies(availableFields []string, cutoff time.Time) []domain.QueryStrategy {
	has := make(map[string]bool, len(availableFields))
	for _, f := range availableFields {
		has[f] = true
	}

	cutoffMS := cutoff.UnixMilli()
	var strategies []domain.QueryStrategy

	// A year threshold is the cheapest filter and the most reliable on
	// this class of service.
	if has["OCC_YEAR"] {
		strategies = append(strategies, domain.QueryStrategy{
			Where:       fmt.Sprintf("OCC_YEAR >= %d", cutoff.Year()),
			Description: fmt.Sprintf("year >= %d", cutoff.Year()),
		})
	}

	if has["OCC_DATE"] {
		strategies = append(strategies, domain.QueryStrategy{
			Where:       fmt.Sprintf("OCC_DATE >= %d", cutoffMS),
			Description: fmt.Sprintf("OCC_DATE epoch >= %d", cutoffMS),
		})
	}

	if has["REPORT_DATE"] {
		strategies = append(strategies, domain.QueryStrategy{
			Where:       fmt.Sprintf("REPORT_DATE >= %d", cutoffMS),
			Description: fmt.Sprintf("REPORT_DATE epoch >= %d", cutoffMS),
		})
	}

	strategies = append(strategies, domain.QueryStrategy{
		Where:       "1=1",
		Description: "unfiltered (all records)",
	})

	return strategies
}
