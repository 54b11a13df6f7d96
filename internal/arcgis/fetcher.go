package arcgis

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/ax00z/Asset-Radar/internal/domain"
)

// FetchFeatures downloads every feature matching one of the candidate
// strategies, paged in fixed-size batches from offset 0. A strategy that
// errors out or yields zero rows falls through to the next; the first
// nonzero accumulation wins. Exhausting every strategy returns an empty
// slice, which the caller treats as a degraded run, not a failure. The
// accepted result set is sorted newest first in memory; the server is
// never asked to sort.
func (c *Client) FetchFeatures(ctx context.Context, endpoint string, strategies []domain.QueryStrategy) ([]domain.RawFeature, error) {
	var accepted []domain.RawFeature

	for _, strategy := range strategies {
		c.debug("trying strategy", "strategy", strategy.Description, "where", strategy.Where)

		features, err := c.fetchWithStrategy(ctx, endpoint, strategy)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			c.warn("strategy failed", "strategy", strategy.Description, "error", err)
			continue
		}
		if len(features) == 0 {
			c.debug("strategy returned 0 records", "strategy", strategy.Description)
			continue
		}

		c.debug("strategy worked", "strategy", strategy.Description, "features", len(features))
		accepted = features
		break
	}

	if len(accepted) == 0 {
		c.warn("all strategies exhausted with 0 features", "endpoint", endpoint)
		return nil, nil
	}

	sortByRecency(accepted)
	return accepted, nil
}

func (c *Client) fetchWithStrategy(ctx context.Context, endpoint string, strategy domain.QueryStrategy) ([]domain.RawFeature, error) {
	var all []domain.RawFeature
	offset := 0

	for {
		params := url.Values{}
		params.Set("where", strategy.Where)
		params.Set("outFields", "*")
		params.Set("outSR", "4326")
		params.Set("f", "json")
		params.Set("resultRecordCount", strconv.Itoa(c.pageSize))
		params.Set("resultOffset", strconv.Itoa(offset))
		// No orderByFields: the server often rejects sorted queries over
		// large result sets with "Invalid Query".

		resp, err := c.getJSON(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}

		count := len(resp.Features)
		c.debug("fetched page", "offset", offset, "count", count)
		if count == 0 {
			break
		}

		all = append(all, resp.Features...)
		offset += c.pageSize

		if len(all) >= c.maxRecords {
			c.warn("hit record safety ceiling, stopping pagination", "ceiling", c.maxRecords)
			break
		}

		// Exhaustion: no transfer-limit flag and a short page.
		if !resp.ExceededTransferLimit && count < c.pageSize {
			break
		}
	}

	return all, nil
}
