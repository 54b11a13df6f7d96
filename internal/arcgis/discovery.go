package arcgis

import (
	"context"
	"net/url"
)

// DiscoverFields probes the endpoint with a single-row query to learn
// which attribute names actually exist, so strategy construction avoids
// referencing absent columns. Discovery is best-effort: any failure
// returns an empty list and the caller falls back to common patterns.
func (c *Client) DiscoverFields(ctx context.Context, endpoint string) []string {
	params := url.Values{}
	params.Set("where", "1=1")
	params.Set("outFields", "*")
	params.Set("f", "json")
	params.Set("resultRecordCount", "1")
	params.Set("resultOffset", "0")

	resp, err := c.getJSON(ctx, endpoint, params)
	if err != nil {
		c.warn("field discovery failed", "endpoint", endpoint, "error", err)
		return nil
	}

	if len(resp.Features) > 0 {
		names := make([]string, 0, len(resp.Features[0].Attributes))
		for name := range resp.Features[0].Attributes {
			names = append(names, name)
		}
		return names
	}

	if len(resp.Fields) > 0 {
		names := make([]string, 0, len(resp.Fields))
		for _, f := range resp.Fields {
			names = append(names, f.Name)
		}
		return names
	}

	return nil
}
