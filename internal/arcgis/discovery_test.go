package arcgis

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
)

func TestDiscoverFieldsFromSampleFeature(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("resultRecordCount") != "1" {
			t.Errorf("discovery should request a single row, got %q", r.URL.Query().Get("resultRecordCount"))
		}
		fmt.Fprint(w, `{"features":[{"attributes":{"OCC_YEAR":2024,"OCC_DATE":1700000000000}}]}`)
	}))
	defer server.Close()

	client := newTestClient(server, ClientConfig{})
	fields := client.DiscoverFields(context.Background(), server.URL)

	sort.Strings(fields)
	if len(fields) != 2 || fields[0] != "OCC_DATE" || fields[1] != "OCC_YEAR" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestDiscoverFieldsFromMetadata(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features":[],"fields":[{"name":"OCC_YEAR"},{"name":"STATUS"}]}`)
	}))
	defer server.Close()

	client := newTestClient(server, ClientConfig{})
	fields := client.DiscoverFields(context.Background(), server.URL)

	if len(fields) != 2 || fields[0] != "OCC_YEAR" || fields[1] != "STATUS" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestDiscoverFieldsFailureReturnsEmpty(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server, ClientConfig{MaxRetries: 1})
	if fields := client.DiscoverFields(context.Background(), server.URL); len(fields) != 0 {
		t.Fatalf("expected empty field list on failure, got %v", fields)
	}
}
