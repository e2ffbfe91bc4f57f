package gportal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

// pagingServer serves a catalogue of `total` products in pages of the
// requested count, honoring startIndex.
func pagingServer(t *testing.T, total int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/csw/csw" {
			t.Errorf("expected path /csw/csw, got %s", r.URL.Path)
		}
		query := r.URL.Query()
		for key, want := range map[string]string{
			"service":      "CSW",
			"version":      "3.0.0",
			"request":      "GetRecords",
			"outputFormat": "application/json",
		} {
			if got := query.Get(key); got != want {
				t.Errorf("query %s = %q, want %q", key, got, want)
			}
		}

		count, _ := strconv.Atoi(query.Get("count"))
		startIndex := 1
		if s := query.Get("startIndex"); s != "" {
			startIndex, _ = strconv.Atoi(s)
		}

		var features []*Product
		for i := startIndex; i <= total && len(features) < count; i++ {
			features = append(features, &Product{
				Type: "Feature",
				Properties: ProductProperties{
					Identifier: fmt.Sprintf("GC1SG1_PRODUCT_%04d", i),
				},
			})
		}

		page := FeatureCollection{
			Type: "FeatureCollection",
			Properties: PageProperties{
				NumberOfRecordsMatched:  total,
				NumberOfRecordsReturned: len(features),
			},
			Features: features,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(page)
	}))
}

func TestSearchProductsPagination(t *testing.T) {
	server := pagingServer(t, 5)
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)
	search := client.Search(SearchParams{Count: 2})

	products, err := search.Products(context.Background())
	if err != nil {
		t.Fatalf("Products failed: %v", err)
	}

	if len(products) != 5 {
		t.Fatalf("expected 5 products, got %d", len(products))
	}
	if products[0].ID() != "GC1SG1_PRODUCT_0001" {
		t.Errorf("first product ID = %q", products[0].ID())
	}
	if products[4].ID() != "GC1SG1_PRODUCT_0005" {
		t.Errorf("last product ID = %q", products[4].ID())
	}
}

func TestPagerStopsAfterLastPage(t *testing.T) {
	server := pagingServer(t, 3)
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)
	pager := client.Search(SearchParams{Count: 2}).Pager()

	pages := 0
	for pager.More() {
		if _, err := pager.Next(context.Background()); err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		pages++
	}
	if pages != 2 {
		t.Errorf("expected 2 pages, got %d", pages)
	}

	if _, err := pager.Next(context.Background()); err != ErrNoMorePages {
		t.Errorf("Next after exhaustion = %v, want ErrNoMorePages", err)
	}
}

func TestSearchMatched(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.URL.Query().Get("count"); got != "0" {
			t.Errorf("count = %q, want 0", got)
		}
		json.NewEncoder(w).Encode(FeatureCollection{
			Properties: PageProperties{NumberOfRecordsMatched: 42},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)
	search := client.Search(SearchParams{DatasetIDs: []string{"10001"}})

	for i := 0; i < 3; i++ {
		matched, err := search.Matched(context.Background())
		if err != nil {
			t.Fatalf("Matched failed: %v", err)
		}
		if matched != 42 {
			t.Errorf("matched = %d, want 42", matched)
		}
	}
	if requests != 1 {
		t.Errorf("Matched should be cached, server saw %d requests", requests)
	}
}

func TestClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)
	_, err := client.Search(SearchParams{}).Products(context.Background())
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}
