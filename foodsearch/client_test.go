package foodsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchParsesProducts(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/food/products/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "greek yogurt" {
			t.Errorf("unexpected query %q", q.Get("query"))
		}
		if q.Get("apiKey") != "spoon-key" {
			t.Errorf("unexpected api key %q", q.Get("apiKey"))
		}
		if q.Get("number") != "10" {
			t.Errorf("unexpected number %q", q.Get("number"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "products": [
    {"id": 221961, "title": "Chobani Greek Yogurt", "image": "https://img.example/221961.jpg"},
    {"id": 118692, "title": "Plain Greek Yogurt"}
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{APIKey: "spoon-key", BaseURL: ts.URL, HTTPClient: ts.Client()}
	results, err := c.Search(context.Background(), "greek yogurt")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != 221961 || results[0].Title != "Chobani Greek Yogurt" || results[0].Image == "" {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	// Image is optional.
	if results[1].ID != 118692 || results[1].Image != "" {
		t.Fatalf("unexpected second result: %+v", results[1])
	}
}

func TestSearchSurfacesUpstreamError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"quota exceeded"}`, http.StatusPaymentRequired)
	}))
	defer ts.Close()

	c := &Client{APIKey: "spoon-key", BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, err := c.Search(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
	if !strings.Contains(err.Error(), "status 402") || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected status and detail in error, got %v", err)
	}
}

func TestSearchRequiresAPIKey(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if _, err := c.Search(context.Background(), "milk"); err == nil {
		t.Fatal("expected error without API key")
	}
}
