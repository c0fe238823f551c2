// Package foodsearch wraps the Spoonacular product search endpoint.
package foodsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/d3vsino/myfittrackbackend/config"
)

const defaultBaseURL = "https://api.spoonacular.com"

// Product is one search hit; Image may be empty.
type Product struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

type searchResponse struct {
	Products []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
		Image string `json:"image"`
	} `json:"products"`
}

// Client queries the Spoonacular food products API.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a client from configuration.
func NewClient(cfg config.FoodConfig) *Client {
	return &Client{
		APIKey: cfg.SpoonacularKey,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Search runs a free-text product query and returns up to ten results.
func (c *Client) Search(ctx context.Context, query string) ([]Product, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("SPOONACULAR_API_KEY not configured")
	}

	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("apiKey", c.APIKey)
	params.Set("number", "10")

	reqURL := baseURL + "/food/products/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("food search error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]Product, len(parsed.Products))
	for i, p := range parsed.Products {
		results[i] = Product{ID: p.ID, Title: p.Title, Image: p.Image}
	}
	return results, nil
}
