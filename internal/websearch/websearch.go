// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries a general web-search API. Both context
// retrieval and trademark screening consume it.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/brand-engine/internal/httputil"
)

// searchAPIBase is the web search endpoint. Declared as a var so tests can
// substitute an httptest server.
var searchAPIBase = "https://api.search.brave.com/res/v1/web/search"

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Client queries the search API. A zero APIKey means the search source is
// unavailable; callers gate on HasKey.
type Client struct {
	APIKey     string
	UserAgent  string
	HTTPClient *http.Client
}

// HasKey reports whether the client is usable.
func (c *Client) HasKey() bool {
	return c != nil && c.APIKey != ""
}

// searchResponse is the response body from the search API.
type searchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search runs one query and returns up to maxResults hits. The region hint
// is passed through when non-empty.
func (c *Client) Search(ctx context.Context, query string, maxResults int, region string) ([]Result, error) {
	if !c.HasKey() {
		return nil, fmt.Errorf("search API key not configured")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	params := url.Values{
		"q":     {query},
		"count": {strconv.Itoa(maxResults)},
	}
	if region != "" {
		params.Set("country", region)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.APIKey)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("search API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned HTTP %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	results := make([]Result, 0, len(sr.Web.Results))
	for _, r := range sr.Web.Results {
		if len(results) >= maxResults {
			break
		}
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: r.Description})
	}
	return results, nil
}
