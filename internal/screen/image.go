// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/brand-engine/internal/httputil"
	"github.com/pdiddy/brand-engine/pkg/types"
)

// reverseImageAPIBase is the reverse-image search endpoint. Declared as a
// var so tests can substitute an httptest server.
var reverseImageAPIBase = "https://serpapi.com/search"

// trademarkKeywords flag a reverse-image hit as trademark-related when any
// appears in its title, url, or source field.
var trademarkKeywords = []string{"trademark", "logo", "brand", "registered", "™", "®"}

// ImageScreener runs reverse-image searches against a generated logo with
// the same isolation and caching discipline as name screening.
type ImageScreener struct {
	APIKey    string
	UserAgent string
	Client    *http.Client
	Cache     *Cache
}

// NewImageScreener builds a screener sharing the given cache.
func NewImageScreener(apiKey string, cache *Cache) *ImageScreener {
	if cache == nil {
		cache = NewCache(0)
	}
	return &ImageScreener{APIKey: apiKey, Cache: cache}
}

// reverseImageResponse is the reverse-image API response body.
type reverseImageResponse struct {
	ImageResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Source  string `json:"source"`
	} `json:"image_results"`
}

// ScreenImage reverse-searches the logo image and classifies hits. A
// missing key or source outage yields a warnings-only result, never an
// error: logo screening must not block presentation of the image.
func (s *ImageScreener) ScreenImage(ctx context.Context, imageURL string) *types.ScreeningResult {
	key := "img:" + cacheKey(imageURL)
	if cached, ok := s.Cache.Get(key); ok {
		return cached
	}

	result := &types.ScreeningResult{}
	hits, err := s.search(ctx, imageURL)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("reverse_image: %v", err))
		s.Cache.Set(key, result)
		return result
	}

	result.Hits = DedupeHits(hits)
	related := 0
	for _, h := range result.Hits {
		if IsTrademarkRelated(h) {
			related++
		}
	}
	result.Summary = append(result.Summary,
		fmt.Sprintf("reverse_image: %d hit(s), %d trademark-related", len(result.Hits), related))

	s.Cache.Set(key, result)
	return result
}

func (s *ImageScreener) search(ctx context.Context, imageURL string) ([]types.Hit, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("reverse image API key not configured")
	}

	params := url.Values{
		"engine":    {"google_reverse_image"},
		"image_url": {imageURL},
		"api_key":   {s.APIKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reverseImageAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, clientOrDefault(s.Client), req, 0)
	if err != nil {
		return nil, fmt.Errorf("reverse image request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse image API returned HTTP %d", resp.StatusCode)
	}

	var rr reverseImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("parsing reverse image response: %w", err)
	}

	hits := make([]types.Hit, 0, len(rr.ImageResults))
	for _, r := range rr.ImageResults {
		src := r.Source
		if src == "" {
			src = "reverse_image"
		}
		hits = append(hits, types.Hit{Title: r.Title, URL: r.Link, Snippet: r.Snippet, Source: src})
	}
	return hits, nil
}

// IsTrademarkRelated reports whether a hit looks trademark-related based on
// keyword heuristics over its title, url, and source fields.
func IsTrademarkRelated(h types.Hit) bool {
	haystack := strings.ToLower(h.Title + " " + h.URL + " " + h.Source)
	for _, kw := range trademarkKeywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// ImageNotes renders screening output for display. Like name screening
// notes, it always ends with the legal disclaimer.
func ImageNotes(result *types.ScreeningResult) string {
	var lines []string
	related := 0
	for _, h := range result.Hits {
		if IsTrademarkRelated(h) {
			related++
		}
	}
	switch {
	case related > 0:
		lines = append(lines, fmt.Sprintf("CAUTION: %d visually similar result(s) look trademark-related.", related))
	case len(result.Hits) > 0:
		lines = append(lines, fmt.Sprintf("%d visually similar result(s) found; none look trademark-related.", len(result.Hits)))
	default:
		lines = append(lines, "No visually similar results found.")
	}
	for _, w := range result.Warnings {
		lines = append(lines, "Note: source unavailable: "+w)
	}
	lines = append(lines, Disclaimer)
	return strings.Join(lines, "\n")
}
