// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/brand-engine/internal/httputil"
	"github.com/pdiddy/brand-engine/internal/websearch"
	"github.com/pdiddy/brand-engine/pkg/types"
)

// Endpoint bases are vars so tests can substitute httptest servers.
var (
	registryAPIBase    = "https://tmsearch.uspto.gov/api/v1/trademarks"
	registrySearchBase = "https://tmsearch.uspto.gov/search/search-information"
	whoisAPIBase       = "https://www.whoisxmlapi.com/whoisserver/TrademarkService"
)

// --- official registry API ---

// RegistrySource queries the official trademark registry API.
type RegistrySource struct {
	APIKey    string
	UserAgent string
	Client    *http.Client
}

// Name returns the source identifier.
func (s *RegistrySource) Name() string { return "registry" }

// registryResponse is the registry API response body.
type registryResponse struct {
	Results []struct {
		MarkName     string `json:"mark_name"`
		SerialNumber string `json:"serial_number"`
		Status       string `json:"status"`
		OwnerName    string `json:"owner_name"`
	} `json:"results"`
}

// Search queries the registry for marks matching the candidate name.
func (s *RegistrySource) Search(ctx context.Context, name, _ string) ([]types.Hit, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("registry API key not configured")
	}

	params := url.Values{"query": {name}, "status": {"live"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, registryAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", s.APIKey)
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, clientOrDefault(s.Client), req, 0)
	if err != nil {
		return nil, fmt.Errorf("registry API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry API returned HTTP %d", resp.StatusCode)
	}

	var rr registryResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("parsing registry response: %w", err)
	}

	hits := make([]types.Hit, 0, len(rr.Results))
	for _, r := range rr.Results {
		snippet := strings.TrimSpace(strings.Join(nonEmpty(r.Status, r.OwnerName), ", "))
		hits = append(hits, types.Hit{
			Title:   r.MarkName,
			URL:     registrySearchBase + "?serial=" + url.QueryEscape(r.SerialNumber),
			Snippet: snippet,
			Source:  s.Name(),
		})
	}
	return hits, nil
}

// --- registry scrape fallback (opt-in) ---

// RegistryScrapeSource scrapes the registry's public search page. It is
// explicitly opt-in: scraping is brittle and rate-sensitive, so it never
// runs unless the operator enabled it.
type RegistryScrapeSource struct {
	Enabled   bool
	UserAgent string
	Client    *http.Client
}

// Name returns the source identifier.
func (s *RegistryScrapeSource) Name() string { return "registry_scrape" }

// markRowPattern pulls mark names out of the search page's result rows.
var markRowPattern = regexp.MustCompile(`(?i)<td[^>]*class="[^"]*mark-name[^"]*"[^>]*>([^<]+)</td>`)

// Search fetches the public search page and extracts mark names.
func (s *RegistryScrapeSource) Search(ctx context.Context, name, _ string) ([]types.Hit, error) {
	if !s.Enabled {
		return nil, fmt.Errorf("registry scrape disabled (opt-in)")
	}

	params := url.Values{"searchText": {name}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, registrySearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, clientOrDefault(s.Client), req, 0)
	if err != nil {
		return nil, fmt.Errorf("registry page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry page returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading registry page: %w", err)
	}

	var hits []types.Hit
	for _, m := range markRowPattern.FindAllStringSubmatch(string(body), -1) {
		mark := strings.TrimSpace(m[1])
		if mark == "" {
			continue
		}
		hits = append(hits, types.Hit{
			Title:  mark,
			URL:    registrySearchBase + "?searchText=" + url.QueryEscape(name),
			Source: s.Name(),
		})
	}
	return hits, nil
}

// --- general web search ---

// TrademarkWebSource looks for existing uses of the name on the open web.
type TrademarkWebSource struct {
	Client     *websearch.Client
	MaxResults int
}

// Name returns the source identifier.
func (s *TrademarkWebSource) Name() string { return "web_search" }

// Search runs a quoted-name trademark query, folding in the business
// context to bias results toward the same industry.
func (s *TrademarkWebSource) Search(ctx context.Context, name, businessContext string) ([]types.Hit, error) {
	query := fmt.Sprintf("%q trademark %s", name, businessContext)
	results, err := s.Client.Search(ctx, strings.TrimSpace(query), s.MaxResults, "")
	if err != nil {
		return nil, err
	}
	hits := make([]types.Hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, types.Hit{Title: r.Title, URL: r.URL, Snippet: r.Snippet, Source: s.Name()})
	}
	return hits, nil
}

// --- commercial WHOIS/trademark API ---

// WhoisSource queries a commercial trademark data API.
type WhoisSource struct {
	APIKey    string
	UserAgent string
	Client    *http.Client
}

// Name returns the source identifier.
func (s *WhoisSource) Name() string { return "whoisxml" }

// whoisResponse is the commercial API response body.
type whoisResponse struct {
	Trademarks []struct {
		Name       string `json:"name"`
		Registrant string `json:"registrant"`
		URL        string `json:"url"`
	} `json:"trademarks"`
}

// Search queries the commercial trademark API for the candidate name.
func (s *WhoisSource) Search(ctx context.Context, name, _ string) ([]types.Hit, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("whois API key not configured")
	}

	params := url.Values{"apiKey": {s.APIKey}, "searchTerm": {name}, "outputFormat": {"json"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, whoisAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, clientOrDefault(s.Client), req, 0)
	if err != nil {
		return nil, fmt.Errorf("whois API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whois API returned HTTP %d", resp.StatusCode)
	}

	var wr whoisResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("parsing whois response: %w", err)
	}

	hits := make([]types.Hit, 0, len(wr.Trademarks))
	for _, t := range wr.Trademarks {
		hits = append(hits, types.Hit{Title: t.Name, URL: t.URL, Snippet: t.Registrant, Source: s.Name()})
	}
	return hits, nil
}

func clientOrDefault(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}

func nonEmpty(parts ...string) []string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
