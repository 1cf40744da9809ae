// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/pdiddy/brand-engine/internal/chunk"
	"github.com/pdiddy/brand-engine/internal/httputil"
	"github.com/pdiddy/brand-engine/internal/websearch"
)

// maxPageBytes bounds how much of a reference page is read.
const maxPageBytes = 1 << 20

// StaticPageSource fetches one reference page and extracts its text.
type StaticPageSource struct {
	URL       string
	UserAgent string
	Client    *http.Client
}

// Name returns the source identifier.
func (s *StaticPageSource) Name() string { return "static_page" }

// Load fetches the page and strips markup.
func (s *StaticPageSource) Load(ctx context.Context) ([]chunk.Document, error) {
	if s.URL == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", s.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.URL, err)
	}

	text := StripMarkup(string(body))
	if text == "" {
		return nil, nil
	}
	return []chunk.Document{{Source: s.URL, Content: text}}, nil
}

// WebSearchSource turns live search results into documents, one per hit.
type WebSearchSource struct {
	Client     *websearch.Client
	Query      string
	MaxResults int
	Region     string
}

// Name returns the source identifier.
func (s *WebSearchSource) Name() string { return "web_search" }

// Load runs the search and wraps each result's title and snippet as a
// document.
func (s *WebSearchSource) Load(ctx context.Context) ([]chunk.Document, error) {
	results, err := s.Client.Search(ctx, s.Query, s.MaxResults, s.Region)
	if err != nil {
		return nil, err
	}
	var docs []chunk.Document
	for _, r := range results {
		content := strings.TrimSpace(r.Title + "\n" + r.Snippet)
		if content == "" {
			continue
		}
		docs = append(docs, chunk.Document{Source: r.URL, Content: content})
	}
	return docs, nil
}

var (
	scriptPattern = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	tagPattern    = regexp.MustCompile(`(?s)<[^>]*>`)
	spacePattern  = regexp.MustCompile(`[ \t]+`)
	blankPattern  = regexp.MustCompile(`\n{3,}`)
)

// StripMarkup removes script/style blocks and tags from an HTML page and
// collapses the remaining whitespace. Good enough for reference-page text
// extraction; this is not a general HTML parser.
func StripMarkup(html string) string {
	text := scriptPattern.ReplaceAllString(html, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	text = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'", "&nbsp;", " ").Replace(text)
	text = spacePattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
