// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pdiddy/brand-engine/pkg/types"
)

// Source searches one trademark signal origin for a candidate name. Each
// implementation (official registry API, registry scrape, web search,
// commercial WHOIS API) follows the Strategy pattern; a failed or
// unconfigured source degrades the aggregate with a warning, never an
// error.
type Source interface {
	Name() string
	Search(ctx context.Context, name, businessContext string) ([]types.Hit, error)
}

// Aggregator fans a candidate name out to all configured trademark sources
// and merges the results. Aggregates are cached per normalized name with a
// TTL; a cache hit short-circuits every source call.
type Aggregator struct {
	Sources []Source
	Cache   *Cache
}

// NewAggregator builds an aggregator over the given sources.
func NewAggregator(sources []Source, cache *Cache) *Aggregator {
	if cache == nil {
		cache = NewCache(0)
	}
	return &Aggregator{Sources: sources, Cache: cache}
}

// CheckTrademarks queries every source concurrently and merges hits,
// warnings, and per-source summaries. It never returns an error: a fully
// failed aggregation is a valid result whose warnings explain the gaps.
func (a *Aggregator) CheckTrademarks(ctx context.Context, name, businessContext string) *types.ScreeningResult {
	key := "tm:" + cacheKey(name)
	if cached, ok := a.Cache.Get(key); ok {
		return cached
	}

	type sourceResult struct {
		name string
		hits []types.Hit
		err  error
	}

	ch := make(chan sourceResult, len(a.Sources))
	var wg sync.WaitGroup
	for _, src := range a.Sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			hits, err := src.Search(ctx, name, businessContext)
			ch <- sourceResult{name: src.Name(), hits: hits, err: err}
		}(src)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	// Collect in source order afterwards so output is deterministic even
	// though the calls race.
	bySource := make(map[string]sourceResult, len(a.Sources))
	for sr := range ch {
		bySource[sr.name] = sr
	}

	result := &types.ScreeningResult{}
	var all []types.Hit
	for _, src := range a.Sources {
		sr := bySource[src.Name()]
		if sr.err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", src.Name(), sr.err))
			continue
		}
		all = append(all, sr.hits...)
		result.Summary = append(result.Summary, fmt.Sprintf("%s: %d hit(s)", src.Name(), len(sr.hits)))
	}

	result.Hits = DedupeHits(all)
	a.Cache.Set(key, result)
	return result
}

// DedupeHits removes duplicate hits by normalized (url, title) pair,
// preserving first-occurrence order. Running it twice yields the same list
// as running it once.
func DedupeHits(hits []types.Hit) []types.Hit {
	seen := make(map[string]bool, len(hits))
	out := make([]types.Hit, 0, len(hits))
	for _, h := range hits {
		key := normalizeURL(h.URL) + "\x00" + strings.ToLower(strings.TrimSpace(h.Title))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}

func normalizeURL(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "https://")
	return strings.TrimSuffix(u, "/")
}
