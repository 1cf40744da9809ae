// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Hit is a single external search or registry result record.
type Hit struct {
	// Title is the result title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// URL is the result location.
	URL string `json:"url" yaml:"url"`

	// Snippet is a short excerpt or abstract.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Source identifies which screening source found this hit
	// (e.g. "uspto", "web_search", "whoisxml").
	Source string `json:"source" yaml:"source"`
}

// ScreeningResult is the aggregate outcome of screening one candidate
// against all configured sources. A failed source contributes a warning,
// never an error; the aggregate is valid even when every source failed.
type ScreeningResult struct {
	// Hits are deduplicated results across all sources, first occurrence
	// order preserved.
	Hits []Hit `json:"hits" yaml:"hits"`

	// Warnings records source-level soft failures (outages, missing keys).
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Summary holds per-source one-line summaries.
	Summary []string `json:"summary,omitempty" yaml:"summary,omitempty"`
}
