// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "brand-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call the generative backend.
type AIConfig struct {
	// Model is the text model identifier.
	Model string `json:"model" yaml:"model"`

	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`

	// ImageModel is the image model identifier.
	ImageModel string `json:"image_model" yaml:"image_model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxAttempts is the number of generation attempts before falling back
	// to salvage (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// RateInterval is the minimum spacing between generation calls.
	// Zero disables rate limiting.
	RateInterval time.Duration `json:"rate_interval" yaml:"rate_interval"`
}

// RetrievalConfig holds settings for the context retrieval stage.
type RetrievalConfig struct {
	HTTPConfig `yaml:",inline"`

	// ChunkSize is the chunk length in runes (default 800).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks in runes
	// (default 150).
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`

	// TopK is the number of ranked chunks kept for the context window
	// (default 5).
	TopK int `json:"top_k" yaml:"top_k"`

	// NamingReferenceURL is the static page consulted before name generation.
	NamingReferenceURL string `json:"naming_reference_url,omitempty" yaml:"naming_reference_url,omitempty"`

	// ColorReferenceURL is the color-psychology page consulted before
	// palette generation.
	ColorReferenceURL string `json:"color_reference_url,omitempty" yaml:"color_reference_url,omitempty"`

	// SearchAPIKey enables the live web-search source when present.
	SearchAPIKey string `json:"search_api_key,omitempty" yaml:"search_api_key,omitempty"`

	// SearchMaxResults bounds live search results per query (default 5).
	SearchMaxResults int `json:"search_max_results" yaml:"search_max_results"`

	// SearchRegion is an optional region hint passed to the search API.
	SearchRegion string `json:"search_region,omitempty" yaml:"search_region,omitempty"`
}

// ScreeningConfig holds settings for domain and trademark screening.
type ScreeningConfig struct {
	HTTPConfig `yaml:",inline"`

	// TLDs is the fixed set of top-level domains checked for availability.
	TLDs []string `json:"tlds" yaml:"tlds"`

	// CacheTTL is the validity window for cached screening results
	// (default 10m).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// RegistryAPIKey enables the official trademark registry API source.
	RegistryAPIKey string `json:"registry_api_key,omitempty" yaml:"registry_api_key,omitempty"`

	// EnableRegistryScrape opts in to scraping the registry's public search
	// page when the API is unavailable. Off by default.
	EnableRegistryScrape bool `json:"enable_registry_scrape" yaml:"enable_registry_scrape"`

	// SearchAPIKey enables the general web-search source.
	SearchAPIKey string `json:"search_api_key,omitempty" yaml:"search_api_key,omitempty"`

	// WhoisAPIKey enables the commercial WHOIS/trademark source.
	WhoisAPIKey string `json:"whois_api_key,omitempty" yaml:"whois_api_key,omitempty"`

	// ReverseImageAPIKey enables reverse-image screening of generated logos.
	ReverseImageAPIKey string `json:"reverse_image_api_key,omitempty" yaml:"reverse_image_api_key,omitempty"`
}

// DefaultTLDs is the domain set checked when ScreeningConfig.TLDs is empty.
var DefaultTLDs = []string{".com", ".co.uk", ".uk"}

// ImageConfig holds settings for logo image generation and persistence.
type ImageConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is where generated logo artifacts are persisted
	// (default "output/logos").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// PreferredFormat is the artifact format tried first (default "png");
	// persistence falls back to "jpeg" when encoding fails.
	PreferredFormat string `json:"preferred_format" yaml:"preferred_format"`
}

// HistoryConfig holds settings for the session-run history store.
type HistoryConfig struct {
	// DataDir is the directory containing the history database
	// (default "data/history").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations for one brand-generation run.
type PipelineConfig struct {
	AI        AIConfig        `json:"ai" yaml:"ai"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Screening ScreeningConfig `json:"screening" yaml:"screening"`
	Image     ImageConfig     `json:"image" yaml:"image"`
	History   HistoryConfig   `json:"history" yaml:"history"`

	// DumpDir is where raw backend output is written when parsing fails
	// terminally (default "output/dumps").
	DumpDir string `json:"dump_dir" yaml:"dump_dir"`
}
