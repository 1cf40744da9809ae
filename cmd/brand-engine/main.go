// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the brand-engine CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/brand-engine/internal/aiclient"
	"github.com/pdiddy/brand-engine/internal/artifact"
	"github.com/pdiddy/brand-engine/internal/pipeline"
	"github.com/pdiddy/brand-engine/internal/screen"
	"github.com/pdiddy/brand-engine/internal/secrets"
	"github.com/pdiddy/brand-engine/internal/websearch"
	"github.com/pdiddy/brand-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when it is set, otherwise the secret value
// for key, otherwise empty.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the brand-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "brand-engine",
	Short: "Guided brand generation: names, colors, and a logo",
	Long: `brand-engine takes a short business description and walks it through brand
generation: five screened name candidates, five color palettes, a logo prompt,
and a rendered logo image. Every name is checked for domain availability and
trademark conflicts before it is shown.

Run the full guided journey with "brand-engine run", or drive individual
stages with the name, colors, logo, and screen subcommands.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./brand-engine.yaml or ~/.config/brand-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("brand-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "brand-engine"))
		}
	}

	viper.SetEnvPrefix("BRAND_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configuration from the config file,
// environment, and loaded secrets.
func pipelineConfig() types.PipelineConfig {
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.embedding_model", "text-embedding-3-small")
	viper.SetDefault("ai.image_model", "gpt-image-1")
	viper.SetDefault("ai.max_attempts", 3)
	viper.SetDefault("http.timeout", "60s")
	viper.SetDefault("http.user_agent", "brand-engine/"+version)
	viper.SetDefault("retrieval.search_max_results", 5)
	viper.SetDefault("screening.cache_ttl", "10m")
	viper.SetDefault("image.output_dir", filepath.Join("output", "logos"))
	viper.SetDefault("image.preferred_format", "png")
	viper.SetDefault("history.data_dir", filepath.Join("data", "history"))
	viper.SetDefault("dump_dir", filepath.Join("output", "dumps"))

	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}

	return types.PipelineConfig{
		AI: types.AIConfig{
			Model:          viper.GetString("ai.model"),
			EmbeddingModel: viper.GetString("ai.embedding_model"),
			ImageModel:     viper.GetString("ai.image_model"),
			APIKey:         secretDefault("openai-api-key", viper.GetString("ai.api_key")),
			MaxAttempts:    viper.GetInt("ai.max_attempts"),
			RateInterval:   viper.GetDuration("ai.rate_interval"),
		},
		Retrieval: types.RetrievalConfig{
			HTTPConfig:         httpCfg,
			ChunkSize:          viper.GetInt("retrieval.chunk_size"),
			ChunkOverlap:       viper.GetInt("retrieval.chunk_overlap"),
			TopK:               viper.GetInt("retrieval.top_k"),
			NamingReferenceURL: viper.GetString("retrieval.naming_reference_url"),
			ColorReferenceURL:  viper.GetString("retrieval.color_reference_url"),
			SearchAPIKey:       secretDefault("brave-api-key", viper.GetString("retrieval.search_api_key")),
			SearchMaxResults:   viper.GetInt("retrieval.search_max_results"),
			SearchRegion:       viper.GetString("retrieval.search_region"),
		},
		Screening: types.ScreeningConfig{
			HTTPConfig:           httpCfg,
			TLDs:                 viper.GetStringSlice("screening.tlds"),
			CacheTTL:             viper.GetDuration("screening.cache_ttl"),
			RegistryAPIKey:       secretDefault("uspto-api-key", viper.GetString("screening.registry_api_key")),
			EnableRegistryScrape: viper.GetBool("screening.enable_registry_scrape"),
			SearchAPIKey:         secretDefault("brave-api-key", viper.GetString("screening.search_api_key")),
			WhoisAPIKey:          secretDefault("whoisxml-api-key", viper.GetString("screening.whois_api_key")),
			ReverseImageAPIKey:   secretDefault("serpapi-api-key", viper.GetString("screening.reverse_image_api_key")),
		},
		Image: types.ImageConfig{
			HTTPConfig:      httpCfg,
			OutputDir:       viper.GetString("image.output_dir"),
			PreferredFormat: viper.GetString("image.preferred_format"),
		},
		History: types.HistoryConfig{
			DataDir: viper.GetString("history.data_dir"),
		},
		DumpDir: viper.GetString("dump_dir"),
	}
}

// buildDeps wires the pipeline collaborators from configuration. Trademark
// sources are included only when their keys (or opt-in flags) are present;
// the aggregator degrades gracefully when the list is short.
func buildDeps(cfg types.PipelineConfig) pipeline.Deps {
	timeout := cfg.Screening.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	client := aiclient.New(cfg.AI, httpClient)
	cache := screen.NewCache(cfg.Screening.CacheTTL)

	var tmSources []screen.Source
	if cfg.Screening.RegistryAPIKey != "" {
		tmSources = append(tmSources, &screen.RegistrySource{
			APIKey: cfg.Screening.RegistryAPIKey, UserAgent: cfg.Screening.UserAgent, Client: httpClient,
		})
	}
	if cfg.Screening.EnableRegistryScrape {
		tmSources = append(tmSources, &screen.RegistryScrapeSource{
			Enabled: true, UserAgent: cfg.Screening.UserAgent, Client: httpClient,
		})
	}
	if cfg.Screening.SearchAPIKey != "" {
		tmSources = append(tmSources, &screen.TrademarkWebSource{
			Client:     &websearch.Client{APIKey: cfg.Screening.SearchAPIKey, UserAgent: cfg.Screening.UserAgent, HTTPClient: httpClient},
			MaxResults: 5,
		})
	}
	if cfg.Screening.WhoisAPIKey != "" {
		tmSources = append(tmSources, &screen.WhoisSource{
			APIKey: cfg.Screening.WhoisAPIKey, UserAgent: cfg.Screening.UserAgent, Client: httpClient,
		})
	}

	imageScreener := screen.NewImageScreener(cfg.Screening.ReverseImageAPIKey, cache)
	imageScreener.UserAgent = cfg.Screening.UserAgent
	imageScreener.Client = httpClient

	return pipeline.Deps{
		Text:      client,
		Embedder:  client,
		Image:     client,
		Domains:   screen.NewDomainChecker(cfg.Screening.TLDs),
		Trademark: screen.NewAggregator(tmSources, cache),
		Images:    imageScreener,
		Artifacts: artifact.NewLocalStore(cfg.Image.OutputDir),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
