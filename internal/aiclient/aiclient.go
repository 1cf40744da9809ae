// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aiclient wraps the generative, embedding, and image backends
// behind narrow interfaces. Each call is a single round-trip; contract
// validation and retries belong to the caller.
package aiclient

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/pdiddy/brand-engine/pkg/types"
)

// TextBackend generates raw text from a system/user prompt pair. Each
// implementation handles exactly one round-trip and returns the backend's
// text as-is.
type TextBackend interface {
	Generate(ctx context.Context, system, user string, temperature float64) (string, error)
}

// Embedder computes embeddings for a batch of texts. The returned vectors
// are in the same order as the input texts; callers rely on this.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ImageBackend generates an image from a prompt and fixed parameters,
// returning the raw image bytes.
type ImageBackend interface {
	GenerateImage(ctx context.Context, prompt string, params types.ImageParams) ([]byte, error)
}

// Client is the HTTP implementation of all three backends against an
// OpenAI-compatible API.
type Client struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	ImageModel     string
	HTTPClient     *http.Client

	// Limiter, when set, spaces outbound calls. Shared across text,
	// embedding, and image requests.
	Limiter *rate.Limiter
}

// New builds a Client from AI configuration.
func New(cfg types.AIConfig, httpClient *http.Client) *Client {
	c := &Client{
		APIKey:         cfg.APIKey,
		Model:          cfg.Model,
		EmbeddingModel: cfg.EmbeddingModel,
		ImageModel:     cfg.ImageModel,
		HTTPClient:     httpClient,
	}
	if cfg.RateInterval > 0 {
		c.Limiter = rate.NewLimiter(rate.Every(cfg.RateInterval), 1)
	}
	return c
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) wait(ctx context.Context) error {
	if c.Limiter == nil {
		return nil
	}
	return c.Limiter.Wait(ctx)
}
