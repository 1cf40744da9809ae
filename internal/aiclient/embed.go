// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/brand-engine/internal/httputil"
)

// embeddingsAPIBase is the embeddings endpoint. Declared as a var so tests
// can substitute an httptest server.
var embeddingsAPIBase = "https://api.openai.com/v1/embeddings"

// embedRequest is the request body for the embeddings API. The whole batch
// goes in one call so output order matches input order.
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embedResponse is the response body from the embeddings API.
type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed computes embeddings for texts in one batch call. The returned slice
// is aligned with the input: vector i embeds texts[i]. A response with a
// missing or duplicate index is an error: a partially aligned batch would
// corrupt similarity ranking downstream.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	bodyBytes, err := json.Marshal(embedRequest{Model: c.EmbeddingModel, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, embeddingsAPIBase, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient(), req, 0)
	if err != nil {
		return nil, fmt.Errorf("calling embeddings API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embeddings API returned %d: %s", resp.StatusCode, string(body))
	}

	var er embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("decoding embeddings response: %w", err)
	}

	if len(er.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings API returned %d vectors for %d inputs", len(er.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range er.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embeddings API returned out-of-range index %d", d.Index)
		}
		if vectors[d.Index] != nil {
			return nil, fmt.Errorf("embeddings API returned duplicate index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("embeddings API returned no vector for input %d", i)
		}
	}
	return vectors, nil
}
