// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/brand-engine/internal/httputil"
	"github.com/pdiddy/brand-engine/pkg/types"
)

// imagesAPIBase is the image generation endpoint. Declared as a var so
// tests can substitute an httptest server.
var imagesAPIBase = "https://api.openai.com/v1/images/generations"

// imageRequest is the request body for the image generation API.
type imageRequest struct {
	Model          string  `json:"model"`
	Prompt         string  `json:"prompt"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	GuidanceScale  float64 `json:"guidance_scale"`
	Steps          int     `json:"steps"`
	Seed           int64   `json:"seed"`
	ResponseFormat string  `json:"response_format"`
}

// imageResponse is the response body from the image generation API.
type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// Generate sends the prompt and fixed parameters to the image backend and
// returns the decoded image bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string, params types.ImageParams) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	reqBody := imageRequest{
		Model:          c.ImageModel,
		Prompt:         prompt,
		Width:          params.Width,
		Height:         params.Height,
		GuidanceScale:  params.GuidanceScale,
		Steps:          params.Steps,
		Seed:           params.Seed,
		ResponseFormat: "b64_json",
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, imagesAPIBase, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient(), req, 0)
	if err != nil {
		return nil, fmt.Errorf("calling image API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("image API returned %d: %s", resp.StatusCode, string(body))
	}

	var ir imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return nil, fmt.Errorf("decoding image response: %w", err)
	}
	if len(ir.Data) == 0 || ir.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("image API returned no image data")
	}

	data, err := base64.StdEncoding.DecodeString(ir.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", err)
	}
	return data, nil
}
