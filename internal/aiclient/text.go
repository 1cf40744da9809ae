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

// chatAPIBase is the chat completions endpoint. Declared as a var so tests
// can substitute an httptest server.
var chatAPIBase = "https://api.openai.com/v1/chat/completions"

// chatRequest is the request body for the chat completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generate sends one system/user prompt pair to the text backend and returns
// the raw response text. Temperature 0 requests deterministic output; the
// caller chooses sampled temperatures for creative stages.
func (c *Client) Generate(ctx context.Context, system, user string, temperature float64) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	reqBody := chatRequest{
		Model:       c.Model,
		Temperature: temperature,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatAPIBase, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient(), req, 0)
	if err != nil {
		return "", fmt.Errorf("calling text API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading text API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text API returned %d: %s", resp.StatusCode, string(raw))
	}

	text, err := extractText(raw)
	if err != nil {
		return "", fmt.Errorf("extracting response text: %w", err)
	}
	return text, nil
}
