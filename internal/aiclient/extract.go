// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aiclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// textResponse is the typed shape of a chat completion response. Backends
// differ in where the text lands, so extraction walks an ordered list of
// strategies over this one decoded value instead of probing untyped maps.
type textResponse struct {
	Choices []struct {
		Message struct {
			Content string         `json:"content"`
			Parts   []responsePart `json:"parts,omitempty"`
		} `json:"message"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
	Output string `json:"output,omitempty"`
	Text   string `json:"text,omitempty"`
}

// responsePart is one block of a multi-part message.
type responsePart struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

// extractor pulls response text out of one known response shape.
type extractor func(resp *textResponse) (string, bool)

// extractors is the ordered strategy list. The first strategy that yields
// non-empty text wins.
var extractors = []extractor{
	fromChoiceContent,
	fromChoiceParts,
	fromChoiceText,
	fromTopLevel,
}

// extractText decodes the raw API body and tries each extractor in order.
// When no typed strategy matches, it falls back to a shallow scan of
// string-valued fields, and finally to the raw body itself so the caller's
// salvage path still has something to work with.
func extractText(raw []byte) (string, error) {
	var resp textResponse
	if err := json.Unmarshal(raw, &resp); err == nil {
		for _, ex := range extractors {
			if text, ok := ex(&resp); ok {
				return text, nil
			}
		}
	}

	if text, ok := shallowTextScan(raw); ok {
		return text, nil
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return "", fmt.Errorf("empty response body")
	}
	return string(raw), nil
}

func fromChoiceContent(resp *textResponse) (string, bool) {
	if len(resp.Choices) == 0 {
		return "", false
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	return text, text != ""
}

func fromChoiceParts(resp *textResponse) (string, bool) {
	if len(resp.Choices) == 0 {
		return "", false
	}
	var sb strings.Builder
	for _, part := range resp.Choices[0].Message.Parts {
		if part.Type != "" && part.Type != "text" {
			continue
		}
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	return text, text != ""
}

func fromChoiceText(resp *textResponse) (string, bool) {
	if len(resp.Choices) == 0 {
		return "", false
	}
	text := strings.TrimSpace(resp.Choices[0].Text)
	return text, text != ""
}

func fromTopLevel(resp *textResponse) (string, bool) {
	if text := strings.TrimSpace(resp.Output); text != "" {
		return text, true
	}
	text := strings.TrimSpace(resp.Text)
	return text, text != ""
}

// shallowTextScanKeys are the field names checked, in order, one level deep.
var shallowTextScanKeys = []string{"content", "text", "output", "message", "response"}

// shallowTextScan looks for a string value under a known key at the top
// level of an arbitrary JSON object.
func shallowTextScan(raw []byte) (string, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", false
	}
	for _, key := range shallowTextScanKeys {
		v, ok := m[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}
