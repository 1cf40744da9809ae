// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genparse validates generation output against the prompt contracts
// and recovers what it can from malformed responses. The strict path and
// the salvage path share no logic: strict parsing enforces the contract
// exactly, salvage is best-effort extraction with a lower correctness bar.
package genparse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/brand-engine/pkg/types"
)

// ErrorKind classifies a contract violation.
type ErrorKind string

const (
	NoJSONFound    ErrorKind = "no_json_found"
	FormatMismatch ErrorKind = "format_mismatch"
	WrongCount     ErrorKind = "wrong_count"
)

// ParseError reports that a raw response did not meet its contract.
type ParseError struct {
	Kind   ErrorKind
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error (%s): %s", e.Kind, e.Detail)
}

// ExpectedNames is the candidate count the name contract requires.
const ExpectedNames = 5

// ExpectedPalettes is the palette count the color contract requires.
const ExpectedPalettes = 5

// namesEnvelope is the JSON contract for name generation.
type namesEnvelope struct {
	Names []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"names"`
}

// ParseNames validates a raw response against the name contract: exactly
// one JSON object with a "names" array of exactly five entries, each with a
// non-empty title. When the body does not parse directly, the first
// balanced JSON object substring is tried before giving up.
func ParseNames(raw string) ([]types.NameCandidate, error) {
	var env namesEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		obj, ok := firstJSONObject(raw)
		if !ok {
			return nil, &ParseError{Kind: NoJSONFound, Detail: "no balanced JSON object in response"}
		}
		if err := json.Unmarshal([]byte(obj), &env); err != nil {
			return nil, &ParseError{Kind: NoJSONFound, Detail: fmt.Sprintf("extracted object does not parse: %v", err)}
		}
	}

	if len(env.Names) != ExpectedNames {
		return nil, &ParseError{Kind: WrongCount, Detail: fmt.Sprintf("got %d names, want %d", len(env.Names), ExpectedNames)}
	}

	candidates := make([]types.NameCandidate, 0, ExpectedNames)
	for i, n := range env.Names {
		title := strings.TrimSpace(n.Title)
		if title == "" {
			return nil, &ParseError{Kind: FormatMismatch, Detail: fmt.Sprintf("name %d has an empty title", i)}
		}
		candidates = append(candidates, types.NameCandidate{
			Title:       title,
			Description: strings.TrimSpace(n.Description),
		})
	}
	return candidates, nil
}

// paletteLinePattern matches one palette line:
//
//	#HEX1,#HEX2 - Name pair - explanation
var paletteLinePattern = regexp.MustCompile(`^#?([0-9A-Fa-f]{6})\s*,\s*#?([0-9A-Fa-f]{6})\s*-\s*([^-]+?)\s*-\s*(.+)$`)

const (
	minExplanation = 15
	maxExplanation = 500
)

// ParsePaletteLines validates a raw response against the palette contract:
// exactly five non-empty lines, each matching the hex-pair line format with
// an explanation between 15 and 500 characters, the five hex pairs mutually
// distinct.
func ParsePaletteLines(raw string) ([]types.ColorPalette, error) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) != ExpectedPalettes {
		return nil, &ParseError{Kind: WrongCount, Detail: fmt.Sprintf("got %d lines, want %d", len(lines), ExpectedPalettes)}
	}

	seen := make(map[string]bool, ExpectedPalettes)
	palettes := make([]types.ColorPalette, 0, ExpectedPalettes)
	for i, line := range lines {
		m := paletteLinePattern.FindStringSubmatch(line)
		if m == nil {
			return nil, &ParseError{Kind: FormatMismatch, Detail: fmt.Sprintf("line %d does not match the palette format: %q", i+1, line)}
		}
		explanation := strings.TrimSpace(m[4])
		if len(explanation) < minExplanation || len(explanation) > maxExplanation {
			return nil, &ParseError{Kind: FormatMismatch, Detail: fmt.Sprintf("line %d explanation length %d outside [%d,%d]", i+1, len(explanation), minExplanation, maxExplanation)}
		}

		p := types.ColorPalette{
			PrimaryHex:  types.NormalizeHex(m[1]),
			AccentHex:   types.NormalizeHex(m[2]),
			Name:        strings.TrimSpace(m[3]),
			Description: explanation,
		}
		pair := p.PrimaryHex + "/" + p.AccentHex
		if seen[pair] {
			return nil, &ParseError{Kind: FormatMismatch, Detail: fmt.Sprintf("duplicate hex pair %s", pair)}
		}
		seen[pair] = true
		palettes = append(palettes, p)
	}
	return palettes, nil
}

// firstJSONObject returns the first balanced {...} substring of raw,
// tracking string literals and escapes so braces inside values do not
// unbalance the scan.
func firstJSONObject(raw string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range raw {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				if depth == 0 {
					start = i
				}
				depth++
			}
		case '}':
			if !inString && depth > 0 {
				depth--
				if depth == 0 {
					return raw[start : i+1], true
				}
			}
		}
	}
	return "", false
}
