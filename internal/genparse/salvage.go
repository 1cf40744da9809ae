// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genparse

import (
	"regexp"
	"strings"
)

// Salvage heuristics: last-resort extraction from responses the strict
// parser rejected. Results are partial and lower-confidence; they are never
// required to reach the expected candidate count. Nothing here is shared
// with the strict path.

// titlePairPattern matches "title": "value" fields in JSON-ish text.
var titlePairPattern = regexp.MustCompile(`"title"\s*:\s*"([^"]+)"`)

// quotedPattern matches any double-quoted run.
var quotedPattern = regexp.MustCompile(`"([^"\n]{2,60})"`)

// listLinePattern strips leading list markers: "1. ", "2)", "- ", "* ".
var listLinePattern = regexp.MustCompile(`^\s*(?:\d+[.)]\s*|[-*•]\s*)`)

// jsonNoiseWords are quoted tokens that are contract vocabulary, not
// candidate names.
var jsonNoiseWords = map[string]bool{
	"names": true, "name": true, "title": true, "description": true,
	"items": true, "json": true, "response": true, "explanation": true,
}

// SalvageNames recovers plausible name candidates from a malformed
// response. Strategies run in order (structured field pairs, quoted
// strings, then bare short lines) and the first strategy that yields
// anything wins. Output is deduplicated case-insensitively, order
// preserved, capped at the contract count.
func SalvageNames(raw string) []string {
	for _, strategy := range []func(string) []string{
		salvageTitleFields,
		salvageQuoted,
		salvageShortLines,
	} {
		if found := dedupeNames(strategy(raw)); len(found) > 0 {
			return found
		}
	}
	return nil
}

// salvageTitleFields pulls values out of "title": "..." pairs.
func salvageTitleFields(raw string) []string {
	var out []string
	for _, m := range titlePairPattern.FindAllStringSubmatch(raw, -1) {
		if name := cleanCandidate(m[1]); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// salvageQuoted pulls any quoted string that looks like a name.
func salvageQuoted(raw string) []string {
	var out []string
	for _, m := range quotedPattern.FindAllStringSubmatch(raw, -1) {
		if name := cleanCandidate(m[1]); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// salvageShortLines treats short alphanumeric lines as candidates, after
// stripping list markers.
func salvageShortLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = listLinePattern.ReplaceAllString(strings.TrimSpace(line), "")
		if name := cleanCandidate(line); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// cleanCandidate decides whether a fragment is a plausible business name
// and normalizes its surrounding whitespace. Plausible means 1-4 words,
// 2-48 characters, starting with a letter, mostly alphanumeric, and not a
// piece of contract vocabulary.
func cleanCandidate(s string) string {
	s = strings.TrimSpace(strings.Trim(s, `.,:;"'`))
	if len(s) < 2 || len(s) > 48 {
		return ""
	}
	if jsonNoiseWords[strings.ToLower(s)] {
		return ""
	}
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > 4 {
		return ""
	}
	first := rune(s[0])
	if !(first >= 'A' && first <= 'Z' || first >= 'a' && first <= 'z') {
		return ""
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ' ', r == '&', r == '\'', r == '-':
		default:
			return ""
		}
	}
	return strings.Join(words, " ")
}

// dedupeNames removes case-insensitive duplicates, keeping first
// occurrences, and caps the list at the contract count.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
		if len(out) == ExpectedNames {
			break
		}
	}
	return out
}
