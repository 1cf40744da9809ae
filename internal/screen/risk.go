// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"fmt"
	"strings"

	"github.com/pdiddy/brand-engine/pkg/types"
)

// Disclaimer terminates every trademark note. Hard invariant: no non-error
// note leaves this package without it.
const Disclaimer = "This automated screening is informational only and is not legal advice; consult a trademark attorney before committing to a name."

// Similarity thresholds for the "confusingly similar" heuristic. These are
// tuning constants, not derived values; adjust with care.
const (
	// similarMinSharedWords flags a hit sharing at least this many
	// significant words with the candidate.
	similarMinSharedWords = 2

	// similarSharedRatio flags a hit matching at least this fraction of
	// the candidate's significant words.
	similarSharedRatio = 0.5

	// similarMinWithContext flags a hit sharing at least this many
	// significant words when the hit also mentions a business-context
	// keyword.
	similarMinWithContext = 1
)

// registrySources are the source tags treated as official-registry signals.
var registrySources = map[string]bool{"registry": true, "registry_scrape": true, "whoisxml": true}

// stopwords are ignored when extracting significant words.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"inc": true, "llc": true, "ltd": true, "company": true, "shop": true,
}

// AnalyzeRisk turns an aggregate screening result into human-readable
// trademark notes for one candidate name. It classifies the result as an
// exact match in an official registry, an exact match in general results
// only, or no match, and lists confusingly similar marks found among the
// hits. The returned notes always end with the legal disclaimer.
func AnalyzeRisk(name string, result *types.ScreeningResult, businessContext string) string {
	var lines []string

	exactOfficial, exactGeneral := classifyExact(name, result)
	switch {
	case exactOfficial:
		lines = append(lines, fmt.Sprintf("HIGH RISK: %q appears as an exact match in an official trademark registry.", name))
	case exactGeneral:
		lines = append(lines, fmt.Sprintf("CAUTION: %q appears as an exact match in general search results, though not in registry sources checked.", name))
	default:
		lines = append(lines, fmt.Sprintf("No exact trademark match found for %q in the sources checked.", name))
	}

	if similar := confusinglySimilar(name, result, businessContext); len(similar) > 0 {
		lines = append(lines, fmt.Sprintf("Potentially confusing existing marks: %s.", strings.Join(similar, "; ")))
	}

	for _, w := range result.Warnings {
		lines = append(lines, "Note: source unavailable: "+w)
	}

	lines = append(lines, Disclaimer)
	return strings.Join(lines, "\n")
}

func classifyExact(name string, result *types.ScreeningResult) (official, general bool) {
	target := foldPhonetic(name)
	for _, h := range result.Hits {
		if foldPhonetic(h.Title) != target {
			continue
		}
		if registrySources[h.Source] {
			official = true
		} else {
			general = true
		}
	}
	return official, general
}

// confusinglySimilar returns titles of hits that clear the similarity
// thresholds against the candidate name, first-occurrence order, deduped.
func confusinglySimilar(name string, result *types.ScreeningResult, businessContext string) []string {
	nameWords := significantWords(name)
	if len(nameWords) == 0 {
		return nil
	}
	contextWords := significantWords(businessContext)
	target := foldPhonetic(name)

	seen := make(map[string]bool)
	var out []string
	for _, h := range result.Hits {
		title := strings.TrimSpace(h.Title)
		if title == "" || seen[strings.ToLower(title)] {
			continue
		}
		folded := foldPhonetic(title)
		if folded == target {
			continue // exact matches are reported separately
		}
		if isSimilar(nameWords, contextWords, h, target, folded) {
			seen[strings.ToLower(title)] = true
			out = append(out, title)
		}
	}
	return out
}

func isSimilar(nameWords, contextWords []string, h types.Hit, foldedName, foldedTitle string) bool {
	// Phonetic containment: "Akme" vs "Acme Supplies".
	if len(foldedName) >= 4 &&
		(strings.Contains(foldedTitle, foldedName) || strings.Contains(foldedName, foldedTitle)) {
		return true
	}

	titleWords := significantWords(h.Title)
	shared := 0
	for _, nw := range nameWords {
		for _, tw := range titleWords {
			if nw == tw || foldPhonetic(nw) == foldPhonetic(tw) {
				shared++
				break
			}
		}
	}
	if shared >= similarMinSharedWords {
		return true
	}
	if float64(shared) >= similarSharedRatio*float64(len(nameWords)) && shared > 0 {
		return true
	}
	if shared >= similarMinWithContext && mentionsContext(h, contextWords) {
		return true
	}
	return false
}

func mentionsContext(h types.Hit, contextWords []string) bool {
	haystack := strings.ToLower(h.Title + " " + h.Snippet + " " + h.URL)
	for _, w := range contextWords {
		if strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}

// significantWords lowercases, strips punctuation, and drops stopwords and
// words shorter than three characters.
func significantWords(s string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, `.,!?"'&()`)
		if len(w) < 3 || stopwords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// phoneticFolds maps common spelling substitutions to one canonical form.
// Order matters: multi-letter patterns fold before single letters.
var phoneticFolds = []struct{ from, to string }{
	{"ph", "f"},
	{"ck", "k"},
	{"x", "ks"},
	{"qu", "kw"},
	{"c", "k"},
}

// foldPhonetic lowercases, removes non-letters, and applies the
// substitution table so that e.g. "Phish" and "Fish" compare equal.
func foldPhonetic(s string) string {
	s = strings.ToLower(s)
	var sb strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	s = sb.String()
	for _, f := range phoneticFolds {
		s = strings.ReplaceAll(s, f.from, f.to)
	}
	return s
}
