// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genparse

import "strings"

// corporateSuffixes are trailing business-entity designators stripped from
// generated names. Lowercase; matching is case-insensitive.
var corporateSuffixes = map[string]bool{
	"inc": true, "llc": true, "ltd": true, "co": true, "corp": true,
	"corporation": true, "company": true, "limited": true, "plc": true,
	"gmbh": true, "studio": true, "studios": true, "group": true,
	"enterprises": true, "holdings": true,
}

// danglingConnectors are tokens left meaningless once the designator after
// them is gone ("Acme & Co" -> "Acme").
var danglingConnectors = map[string]bool{"&": true, "and": true, "of": true}

// StripCorporateSuffix removes trailing corporate designator tokens and any
// connector left dangling, repeatedly, until the name is stable. The
// operation is idempotent: StripCorporateSuffix(StripCorporateSuffix(x)) ==
// StripCorporateSuffix(x). A name consisting only of designators is
// returned with its last token intact rather than stripped to nothing.
func StripCorporateSuffix(name string) string {
	words := strings.Fields(name)
	for len(words) > 1 {
		last := strings.ToLower(strings.Trim(words[len(words)-1], ".,"))
		if corporateSuffixes[last] || danglingConnectors[last] {
			words = words[:len(words)-1]
			continue
		}
		break
	}
	if len(words) == 0 {
		return strings.TrimSpace(name)
	}
	// Drop punctuation a removed designator may have left behind.
	words[len(words)-1] = strings.TrimRight(words[len(words)-1], ".,")
	return strings.Join(words, " ")
}
