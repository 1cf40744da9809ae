// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"strings"

	"github.com/pdiddy/brand-engine/pkg/types"
)

// Prompt contracts. The strict parsers in internal/genparse enforce exactly
// what these prompts demand; changing a contract here means changing the
// parser with it.

const namesSystemPrompt = `You are a branding consultant who invents distinctive, memorable business names.
Respond with a single JSON object and nothing else. The object has one key
"names" whose value is an array of exactly 5 entries, each an object with a
"title" (the name, 1-4 words, no corporate designators like Inc or LLC) and
a "description" (one sentence on why the name fits the business).`

const colorsSystemPrompt = `You are a brand color consultant.
Respond with exactly 5 lines and nothing else. Each line has the form:
#RRGGBB,#RRGGBB - Color Pair Name - one sentence explaining why the pairing suits the brand
The first hex code is the primary color, the second the accent. The five
pairs must be mutually distinct and spread across warm, cool, and neutral
families.`

const logoSystemPrompt = `You are an art director writing prompts for a logo image generator.
Respond with one paragraph of plain text describing the visual composition
of the logo only: shapes, layout, iconography, and colors by hex code. Do
not mention typography instructions beyond the business name itself, and do
not add commentary before or after the paragraph.`

// namesUserPrompt assembles the generation request for name candidates.
// The exclusion list is best-effort: the backend is asked, not trusted, to
// avoid repeats.
func namesUserPrompt(brief types.BusinessBrief, contextText string, exclude []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Business: %s\n", strings.TrimSpace(brief.Description))
	if kws := brief.Keywords(); len(kws) > 0 {
		fmt.Fprintf(&b, "Brand keywords: %s\n", strings.Join(kws, ", "))
	}
	if contextText != "" {
		fmt.Fprintf(&b, "\nReference material on naming:\n%s\n", contextText)
	}
	if len(exclude) > 0 {
		fmt.Fprintf(&b, "\nDo not suggest any of these already-seen names: %s\n", strings.Join(exclude, ", "))
	}
	b.WriteString("\nGenerate 5 name candidates now.")
	return b.String()
}

// colorsUserPrompt assembles the generation request for color palettes.
func colorsUserPrompt(brief types.BusinessBrief, selectedName, contextText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Business: %s\n", strings.TrimSpace(brief.Description))
	fmt.Fprintf(&b, "Chosen business name: %s\n", selectedName)
	if len(brief.BrandValues) > 0 {
		fmt.Fprintf(&b, "Brand values: %s\n", strings.Join(brief.BrandValues, ", "))
	}
	if contextText != "" {
		fmt.Fprintf(&b, "\nReference material on color psychology:\n%s\n", contextText)
	}
	b.WriteString("\nGenerate 5 color palette candidates now.")
	return b.String()
}

// logoUserPrompt assembles the request for the logo composition paragraph.
func logoUserPrompt(name string, palette types.ColorPalette, visuals []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Business name: %s\n", name)
	fmt.Fprintf(&b, "Primary color: %s\nAccent color: %s\n",
		types.NormalizeHex(palette.PrimaryHex), types.NormalizeHex(palette.AccentHex))
	if len(visuals) > 0 {
		fmt.Fprintf(&b, "Visual elements to include: %s\n", strings.Join(visuals, ", "))
	}
	b.WriteString("\nDescribe the logo composition. Reference both colors by their exact hex codes.")
	return b.String()
}

// logoReinforcedPrompt is the single retry issued when the first paragraph
// failed to mention both hex codes.
func logoReinforcedPrompt(name string, palette types.ColorPalette, visuals []string) string {
	return logoUserPrompt(name, palette, visuals) +
		fmt.Sprintf("\nYour previous answer omitted the hex codes. The paragraph MUST contain the literal strings %s and %s.",
			types.NormalizeHex(palette.PrimaryHex), types.NormalizeHex(palette.AccentHex))
}
