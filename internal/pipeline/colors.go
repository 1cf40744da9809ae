// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"

	"github.com/pdiddy/brand-engine/internal/genparse"
	"github.com/pdiddy/brand-engine/pkg/types"
)

// StartColors generates the five palette candidates for the selected name.
// Unlike naming, this stage is never terminal: when every attempt fails the
// static default list stands in, flagged as a fallback.
func (s *Session) StartColors(ctx context.Context) error {
	if err := s.requireStage("StartColors", StageNameSelected); err != nil {
		return err
	}
	s.generateColors(ctx)
	return nil
}

// RefreshColors regenerates the palette list. There is no exclusion list
// for colors; near-repeats are acceptable where repeated names are not.
func (s *Session) RefreshColors(ctx context.Context) error {
	if err := s.requireStage("RefreshColors", StageColors, StageColorSelected); err != nil {
		return err
	}
	s.SelectedPalette = nil
	s.generateColors(ctx)
	return nil
}

func (s *Session) generateColors(ctx context.Context) {
	rctx := s.retrieveContext(ctx, "colors")

	attempts := s.maxAttempts()
	var lastRaw string
	for attempt := 0; attempt < attempts; attempt++ {
		s.progressf("generating color palettes (attempt %d/%d)", attempt+1, attempts)
		raw, err := s.deps.Text.Generate(ctx, colorsSystemPrompt,
			colorsUserPrompt(s.Brief, s.SelectedName.Title, rctx.Text), temperature(attempt))
		if err != nil {
			s.warnf("palette generation call failed: %v", err)
			continue
		}
		lastRaw = raw

		palettes, err := genparse.ParsePaletteLines(raw)
		if err != nil {
			s.warnf("palette response rejected: %v", err)
			continue
		}
		s.Palettes = palettes
		s.setStage(StageColors)
		return
	}

	if lastRaw != "" {
		if path, err := genparse.DumpRaw(s.dumpDir(), "colors", lastRaw); err == nil {
			s.warnf("palette generation failed; raw output saved to %s", path)
		}
	}
	s.warnf("palette generation failed after %d attempt(s); using the default palette list", attempts)
	s.Palettes = defaultPalettes()
	s.setStage(StageColors)
}

// defaultPalettes is the curated stand-in list used when generation fails.
// Five pairs spread across warm, cool, and neutral families.
func defaultPalettes() []types.ColorPalette {
	return []types.ColorPalette{
		{PrimaryHex: "#1F3A5F", AccentHex: "#E8A13D", Name: "Navy & Amber",
			Description: "Dependable deep blue lifted by a warm, optimistic accent.", Fallback: true},
		{PrimaryHex: "#2E5D4B", AccentHex: "#F2EFE9", Name: "Forest & Cream",
			Description: "Natural green grounded by a soft neutral for an organic feel.", Fallback: true},
		{PrimaryHex: "#6B2D5C", AccentHex: "#F5C7B8", Name: "Plum & Blush",
			Description: "Rich plum with a gentle blush accent for a premium warmth.", Fallback: true},
		{PrimaryHex: "#2B2B2B", AccentHex: "#E63946", Name: "Charcoal & Crimson",
			Description: "Modern near-black with a bold red accent for high contrast.", Fallback: true},
		{PrimaryHex: "#0F7173", AccentHex: "#F2D0A4", Name: "Teal & Sand",
			Description: "Calm coastal teal balanced by a sunlit sandy neutral.", Fallback: true},
	}
}
