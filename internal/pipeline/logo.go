// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/pdiddy/brand-engine/pkg/types"
)

// BuildLogoPrompt drafts the visual-composition paragraph from the selected
// name, palette, and the brief's visual elements. The draft must reference
// both selected hex codes; a draft that omits them gets exactly one
// reinforced retry, after which whatever came back is accepted; the user
// can edit the text before submission anyway.
func (s *Session) BuildLogoPrompt(ctx context.Context) (*types.LogoPrompt, error) {
	if err := s.requireStage("BuildLogoPrompt", StageColorSelected, StageLogoPrompt); err != nil {
		return nil, err
	}

	name := s.SelectedName.Title
	palette := *s.SelectedPalette

	s.progressf("drafting logo prompt")
	text, err := s.deps.Text.Generate(ctx, logoSystemPrompt,
		logoUserPrompt(name, palette, s.Brief.VisualElements), 0.7)
	if err != nil {
		return nil, fmt.Errorf("drafting logo prompt: %w", err)
	}

	prompt := types.LogoPrompt{
		Text:       strings.TrimSpace(text),
		PrimaryHex: types.NormalizeHex(palette.PrimaryHex),
		AccentHex:  types.NormalizeHex(palette.AccentHex),
	}
	if !prompt.ReferencesColors() {
		s.warnf("logo prompt omitted the selected hex codes; retrying once")
		text, err = s.deps.Text.Generate(ctx, logoSystemPrompt,
			logoReinforcedPrompt(name, palette, s.Brief.VisualElements), 0.7)
		if err != nil {
			return nil, fmt.Errorf("redrafting logo prompt: %w", err)
		}
		prompt.Text = strings.TrimSpace(text)
	}

	s.Prompt = &prompt
	s.setStage(StageLogoPrompt)
	return s.Prompt, nil
}

// AdoptPrompt enters the prompt stage with text the user supplies, skipping
// the draft. Used when the user already has a composition in mind or when
// the drafting backend is unavailable.
func (s *Session) AdoptPrompt(text string) error {
	if err := s.requireStage("AdoptPrompt", StageColorSelected, StageLogoPrompt); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("logo prompt text is empty")
	}
	s.Prompt = &types.LogoPrompt{
		Text:       text,
		PrimaryHex: types.NormalizeHex(s.SelectedPalette.PrimaryHex),
		AccentHex:  types.NormalizeHex(s.SelectedPalette.AccentHex),
	}
	s.setStage(StageLogoPrompt)
	return nil
}

// SetPromptText replaces the drafted prompt text with the user's edit. It
// stays available after a render so the prompt can be tweaked between
// regeneration rounds.
func (s *Session) SetPromptText(text string) error {
	if err := s.requireStage("SetPromptText", StageLogoPrompt, StageLogoImage, StageLogoScreened); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("logo prompt text is empty")
	}
	s.Prompt.Text = text
	return nil
}

// GenerateLogoImage renders the prompt with the fixed image parameters and
// a fresh random seed, then persists the result through the artifact store.
// Calling it again after a render regenerates with the current prompt (same
// or edited) and a new seed, replacing the previous image and discarding
// any screening verdict for it. A backend failure is terminal for the
// attempt but preserves the prompt text in the error so nothing the user
// wrote is lost.
func (s *Session) GenerateLogoImage(ctx context.Context) (string, error) {
	if err := s.requireStage("GenerateLogoImage", StageLogoPrompt, StageLogoImage, StageLogoScreened); err != nil {
		return "", err
	}

	params := types.DefaultImageParams()
	params.Seed = rand.Int63()

	s.progressf("rendering logo image (%dx%d, seed %d)", params.Width, params.Height, params.Seed)
	data, err := s.deps.Image.GenerateImage(ctx, s.Prompt.Text, params)
	if err != nil {
		return "", &GenerationFailed{Stage: "logo_image", Attempts: 1, Prompt: s.Prompt.Text, Err: err}
	}

	locator, err := s.deps.Artifacts.Persist(data, s.cfg.Image.PreferredFormat)
	if err != nil {
		return "", fmt.Errorf("persisting logo image: %w", err)
	}

	s.ImageLocator = locator
	s.mu.Lock()
	s.LogoScreening = nil // any prior verdict described the old image
	s.stage = StageLogoImage
	s.mu.Unlock()
	return locator, nil
}
