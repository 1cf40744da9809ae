// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates one brand-generation journey: business
// brief in, screened name candidates, color palettes, and a logo image out.
// Each Session owns its state machine; stages advance in order and refresh
// re-enters a stage without disturbing upstream selections.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pdiddy/brand-engine/internal/aiclient"
	"github.com/pdiddy/brand-engine/internal/artifact"
	"github.com/pdiddy/brand-engine/internal/genparse"
	"github.com/pdiddy/brand-engine/internal/screen"
	"github.com/pdiddy/brand-engine/pkg/types"
)

// Stage identifies where a session is in the journey.
type Stage string

const (
	StageIntake        Stage = "intake"
	StageNames         Stage = "names"
	StageNameSelected  Stage = "name_selected"
	StageColors        Stage = "colors"
	StageColorSelected Stage = "color_selected"
	StageLogoPrompt    Stage = "logo_prompt"
	StageLogoImage     Stage = "logo_image"
	StageLogoScreened  Stage = "logo_screened"
)

// ErrInvalidTransition rejects stage operations called out of order.
var ErrInvalidTransition = errors.New("invalid stage transition")

// GenerationFailed is the terminal failure of a generation stage: the
// backend's output defeated strict parsing and every recovery path. For the
// image stage it preserves the prompt text so the user can retry or edit
// without losing their work.
type GenerationFailed struct {
	Stage    string
	Attempts int
	DumpPath string
	Prompt   string
	Err      error
}

func (e *GenerationFailed) Error() string {
	msg := fmt.Sprintf("%s generation failed after %d attempt(s)", e.Stage, e.Attempts)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.DumpPath != "" {
		msg += " (raw output saved to " + e.DumpPath + ")"
	}
	return msg
}

func (e *GenerationFailed) Unwrap() error { return e.Err }

// Deps are the collaborators a session drives. All are required except
// Images, which may be nil when logo screening is not configured.
type Deps struct {
	Text      aiclient.TextBackend
	Embedder  aiclient.Embedder
	Image     aiclient.ImageBackend
	Domains   *screen.DomainChecker
	Trademark *screen.Aggregator
	Images    *screen.ImageScreener
	Artifacts artifact.Store
}

// Session is one brand-generation journey. It is not safe for concurrent
// stage calls; the only concurrency it creates internally is screening
// fan-out and the decoupled logo screen.
type Session struct {
	Brief types.BusinessBrief

	Candidates      []types.NameCandidate
	SelectedName    *types.NameCandidate
	Palettes        []types.ColorPalette
	SelectedPalette *types.ColorPalette
	Prompt          *types.LogoPrompt
	ImageLocator    string
	LogoScreening   *types.ScreeningResult

	deps     Deps
	cfg      types.PipelineConfig
	progress io.Writer

	mu        sync.Mutex
	stage     Stage
	seen      map[string]bool
	seenOrder []string
}

// NewSession validates the brief and opens a journey at the intake stage.
// Progress and warning lines go to progress; pass io.Discard to silence
// them.
func NewSession(brief types.BusinessBrief, deps Deps, cfg types.PipelineConfig, progress io.Writer) (*Session, error) {
	if err := brief.Validate(); err != nil {
		return nil, fmt.Errorf("validating brief: %w", err)
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Session{
		Brief:    brief,
		deps:     deps,
		cfg:      cfg,
		progress: progress,
		stage:    StageIntake,
		seen:     make(map[string]bool),
	}, nil
}

// Stage returns the session's current stage.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// requireStage checks the current stage against the allowed set.
func (s *Session) requireStage(op string, allowed ...Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range allowed {
		if s.stage == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s called at stage %s", ErrInvalidTransition, op, s.stage)
}

func (s *Session) setStage(st Stage) {
	s.mu.Lock()
	s.stage = st
	s.mu.Unlock()
}

// markSeen records candidate titles so a refresh can ask the backend to
// avoid them. The set only grows.
func (s *Session) markSeen(titles []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range titles {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" || s.seen[key] {
			continue
		}
		s.seen[key] = true
		s.seenOrder = append(s.seenOrder, strings.TrimSpace(t))
	}
}

// SeenTitles returns every title shown so far, in first-seen order.
func (s *Session) SeenTitles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.seenOrder))
	copy(out, s.seenOrder)
	return out
}

// SelectName fixes the candidate at index i as the run's name.
func (s *Session) SelectName(i int) error {
	if err := s.requireStage("SelectName", StageNames); err != nil {
		return err
	}
	if i < 0 || i >= len(s.Candidates) {
		return fmt.Errorf("candidate index %d out of range [0,%d)", i, len(s.Candidates))
	}
	c := s.Candidates[i]
	s.SelectedName = &c
	s.setStage(StageNameSelected)
	return nil
}

// AdoptName enters the journey with a name the user already has, skipping
// generation. The adopted name gets the same suffix treatment as a
// generated one.
func (s *Session) AdoptName(title string) error {
	if err := s.requireStage("AdoptName", StageIntake); err != nil {
		return err
	}
	title = genparse.StripCorporateSuffix(strings.TrimSpace(title))
	if title == "" {
		return fmt.Errorf("adopted name is empty")
	}
	s.SelectedName = &types.NameCandidate{Title: title}
	s.markSeen([]string{title})
	s.setStage(StageNameSelected)
	return nil
}

// AdoptPalette enters the color-selected stage with a palette the user
// already has.
func (s *Session) AdoptPalette(p types.ColorPalette) error {
	if err := s.requireStage("AdoptPalette", StageNameSelected); err != nil {
		return err
	}
	p.PrimaryHex = types.NormalizeHex(p.PrimaryHex)
	p.AccentHex = types.NormalizeHex(p.AccentHex)
	if err := p.Validate(); err != nil {
		return fmt.Errorf("adopted palette: %w", err)
	}
	s.SelectedPalette = &p
	s.setStage(StageColorSelected)
	return nil
}

// ExcludeTitles seeds the exclusion set with names the user has already
// seen elsewhere, so the next generation round avoids them.
func (s *Session) ExcludeTitles(titles []string) {
	s.markSeen(titles)
}

// SelectPalette fixes the palette at index i as the run's colors.
func (s *Session) SelectPalette(i int) error {
	if err := s.requireStage("SelectPalette", StageColors); err != nil {
		return err
	}
	if i < 0 || i >= len(s.Palettes) {
		return fmt.Errorf("palette index %d out of range [0,%d)", i, len(s.Palettes))
	}
	p := s.Palettes[i]
	s.SelectedPalette = &p
	s.setStage(StageColorSelected)
	return nil
}

// maxAttempts resolves the configured generation attempt bound.
func (s *Session) maxAttempts() int {
	if s.cfg.AI.MaxAttempts > 0 {
		return s.cfg.AI.MaxAttempts
	}
	return 3
}

// temperature picks the sampling temperature for a given attempt; later
// attempts run hotter to escape repeated contract violations.
func temperature(attempt int) float64 {
	t := 0.8 + 0.1*float64(attempt)
	if t > 1.2 {
		t = 1.2
	}
	return t
}

func (s *Session) warnf(format string, args ...any) {
	fmt.Fprintf(s.progress, "warning: "+format+"\n", args...)
}

func (s *Session) progressf(format string, args ...any) {
	fmt.Fprintf(s.progress, format+"\n", args...)
}

// ScreenLogo runs reverse-image screening for the persisted logo without
// blocking the caller: the image is already presentable, screening arrives
// later on the returned channel. The channel receives exactly one result.
func (s *Session) ScreenLogo(ctx context.Context, imageURL string) (<-chan *types.ScreeningResult, error) {
	if err := s.requireStage("ScreenLogo", StageLogoImage); err != nil {
		return nil, err
	}
	if s.deps.Images == nil {
		return nil, fmt.Errorf("logo screening is not configured")
	}

	ch := make(chan *types.ScreeningResult, 1)
	go func() {
		result := s.deps.Images.ScreenImage(ctx, imageURL)
		s.mu.Lock()
		s.LogoScreening = result
		s.stage = StageLogoScreened
		s.mu.Unlock()
		ch <- result
	}()
	return ch, nil
}
