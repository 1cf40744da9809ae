// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"regexp"
	"strings"
)

// DomainStatus is the tri-state outcome of a domain availability lookup.
// A lookup that fails for any reason other than a definitive "no such name"
// must report DomainUnknown, never DomainAvailable.
type DomainStatus string

const (
	DomainTaken     DomainStatus = "taken"
	DomainAvailable DomainStatus = "available"
	DomainUnknown   DomainStatus = "unknown"
)

// NameCandidate is one generated business name, enriched by screening.
// Candidates are immutable after display; exactly one becomes the selected
// name for the run.
type NameCandidate struct {
	// Title is the candidate name with trailing corporate designators stripped.
	Title string `json:"title" yaml:"title"`

	// Description explains why the name fits the business.
	Description string `json:"description" yaml:"description"`

	// Domains maps a full domain name (e.g. "acmeyarns.com") to its status.
	Domains map[string]DomainStatus `json:"domains,omitempty" yaml:"domains,omitempty"`

	// TrademarkNotes is the human-readable risk analysis for this candidate.
	TrademarkNotes string `json:"trademark_notes,omitempty" yaml:"trademark_notes,omitempty"`

	// Screening is the raw aggregate screening result, when available.
	Screening *ScreeningResult `json:"screening,omitempty" yaml:"screening,omitempty"`

	// Salvaged marks candidates recovered from a malformed response rather
	// than a strict parse; they are lower-confidence.
	Salvaged bool `json:"salvaged,omitempty" yaml:"salvaged,omitempty"`
}

// hexPattern matches a normalized six-digit hex color with leading marker.
var hexPattern = regexp.MustCompile(`^#[0-9A-F]{6}$`)

// NormalizeHex uppercases a hex color and ensures the leading marker.
func NormalizeHex(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s != "" && !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return s
}

// ValidHex reports whether s is a normalized six-digit hex color.
func ValidHex(s string) bool {
	return hexPattern.MatchString(s)
}

// ColorPalette is one generated primary/accent color pair. A run produces
// exactly five candidates, kept mutually distinct and spread across
// warm/cool/neutral families by prompt instruction.
type ColorPalette struct {
	// PrimaryHex is the dominant brand color, normalized (e.g. "#2E5D4B").
	PrimaryHex string `json:"primary_hex" yaml:"primary_hex"`

	// AccentHex is the secondary color, normalized.
	AccentHex string `json:"accent_hex" yaml:"accent_hex"`

	// Name is the human-readable name pair (e.g. "Forest Green & Cream").
	Name string `json:"name" yaml:"name"`

	// Description is one sentence explaining the pairing.
	Description string `json:"description" yaml:"description"`

	// Fallback marks palettes substituted from the static default list
	// after generation failed.
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Validate checks both hex fields after normalization.
func (p ColorPalette) Validate() error {
	if !ValidHex(NormalizeHex(p.PrimaryHex)) {
		return fmt.Errorf("invalid primary hex %q", p.PrimaryHex)
	}
	if !ValidHex(NormalizeHex(p.AccentHex)) {
		return fmt.Errorf("invalid accent hex %q", p.AccentHex)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("palette name is empty")
	}
	return nil
}

// LogoPrompt is the visual-composition description fed to image generation.
// It carries the selected hex codes so callers can verify the text actually
// references them. The user may edit Text before submission.
type LogoPrompt struct {
	Text       string `json:"text" yaml:"text"`
	PrimaryHex string `json:"primary_hex" yaml:"primary_hex"`
	AccentHex  string `json:"accent_hex" yaml:"accent_hex"`
}

// ReferencesColors reports whether the prompt text mentions both selected
// hex codes.
func (l LogoPrompt) ReferencesColors() bool {
	text := strings.ToUpper(l.Text)
	return strings.Contains(text, NormalizeHex(l.PrimaryHex)) &&
		strings.Contains(text, NormalizeHex(l.AccentHex))
}

// ImageParams are the fixed parameters for logo image generation. The seed
// is chosen per call.
type ImageParams struct {
	Width         int     `json:"width" yaml:"width"`
	Height        int     `json:"height" yaml:"height"`
	GuidanceScale float64 `json:"guidance_scale" yaml:"guidance_scale"`
	Steps         int     `json:"steps" yaml:"steps"`
	Seed          int64   `json:"seed" yaml:"seed"`
}

// DefaultImageParams returns the fixed logo generation parameters.
func DefaultImageParams() ImageParams {
	return ImageParams{Width: 1024, Height: 1024, GuidanceScale: 7.5, Steps: 30}
}
