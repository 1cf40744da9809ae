// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the brand-engine pipeline.
package types

import (
	"fmt"
	"strings"
)

// Limits on user-supplied brief fields. The description bound keeps the
// generation prompt focused; the keyword bounds match what the prompts
// can usefully incorporate.
const (
	MaxDescriptionWords = 60
	MaxVisualElements   = 2
	MaxBrandValues      = 2
)

// BusinessBrief captures the user's description of the business at intake.
// It is immutable once a pipeline run starts; the user re-enters it only by
// restarting the journey.
type BusinessBrief struct {
	// Description is a short free-text description of the business.
	Description string `json:"description" yaml:"description"`

	// VisualElements lists up to two concrete visual motifs the user wants
	// in the logo (e.g. "knitting needle").
	VisualElements []string `json:"visual_elements,omitempty" yaml:"visual_elements,omitempty"`

	// BrandValues lists up to two brand-value keywords (e.g. "warmth").
	BrandValues []string `json:"brand_values,omitempty" yaml:"brand_values,omitempty"`
}

// Validate checks the brief against the intake bounds.
func (b BusinessBrief) Validate() error {
	desc := strings.TrimSpace(b.Description)
	if desc == "" {
		return fmt.Errorf("business description is required")
	}
	if n := len(strings.Fields(desc)); n > MaxDescriptionWords {
		return fmt.Errorf("business description has %d words, maximum is %d", n, MaxDescriptionWords)
	}
	if len(b.VisualElements) > MaxVisualElements {
		return fmt.Errorf("at most %d visual elements allowed, got %d", MaxVisualElements, len(b.VisualElements))
	}
	if len(b.BrandValues) > MaxBrandValues {
		return fmt.Errorf("at most %d brand values allowed, got %d", MaxBrandValues, len(b.BrandValues))
	}
	return nil
}

// Keywords returns the visual elements and brand values as one list,
// with empty entries dropped.
func (b BusinessBrief) Keywords() []string {
	var out []string
	for _, k := range append(append([]string{}, b.VisualElements...), b.BrandValues...) {
		if s := strings.TrimSpace(k); s != "" {
			out = append(out, s)
		}
	}
	return out
}
