// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID           string `json:"id" yaml:"id"`
	CreatedAt    string `json:"created_at" yaml:"created_at"`
	Description  string `json:"description" yaml:"description"`
	SelectedName string `json:"selected_name,omitempty" yaml:"selected_name,omitempty"`
	ImageLocator string `json:"image_locator,omitempty" yaml:"image_locator,omitempty"`
}

// List returns run summaries, newest first.
func (s *Store) List(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, description,
		        COALESCE(selected_name, ''), COALESCE(image_locator, '')
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Description, &r.SelectedName, &r.ImageLocator); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ExportRun is one run with everything shown to the user during it.
type ExportRun struct {
	RunSummary `yaml:",inline"`

	VisualElements []string          `json:"visual_elements,omitempty" yaml:"visual_elements,omitempty"`
	BrandValues    []string          `json:"brand_values,omitempty" yaml:"brand_values,omitempty"`
	PrimaryHex     string            `json:"selected_primary_hex,omitempty" yaml:"selected_primary_hex,omitempty"`
	AccentHex      string            `json:"selected_accent_hex,omitempty" yaml:"selected_accent_hex,omitempty"`
	LogoPrompt     string            `json:"logo_prompt,omitempty" yaml:"logo_prompt,omitempty"`
	Candidates     []ExportCandidate `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Palettes       []ExportPalette   `json:"palettes,omitempty" yaml:"palettes,omitempty"`
}

// ExportCandidate is one name candidate as recorded.
type ExportCandidate struct {
	Round          int               `json:"round" yaml:"round"`
	Title          string            `json:"title" yaml:"title"`
	Description    string            `json:"description,omitempty" yaml:"description,omitempty"`
	Salvaged       bool              `json:"salvaged,omitempty" yaml:"salvaged,omitempty"`
	Domains        map[string]string `json:"domains,omitempty" yaml:"domains,omitempty"`
	TrademarkNotes string            `json:"trademark_notes,omitempty" yaml:"trademark_notes,omitempty"`
}

// ExportPalette is one palette candidate as recorded.
type ExportPalette struct {
	Round       int    `json:"round" yaml:"round"`
	PrimaryHex  string `json:"primary_hex" yaml:"primary_hex"`
	AccentHex   string `json:"accent_hex" yaml:"accent_hex"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Fallback    bool   `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// ExportYAML writes every run to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(runs)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every run to path as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRuns(ctx context.Context) ([]ExportRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, description,
		        COALESCE(selected_name, ''), COALESCE(image_locator, ''),
		        COALESCE(visual_elements, ''), COALESCE(brand_values, ''),
		        COALESCE(selected_primary_hex, ''), COALESCE(selected_accent_hex, ''),
		        COALESCE(logo_prompt, '')
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []ExportRun
	for rows.Next() {
		var (
			r               ExportRun
			visuals, values string
		)
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Description, &r.SelectedName,
			&r.ImageLocator, &visuals, &values, &r.PrimaryHex, &r.AccentHex, &r.LogoPrompt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if visuals != "" {
			_ = json.Unmarshal([]byte(visuals), &r.VisualElements)
		}
		if values != "" {
			_ = json.Unmarshal([]byte(values), &r.BrandValues)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		if err := s.fillRunDetail(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *Store) fillRunDetail(ctx context.Context, run *ExportRun) error {
	crows, err := s.db.QueryContext(ctx,
		`SELECT round, title, COALESCE(description, ''), salvaged,
		        COALESCE(domains, ''), COALESCE(trademark_notes, '')
		 FROM candidates WHERE run_id = ? ORDER BY round, position`, run.ID)
	if err != nil {
		return fmt.Errorf("querying candidates: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var (
			c        ExportCandidate
			salvaged int
			domains  string
		)
		if err := crows.Scan(&c.Round, &c.Title, &c.Description, &salvaged, &domains, &c.TrademarkNotes); err != nil {
			return fmt.Errorf("scanning candidate: %w", err)
		}
		c.Salvaged = salvaged != 0
		if domains != "" {
			_ = json.Unmarshal([]byte(domains), &c.Domains)
		}
		run.Candidates = append(run.Candidates, c)
	}
	if err := crows.Err(); err != nil {
		return err
	}

	prows, err := s.db.QueryContext(ctx,
		`SELECT round, primary_hex, accent_hex, COALESCE(name, ''),
		        COALESCE(description, ''), fallback
		 FROM palettes WHERE run_id = ? ORDER BY round, position`, run.ID)
	if err != nil {
		return fmt.Errorf("querying palettes: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var (
			p        ExportPalette
			fallback int
		)
		if err := prows.Scan(&p.Round, &p.PrimaryHex, &p.AccentHex, &p.Name, &p.Description, &fallback); err != nil {
			return fmt.Errorf("scanning palette: %w", err)
		}
		p.Fallback = fallback != 0
		run.Palettes = append(run.Palettes, p)
	}
	return prows.Err()
}
