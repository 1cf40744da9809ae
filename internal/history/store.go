// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists brand-generation runs: the brief, every
// candidate shown, the selections made, and the resulting logo. The
// pipeline does not depend on it; the CLI records transitions as they
// happen.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/pdiddy/brand-engine/pkg/types"
)

const dbFile = "brand.db"

// Store manages the run history SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// Open opens or creates the history database under cfg.DataDir, creating
// the schema if it does not exist.
func Open(cfg types.HistoryConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = filepath.Join("data", "history")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			description TEXT NOT NULL,
			visual_elements TEXT,
			brand_values TEXT,
			selected_name TEXT,
			selected_primary_hex TEXT,
			selected_accent_hex TEXT,
			logo_prompt TEXT,
			image_locator TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			run_id TEXT NOT NULL REFERENCES runs(id),
			round INTEGER NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			salvaged INTEGER NOT NULL DEFAULT 0,
			domains TEXT,
			trademark_notes TEXT,
			PRIMARY KEY (run_id, round, position)
		)`,
		`CREATE TABLE IF NOT EXISTS palettes (
			run_id TEXT NOT NULL REFERENCES runs(id),
			round INTEGER NOT NULL,
			position INTEGER NOT NULL,
			primary_hex TEXT NOT NULL,
			accent_hex TEXT NOT NULL,
			name TEXT,
			description TEXT,
			fallback INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, round, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_run ON candidates(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_palettes_run ON palettes(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// StartRun records a new run for the brief and returns its identifier.
func (s *Store) StartRun(ctx context.Context, brief types.BusinessBrief) (string, error) {
	id := ulid.Make().String()
	visuals, _ := json.Marshal(brief.VisualElements)
	values, _ := json.Marshal(brief.BrandValues)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, description, visual_elements, brand_values)
		 VALUES (?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), brief.Description,
		string(visuals), string(values))
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// RecordCandidates stores one round of name candidates. Rounds count from
// zero; a refresh records the next round without touching earlier ones.
func (s *Store) RecordCandidates(ctx context.Context, runID string, round int, candidates []types.NameCandidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO candidates
		 (run_id, round, position, title, description, salvaged, domains, trademark_notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range candidates {
		domains, _ := json.Marshal(c.Domains)
		salvaged := 0
		if c.Salvaged {
			salvaged = 1
		}
		if _, err := stmt.ExecContext(ctx, runID, round, i,
			c.Title, c.Description, salvaged, string(domains), c.TrademarkNotes); err != nil {
			return fmt.Errorf("inserting candidate %q: %w", c.Title, err)
		}
	}
	return tx.Commit()
}

// RecordPalettes stores one round of palette candidates.
func (s *Store) RecordPalettes(ctx context.Context, runID string, round int, palettes []types.ColorPalette) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO palettes
		 (run_id, round, position, primary_hex, accent_hex, name, description, fallback)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range palettes {
		fallback := 0
		if p.Fallback {
			fallback = 1
		}
		if _, err := stmt.ExecContext(ctx, runID, round, i,
			p.PrimaryHex, p.AccentHex, p.Name, p.Description, fallback); err != nil {
			return fmt.Errorf("inserting palette %q: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

// RecordNameSelection stores which candidate the user chose.
func (s *Store) RecordNameSelection(ctx context.Context, runID, title string) error {
	return s.updateRun(ctx, runID, `UPDATE runs SET selected_name = ? WHERE id = ?`, title)
}

// RecordPaletteSelection stores which palette the user chose.
func (s *Store) RecordPaletteSelection(ctx context.Context, runID string, p types.ColorPalette) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET selected_primary_hex = ?, selected_accent_hex = ? WHERE id = ?`,
		p.PrimaryHex, p.AccentHex, runID)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", runID, err)
	}
	return requireRow(res, runID)
}

// RecordLogo stores the final prompt text and the persisted image locator.
func (s *Store) RecordLogo(ctx context.Context, runID, promptText, locator string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET logo_prompt = ?, image_locator = ? WHERE id = ?`,
		promptText, locator, runID)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", runID, err)
	}
	return requireRow(res, runID)
}

func (s *Store) updateRun(ctx context.Context, runID, query string, arg any) error {
	res, err := s.db.ExecContext(ctx, query, arg, runID)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", runID, err)
	}
	return requireRow(res, runID)
}

func requireRow(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}
