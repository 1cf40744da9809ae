// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStripCorporateSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Woolhaven", "Woolhaven"},
		{"Woolhaven LLC", "Woolhaven"},
		{"Woolhaven, Inc.", "Woolhaven"},
		{"Acme & Co", "Acme"},
		{"Hearthspun Studio", "Hearthspun"},
		{"Loopline Yarn Company", "Loopline Yarn"},
		{"Knitwick Holdings Ltd", "Knitwick"},
		{"Co", "Co"},   // never strip to nothing
		{"Co Co", "Co"},
		{"  spaced   out  Inc ", "spaced out"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := StripCorporateSuffix(tt.in); got != tt.want {
				t.Errorf("StripCorporateSuffix(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripCorporateSuffixIdempotent(t *testing.T) {
	inputs := []string{
		"Woolhaven LLC", "Acme & Co", "Purl & Ember Studios Inc",
		"Plain Name", "Co", "Knitwick Limited Company",
	}
	for _, in := range inputs {
		once := StripCorporateSuffix(in)
		twice := StripCorporateSuffix(once)
		if once != twice {
			t.Errorf("not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestDumpRaw(t *testing.T) {
	dir := t.TempDir()
	path, err := DumpRaw(dir, "names", "raw model output")
	if err != nil {
		t.Fatalf("DumpRaw() error = %v", err)
	}
	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "names-") {
		t.Errorf("unexpected dump path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}
	if string(data) != "raw model output" {
		t.Errorf("dump contents = %q", data)
	}
}
