// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genparse

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DumpRaw persists a raw backend response that defeated both strict parsing
// and salvage, so the failure can be diagnosed after the fact. Returns the
// path written.
func DumpRaw(dir, stage, raw string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating dump directory: %w", err)
	}
	name := fmt.Sprintf("%s-%s.txt", stage, time.Now().Format("20060102-150405.000000000"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		return "", fmt.Errorf("writing dump %s: %w", path, err)
	}
	return path, nil
}
