// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact persists generated binary artifacts and hands back opaque
// locators. Callers never assume a locator is a filesystem path.
package artifact

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Store persists one artifact and returns its locator.
type Store interface {
	Persist(data []byte, preferredFormat string) (string, error)
}

// LocalStore writes artifacts into a directory, one file per artifact,
// named by a fresh ULID.
type LocalStore struct {
	Dir string
}

// NewLocalStore builds a store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir}
}

// jpegQuality is the quality used for the fallback encode.
const jpegQuality = 90

// Persist decodes the image bytes, re-encodes them in the preferred format,
// and writes the result. When the preferred encode fails, the artifact is
// re-encoded as JPEG instead of being lost; the returned locator reflects
// the format actually written.
func (s *LocalStore) Persist(data []byte, preferredFormat string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating artifact directory: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding artifact image: %w", err)
	}

	format := strings.ToLower(strings.TrimSpace(preferredFormat))
	if format == "" {
		format = "png"
	}

	var buf bytes.Buffer
	ext := format
	if err := encode(&buf, img, format); err != nil {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return "", fmt.Errorf("fallback jpeg encode: %w", err)
		}
		ext = "jpg"
	}

	name := strings.ToLower(ulid.Make().String()) + "." + ext
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing artifact %s: %w", path, err)
	}
	return path, nil
}

func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
