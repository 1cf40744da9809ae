// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 0x2E, G: 0x5D, B: 0x4B, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func TestPersistPreferredFormat(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	locator, err := store.Persist(pngBytes(t), "png")
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if !strings.HasSuffix(locator, ".png") {
		t.Errorf("locator = %q, want .png suffix", locator)
	}
	if _, err := os.Stat(locator); err != nil {
		t.Errorf("artifact not on disk: %v", err)
	}
	if filepath.Dir(locator) != dir {
		t.Errorf("artifact written outside store dir: %q", locator)
	}
}

func TestPersistFallsBackToJPEG(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	locator, err := store.Persist(pngBytes(t), "webp")
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if !strings.HasSuffix(locator, ".jpg") {
		t.Errorf("locator = %q, want .jpg fallback", locator)
	}
}

func TestPersistRejectsGarbage(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	if _, err := store.Persist([]byte("not an image"), "png"); err == nil {
		t.Fatal("Persist() on non-image bytes should error")
	}
}

func TestPersistLocatorsAreUnique(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	data := pngBytes(t)

	a, err := store.Persist(data, "png")
	if err != nil {
		t.Fatalf("first Persist() error = %v", err)
	}
	b, err := store.Persist(data, "png")
	if err != nil {
		t.Fatalf("second Persist() error = %v", err)
	}
	if a == b {
		t.Errorf("locators collide: %q", a)
	}
}
