package mockup

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "base.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create temp image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode temp image: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestPNG(t, 640, 480)

	e, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e.Width() != 640 || e.Height() != 480 {
		t.Errorf("size = %dx%d, want 640x480", e.Width(), e.Height())
	}
	if e.Name != "base.png" {
		t.Errorf("Name = %q, want base.png", e.Name)
	}
	if c := e.Center(); c.X != 320 || c.Y != 240 {
		t.Errorf("Center = %v, want (320, 240)", c)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("Load of a missing file should fail")
	}
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load of a non-image should fail")
	}
}
