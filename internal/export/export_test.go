package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/NV08hv/canvas-mockup-sub000/internal/design"
	"github.com/NV08hv/canvas-mockup-sub000/internal/mockup"
)

func testJob(t *testing.T, format Format, names ...string) *Job {
	t.Helper()
	entries := make([]*mockup.Entry, len(names))
	for i, n := range names {
		img := image.NewRGBA(image.Rect(0, 0, 8, 6))
		for y := 0; y < 6; y++ {
			for x := 0; x < 8; x++ {
				img.SetRGBA(x, y, color.RGBA{uint8(40 * i), 90, 120, 255})
			}
		}
		entries[i] = &mockup.Entry{Name: n, Image: img}
	}

	layer := design.NewLayer(0)
	layer.Image = image.NewRGBA(image.Rect(0, 0, 2, 2))
	layer.Transform = design.Transform{X: 4, Y: 3, Scale: 1, ScaleX: 1, ScaleY: 1, Opacity: 100}

	return &Job{
		Mockups: entries,
		Layers:  []*design.Layer{layer},
		Format:  format,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{"webp", FormatWebP, false},
		{"jpeg", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	j := testJob(t, FormatWebP, "tee-front.jpg", "hoodie.png", "")

	tests := []struct {
		i    int
		want string
	}{
		{0, "01-tee-front.webp"},
		{1, "02-hoodie.webp"},
		{2, "03-mockup.webp"},
	}
	for _, tt := range tests {
		if got := j.FileName(tt.i); got != tt.want {
			t.Errorf("FileName(%d) = %q, want %q", tt.i, got, tt.want)
		}
	}
}

func TestWriteDir(t *testing.T) {
	j := testJob(t, FormatPNG, "a.png", "b.png")
	dir := t.TempDir()

	var calls int
	if err := j.WriteDir(dir, func(done, total int) { calls++ }); err != nil {
		t.Fatalf("WriteDir: %v", err)
	}
	if calls != 2 {
		t.Errorf("progress called %d times, want 2", calls)
	}

	f, err := os.Open(filepath.Join(dir, "01-a.png"))
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode exported png: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("export size = %v, want native 8x6", img.Bounds())
	}

	var m Manifest
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest not valid JSON: %v", err)
	}
	if m.Count != 2 || m.Entries[1].Image != "02-b.png" {
		t.Errorf("manifest = %+v", m)
	}
}

func TestWriteDirHonorsScale(t *testing.T) {
	j := testJob(t, FormatPNG, "a.png")
	j.Scale = 0.5
	dir := t.TempDir()

	if err := j.WriteDir(dir, nil); err != nil {
		t.Fatalf("WriteDir: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "01-a.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Errorf("scaled export = %v, want 4x3", img.Bounds())
	}
}

func TestWriteArchive(t *testing.T) {
	j := testJob(t, FormatPNG, "a.png", "b.png", "c.png")

	var buf bytes.Buffer
	if err := j.WriteArchive(&buf, nil); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reopen archive: %v", err)
	}
	if len(r.File) != 4 {
		t.Fatalf("archive has %d entries, want 3 images + manifest", len(r.File))
	}
	if r.File[3].Name != "manifest.json" {
		t.Errorf("last entry = %q, want manifest.json", r.File[3].Name)
	}
}

func TestRunParallel(t *testing.T) {
	j := testJob(t, FormatPNG, "a.png", "b.png", "c.png", "d.png", "e.png")
	dir := t.TempDir()

	results, err := RunParallel(j, dir, 3)
	if err != nil {
		t.Fatalf("RunParallel: %v", err)
	}
	for _, res := range results {
		if !res.Success {
			t.Errorf("mockup %d failed: %s", res.Index, res.Error)
		}
		if _, err := os.Stat(filepath.Join(dir, res.File)); err != nil {
			t.Errorf("missing output %s: %v", res.File, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "manifest.json")); err != nil {
		t.Error("manifest.json not written")
	}
}

func TestEncodeWebP(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := Encode(&buf, img, FormatWebP); err != nil {
		t.Fatalf("Encode webp: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("webp encoder produced no bytes")
	}
}
