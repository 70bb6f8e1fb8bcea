// Package export renders mockups at output resolution and encodes them to
// files or a single archive. The interactive export path runs sequentially;
// the headless tool fans the same jobs out over a worker pool.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	"github.com/NV08hv/canvas-mockup-sub000/internal/archive"
	"github.com/NV08hv/canvas-mockup-sub000/internal/design"
	"github.com/NV08hv/canvas-mockup-sub000/internal/mockup"
	"github.com/NV08hv/canvas-mockup-sub000/internal/render"
	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"
)

// Format selects the output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat validates a format name from a flag or UI selector.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatWebP:
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want png or webp)", s)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Encode writes img in the given format. Both paths are lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
		return nil
	default:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
		return nil
	}
}

// Job is one export pass over a set of mockups with the layers they share.
// Scale multiplies the native base resolution; 1 (or 0) exports full size.
type Job struct {
	Mockups []*mockup.Entry
	Layers  []*design.Layer
	Format  Format
	Scale   float64
}

// TargetSize returns the output surface size for mockup i.
func (j *Job) TargetSize(i int) geometry.Size {
	e := j.Mockups[i]
	scale := j.Scale
	if scale <= 0 {
		scale = 1
	}
	return geometry.NewSize(float64(e.Width())*scale, float64(e.Height())*scale)
}

// RenderOne composites mockup i at output resolution. Edit mode never leaks
// into exports.
func (j *Job) RenderOne(i int) *image.RGBA {
	return render.Render(j.Mockups[i].Image, j.Layers, i, j.TargetSize(i), design.NoEdit())
}

// FileName returns the output name for mockup i, numbered to keep the
// directory listing in mockup order.
func (j *Job) FileName(i int) string {
	name := j.Mockups[i].Name
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" {
		name = "mockup"
	}
	return fmt.Sprintf("%02d-%s%s", i+1, name, j.Format.Ext())
}

// WriteDir renders every mockup into dir. progress may be nil.
func (j *Job) WriteDir(dir string, progress func(done, total int)) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	total := len(j.Mockups)
	for i := range j.Mockups {
		if err := j.writeFile(filepath.Join(dir, j.FileName(i)), i); err != nil {
			return err
		}
		if progress != nil {
			progress(i+1, total)
		}
	}

	if err := writeManifestFile(filepath.Join(dir, "manifest.json"), j); err != nil {
		return err
	}
	return nil
}

// WriteArchive renders every mockup into one zip stream, manifest included.
func (j *Job) WriteArchive(w io.Writer, progress func(done, total int)) error {
	zw := archive.NewWriter(w)

	total := len(j.Mockups)
	for i := range j.Mockups {
		data, err := j.encodeOne(i)
		if err != nil {
			return err
		}
		if err := zw.AddImage(j.FileName(i), data); err != nil {
			return err
		}
		if progress != nil {
			progress(i+1, total)
		}
	}

	if err := zw.AddJSON("manifest.json", BuildManifest(j)); err != nil {
		return err
	}
	return zw.Close()
}

func (j *Job) encodeOne(i int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, j.RenderOne(i), j.Format); err != nil {
		return nil, fmt.Errorf("mockup %d: %w", i, err)
	}
	return buf.Bytes(), nil
}

func (j *Job) writeFile(path string, i int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := Encode(f, j.RenderOne(i), j.Format); err != nil {
		return fmt.Errorf("mockup %d: %w", i, err)
	}
	return nil
}
