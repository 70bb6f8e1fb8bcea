// Package mockup holds the base images designs are composited onto. A mockup
// is addressed everywhere by its position in the application's mockup list,
// so the list index doubles as the join key for per-mockup overrides.
package mockup

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"
)

// Entry is one imported base image. Entries live for the editor session;
// deleting one from the list shifts every later entry down by an index.
type Entry struct {
	Name  string
	Path  string
	Image image.Image
}

// Load decodes the image at path into a new entry.
func Load(path string) (*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mockup image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mockup image %s: %w", filepath.Base(path), err)
	}

	return &Entry{
		Name:  filepath.Base(path),
		Path:  path,
		Image: img,
	}, nil
}

// Width returns the native pixel width of the base image.
func (e *Entry) Width() int {
	if e.Image == nil {
		return 0
	}
	return e.Image.Bounds().Dx()
}

// Height returns the native pixel height of the base image.
func (e *Entry) Height() int {
	if e.Image == nil {
		return 0
	}
	return e.Image.Bounds().Dy()
}

// Size returns the native size of the base image.
func (e *Entry) Size() geometry.Size {
	return geometry.NewSize(float64(e.Width()), float64(e.Height()))
}

// Center returns the midpoint of the base image, where freshly loaded
// designs are placed.
func (e *Entry) Center() geometry.Point2D {
	return geometry.NewPoint2D(float64(e.Width())/2, float64(e.Height())/2)
}
