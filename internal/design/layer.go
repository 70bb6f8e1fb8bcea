package design

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/NV08hv/canvas-mockup-sub000/internal/overrides"
	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"
)

// Slots is the number of design layers a session carries.
const Slots = 2

// Layer is one design overlay. The application owns exactly two slots; Order
// decides stacking (higher paints later, on top). Image stays nil until a
// design file is loaded, and every consumer must tolerate that.
type Layer struct {
	Name    string
	Path    string
	Image   image.Image
	Visible bool
	Order   int

	// Global placement, used by every mockup that has no override.
	Transform Transform
	Blend     BlendMode

	// Sparse per-mockup state, keyed by mockup index.
	TransformOverrides overrides.Map[Transform]
	BlendOverrides     overrides.Map[BlendMode]
	PositionOffsets    overrides.Map[geometry.Point2D]
}

// NewLayer returns an empty, visible layer at the given stacking order.
func NewLayer(order int) *Layer {
	return &Layer{
		Visible:   true,
		Order:     order,
		Transform: DefaultTransform(),
		Blend:     BlendNormal,
	}
}

// Load decodes the image at path into the layer.
func (l *Layer) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open design image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode design image %s: %w", filepath.Base(path), err)
	}

	l.Image = img
	l.Path = path
	l.Name = filepath.Base(path)
	return nil
}

// ClearImage drops the loaded design and every per-mockup override tied to it.
func (l *Layer) ClearImage() {
	l.Image = nil
	l.Path = ""
	l.Name = ""
	l.TransformOverrides.Clear()
	l.BlendOverrides.Clear()
	l.PositionOffsets.Clear()
}

// HasImage reports whether a design is loaded into this slot.
func (l *Layer) HasImage() bool {
	return l.Image != nil
}

// Width returns the native pixel width of the loaded design, or 0.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the native pixel height of the loaded design, or 0.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// ResetOverrides removes every per-mockup customization for one mockup,
// returning it to the global look.
func (l *Layer) ResetOverrides(index int) {
	l.TransformOverrides.Delete(index)
	l.BlendOverrides.Delete(index)
	l.PositionOffsets.Delete(index)
}

// OnMockupRemoved re-keys all three override maps after a mockup deletion.
func (l *Layer) OnMockupRemoved(removed int) {
	l.TransformOverrides.OnEntryRemoved(removed)
	l.BlendOverrides.OnEntryRemoved(removed)
	l.PositionOffsets.OnEntryRemoved(removed)
}

// OrderedForPaint returns the layers sorted bottom-to-top for painting.
// Equal orders keep their slice positions, so the paint order and the hit
// order (its reverse) can never disagree.
func OrderedForPaint(layers []*Layer) []*Layer {
	sorted := make([]*Layer, len(layers))
	copy(sorted, layers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// EditContext says whether edits are scoped to a single mockup. It is passed
// explicitly into every resolve call rather than read from shared state, so
// renders for other mockups stay unaffected by the editor's mode.
type EditContext struct {
	Active bool
	Mockup int
}

// NoEdit returns the context used outside edit mode.
func NoEdit() EditContext {
	return EditContext{}
}

// EditOf returns the context for editing one mockup. Entering edit mode for a
// new mockup is plain reassignment, so at most one is ever active.
func EditOf(index int) EditContext {
	return EditContext{Active: true, Mockup: index}
}

// IsFor reports whether edit mode is active for the given mockup index.
func (e EditContext) IsFor(index int) bool {
	return e.Active && e.Mockup == index
}
