package design

import (
	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"
)

// HitTest returns the topmost visible layer whose bounds contain p, or nil.
// p is in full-resolution base-image coordinates. The test box is the layer's
// scaled extent centered on its resolved position and ignores rotation: a
// rotated design is still grabbed by its unrotated footprint.
func HitTest(layers []*Layer, index int, p geometry.Point2D, edit EditContext) *Layer {
	ordered := OrderedForPaint(layers)
	for i := len(ordered) - 1; i >= 0; i-- {
		l := ordered[i]
		if !l.Visible || l.Image == nil {
			continue
		}
		if l.HitBox(index, edit).Contains(p) {
			return l
		}
	}
	return nil
}

// HitBox returns the axis-aligned box used to pick this layer on the given
// mockup: the native image size under the resolved uniform and per-axis
// scales, centered on the resolved position.
func (l *Layer) HitBox(index int, edit EditContext) geometry.Rect {
	t := l.EffectiveTransform(index, edit)
	w := float64(l.Width()) * t.Scale * t.ScaleX
	h := float64(l.Height()) * t.Scale * t.ScaleY
	return geometry.RectAround(geometry.Point2D{X: t.X, Y: t.Y}, w, h)
}
