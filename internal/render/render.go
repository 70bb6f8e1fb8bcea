// Package render composites design layers onto mockup base images. The same
// placement arithmetic drives scaled previews and full-resolution exports, so
// the two can never drift apart.
package render

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/NV08hv/canvas-mockup-sub000/internal/design"
	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"
)

// Placement is a layer transform resolved into target-surface pixels: the
// center position, the combined per-axis scale factors, rotation in degrees
// and opacity as a 0..1 fraction.
type Placement struct {
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
	Opacity        float64
}

// PlacementFor converts a base-image-space transform into target pixels.
// Positions and extents scale by the target/base ratio per axis; preview
// surfaces keep the base aspect, so the ratio is uniform there, and exports
// render 1:1.
func PlacementFor(t design.Transform, base, target geometry.Size) Placement {
	rx, ry := 1.0, 1.0
	if base.Width > 0 && base.Height > 0 {
		rx = target.Width / base.Width
		ry = target.Height / base.Height
	}
	return Placement{
		X:        t.X * rx,
		Y:        t.Y * ry,
		ScaleX:   t.Scale * t.ScaleX * rx,
		ScaleY:   t.Scale * t.ScaleY * ry,
		Rotation: t.Rotation,
		Opacity:  t.Opacity / 100,
	}
}

// Render composites the visible layers over the base image for one mockup
// index at the given surface size. Layers paint bottom-to-top; layers without
// a loaded image are skipped, never an error.
func Render(base image.Image, layers []*design.Layer, index int, target geometry.Size, edit design.EditContext) *image.RGBA {
	w := int(math.Round(target.Width))
	h := int(math.Round(target.Height))
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))

	baseSize := target
	if base != nil {
		b := base.Bounds()
		baseSize = geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
		xdraw.ApproxBiLinear.Scale(out, out.Bounds(), base, b, xdraw.Src, nil)
	}

	for _, l := range design.OrderedForPaint(layers) {
		if !l.Visible || l.Image == nil {
			continue
		}
		t := l.EffectiveTransform(index, edit)
		p := PlacementFor(t, baseSize, target)
		paintLayer(out, l.Image, p, l.EffectiveBlend(index))
	}

	return out
}

// PreviewSize returns the surface size for previewing a base image inside
// bounds, preserving aspect, together with the preview/base scale ratio.
func PreviewSize(base geometry.Size, bounds geometry.Size) (geometry.Size, float64) {
	fitted, ratio := base.FitWithin(bounds)
	fitted.Width = math.Max(1, math.Round(fitted.Width))
	fitted.Height = math.Max(1, math.Round(fitted.Height))
	return fitted, ratio
}

// paintLayer draws src onto dst at the given placement. Each destination
// pixel inside the transformed bounding box is mapped back through the
// inverse transform and nearest-sampled, then blended.
func paintLayer(dst *image.RGBA, src image.Image, p Placement, mode design.BlendMode) {
	if p.Opacity <= 0 || p.ScaleX <= 0 || p.ScaleY <= 0 {
		return
	}

	srcBounds := src.Bounds()
	srcW := float64(srcBounds.Dx())
	srcH := float64(srcBounds.Dy())
	if srcW == 0 || srcH == 0 {
		return
	}

	radians := p.Rotation * math.Pi / 180
	forward := geometry.Translation(p.X, p.Y).
		Compose(geometry.Rotation(radians)).
		Compose(geometry.Scale(p.ScaleX, p.ScaleY)).
		Compose(geometry.Translation(-srcW/2, -srcH/2))
	inverse, ok := forward.Inverse()
	if !ok {
		return
	}

	// Walk only the pixels the transformed source can reach.
	srcRect := geometry.NewRect(0, 0, srcW, srcH).Corners()
	mapped := make([]geometry.Point2D, 0, 4)
	for _, c := range srcRect {
		mapped = append(mapped, forward.Apply(c))
	}
	box := geometry.BoundingBox(mapped)

	dstBounds := dst.Bounds()
	x0 := maxInt(dstBounds.Min.X, int(math.Floor(box.X)))
	y0 := maxInt(dstBounds.Min.Y, int(math.Floor(box.Y)))
	x1 := minInt(dstBounds.Max.X, int(math.Ceil(box.X+box.Width))+1)
	y1 := minInt(dstBounds.Max.Y, int(math.Ceil(box.Y+box.Height))+1)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			sp := inverse.Apply(geometry.Point2D{X: float64(x), Y: float64(y)})
			u := int(math.Floor(sp.X))
			v := int(math.Floor(sp.Y))
			if u < 0 || u >= int(srcW) || v < 0 || v >= int(srcH) {
				continue
			}

			srcColor := src.At(srcBounds.Min.X+u, srcBounds.Min.Y+v)
			if _, _, _, a := srcColor.RGBA(); a == 0 {
				continue
			}

			dst.SetRGBA(x, y, blend(dst.RGBAAt(x, y), srcColor, mode, p.Opacity))
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
