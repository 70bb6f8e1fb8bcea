package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/NV08hv/canvas-mockup-sub000/internal/interact"
	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"
)

// Handle furniture is sized in screen pixels so it stays grabbable at any
// zoom; hit tolerances divide the zoom back out to match.
const (
	handleSizePx   = 8.0
	handleGrabPx   = 10.0
	rotateOffsetPx = 28.0
	editFramePx    = 3
)

var (
	selectionColor  = color.RGBA{R: 0x42, G: 0xa5, B: 0xf5, A: 0xff}
	handleFillColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	handleEdgeColor = color.RGBA{R: 0x1c, G: 0x31, B: 0x46, A: 0xff}
	editFrameColor  = color.RGBA{R: 0xff, G: 0x98, B: 0x00, A: 0xff}
)

type handleSpot struct {
	handle interact.Handle
	x, y   float64
}

// handleSpots lists the grab points around a selection box: four corners,
// four edge midpoints and the rotate knob floating above the top edge.
// knobLift is the knob's distance above the box in the same units as box.
func handleSpots(box geometry.Rect, knobLift float64) []handleSpot {
	cx := box.X + box.Width/2
	cy := box.Y + box.Height/2
	x1 := box.X + box.Width
	y1 := box.Y + box.Height

	return []handleSpot{
		{interact.HandleRotate, cx, box.Y - knobLift},
		{interact.HandleCorner, box.X, box.Y},
		{interact.HandleCorner, x1, box.Y},
		{interact.HandleCorner, box.X, y1},
		{interact.HandleCorner, x1, y1},
		{interact.HandleLeft, box.X, cy},
		{interact.HandleRight, x1, cy},
		{interact.HandleTop, cx, box.Y},
		{interact.HandleBottom, cx, y1},
	}
}

// handleAt reports the grab handle under a base-space point, or HandleNone.
// The rotate knob is listed first so it wins over the top edge it floats
// near.
func (ec *EditorCanvas) handleAt(p geometry.Point2D) interact.Handle {
	slot := ec.controller.Selected()
	if slot < 0 || slot >= len(ec.state.Designs) {
		return interact.HandleNone
	}
	l := ec.state.Designs[slot]
	if l == nil || !l.HasImage() || !l.Visible {
		return interact.HandleNone
	}

	box := l.HitBox(ec.state.Current, ec.state.EditContext())
	tol := handleGrabPx / ec.zoom
	lift := rotateOffsetPx / ec.zoom

	for _, spot := range handleSpots(box, lift) {
		if math.Abs(p.X-spot.x) <= tol && math.Abs(p.Y-spot.y) <= tol {
			return spot.handle
		}
	}
	return interact.HandleNone
}

// drawSelectionFurniture paints the edit-mode frame, the dashed selection
// box and its handles onto the composited output. Coordinates scale from
// base space by the output/base pixel ratio.
func (ec *EditorCanvas) drawSelectionFurniture(out *image.RGBA, base geometry.Size) {
	edit := ec.state.EditContext()
	if edit.IsFor(ec.state.Current) {
		drawFrame(out, editFrameColor, editFramePx)
	}

	slot := ec.controller.Selected()
	if slot < 0 || slot >= len(ec.state.Designs) {
		return
	}
	l := ec.state.Designs[slot]
	if l == nil || !l.HasImage() || !l.Visible {
		return
	}
	if base.Width <= 0 || base.Height <= 0 {
		return
	}

	bounds := out.Bounds()
	rx := float64(bounds.Dx()) / base.Width
	ry := float64(bounds.Dy()) / base.Height

	box := l.HitBox(ec.state.Current, edit)
	x0 := int(math.Round(box.X * rx))
	y0 := int(math.Round(box.Y * ry))
	x1 := int(math.Round((box.X + box.Width) * rx))
	y1 := int(math.Round((box.Y + box.Height) * ry))

	drawDashedRect(out, x0, y0, x1, y1, selectionColor)

	cx := (x0 + x1) / 2
	knobY := y0 - int(rotateOffsetPx)
	drawVLine(out, cx, knobY, y0, selectionColor)

	half := int(handleSizePx / 2)
	pixelBox := geometry.NewRect(float64(x0), float64(y0), float64(x1-x0), float64(y1-y0))
	for _, spot := range handleSpots(pixelBox, rotateOffsetPx) {
		hx := int(math.Round(spot.x))
		hy := int(math.Round(spot.y))
		if spot.handle == interact.HandleRotate {
			drawKnob(out, hx, hy, half+1)
			continue
		}
		drawSquare(out, hx, hy, half)
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if x < img.Bounds().Min.X || x >= img.Bounds().Max.X ||
		y < img.Bounds().Min.Y || y >= img.Bounds().Max.Y {
		return
	}
	img.SetRGBA(x, y, c)
}

// drawDashedRect outlines a rectangle with the editor's dash pattern.
func drawDashedRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}

	for x := x0; x <= x1; x++ {
		if (x+y0)%4 < 2 {
			setPixel(img, x, y0, c)
		}
		if (x+y1)%4 < 2 {
			setPixel(img, x, y1, c)
		}
	}
	for y := y0; y <= y1; y++ {
		if (x0+y)%4 < 2 {
			setPixel(img, x0, y, c)
		}
		if (x1+y)%4 < 2 {
			setPixel(img, x1, y, c)
		}
	}
}

func drawVLine(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		setPixel(img, x, y, c)
	}
}

// drawSquare paints a filled handle square with a contrasting border.
func drawSquare(img *image.RGBA, cx, cy, half int) {
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			c := handleFillColor
			if dx == -half || dx == half || dy == -half || dy == half {
				c = handleEdgeColor
			}
			setPixel(img, cx+dx, cy+dy, c)
		}
	}
}

// drawKnob paints the round rotate handle.
func drawKnob(img *image.RGBA, cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d2 := dx*dx + dy*dy
			if d2 > r*r {
				continue
			}
			c := handleFillColor
			if d2 >= (r-1)*(r-1) {
				c = handleEdgeColor
			}
			setPixel(img, cx+dx, cy+dy, c)
		}
	}
}

// drawFrame paints a solid border of the given thickness around the whole
// output, the edit-mode cue.
func drawFrame(img *image.RGBA, c color.RGBA, thickness int) {
	b := img.Bounds()
	for t := 0; t < thickness; t++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			setPixel(img, x, b.Min.Y+t, c)
			setPixel(img, x, b.Max.Y-1-t, c)
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			setPixel(img, b.Min.X+t, y, c)
			setPixel(img, b.Max.X-1-t, y, c)
		}
	}
}
