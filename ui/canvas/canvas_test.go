package canvas

import (
	"image"
	"testing"

	"github.com/NV08hv/canvas-mockup-sub000/internal/app"
	"github.com/NV08hv/canvas-mockup-sub000/internal/interact"
	"github.com/NV08hv/canvas-mockup-sub000/internal/mockup"
	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

// testCanvas builds a canvas over one 200x100 mockup with a 40x20 design
// centered at (100,50), so the design's hit box spans x 80..120, y 40..60.
func testCanvas(t *testing.T) (*app.State, *EditorCanvas) {
	t.Helper()
	test.NewApp()

	s := app.NewState()
	s.Mockups = append(s.Mockups, &mockup.Entry{
		Name:  "base.png",
		Image: image.NewRGBA(image.Rect(0, 0, 200, 100)),
	})

	l := s.Designs[0]
	l.Image = image.NewRGBA(image.Rect(0, 0, 40, 20))
	tr := l.Transform
	tr.X, tr.Y = 100, 50
	l.Transform = tr

	ec := NewEditorCanvas(s, interact.New(s))
	ec.updateContentSize()
	return s, ec
}

func tap(ec *EditorCanvas, x, y float32) {
	ec.content.Tapped(&fyne.PointEvent{Position: fyne.NewPos(x, y)})
}

func drag(ec *EditorCanvas, x, y, dx, dy float32) {
	ec.content.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Dragged:    fyne.Delta{DX: dx, DY: dy},
	})
}

func TestTapSelectsAndDeselects(t *testing.T) {
	_, ec := testCanvas(t)

	tap(ec, 100, 50)
	if got := ec.controller.Selected(); got != 0 {
		t.Fatalf("Selected after hit = %d, want 0", got)
	}

	tap(ec, 10, 90)
	if got := ec.controller.Selected(); got != -1 {
		t.Fatalf("Selected after miss = %d, want -1", got)
	}
}

func TestTapOutsideBoundsIgnored(t *testing.T) {
	_, ec := testCanvas(t)

	tap(ec, 100, 50)
	tap(ec, -5, 50)
	if got := ec.controller.Selected(); got != 0 {
		t.Fatalf("out-of-bounds tap changed selection to %d", got)
	}
}

func TestDragWritesPositionOffset(t *testing.T) {
	s, ec := testCanvas(t)

	// First event synthesizes the press at position minus delta.
	drag(ec, 105, 50, 5, 0)
	drag(ec, 120, 50, 15, 0)
	ec.content.DragEnd()

	off, ok := s.Designs[0].PositionOffsets.Get(0)
	if !ok {
		t.Fatal("drag wrote no position offset")
	}
	want := geometry.NewPoint2D(120, 50)
	if off != want {
		t.Fatalf("offset = %v, want %v", off, want)
	}
	if ec.dragging {
		t.Fatal("dragging flag still set after DragEnd")
	}
}

func TestDragStartingOnHandleScalesAxis(t *testing.T) {
	s, ec := testCanvas(t)

	// Zoom in so handle grab zones cannot overlap on the small test box.
	ec.SetZoom(4)
	tap(ec, 400, 200)
	if ec.controller.Selected() != 0 {
		t.Fatal("selection missing before handle drag")
	}

	// Press on the right edge midpoint, base (120,50), and pull to (140,50).
	drag(ec, 484, 200, 4, 0)
	drag(ec, 560, 200, 76, 0)
	ec.content.DragEnd()

	if got := s.Designs[0].Transform.ScaleX; got != 2 {
		t.Fatalf("ScaleX = %v, want 2", got)
	}
	if got := s.Designs[0].Transform.X; got != 100 {
		t.Fatalf("stretch moved the design, X = %v", got)
	}
}

func TestCancelActiveDragRestores(t *testing.T) {
	s, ec := testCanvas(t)

	drag(ec, 105, 50, 5, 0)
	if !ec.CancelActiveDrag() {
		t.Fatal("CancelActiveDrag reported nothing to cancel mid-drag")
	}
	if s.Designs[0].PositionOffsets.Has(0) {
		t.Fatal("cancel left the fresh offset behind")
	}
	if ec.dragging {
		t.Fatal("dragging flag survived cancel")
	}

	if ec.CancelActiveDrag() {
		t.Fatal("CancelActiveDrag reported work while idle")
	}
}

func TestMouseOutEndsDrag(t *testing.T) {
	s, ec := testCanvas(t)

	drag(ec, 105, 50, 5, 0)
	ec.content.MouseOut()

	if ec.dragging {
		t.Fatal("dragging flag survived MouseOut")
	}
	off, ok := s.Designs[0].PositionOffsets.Get(0)
	if !ok || off.X != 105 {
		t.Fatalf("offset after leave = %v (ok=%v), want X 105", off, ok)
	}
}

func TestWheelZoomsViewWithoutSelection(t *testing.T) {
	_, ec := testCanvas(t)

	ec.wheel(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 25}})
	if got := ec.Zoom(); got != 1.25 {
		t.Fatalf("zoom = %v, want 1.25", got)
	}

	ec.wheel(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -25}})
	if got := ec.Zoom(); got != 1.0 {
		t.Fatalf("zoom after out = %v, want 1.0", got)
	}
}

func TestWheelScalesSelectedDesign(t *testing.T) {
	s, ec := testCanvas(t)

	tap(ec, 100, 50)
	ec.wheel(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 50)},
		Scrolled:   fyne.Delta{DY: 25},
	})

	if got := s.Designs[0].Transform.Scale; got != 1.05 {
		t.Fatalf("design scale = %v, want 1.05", got)
	}
	if got := ec.Zoom(); got != 1.0 {
		t.Fatalf("view zoom moved to %v during design scaling", got)
	}
}

func TestWheelWithViewModifierZoomsView(t *testing.T) {
	s, ec := testCanvas(t)
	ec.SetModifierSource(func() interact.Modifiers { return interact.ModView })

	tap(ec, 100, 50)
	ec.wheel(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 50)},
		Scrolled:   fyne.Delta{DY: 25},
	})

	if got := s.Designs[0].Transform.Scale; got != 1.0 {
		t.Fatalf("design scale = %v, want untouched 1.0", got)
	}
	if got := ec.Zoom(); got != 1.25 {
		t.Fatalf("view zoom = %v, want 1.25", got)
	}
}

func TestHandleAtMapsFurniture(t *testing.T) {
	_, ec := testCanvas(t)
	ec.controller.Select(0)

	// At zoom 4 the grab tolerance shrinks to 2.5 base units and the knob
	// lift to 7, so neighboring handle zones on the small box stay apart.
	ec.SetZoom(4)

	cases := []struct {
		name string
		p    geometry.Point2D
		want interact.Handle
	}{
		{"rotate knob", geometry.NewPoint2D(100, 33), interact.HandleRotate},
		{"top-left corner", geometry.NewPoint2D(80, 40), interact.HandleCorner},
		{"left edge", geometry.NewPoint2D(80, 50), interact.HandleLeft},
		{"bottom edge", geometry.NewPoint2D(100, 60), interact.HandleBottom},
		{"nowhere", geometry.NewPoint2D(10, 95), interact.HandleNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ec.handleAt(tc.p); got != tc.want {
				t.Fatalf("handleAt(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestHandleAtWithoutSelection(t *testing.T) {
	_, ec := testCanvas(t)

	if got := ec.handleAt(geometry.NewPoint2D(80, 40)); got != interact.HandleNone {
		t.Fatalf("handleAt with no selection = %v, want HandleNone", got)
	}
}

func TestBasePointDividesZoom(t *testing.T) {
	_, ec := testCanvas(t)
	ec.SetZoom(2)

	got := ec.basePoint(fyne.NewPos(100, 60))
	want := geometry.NewPoint2D(50, 30)
	if got != want {
		t.Fatalf("basePoint = %v, want %v", got, want)
	}
}

func TestZoomClampsToLimits(t *testing.T) {
	_, ec := testCanvas(t)

	ec.SetZoom(100)
	if got := ec.Zoom(); got != maxZoom {
		t.Fatalf("zoom = %v, want clamped to %v", got, maxZoom)
	}
	ec.SetZoom(0.001)
	if got := ec.Zoom(); got != minZoom {
		t.Fatalf("zoom = %v, want clamped to %v", got, minZoom)
	}
}

func TestDrawCompositesCurrentMockup(t *testing.T) {
	_, ec := testCanvas(t)

	out := ec.draw(200, 100)
	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 100 {
		t.Fatalf("draw size = %v", out.Bounds())
	}
}

func TestDrawWithoutMockupsPaintsEmptySurface(t *testing.T) {
	s, ec := testCanvas(t)
	s.Mockups = nil

	out := ec.draw(64, 48)
	if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 48 {
		t.Fatalf("empty surface size = %v", out.Bounds())
	}
}
