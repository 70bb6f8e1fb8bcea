// Package canvas provides the interactive editor surface: the current mockup
// with both designs composited live, plus selection handles and drag, wheel
// and zoom input.
package canvas

import (
	"image"

	"github.com/NV08hv/canvas-mockup-sub000/internal/app"
	"github.com/NV08hv/canvas-mockup-sub000/internal/interact"
	"github.com/NV08hv/canvas-mockup-sub000/internal/render"
	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.05
	maxZoom  = 8.0
	zoomStep = 1.25
)

// EditorCanvas displays the current mockup and routes pointer input to the
// interaction controller. All model coordinates handed to the controller are
// in full-resolution base-image space; the conversion happens here and only
// here.
type EditorCanvas struct {
	widget.BaseWidget

	state      *app.State
	controller *interact.Controller

	raster *fynecanvas.Raster
	zoom   float64

	scroll  *zoomScroll
	content *editorContent
	imgSize fyne.Size

	fitToWindow    bool
	lastScrollSize fyne.Size

	// True between the first Dragged event of a gesture and DragEnd.
	dragging bool

	// Snapshot of held modifier keys, fed by the window's key handlers.
	// Fyne drag and scroll events do not carry modifiers themselves.
	mods func() interact.Modifiers

	onZoomChange func(zoom float64)
	onContext    func(at fyne.Position)
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom when
// the pointer is outside the image content.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *EditorCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *EditorCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// editorContent wraps the raster to receive pointer events.
type editorContent struct {
	widget.BaseWidget
	canvas *EditorCanvas
	raster *fynecanvas.Raster
}

func newEditorContent(ec *EditorCanvas, raster *fynecanvas.Raster) *editorContent {
	dc := &editorContent{canvas: ec, raster: raster}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *editorContent) CreateRenderer() fyne.WidgetRenderer {
	return &editorContentRenderer{content: dc}
}

func (dc *editorContent) MinSize() fyne.Size {
	return dc.raster.MinSize()
}

// Dragged drives the controller's drag machine. Fyne has no separate press
// event for draggables, so the first Dragged of a sequence doubles as the
// pointer-down: the press point is recovered by backing out the delta.
func (dc *editorContent) Dragged(ev *fyne.DragEvent) {
	ec := dc.canvas
	pos := ec.basePoint(ev.Position)

	if !ec.dragging {
		ec.dragging = true
		press := fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
		start := ec.basePoint(press)

		if h := ec.handleAt(start); h != interact.HandleNone {
			ec.controller.HandleDown(h, start)
		} else {
			ec.controller.PointerDown(start, ec.modifiers())
		}
	}

	ec.controller.PointerMove(pos, ec.modifiers())
	ec.Refresh()
}

func (dc *editorContent) DragEnd() {
	dc.canvas.dragging = false
	dc.canvas.controller.PointerUp()
	dc.canvas.Refresh()
}

func (dc *editorContent) MouseIn(*desktop.MouseEvent) {}

func (dc *editorContent) MouseMoved(*desktop.MouseEvent) {}

// MouseOut covers the drag that slides off the surface and never reports its
// end; the controller treats it as a pointer-up.
func (dc *editorContent) MouseOut() {
	if dc.canvas.dragging {
		dc.canvas.dragging = false
		dc.canvas.controller.PointerLeave()
		dc.canvas.Refresh()
	}
}

func (dc *editorContent) Scrolled(ev *fyne.ScrollEvent) {
	dc.canvas.wheel(ev)
}

// Tapped selects the design under the pointer, or clears the selection on a
// miss. A tap is a zero-length drag as far as the controller is concerned.
func (dc *editorContent) Tapped(ev *fyne.PointEvent) {
	// Reject clicks outside widget bounds, events can leak through scroll.
	size := dc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	ec := dc.canvas
	if ec.controller.PointerDown(ec.basePoint(ev.Position), ec.modifiers()) {
		ec.controller.PointerUp()
	}
	ec.Refresh()
}

// TappedSecondary selects whatever is under the pointer, then asks the
// window to show the context menu at the cursor.
func (dc *editorContent) TappedSecondary(ev *fyne.PointEvent) {
	ec := dc.canvas
	if ec.onContext == nil {
		return
	}
	size := dc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	if ec.controller.PointerDown(ec.basePoint(ev.Position), ec.modifiers()) {
		ec.controller.PointerUp()
		ec.Refresh()
	}
	ec.onContext(ev.AbsolutePosition)
}

type editorContentRenderer struct {
	content *editorContent
}

func (r *editorContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *editorContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *editorContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *editorContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *editorContentRenderer) Destroy() {}

// NewEditorCanvas creates the editor surface over the shared state. The
// canvas subscribes to the state events that invalidate its pixels, so every
// mutation path repaints without the mutator knowing about the canvas.
func NewEditorCanvas(state *app.State, controller *interact.Controller) *EditorCanvas {
	ec := &EditorCanvas{
		state:      state,
		controller: controller,
		zoom:       1.0,
		imgSize:    fyne.NewSize(480, 360),
		mods:       func() interact.Modifiers { return 0 },
	}

	ec.raster = fynecanvas.NewRaster(ec.draw)
	ec.raster.ScaleMode = fynecanvas.ImageScalePixels
	ec.raster.SetMinSize(ec.imgSize)

	ec.content = newEditorContent(ec, ec.raster)
	ec.scroll = newZoomScroll(ec.content, ec)

	state.On(app.EventPlacementChanged, func(interface{}) { ec.Refresh() })
	state.On(app.EventDesignChanged, func(interface{}) { ec.Refresh() })
	state.On(app.EventEditModeChanged, func(interface{}) { ec.Refresh() })
	state.On(app.EventCurrentChanged, func(interface{}) { ec.updateContentSize() })
	state.On(app.EventMockupsChanged, func(interface{}) { ec.updateContentSize() })
	state.On(app.EventProjectLoaded, func(interface{}) { ec.updateContentSize() })

	ec.ExtendBaseWidget(ec)
	return ec
}

// Container returns the scrollable canvas for embedding in layouts.
func (ec *EditorCanvas) Container() fyne.CanvasObject {
	return ec.scroll
}

// SetModifierSource installs the callback that reports held modifier keys.
func (ec *EditorCanvas) SetModifierSource(mods func() interact.Modifiers) {
	ec.mods = mods
}

// OnZoomChange sets a callback fired after every zoom change.
func (ec *EditorCanvas) OnZoomChange(callback func(zoom float64)) {
	ec.onZoomChange = callback
}

// OnContextMenu sets the right-click callback. The position is in absolute
// window coordinates, ready for popup placement.
func (ec *EditorCanvas) OnContextMenu(callback func(at fyne.Position)) {
	ec.onContext = callback
}

func (ec *EditorCanvas) modifiers() interact.Modifiers {
	if ec.mods == nil {
		return 0
	}
	return ec.mods()
}

// basePoint converts a widget event position to base-image coordinates. Drag
// and tap positions arrive viewport-relative, so the scroll offset is added
// back before dividing out the zoom.
func (ec *EditorCanvas) basePoint(pos fyne.Position) geometry.Point2D {
	off := ec.scroll.Offset()
	return geometry.NewPoint2D(
		float64(pos.X+off.X)/ec.zoom,
		float64(pos.Y+off.Y)/ec.zoom,
	)
}

// wheel routes scroll events: with a selection the wheel scales the design,
// Ctrl held or no selection zooms the view instead.
func (ec *EditorCanvas) wheel(ev *fyne.ScrollEvent) {
	notches := 1.0
	if ev.Scrolled.DY < 0 {
		notches = -1.0
	} else if ev.Scrolled.DY == 0 {
		return
	}

	mods := ec.modifiers()
	if ec.controller.Selected() < 0 || mods&interact.ModView != 0 {
		if notches > 0 {
			ec.ZoomIn()
		} else {
			ec.ZoomOut()
		}
		return
	}

	ec.controller.Wheel(ec.basePoint(ev.Position), notches, mods)
	ec.Refresh()
}

// CancelActiveDrag aborts an in-flight drag, restoring pre-drag state. It
// reports whether there was anything to cancel.
func (ec *EditorCanvas) CancelActiveDrag() bool {
	ok := ec.controller.Cancel()
	if ok {
		ec.dragging = false
		ec.Refresh()
	}
	return ok
}

// SetZoom sets the view zoom level.
func (ec *EditorCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	ec.zoom = zoom
	ec.updateContentSize()

	if ec.onZoomChange != nil {
		ec.onZoomChange(zoom)
	}
}

// Zoom returns the current view zoom level.
func (ec *EditorCanvas) Zoom() float64 {
	return ec.zoom
}

// ZoomIn increases the view zoom.
func (ec *EditorCanvas) ZoomIn() {
	ec.SetZoom(ec.zoom * zoomStep)
}

// ZoomOut decreases the view zoom.
func (ec *EditorCanvas) ZoomOut() {
	ec.SetZoom(ec.zoom / zoomStep)
}

// FitToWindow picks the zoom that shows the whole mockup.
func (ec *EditorCanvas) FitToWindow() {
	cur, ok := ec.state.CurrentMockup()
	if !ok || cur.Width() == 0 || cur.Height() == 0 {
		return
	}

	viewSize := ec.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / float64(cur.Width())
	zoomY := float64(viewSize.Height) / float64(cur.Height())

	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	ec.SetZoom(zoom * 0.95)
}

// SetFitToWindow enables or disables auto-fit on resize.
func (ec *EditorCanvas) SetFitToWindow(fit bool) {
	ec.fitToWindow = fit
	if fit {
		ec.FitToWindow()
	}
}

// GetFitToWindow returns the auto-fit state.
func (ec *EditorCanvas) GetFitToWindow() bool {
	return ec.fitToWindow
}

// Refresh repaints the composited view.
func (ec *EditorCanvas) Refresh() {
	ec.raster.Refresh()
}

// updateContentSize resizes the scrollable content to the current mockup's
// dimensions at the current zoom.
func (ec *EditorCanvas) updateContentSize() {
	cur, ok := ec.state.CurrentMockup()
	if !ok || cur.Width() == 0 || cur.Height() == 0 {
		ec.imgSize = fyne.NewSize(480, 360)
	} else {
		ec.imgSize = fyne.NewSize(
			float32(float64(cur.Width())*ec.zoom),
			float32(float64(cur.Height())*ec.zoom),
		)
	}

	ec.raster.SetMinSize(ec.imgSize)
	ec.raster.Resize(ec.imgSize)
	if ec.content != nil {
		ec.content.Resize(ec.imgSize)
		ec.content.Refresh()
	}
	ec.raster.Refresh()
	if ec.scroll != nil {
		ec.scroll.Refresh()
	}
}

// draw composites the current mockup at the raster's pixel size and paints
// the selection furniture on top. Preview and export share the same
// placement arithmetic, so what this shows is what an export produces.
func (ec *EditorCanvas) draw(w, h int) image.Image {
	currentSize := fyne.NewSize(float32(w), float32(h))
	if ec.fitToWindow && currentSize != ec.lastScrollSize && w > 0 && h > 0 {
		ec.lastScrollSize = currentSize
		go func() {
			ec.FitToWindow()
		}()
	}

	cur, ok := ec.state.CurrentMockup()
	if !ok || cur.Image == nil {
		return emptySurface(w, h)
	}

	out := render.Render(cur.Image, ec.state.Layers(), ec.state.Current,
		geometry.NewSize(float64(w), float64(h)), ec.state.EditContext())

	ec.drawSelectionFurniture(out, cur.Size())
	return out
}

func emptySurface(w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0x20
		out.Pix[i+1] = 0x20
		out.Pix[i+2] = 0x24
		out.Pix[i+3] = 0xff
	}
	return out
}

// CreateRenderer implements fyne.Widget.
func (ec *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &editorCanvasRenderer{canvas: ec}
}

type editorCanvasRenderer struct {
	canvas *EditorCanvas
}

func (r *editorCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	} else if r.canvas.content != nil {
		r.canvas.content.Resize(size)
	}
	r.canvas.checkResize(size)
}

func (r *editorCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

func (r *editorCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *editorCanvasRenderer) Objects() []fyne.CanvasObject {
	if r.canvas.scroll != nil {
		return []fyne.CanvasObject{r.canvas.scroll}
	}
	return []fyne.CanvasObject{r.canvas.content}
}

func (r *editorCanvasRenderer) Destroy() {}

func (ec *EditorCanvas) checkResize(size fyne.Size) {
	if !ec.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != ec.lastScrollSize {
		ec.lastScrollSize = size
		ec.FitToWindow()
	}
}
