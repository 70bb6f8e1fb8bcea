// Package interact turns pointer, wheel and keyboard input into state
// mutations. It owns the drag state machine and decides, once per gesture,
// whether the gesture edits the global transform, a per-mockup override or a
// position offset. The decision is carried through the whole drag instead of
// being re-evaluated on every move event.
package interact

import (
	"math"

	"github.com/NV08hv/canvas-mockup-sub000/internal/app"
	"github.com/NV08hv/canvas-mockup-sub000/internal/design"
	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"
)

// Modifiers is the keyboard modifier mask active during a pointer event.
type Modifiers uint8

const (
	// ModShift axis-locks position drags and switches handle behavior.
	ModShift Modifiers = 1 << iota
	// ModAnchor keeps the point under the cursor fixed during wheel scaling.
	ModAnchor
	// ModView reroutes the wheel to the view zoom. The controller never
	// inspects it, the canvas filters such events out before they get here.
	ModView
)

// TargetKind says which store a gesture writes to.
type TargetKind int

const (
	// TargetGlobal writes the design's global transform, affecting every
	// mockup that has no override of its own.
	TargetGlobal TargetKind = iota
	// TargetOverride writes the full per-mockup transform override.
	TargetOverride
	// TargetOffset writes the position-only offset for one mockup.
	TargetOffset
)

// Target is where a gesture's writes land, resolved at gesture start.
type Target struct {
	Kind  TargetKind
	Slot  int
	Index int
}

// Handle identifies the selection handle a drag started on.
type Handle int

const (
	HandleNone Handle = iota
	HandleLeft
	HandleRight
	HandleTop
	HandleBottom
	HandleCorner
	HandleRotate
)

type phase int

const (
	phaseIdle phase = iota
	phaseDragPosition
	phaseDragScale
	phaseDragRotate
)

// dragState is everything captured at gesture start: the resolved target,
// the transform being edited and enough of the pre-drag state to revert on
// Escape.
type dragState struct {
	target   Target
	handle   Handle
	startPtr geometry.Point2D
	startT   design.Transform

	// Where the design is actually drawn when the gesture starts. Handle
	// math measures against this, not against startT, because a global
	// write can be seeded from the global transform while the mockup on
	// screen is placed by an offset.
	center geometry.Point2D

	hadOverride bool
	oldOverride design.Transform
	hadOffset   bool
	oldOffset   geometry.Point2D
	oldGlobal   design.Transform

	startDistX float64
	startDistY float64
	startDist  float64
	startAngle float64
}

// Controller is the interaction state machine. All coordinates it receives
// are in full-resolution base-image space; the canvas converts from widget
// space before calling in. Everything here runs on the UI event thread.
type Controller struct {
	state *app.State

	phase    phase
	drag     dragState
	selected int

	// When set, position drags outside edit mode move the global transform
	// instead of writing a per-mockup offset.
	globalDrag bool
}

// New creates a controller over the shared editor state.
func New(state *app.State) *Controller {
	return &Controller{state: state, selected: -1}
}

// Selected returns the selected design slot, or -1.
func (c *Controller) Selected() int {
	return c.selected
}

// Select changes the selected design slot. Out-of-range values deselect.
func (c *Controller) Select(slot int) {
	if slot < 0 || slot >= design.Slots {
		slot = -1
	}
	c.selected = slot
}

// SetGlobalDrag switches position drags outside edit mode between writing
// per-mockup offsets (default) and moving the design on every mockup.
func (c *Controller) SetGlobalDrag(global bool) {
	c.globalDrag = global
}

// GlobalDrag reports the current drag scope.
func (c *Controller) GlobalDrag() bool {
	return c.globalDrag
}

// Dragging reports whether a gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.phase != phaseIdle
}

// PointerDown starts a position drag when p lands on a visible design with a
// loaded image. It returns true when a drag began; on a miss the selection is
// cleared so the canvas drops its handles.
func (c *Controller) PointerDown(p geometry.Point2D, mods Modifiers) bool {
	if c.phase != phaseIdle {
		return false
	}
	st := c.state
	if st.MockupCount() == 0 {
		return false
	}

	edit := st.EditContext()
	hit := design.HitTest(st.Layers(), st.Current, p, edit)
	if hit == nil {
		c.selected = -1
		return false
	}

	slot := c.slotOf(hit)
	if slot < 0 {
		return false
	}
	c.selected = slot

	target := c.positionTarget(slot, st.Current, edit)
	t := hit.EffectiveTransform(st.Current, edit)
	if target.Kind == TargetGlobal {
		t = hit.Transform
	}
	c.drag = dragState{
		target:   target,
		startPtr: p,
		startT:   t,
	}
	c.captureRevert(hit, st.Current)
	c.phase = phaseDragPosition
	return true
}

// HandleDown starts a scale or rotation drag on a selection handle. Scale and
// rotation always edit a whole transform, so outside edit mode these gestures
// target the global transform rather than a position offset.
func (c *Controller) HandleDown(h Handle, p geometry.Point2D) bool {
	if c.phase != phaseIdle || h == HandleNone || c.selected < 0 {
		return false
	}
	st := c.state
	l := st.Designs[c.selected]
	if !l.HasImage() || st.MockupCount() == 0 {
		return false
	}

	edit := st.EditContext()
	eff := l.EffectiveTransform(st.Current, edit)
	center := geometry.NewPoint2D(eff.X, eff.Y)

	target := c.valueTarget(c.selected, st.Current, edit)
	t := eff
	if target.Kind == TargetGlobal {
		t = l.Transform
	}
	c.drag = dragState{
		target:     target,
		handle:     h,
		startPtr:   p,
		startT:     t,
		center:     center,
		startDistX: math.Abs(p.X - center.X),
		startDistY: math.Abs(p.Y - center.Y),
		startDist:  p.Distance(center),
		startAngle: angleDeg(center, p),
	}
	c.captureRevert(l, st.Current)
	if h == HandleRotate {
		c.phase = phaseDragRotate
	} else {
		c.phase = phaseDragScale
	}
	return true
}

// PointerMove advances the active drag. Position drags with Shift held lock
// to the dominant axis by zeroing the smaller component of the delta.
func (c *Controller) PointerMove(p geometry.Point2D, mods Modifiers) {
	switch c.phase {
	case phaseDragPosition:
		d := p.Sub(c.drag.startPtr)
		if mods&ModShift != 0 {
			if math.Abs(d.X) >= math.Abs(d.Y) {
				d.Y = 0
			} else {
				d.X = 0
			}
		}
		t := c.drag.startT
		t.X += d.X
		t.Y += d.Y
		c.write(t)

	case phaseDragScale:
		c.write(c.scaleBy(p))

	case phaseDragRotate:
		t := c.drag.startT
		t.Rotation = design.SnapRotation(c.drag.startT.Rotation + angleDeg(c.drag.center, p) - c.drag.startAngle)
		c.write(t)
	}
}

// scaleBy maps the pointer's distance from the design center to new scale
// factors, relative to where the handle grab started.
func (c *Controller) scaleBy(p geometry.Point2D) design.Transform {
	t := c.drag.startT
	center := c.drag.center

	switch c.drag.handle {
	case HandleLeft, HandleRight:
		if c.drag.startDistX > 1e-6 {
			t.ScaleX = c.drag.startT.ScaleX * math.Abs(p.X-center.X) / c.drag.startDistX
		}
	case HandleTop, HandleBottom:
		if c.drag.startDistY > 1e-6 {
			t.ScaleY = c.drag.startT.ScaleY * math.Abs(p.Y-center.Y) / c.drag.startDistY
		}
	case HandleCorner:
		if c.drag.startDist > 1e-6 {
			t.Scale = c.drag.startT.Scale * p.Distance(center) / c.drag.startDist
		}
	}
	return t
}

// PointerUp commits the drag. The writes already happened move by move, so
// this only resets the machine.
func (c *Controller) PointerUp() {
	if c.phase == phaseIdle {
		return
	}
	c.phase = phaseIdle
	c.drag = dragState{}
}

// PointerLeave is treated exactly like PointerUp so a drag that slides off
// the canvas cannot wedge the machine.
func (c *Controller) PointerLeave() {
	c.PointerUp()
}

// Cancel aborts the active drag and restores the pre-drag state, including
// deleting an override or offset the drag itself created. It returns false
// when nothing was in progress, letting the caller route Escape elsewhere.
func (c *Controller) Cancel() bool {
	if c.phase == phaseIdle {
		return false
	}
	c.revert()
	c.phase = phaseIdle
	c.drag = dragState{}
	return true
}

// Wheel scales the selected design by one step per notch. With ModAnchor the
// position is adjusted so the given point stays visually fixed. In edit mode
// the write lands on the per-mockup override, otherwise on the global
// transform.
func (c *Controller) Wheel(anchor geometry.Point2D, notches float64, mods Modifiers) {
	if c.phase != phaseIdle || c.selected < 0 {
		return
	}
	st := c.state
	l := st.Designs[c.selected]
	if !l.HasImage() || st.MockupCount() == 0 {
		return
	}

	edit := st.EditContext()
	target := c.valueTarget(c.selected, st.Current, edit)

	var t design.Transform
	if target.Kind == TargetOverride {
		t = l.EffectiveTransform(st.Current, edit)
	} else {
		t = l.Transform
	}

	oldScale := t.Scale
	t.Scale += notches * design.ScaleStep
	t = design.Clamp(t)
	if t.Scale == oldScale {
		return
	}

	if mods&ModAnchor != 0 {
		ratio := (t.Scale - oldScale) / oldScale
		t.X -= (anchor.X - t.X) * ratio
		t.Y -= (anchor.Y - t.Y) * ratio
	}

	c.writeTo(target, t)
}

// Nudge moves the selected design by whole pixels, ten with Shift held. The
// write target is resolved like a position drag's.
func (c *Controller) Nudge(dx, dy float64, mods Modifiers) {
	if c.phase != phaseIdle || c.selected < 0 || (dx == 0 && dy == 0) {
		return
	}
	st := c.state
	l := st.Designs[c.selected]
	if !l.HasImage() || st.MockupCount() == 0 {
		return
	}

	step := 1.0
	if mods&ModShift != 0 {
		step = 10
	}

	edit := st.EditContext()
	target := c.positionTarget(c.selected, st.Current, edit)

	var t design.Transform
	if target.Kind == TargetGlobal {
		t = l.Transform
	} else {
		t = l.EffectiveTransform(st.Current, edit)
	}
	t.X += dx * step
	t.Y += dy * step

	c.writeTo(target, t)
}

// positionTarget resolves where a position gesture writes: the override when
// edit mode is open for this mockup, the global transform when global drags
// are on, else the per-mockup offset.
func (c *Controller) positionTarget(slot, index int, edit design.EditContext) Target {
	switch {
	case edit.IsFor(index):
		return Target{Kind: TargetOverride, Slot: slot, Index: index}
	case c.globalDrag:
		return Target{Kind: TargetGlobal, Slot: slot, Index: index}
	default:
		return Target{Kind: TargetOffset, Slot: slot, Index: index}
	}
}

// valueTarget resolves where a whole-transform gesture (scale, rotate, wheel)
// writes. Offsets hold positions only, so outside edit mode these go global.
func (c *Controller) valueTarget(slot, index int, edit design.EditContext) Target {
	if edit.IsFor(index) {
		return Target{Kind: TargetOverride, Slot: slot, Index: index}
	}
	return Target{Kind: TargetGlobal, Slot: slot, Index: index}
}

func (c *Controller) slotOf(l *design.Layer) int {
	for i, d := range c.state.Designs {
		if d == l {
			return i
		}
	}
	return -1
}

func (c *Controller) captureRevert(l *design.Layer, index int) {
	c.drag.oldGlobal = l.Transform
	c.drag.oldOverride, c.drag.hadOverride = l.TransformOverrides.Get(index)
	c.drag.oldOffset, c.drag.hadOffset = l.PositionOffsets.Get(index)
}

// write sends the in-flight transform to the drag's target store.
func (c *Controller) write(t design.Transform) {
	c.writeTo(c.drag.target, t)
}

func (c *Controller) writeTo(target Target, t design.Transform) {
	switch target.Kind {
	case TargetGlobal:
		c.state.SetGlobalTransform(target.Slot, t)
	case TargetOverride:
		c.state.SetTransformOverride(target.Slot, target.Index, t)
	case TargetOffset:
		c.state.SetPositionOffset(target.Slot, target.Index, geometry.NewPoint2D(t.X, t.Y))
	}
}

// revert undoes every store the drag may have touched. Setting a full
// override drops any offset at the same index, so an aborted edit-mode drag
// has to put the offset back as well.
func (c *Controller) revert() {
	st := c.state
	tg := c.drag.target
	switch tg.Kind {
	case TargetGlobal:
		st.SetGlobalTransform(tg.Slot, c.drag.oldGlobal)
	case TargetOverride:
		switch {
		case c.drag.hadOverride:
			st.SetTransformOverride(tg.Slot, tg.Index, c.drag.oldOverride)
		case c.drag.hadOffset:
			st.DeleteTransformOverride(tg.Slot, tg.Index)
			st.SetPositionOffset(tg.Slot, tg.Index, c.drag.oldOffset)
		default:
			st.DeleteTransformOverride(tg.Slot, tg.Index)
		}
	case TargetOffset:
		if c.drag.hadOffset {
			st.SetPositionOffset(tg.Slot, tg.Index, c.drag.oldOffset)
		} else {
			st.DeletePositionOffset(tg.Slot, tg.Index)
		}
	}
}

func angleDeg(center, p geometry.Point2D) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X) * 180 / math.Pi
}
