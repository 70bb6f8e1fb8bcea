// Package design models the overlay layers composited onto mockups: their
// placement transforms, blend-mode tags, per-mockup overrides and the
// resolution rules that decide which values a given mockup renders with.
package design

import "math"

// Placement bounds. Out-of-range values are clamped, never rejected.
const (
	MinScale     = 0.05
	MaxScale     = 3.0
	MinAxisScale = 0.1
	MaxAxisScale = 3.0

	// ScaleStep is the uniform-scale increment applied per wheel notch.
	ScaleStep = 0.05

	// snapTolerance is how close (in degrees) a rotation must be to a
	// cardinal angle before it snaps onto it.
	snapTolerance = 2.0
)

// Transform describes where and how a design layer is painted. X and Y are in
// the coordinate space of the full-resolution base image, never in preview
// pixels; the renderer converts at draw time. Scale is the uniform factor,
// ScaleX and ScaleY stretch each axis on top of it. Rotation is in degrees,
// kept in [0,360). Opacity is a percentage in [0,100].
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"`
	Opacity  float64 `json:"opacity"`
}

// DefaultTransform returns the placement a freshly loaded design starts with.
func DefaultTransform() Transform {
	return Transform{Scale: 1, ScaleX: 1, ScaleY: 1, Opacity: 100}
}

// Clamp forces every field back into its legal range. Non-finite values fall
// back to the nearest bound, or to the field default when there is none.
func Clamp(t Transform) Transform {
	t.X = finiteOr(t.X, 0)
	t.Y = finiteOr(t.Y, 0)
	t.Scale = clampRange(t.Scale, MinScale, MaxScale, 1)
	t.ScaleX = clampRange(t.ScaleX, MinAxisScale, MaxAxisScale, 1)
	t.ScaleY = clampRange(t.ScaleY, MinAxisScale, MaxAxisScale, 1)
	t.Rotation = NormalizeAngle(t.Rotation)
	t.Opacity = clampRange(t.Opacity, 0, 100, 100)
	return t
}

// Patch is a partial transform update. Nil fields leave the base value alone.
type Patch struct {
	X        *float64
	Y        *float64
	Scale    *float64
	ScaleX   *float64
	ScaleY   *float64
	Rotation *float64
	Opacity  *float64
}

// Merge applies the patch to base and clamps the result.
func Merge(base Transform, p Patch) Transform {
	if p.X != nil {
		base.X = *p.X
	}
	if p.Y != nil {
		base.Y = *p.Y
	}
	if p.Scale != nil {
		base.Scale = *p.Scale
	}
	if p.ScaleX != nil {
		base.ScaleX = *p.ScaleX
	}
	if p.ScaleY != nil {
		base.ScaleY = *p.ScaleY
	}
	if p.Rotation != nil {
		base.Rotation = *p.Rotation
	}
	if p.Opacity != nil {
		base.Opacity = *p.Opacity
	}
	return Clamp(base)
}

// NormalizeAngle wraps an angle in degrees into [0,360).
func NormalizeAngle(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// SnapRotation pulls angles within snapTolerance of a cardinal direction onto
// it (360 wraps to 0) and passes everything else through normalized. Only the
// rotate-handle drag path calls this; programmatic updates keep exact values.
func SnapRotation(deg float64) float64 {
	deg = NormalizeAngle(deg)
	for _, cardinal := range [...]float64{0, 90, 180, 270, 360} {
		if math.Abs(deg-cardinal) <= snapTolerance {
			return math.Mod(cardinal, 360)
		}
	}
	return deg
}

func clampRange(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	if v < lo || math.IsInf(v, -1) {
		return lo
	}
	if v > hi || math.IsInf(v, 1) {
		return hi
	}
	return v
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
