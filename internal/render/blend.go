package render

import (
	"image/color"
	"math"

	"github.com/NV08hv/canvas-mockup-sub000/internal/design"
)

// blend composites one source pixel over the destination with the given mode
// and layer opacity (0..1). Channels are blended in the 0..1 range, then the
// result is mixed back into the destination weighted by the source alpha.
func blend(dst, src color.Color, mode design.BlendMode, opacity float64) color.RGBA {
	sr, sg, sb, sa := src.RGBA()
	dr, dg, db, da := dst.RGBA()

	sf := [4]float64{float64(sr) / 65535.0, float64(sg) / 65535.0, float64(sb) / 65535.0, float64(sa) / 65535.0}
	df := [4]float64{float64(dr) / 65535.0, float64(dg) / 65535.0, float64(db) / 65535.0, float64(da) / 65535.0}

	var rf [3]float64
	for i := 0; i < 3; i++ {
		rf[i] = blendChannel(mode, sf[i], df[i])
	}

	alpha := sf[3] * opacity
	finalR := rf[0]*alpha + df[0]*(1-alpha)
	finalG := rf[1]*alpha + df[1]*(1-alpha)
	finalB := rf[2]*alpha + df[2]*(1-alpha)
	finalA := alpha + df[3]*(1-alpha)

	return color.RGBA{
		R: uint8(clamp01(finalR) * 255),
		G: uint8(clamp01(finalG) * 255),
		B: uint8(clamp01(finalB) * 255),
		A: uint8(clamp01(finalA) * 255),
	}
}

// blendChannel applies the separable blend formula for one channel, source
// and destination in 0..1.
func blendChannel(mode design.BlendMode, s, d float64) float64 {
	switch mode {
	case design.BlendMultiply:
		return s * d

	case design.BlendScreen:
		return 1 - (1-s)*(1-d)

	case design.BlendOverlay:
		if d < 0.5 {
			return 2 * s * d
		}
		return 1 - 2*(1-s)*(1-d)

	case design.BlendDarken:
		return math.Min(s, d)

	case design.BlendLighten:
		return math.Max(s, d)

	case design.BlendColorDodge:
		if s >= 1 {
			return 1
		}
		return math.Min(1, d/(1-s))

	case design.BlendColorBurn:
		if s <= 0 {
			return 0
		}
		return 1 - math.Min(1, (1-d)/s)

	case design.BlendHardLight:
		// Overlay with source and destination swapped.
		if s < 0.5 {
			return 2 * s * d
		}
		return 1 - 2*(1-s)*(1-d)

	case design.BlendSoftLight:
		if s <= 0.5 {
			return d - (1-2*s)*d*(1-d)
		}
		var dd float64
		if d <= 0.25 {
			dd = ((16*d-12)*d + 4) * d
		} else {
			dd = math.Sqrt(d)
		}
		return d + (2*s-1)*(dd-d)

	default: // BlendNormal and anything unrecognized
		return s
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
