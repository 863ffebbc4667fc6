package renderer

import (
	"github.com/ivlev/carousel/internal/effects"
	"github.com/ivlev/carousel/internal/engine"
)

// Interpolate blends two assignment sets at progress t. Items are matched by
// ItemIndex; offset, scale and opacity are eased, while flags and stack
// order switch to the target halfway through.
func Interpolate(from, to []engine.Assignment, t float64, ease effects.Easing) []engine.Assignment {
	if t < 0 {
		t = 0
	}
	if t >= 1 {
		return append([]engine.Assignment(nil), to...)
	}
	if ease != nil {
		t = ease(t)
	}

	prev := make(map[int]engine.Assignment, len(from))
	for _, a := range from {
		prev[a.ItemIndex] = a
	}

	out := make([]engine.Assignment, len(to))
	for i, target := range to {
		start, ok := prev[target.ItemIndex]
		if !ok {
			out[i] = target
			continue
		}

		blended := target
		if t < 0.5 {
			blended = start
		}
		blended.LateralOffset = lerp(start.LateralOffset, target.LateralOffset, t)
		blended.Scale = lerp(start.Scale, target.Scale, t)
		blended.Opacity = lerp(start.Opacity, target.Opacity, t)
		out[i] = blended
	}
	return out
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
