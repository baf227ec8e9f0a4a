package visualizer

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSLA is a hue/saturation/lightness/alpha colour. H is in degrees and is
// always kept in [0,360); S, L and A are in [0,1].
type HSLA struct {
	H float64
	S float64
	L float64
	A float64
}

// HSL builds a normalized colour: hue wraps modulo 360 and the other
// components are clamped.
func HSL(h, s, l, a float64) HSLA {
	return HSLA{H: wrapHue(h), S: clamp01(s), L: clamp01(l), A: clamp01(a)}
}

// WithAlpha returns c with its alpha replaced.
func (c HSLA) WithAlpha(a float64) HSLA {
	c.A = clamp01(a)
	return c
}

// Fade returns c with its alpha multiplied by k.
func (c HSLA) Fade(k float64) HSLA {
	c.A = clamp01(c.A * k)
	return c
}

// Shift rotates the hue by d degrees.
func (c HSLA) Shift(d float64) HSLA {
	c.H = wrapHue(c.H + d)
	return c
}

// NRGBA converts to a non-premultiplied 8-bit colour.
func (c HSLA) NRGBA() color.NRGBA {
	r, g, b := colorful.Hsl(wrapHue(c.H), clamp01(c.S), clamp01(c.L)).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(c.A)*255 + 0.5)}
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
