package visualizer

import "math"

const fractalExtraChance = 0.3

type treeSegment struct {
	x0, y0 float64
	x1, y1 float64
	depth  int // remaining depth; 0 is a leaf
	width  float64
}

type branch struct {
	x, y   float64
	angle  float64
	length float64
	depth  int
	width  float64
}

// fractalDepth is the effective depth for in, never above the quality cap or
// MaxFractalDepth.
func fractalDepth(in PatternInput) int {
	limit := MaxFractalDepth
	if in.Quality.MaxFractalDepth > 0 {
		limit = min(limit, in.Quality.MaxFractalDepth)
	}
	return clampInt(in.Fractal.Depth, 1, limit)
}

// buildFractalTree expands the tree iteratively. Every child has one less
// remaining depth than its parent, so a tree of depth d yields at most
// (3^(d+1)-1)/2 segments however the middle-branch coin lands.
func buildFractalTree(in PatternInput) []treeSegment {
	b := in.Bands
	depth := fractalDepth(in)
	scale := math.Max(0.4, math.Min(0.85, in.Fractal.Scale))
	spread := 0.3 + in.Fractal.Rotation + 0.25*b.HighMid
	sway := math.Sin(float64(in.Frame)*0.02) * 0.08 * (0.5 + b.LowMid)

	segs := make([]treeSegment, 0, fractalSegmentBound(depth))
	stack := []branch{{
		length: in.Radius * (0.25 + 0.15*b.Bass),
		depth:  depth,
		width:  1.5 + 2*b.Bass,
	}}
	for len(stack) > 0 {
		br := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dx, dy := polar(br.length, br.angle)
		x1, y1 := br.x+dx, br.y+dy
		segs = append(segs, treeSegment{x0: br.x, y0: br.y, x1: x1, y1: y1, depth: br.depth, width: br.width})
		if br.depth == 0 {
			continue
		}

		child := branch{x: x1, y: y1, length: br.length * scale, depth: br.depth - 1, width: br.width * 0.7}
		left, right := child, child
		left.angle = br.angle - spread + sway
		right.angle = br.angle + spread + sway
		stack = append(stack, left, right)

		if br.depth > 1 && in.Rand != nil && in.Rand.Float64() < fractalExtraChance {
			mid := child
			mid.angle = br.angle + sway
			mid.length *= 0.8
			stack = append(stack, mid)
		}
	}
	return segs
}

func fractalSegmentBound(depth int) int {
	n := 1
	for range depth + 1 {
		n *= 3
	}
	return (n - 1) / 2
}

func drawFractalTree(s Surface, in PatternInput) {
	b := in.Bands
	segs := buildFractalTree(in)
	depth := fractalDepth(in)
	for _, seg := range segs {
		t := 1 - float64(seg.depth)/float64(depth)
		s.BeginPath()
		s.MoveTo(seg.x0, seg.y0)
		s.LineTo(seg.x1, seg.y1)
		c := HSL(in.Hue+90*t, 0.7, 0.35+0.3*t, 0.35+0.5*b.Average)
		if seg.depth == depth {
			s.Stroke(Solid(c), seg.width)
		} else {
			glowStroke(s, in.Quality, c, seg.width)
		}

		if seg.depth == 0 && in.Quality.EnableAdvancedEffects {
			s.BeginPath()
			circlePath(s, seg.x1, seg.y1, 1+2*b.Treble)
			s.Fill(Solid(c.Shift(120).WithAlpha(0.4 + 0.6*b.Treble)))
		}
	}
}
