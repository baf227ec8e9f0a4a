package visualizer

import "math"

// DrawCenterOrnament draws the hub at the origin: a filled disc with a ring
// of beads, one per symmetry copy.
func DrawCenterOrnament(s Surface, in PatternInput, symmetry int) {
	b := in.Bands
	r := in.Radius * (0.05 + 0.07*b.Bass)
	inner := HSL(in.Hue+180, 0.9, 0.7, 0.6+0.4*b.Bass)
	outer := HSL(in.Hue+240, 0.8, 0.4, 0)

	s.BeginPath()
	circlePath(s, 0, 0, r)
	s.Fill(discPaint(in.Quality, 0, 0, r, inner, outer))
	s.Stroke(Solid(inner.WithAlpha(0.5+0.5*b.HighMid)), 1)

	symmetry = max(1, symmetry)
	ring := r * 1.6
	bead := 0.8 + r*0.12
	spin := float64(in.Frame) * 0.01
	for i := range symmetry {
		a := spin + float64(i)*2*math.Pi/float64(symmetry)
		x, y := polar(ring, a)
		s.BeginPath()
		circlePath(s, x, y, bead)
		s.Fill(Solid(inner.Shift(float64(i) * 360 / float64(symmetry)).WithAlpha(0.5 + 0.5*b.Treble)))
	}
}

// drawBackgroundGlow fills a soft disc behind the mandala.
func drawBackgroundGlow(s Surface, q QualityProfile, r, hue float64, b BandEnergies) {
	if r <= 0 {
		return
	}
	inner := HSL(hue+200, 0.6, 0.25+0.2*b.Bass, 0.15+0.35*b.Average)
	s.BeginPath()
	circlePath(s, 0, 0, r)
	if q.UseGradients {
		s.Fill(Radial(0, 0, 0, r, inner, inner.WithAlpha(0)))
		return
	}
	s.Fill(Solid(inner.Fade(0.3)))
}

// drawBeatOverlay flashes an outer ring whose opacity follows beat
// confidence.
func drawBeatOverlay(s Surface, q QualityProfile, radius, hue, confidence float64) {
	c := HSL(hue+60, 1, 0.7, 0.25+0.6*confidence)
	s.BeginPath()
	circlePath(s, 0, 0, radius*(0.92+0.06*confidence))
	glowStroke(s, q, c, 1.5+3*confidence)
}

// drawImpactOverlay marks a heavy bass hit with short spikes around the rim.
func drawImpactOverlay(s Surface, q QualityProfile, radius, hue float64, symmetry int) {
	spikes := max(4, symmetry) * 2
	c := HSL(hue, 1, 0.85, 0.7)
	s.BeginPath()
	for i := range spikes {
		a := float64(i) * 2 * math.Pi / float64(spikes)
		x0, y0 := polar(radius*0.95, a)
		x1, y1 := polar(radius*1.08, a)
		s.MoveTo(x0, y0)
		s.LineTo(x1, y1)
	}
	glowStroke(s, q, c, 2)
}
