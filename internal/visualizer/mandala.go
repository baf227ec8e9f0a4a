package visualizer

import (
	"math"
	"math/rand"
)

const mandalaRadius = 0.45

// mandalaStyle is the procedural engine: background glow, the current
// pattern (cross-faded with the next one while a transition runs) repeated
// around the symmetry count, the centre ornament and beat overlays.
type mandalaStyle struct {
	glow *springField
}

func newMandalaStyle(fps int) *mandalaStyle {
	return &mandalaStyle{glow: newSpringField(1, fps, 4.0, 0.6)}
}

func (m *mandalaStyle) Name() string { return "mandala" }

func (m *mandalaStyle) Draw(s Surface, f *FrameContext) {
	radius := math.Min(f.Width, f.Height) * mandalaRadius
	if radius <= 0 {
		return
	}
	tr := f.Transition
	sym := max(1, tr.CurrentSymmetry)

	s.Push()
	defer s.Pop()
	s.Translate(f.Width/2, f.Height/2)

	glow := m.glow.step(0, radius*(0.55+0.5*f.Bands.Average))
	drawBackgroundGlow(s, f.Quality, glow, f.Hue, f.Bands)

	in := PatternInput{
		Bands:      f.Bands,
		Frame:      f.Frame,
		Hue:        f.Hue,
		Radius:     radius,
		Sector:     2 * math.Pi / float64(sym),
		Budget:     max(16, f.Quality.PointDensityCap*2/sym),
		Fractal:    tr.Fractal,
		Quality:    f.Quality,
		Frequency:  f.Sample.Frequency,
		TimeDomain: f.Sample.TimeDomain,
	}
	var seed int64
	if f.Rand != nil {
		seed = f.Rand.Int63()
	}

	if tr.PatternTransitioning() {
		drawSymmetric(s, tr.CurrentPattern, in, sym, f.Rotation, 1-tr.PatternProgress, seed)
		drawSymmetric(s, tr.TargetPattern, in, sym, f.Rotation, tr.PatternProgress, seed)
	} else {
		drawSymmetric(s, tr.CurrentPattern, in, sym, f.Rotation, 1, seed)
	}

	s.Push()
	s.Rotate(-f.Rotation * 2)
	DrawCenterOrnament(s, in, sym)
	s.Pop()

	if f.Beat {
		drawBeatOverlay(s, f.Quality, radius, f.Hue, f.Confidence)
	}
	if tr.Impact {
		drawImpactOverlay(s, f.Quality, radius, f.Hue, sym)
	}
}

// drawSymmetric replicates one pattern around sym rotations at the given
// opacity. Every copy gets a random source with the same seed so the copies
// stay identical.
func drawSymmetric(s Surface, id PatternID, in PatternInput, sym int, rotation, alpha float64, seed int64) {
	if alpha <= 0 {
		return
	}
	s.Push()
	defer s.Pop()
	s.SetAlpha(alpha)
	step := 2 * math.Pi / float64(sym)
	for i := range sym {
		s.Push()
		s.Rotate(rotation + float64(i)*step)
		in.Rand = rand.New(rand.NewSource(seed))
		DrawPattern(s, id, in)
		s.Pop()
	}
}
