package visualizer

import "math"

// ringsStyle pulses one concentric ring per band.
type ringsStyle struct {
	smooth *springField
}

func newRingsStyle(fps int) *ringsStyle {
	return &ringsStyle{smooth: newSpringField(4, fps, 6.0, 0.5)}
}

func (r *ringsStyle) Name() string { return "rings" }

func (r *ringsStyle) Draw(s Surface, f *FrameContext) {
	radius := math.Min(f.Width, f.Height) * 0.45
	if radius <= 0 {
		return
	}
	levels := [4]float64{f.Bands.Bass, f.Bands.LowMid, f.Bands.HighMid, f.Bands.Treble}

	s.Push()
	defer s.Pop()
	s.Translate(f.Width/2, f.Height/2)
	for i, v := range levels {
		e := clamp01(r.smooth.step(i, v))
		base := radius * float64(i+1) / 4.5
		rr := base * (0.85 + 0.3*e)
		c := HSL(f.Hue+float64(i)*70, 0.75, 0.4+0.3*e, 0.3+0.7*e)
		s.BeginPath()
		circlePath(s, 0, 0, rr)
		glowStroke(s, f.Quality, c, 1+6*e)
	}
	if f.Beat {
		drawBeatOverlay(s, f.Quality, radius, f.Hue, f.Confidence)
	}
}
