package visualizer

import "math"

// recordSurface counts drawing calls and checks the paints it receives.
type recordSurface struct {
	w, h     float64
	depth    int
	maxDepth int
	alpha    float64
	alphas   []float64

	// setAlphas holds every SetAlpha argument; rotations holds the alpha in
	// effect at each Rotate.
	setAlphas []float64
	rotations []float64

	fades    []float64
	fills    int
	strokes  int
	segments int
	released int

	badPaint bool
}

func newRecordSurface(w, h float64) *recordSurface {
	return &recordSurface{w: w, h: h, alpha: 1}
}

func (s *recordSurface) Size() (float64, float64) { return s.w, s.h }
func (s *recordSurface) Fade(a float64)           { s.fades = append(s.fades, a) }

func (s *recordSurface) Push() {
	s.alphas = append(s.alphas, s.alpha)
	s.depth++
	s.maxDepth = max(s.maxDepth, s.depth)
}

func (s *recordSurface) Pop() {
	if len(s.alphas) > 0 {
		s.alpha = s.alphas[len(s.alphas)-1]
		s.alphas = s.alphas[:len(s.alphas)-1]
	}
	s.depth--
}

func (s *recordSurface) Translate(x, y float64) {}
func (s *recordSurface) Rotate(a float64)       { s.rotations = append(s.rotations, s.alpha) }
func (s *recordSurface) SetAlpha(a float64) {
	s.alpha = a
	s.setAlphas = append(s.setAlphas, a)
}
func (s *recordSurface) BeginPath()             {}
func (s *recordSurface) MoveTo(x, y float64)    {}
func (s *recordSurface) LineTo(x, y float64)    { s.segments++ }
func (s *recordSurface) QuadTo(cx, cy, x, y float64) {
	s.segments++
}
func (s *recordSurface) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.segments++
}
func (s *recordSurface) Arc(x, y, r, a0, a1 float64) { s.segments++ }
func (s *recordSurface) ClosePath()                  {}

func (s *recordSurface) Fill(p Paint) {
	s.fills++
	s.check(p)
}

func (s *recordSurface) Stroke(p Paint, width float64) {
	s.strokes++
	s.check(p)
	if width < 0 || math.IsNaN(width) {
		s.badPaint = true
	}
}

func (s *recordSurface) Release() { s.released++ }

func (s *recordSurface) check(p Paint) {
	colors := []HSLA{p.Color}
	if p.Gradient != nil {
		for _, st := range p.Gradient.Stops {
			colors = append(colors, st.Color)
		}
	}
	for _, c := range colors {
		if c.H < 0 || c.H >= 360 || c.A < 0 || c.A > 1 || c.S < 0 || c.S > 1 || c.L < 0 || c.L > 1 {
			s.badPaint = true
		}
	}
}

// fixedSource serves the same frame every pull.
type fixedSource struct {
	freq []byte
	td   []byte
}

func newFixedSource(fftSize int) *fixedSource {
	src := &fixedSource{freq: make([]byte, fftSize/2), td: make([]byte, fftSize)}
	for i := range src.td {
		src.td[i] = 128
	}
	return src
}

func (f *fixedSource) FrequencyBinCount() int         { return len(f.freq) }
func (f *fixedSource) FFTSize() int                   { return len(f.td) }
func (f *fixedSource) FrequencyMagnitudes(dst []byte) { copy(dst, f.freq) }
func (f *fixedSource) TimeDomainSamples(dst []byte)   { copy(dst, f.td) }

func (f *fixedSource) fillBins(lo, hi int, v byte) {
	for i := lo; i < hi && i < len(f.freq); i++ {
		f.freq[i] = v
	}
}

// zeroSource makes every random draw return its smallest value.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}
