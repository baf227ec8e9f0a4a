package visualizer

import (
	"io"
	"log"
	"math"
	"math/rand"
)

// TransitionConfig holds the state machine's thresholds and step sizes.
type TransitionConfig struct {
	PatternStep  float64
	SymmetryStep float64

	MinDwell        int     // frames between pattern changes
	ImpactThreshold float64 // bass level counted as an impact
	ImpactCooldown  int
	SectionTrend    float64 // |trend| above this suggests a new section
	SectionContrast float64 // |bass - treble| above this suggests a new section

	BeatConfidence float64 // beat confidence needed for a symmetry change
	SymmetryIdle   int     // frames before a trend alone may change symmetry
	SymmetryTrend  float64
}

func DefaultTransitionConfig() TransitionConfig {
	return TransitionConfig{
		PatternStep:     0.025,
		SymmetryStep:    0.02,
		MinDwell:        180,
		ImpactThreshold: 0.85,
		ImpactCooldown:  60,
		SectionTrend:    0.07,
		SectionContrast: 0.3,
		BeatConfidence:  0.6,
		SymmetryIdle:    120,
		SymmetryTrend:   0.15,
	}
}

// Signals are the per-frame inputs to the transition state machine.
type Signals struct {
	Frame      int
	Bands      BandEnergies
	Trend      float64
	Beat       bool
	Confidence float64
}

// TransitionState is the pattern and symmetry selection at one frame. A
// progress of exactly 1 means that channel is stable.
type TransitionState struct {
	CurrentPattern  PatternID
	TargetPattern   PatternID
	PatternProgress float64

	CurrentSymmetry  int
	TargetSymmetry   int
	SymmetryProgress float64

	Fractal       FractalParams
	FractalTarget FractalParams

	// Impact is set on frames where a bass impact was detected.
	Impact bool
}

func (s TransitionState) PatternTransitioning() bool  { return s.PatternProgress < 1 }
func (s TransitionState) SymmetryTransitioning() bool { return s.SymmetryProgress < 1 }

// TransitionController picks the next pattern and symmetry count from band
// dominance and change heuristics, and interpolates toward them.
type TransitionController struct {
	cfg     TransitionConfig
	quality QualityProfile
	rng     *rand.Rand
	log     *log.Logger

	state        TransitionState
	fromSymmetry int
	fromFractal  FractalParams

	patternTicks int
	symTicks     int

	frame              int
	lastPatternChange  int
	lastImpact         int
	lastSymmetryChange int
}

// NewTransitionController starts stable on the spiral pattern. rng may be nil,
// in which case every random choice takes its first option.
func NewTransitionController(cfg TransitionConfig, q QualityProfile, rng *rand.Rand, logger *log.Logger) *TransitionController {
	q = q.normalize()
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	sym := clampSymmetry(8, q.MaxSymmetry)
	fractal := FractalParams{Depth: min(3, q.MaxFractalDepth), Scale: 0.7, Rotation: 0.3}
	return &TransitionController{
		cfg:     cfg,
		quality: q,
		rng:     rng,
		log:     logger,
		state: TransitionState{
			CurrentPattern:   PatternSpiral,
			TargetPattern:    PatternSpiral,
			PatternProgress:  1,
			CurrentSymmetry:  sym,
			TargetSymmetry:   sym,
			SymmetryProgress: 1,
			Fractal:          fractal,
			FractalTarget:    fractal,
		},
		fromSymmetry: sym,
		fromFractal:  fractal,
	}
}

func (c *TransitionController) State() TransitionState { return c.state }

// Update advances any running transitions by one step, then evaluates the
// pattern and symmetry triggers for this frame.
func (c *TransitionController) Update(sig Signals) TransitionState {
	c.frame = sig.Frame
	c.advance()

	b := sig.Bands
	impact := b.Bass > c.cfg.ImpactThreshold && sig.Frame-c.lastImpact > c.cfg.ImpactCooldown
	if impact {
		c.lastImpact = sig.Frame
	}
	c.state.Impact = impact

	dominant := b.Dominant()
	if !c.state.PatternTransitioning() && sig.Frame-c.lastPatternChange >= c.cfg.MinDwell {
		section := math.Abs(sig.Trend) > c.cfg.SectionTrend && math.Abs(b.Bass-b.Treble) > c.cfg.SectionContrast
		if impact || section {
			c.startPattern(dominant)
		}
	}

	if !c.state.SymmetryTransitioning() {
		strongBeat := sig.Beat && sig.Confidence > c.cfg.BeatConfidence
		drift := sig.Frame-c.lastSymmetryChange > c.cfg.SymmetryIdle && math.Abs(sig.Trend) > c.cfg.SymmetryTrend
		if strongBeat || drift {
			c.rerollFractal()
			c.RequestSymmetry(c.pickSymmetry(dominant))
		}
	}
	return c.state
}

// RequestSymmetry starts a symmetry transition toward n, clamped to an even
// count in [4, MaxSymmetry]. It is ignored while a symmetry transition is
// running and reports whether a new one started.
func (c *TransitionController) RequestSymmetry(n int) bool {
	if c.state.SymmetryTransitioning() {
		return false
	}
	target := clampSymmetry(n, c.quality.MaxSymmetry)
	c.lastSymmetryChange = c.frame
	if target == c.state.CurrentSymmetry && c.state.FractalTarget == c.state.Fractal {
		return false
	}
	c.fromSymmetry = c.state.CurrentSymmetry
	c.fromFractal = c.state.Fractal
	c.state.TargetSymmetry = target
	c.state.SymmetryProgress = 0
	c.symTicks = 0
	c.log.Printf("symmetry %d -> %d (frame %d)", c.fromSymmetry, target, c.frame)
	return true
}

func (c *TransitionController) advance() {
	s := &c.state
	if s.PatternTransitioning() {
		c.patternTicks++
		s.PatternProgress = progress(c.patternTicks, c.cfg.PatternStep)
		if s.PatternProgress == 1 {
			s.CurrentPattern = s.TargetPattern
		}
	}
	if s.SymmetryTransitioning() {
		c.symTicks++
		p := progress(c.symTicks, c.cfg.SymmetryStep)
		s.SymmetryProgress = p
		s.CurrentSymmetry = clampSymmetry(evenRound(lerp(float64(c.fromSymmetry), float64(s.TargetSymmetry), p)), c.quality.MaxSymmetry)
		s.Fractal = FractalParams{
			Depth:    int(math.Round(lerp(float64(c.fromFractal.Depth), float64(s.FractalTarget.Depth), p))),
			Scale:    lerp(c.fromFractal.Scale, s.FractalTarget.Scale, p),
			Rotation: lerp(c.fromFractal.Rotation, s.FractalTarget.Rotation, p),
		}
		if p == 1 {
			s.CurrentSymmetry = s.TargetSymmetry
			s.Fractal = s.FractalTarget
		}
	}
}

// progress is ticks*step, pinned to exactly 1 once it gets there.
func progress(ticks int, step float64) float64 {
	if step <= 0 {
		return 1
	}
	p := float64(ticks) * step
	if p >= 1-1e-9 {
		return 1
	}
	return p
}

func (c *TransitionController) startPattern(dominant Band) {
	var candidates []PatternID
	for _, id := range patternsFor(dominant) {
		if id != c.state.CurrentPattern {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return
	}
	next := candidates[0]
	if c.rng != nil {
		next = candidates[c.rng.Intn(len(candidates))]
	}
	c.state.TargetPattern = next
	c.state.PatternProgress = 0
	c.patternTicks = 0
	c.lastPatternChange = c.frame
	c.log.Printf("pattern %s -> %s (%s, frame %d)", c.state.CurrentPattern, next, dominant, c.frame)
}

// pickSymmetry draws a raw symmetry count from the dominant band's range.
func (c *TransitionController) pickSymmetry(dominant Band) int {
	lo, hi := 8, c.quality.MaxSymmetry
	switch dominant {
	case BandBass:
		lo, hi = 4, 8
	case BandMid:
		lo, hi = 6, 12
	}
	if hi < lo || c.rng == nil {
		return lo
	}
	return lo + c.rng.Intn(hi-lo+1)
}

func (c *TransitionController) rerollFractal() {
	if c.rng == nil {
		return
	}
	maxDepth := c.quality.MaxFractalDepth
	depth := maxDepth
	if maxDepth > 2 {
		depth = 2 + c.rng.Intn(maxDepth-1)
	}
	c.state.FractalTarget = FractalParams{
		Depth:    depth,
		Scale:    0.55 + 0.25*c.rng.Float64(),
		Rotation: 0.6 * c.rng.Float64(),
	}
}

func evenRound(v float64) int {
	return int(math.Round(v/2)) * 2
}

// clampSymmetry rounds n to even and clamps it to [4, maxSym].
func clampSymmetry(n, maxSym int) int {
	maxSym = max(4, maxSym&^1)
	if n%2 != 0 {
		n++
	}
	return clampInt(n, 4, maxSym)
}
