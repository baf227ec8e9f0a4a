package visualizer

// BeatConfig tunes the beat detector.
type BeatConfig struct {
	Threshold float64 // absolute bass floor
	Ratio     float64 // margin over the recent average
	Cooldown  int     // frames that must pass between beats
	Gain      float64 // confidence added per beat
	Decay     float64 // confidence lost per quiet frame
}

func DefaultBeatConfig() BeatConfig {
	return BeatConfig{
		Threshold: 0.7,
		Ratio:     1.2,
		Cooldown:  10,
		Gain:      0.1,
		Decay:     0.01,
	}
}

// BeatDetector is a debounced local-threshold detector over bass energy. It
// makes no tempo assumptions.
type BeatDetector struct {
	cfg        BeatConfig
	ring       [beatRingSize]float64
	w          int
	lastBeat   int
	confidence float64
}

// NewBeatDetector returns a detector whose cooldown has already elapsed, so
// the first loud frame can fire.
func NewBeatDetector(cfg BeatConfig) *BeatDetector {
	return &BeatDetector{cfg: cfg, lastBeat: -(cfg.Cooldown + 1)}
}

// Update records bass for the given frame and reports whether a beat fired.
// The ring starts zeroed and its average includes the current sample.
func (d *BeatDetector) Update(frame int, bass float64) bool {
	d.ring[d.w] = bass
	d.w = (d.w + 1) % beatRingSize

	var sum float64
	for _, v := range d.ring {
		sum += v
	}
	avg := sum / beatRingSize

	if bass > avg*d.cfg.Ratio && bass > d.cfg.Threshold && frame-d.lastBeat > d.cfg.Cooldown {
		d.lastBeat = frame
		d.confidence = min(1, d.confidence+d.cfg.Gain)
		return true
	}
	d.confidence = max(0, d.confidence-d.cfg.Decay)
	return false
}

func (d *BeatDetector) Confidence() float64 { return d.confidence }

func (d *BeatDetector) LastBeat() int { return d.lastBeat }
