package visualizer

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"reflect"
	"time"
)

var (
	// ErrEngineUnavailable is returned when the audio source or the surface
	// is missing. The host should draw nothing.
	ErrEngineUnavailable = errors.New("visualizer: engine unavailable")
	ErrUnknownStyle      = errors.New("visualizer: unknown style")
)

const (
	fadeMax = 0.28
	fadeMin = 0.06
)

// Config configures a Loop.
type Config struct {
	Style string
	FPS   int
	// Seed for pattern and symmetry choices; 0 seeds from the clock.
	Seed   int64
	Device DeviceInfo
	// Quality overrides the profile derived from Device when set.
	Quality    *QualityProfile
	Beat       BeatConfig
	Transition TransitionConfig
	HueStep    float64
	Logger     *log.Logger
}

func DefaultConfig() Config {
	return Config{
		Style:      "mandala",
		FPS:        30,
		Device:     DeviceInfo{Cores: 4},
		Beat:       DefaultBeatConfig(),
		Transition: DefaultTransitionConfig(),
		HueStep:    0.5,
	}
}

// EngineState is all cross-frame state the loop owns.
type EngineState struct {
	Tick       int // scheduled callbacks, skipped or not
	Frame      int // processed frames
	Hue        float64
	Rotation   float64
	Bands      BandEnergies
	Trend      float64
	Beat       bool
	Confidence float64
	Transition TransitionState
}

// Loop runs one frame per scheduled callback. It is not safe for concurrent
// use; the host calls Frame from a single goroutine.
type Loop struct {
	src  AudioSource
	surf Surface
	cfg  Config
	log  *log.Logger
	rng  *rand.Rand

	quality    QualityProfile
	history    EnergyHistory
	beat       *BeatDetector
	transition *TransitionController

	styles []Style
	style  int

	sample  SampleFrame
	state   EngineState
	stopped bool
}

// isNil also catches interfaces holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// NewLoop wires the engine to its collaborators and profiles quality once.
func NewLoop(src AudioSource, surf Surface, cfg Config) (*Loop, error) {
	if isNil(src) || isNil(surf) {
		return nil, ErrEngineUnavailable
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.HueStep == 0 {
		cfg.HueStep = 0.5
	}
	if cfg.Style == "" {
		cfg.Style = "mandala"
	}
	idx, ok := LookupStyle(cfg.Style)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, cfg.Style)
	}

	var q QualityProfile
	if cfg.Quality != nil {
		q = cfg.Quality.normalize()
	} else {
		q = Profile(cfg.Device).normalize()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Printf("quality tier %s (symmetry <= %d, skip %d)", q.Tier, q.MaxSymmetry, q.FrameSkip)

	l := &Loop{
		src:        src,
		surf:       surf,
		cfg:        cfg,
		log:        logger,
		rng:        rng,
		quality:    q,
		beat:       NewBeatDetector(cfg.Beat),
		transition: NewTransitionController(cfg.Transition, q, rng, logger),
		styles:     Styles(cfg.FPS),
		style:      idx,
	}
	l.state.Transition = l.transition.State()
	return l, nil
}

// Frame runs one scheduled callback and reports whether it drew. Skipped
// ticks and calls after Stop draw nothing.
func (l *Loop) Frame() bool {
	if l.stopped {
		return false
	}
	l.state.Tick++
	if (l.state.Tick-1)%l.quality.FrameSkip != 0 {
		return false
	}

	l.pull()
	bands := ExtractFeatures(l.sample.Frequency)

	st := &l.state
	st.Frame++
	st.Bands = bands
	l.history.Push(bands.Average)
	st.Trend = l.history.Trend()
	st.Beat = l.beat.Update(st.Frame, bands.Bass)
	st.Confidence = l.beat.Confidence()
	st.Transition = l.transition.Update(Signals{
		Frame:      st.Frame,
		Bands:      bands,
		Trend:      st.Trend,
		Beat:       st.Beat,
		Confidence: st.Confidence,
	})
	st.Hue = advanceHue(st.Hue, l.cfg.HueStep)
	st.Rotation = math.Mod(st.Rotation+0.003+bands.Average*0.012, 2*math.Pi)

	w, h := l.surf.Size()
	if w <= 0 || h <= 0 {
		return false
	}
	l.surf.Fade(fadeAlpha(bands.Average))
	l.styles[l.style].Draw(l.surf, &FrameContext{
		Frame:      st.Frame,
		Hue:        st.Hue,
		Rotation:   st.Rotation,
		Bands:      bands,
		Trend:      st.Trend,
		Beat:       st.Beat,
		Confidence: st.Confidence,
		Transition: st.Transition,
		Quality:    l.quality,
		Sample:     l.sample,
		Width:      w,
		Height:     h,
		Rand:       l.rng,
	})
	return true
}

func (l *Loop) pull() {
	n := max(0, l.src.FrequencyBinCount())
	m := max(0, l.src.FFTSize())
	if cap(l.sample.Frequency) < n {
		l.sample.Frequency = make([]byte, n)
	}
	if cap(l.sample.TimeDomain) < m {
		l.sample.TimeDomain = make([]byte, m)
	}
	l.sample.Frequency = l.sample.Frequency[:n]
	l.sample.TimeDomain = l.sample.TimeDomain[:m]
	l.src.FrequencyMagnitudes(l.sample.Frequency)
	l.src.TimeDomainSamples(l.sample.TimeDomain)
}

// SetStyle selects a style by name.
func (l *Loop) SetStyle(name string) error {
	idx, ok := LookupStyle(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
	l.style = idx
	return nil
}

// NextStyle cycles to the next style and returns its name.
func (l *Loop) NextStyle() string {
	l.style = (l.style + 1) % len(l.styles)
	return l.StyleName()
}

func (l *Loop) StyleName() string { return l.styles[l.style].Name() }

func (l *Loop) State() EngineState { return l.state }

func (l *Loop) Quality() QualityProfile { return l.quality }

// Stop releases the surface. Later Frame calls do nothing.
func (l *Loop) Stop() {
	if l.stopped {
		return
	}
	l.stopped = true
	l.surf.Release()
}

func (l *Loop) Stopped() bool { return l.stopped }

// fadeAlpha is the trail-clearing opacity: louder frames fade less.
func fadeAlpha(average float64) float64 {
	return math.Max(fadeMin, math.Min(fadeMax, fadeMax-0.2*average))
}

func advanceHue(h, step float64) float64 {
	return wrapHue(h + step)
}
