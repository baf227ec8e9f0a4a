// Package analyser turns a live PCM stream into the byte spectra and
// waveforms the visualizer pulls each frame. Scaling follows the Web Audio
// AnalyserNode: a Blackman-windowed FFT, magnitudes divided by the
// transform size, exponential smoothing over time, then a decibel range
// mapped onto 0..255.
package analyser

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

var (
	ErrInvalidFFTSize   = errors.New("analyser: fft size must be a power of two in [256, 8192]")
	ErrInvalidSmoothing = errors.New("analyser: smoothing must be in [0, 0.99]")
	ErrInvalidRange     = errors.New("analyser: min decibels must be below max decibels")
	ErrInvalidChannels  = errors.New("analyser: channel count must be positive")
)

// Config describes the transform and the input PCM layout.
type Config struct {
	FFTSize     int
	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
	Channels    int
}

func DefaultConfig() Config {
	return Config{
		FFTSize:     2048,
		Smoothing:   0.8,
		MinDecibels: -100,
		MaxDecibels: -30,
		Channels:    2,
	}
}

func (c Config) Validate() error {
	if c.FFTSize < 256 || c.FFTSize > 8192 || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidFFTSize, c.FFTSize)
	}
	if c.Smoothing < 0 || c.Smoothing > 0.99 || math.IsNaN(c.Smoothing) {
		return fmt.Errorf("%w: got %v", ErrInvalidSmoothing, c.Smoothing)
	}
	if !(c.MinDecibels < c.MaxDecibels) {
		return fmt.Errorf("%w: got [%v, %v]", ErrInvalidRange, c.MinDecibels, c.MaxDecibels)
	}
	if c.Channels < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidChannels, c.Channels)
	}
	return nil
}

// Analyser is an io.Writer for interleaved s16le PCM. Write may be called
// from the audio goroutine while one other goroutine pulls spectra.
type Analyser struct {
	cfg    Config
	ring   *sampleRing
	fft    *fourier.FFT
	window []float64

	frame    []float64
	coeff    []complex128
	smoothed []float64
}

func New(cfg Config) (*Analyser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.FFTSize
	win := make([]float64, n)
	for i := range win {
		win[i] = 1
	}
	window.Blackman(win)

	return &Analyser{
		cfg:      cfg,
		ring:     newSampleRing(n, cfg.Channels),
		fft:      fourier.NewFFT(n),
		window:   win,
		frame:    make([]float64, n),
		coeff:    make([]complex128, n/2+1),
		smoothed: make([]float64, n/2),
	}, nil
}

// Write feeds PCM into the analysis window. It never fails.
func (a *Analyser) Write(p []byte) (int, error) {
	a.ring.write(p)
	return len(p), nil
}

func (a *Analyser) FFTSize() int { return a.cfg.FFTSize }

func (a *Analyser) FrequencyBinCount() int { return a.cfg.FFTSize / 2 }

// FrequencyMagnitudes fills dst with smoothed byte magnitudes. Each call
// advances the smoothing by one step, so call it once per frame.
func (a *Analyser) FrequencyMagnitudes(dst []byte) {
	a.ring.latest(a.frame)
	for i, w := range a.window {
		a.frame[i] *= w
	}
	a.fft.Coefficients(a.coeff, a.frame)

	n := float64(a.cfg.FFTSize)
	tau := a.cfg.Smoothing
	span := a.cfg.MaxDecibels - a.cfg.MinDecibels
	for k := range a.smoothed {
		c := a.coeff[k]
		mag := math.Hypot(real(c), imag(c)) / n
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag
		if k >= len(dst) {
			continue
		}
		dst[k] = toByte(a.smoothed[k], a.cfg.MinDecibels, span)
	}
	for k := len(a.smoothed); k < len(dst); k++ {
		dst[k] = 0
	}
}

func toByte(mag, minDB, span float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := 255 * (db - minDB) / span
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}

// TimeDomainSamples fills dst with the newest samples as bytes centred on 128.
func (a *Analyser) TimeDomainSamples(dst []byte) {
	a.ring.latest(a.frame)
	off := max(0, len(a.frame)-len(dst))
	for i := range dst {
		if off+i >= len(a.frame) {
			dst[i] = 128
			continue
		}
		v := 128 * (1 + a.frame[off+i])
		dst[i] = byte(math.Max(0, math.Min(255, v)))
	}
}

// Reset drops buffered audio and smoothing history.
func (a *Analyser) Reset() {
	a.ring.clear()
	for i := range a.smoothed {
		a.smoothed[i] = 0
	}
}
