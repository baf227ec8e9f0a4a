package player

import (
	"encoding/binary"
	"math"
	"math/rand"
)

const (
	synthRate   = 44100
	synthBPM    = 120
	barsPerPart = 8
)

// Synth is an endless demo track: kick, bass, chord pad and hats, with
// sections that alternate between a sparse breakdown and a full drop so
// that pattern changes have something to react to.
type Synth struct {
	frame int64
	rng   *rand.Rand
	out   pending
}

func NewSynth(seed int64) *Synth {
	return &Synth{rng: rand.New(rand.NewSource(seed))}
}

var (
	bassNotes  = [4]float64{55, 55, 65.41, 49}
	chordRoots = [4]float64{220, 220, 261.63, 196}
)

func (s *Synth) Read(p []byte) (int, error) {
	if len(s.out.buf) > 0 {
		return s.out.drain(p), nil
	}
	frames := max(1, len(p)/4)
	raw := make([]byte, frames*4)
	for i := range frames {
		v := clampS16(int(s.sample() * 32767))
		binary.LittleEndian.PutUint16(raw[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(raw[i*4+2:], uint16(v))
		s.frame++
	}
	return s.out.emit(p, raw), nil
}

func (s *Synth) sample() float64 {
	t := float64(s.frame) / synthRate
	beatLen := 60.0 / synthBPM
	beat := t / beatLen
	inBeat := (beat - math.Floor(beat)) * beatLen
	bar := int(beat / 4)
	drop := (bar/barsPerPart)%2 == 0
	chord := bar % len(chordRoots)

	var v float64
	for _, ratio := range []float64{1, 1.26, 1.5} {
		f := chordRoots[chord] * ratio
		v += 0.06 * math.Sin(2*math.Pi*f*t)
	}

	// Offbeat hats.
	half := (beat*2 - math.Floor(beat*2)) * beatLen / 2
	if int(beat*2)%2 == 1 {
		v += 0.12 * (s.rng.Float64()*2 - 1) * math.Exp(-half*60)
	}

	if drop {
		// Pitch-swept kick.
		f := 50 + 120*math.Exp(-inBeat*30)
		v += 0.7 * math.Sin(2*math.Pi*f*inBeat) * math.Exp(-inBeat*6)
		v += 0.25 * math.Sin(2*math.Pi*bassNotes[chord]*t) * (0.6 + 0.4*math.Exp(-inBeat*4))
	}
	return v
}

func (s *Synth) Length() int64     { return -1 }
func (s *Synth) SampleRate() int   { return synthRate }
func (s *Synth) ChannelCount() int { return 2 }
