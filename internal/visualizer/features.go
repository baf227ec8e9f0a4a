package visualizer

// AudioSource is the audio analysis collaborator the loop pulls from once
// per frame.
type AudioSource interface {
	FrequencyBinCount() int
	FFTSize() int
	FrequencyMagnitudes(dst []byte)
	TimeDomainSamples(dst []byte)
}

// SampleFrame is one frame of analyser output: byte magnitudes for the
// first half of the transform and byte time-domain samples centred on 128.
type SampleFrame struct {
	Frequency  []byte
	TimeDomain []byte
}

// Band cutoffs over frequency bin indices, half-open.
const (
	bassEnd    = 10
	lowMidEnd  = 40
	highMidEnd = 100
	trebleEnd  = 200
	averageEnd = 200
)

// BandEnergies are normalized mean magnitudes over fixed bin ranges.
type BandEnergies struct {
	Bass    float64
	LowMid  float64
	HighMid float64
	Treble  float64
	Average float64
}

// Band names the dominant region of the spectrum.
type Band uint8

const (
	BandBass Band = iota
	BandMid
	BandTreble
)

func (b Band) String() string {
	switch b {
	case BandBass:
		return "bass"
	case BandMid:
		return "mid"
	default:
		return "treble"
	}
}

// Dominant reports which of bass, mid (mean of low and high mid) and treble
// carries the most energy. Ties favour the lower band.
func (e BandEnergies) Dominant() Band {
	mid := (e.LowMid + e.HighMid) / 2
	switch {
	case e.Bass >= mid && e.Bass >= e.Treble:
		return BandBass
	case mid >= e.Treble:
		return BandMid
	default:
		return BandTreble
	}
}

// ExtractFeatures computes band energies from byte magnitudes. Ranges clip
// to the available length, so short or empty input yields zeros.
func ExtractFeatures(freq []byte) BandEnergies {
	return BandEnergies{
		Bass:    bandMean(freq, 0, bassEnd),
		LowMid:  bandMean(freq, bassEnd, lowMidEnd),
		HighMid: bandMean(freq, lowMidEnd, highMidEnd),
		Treble:  bandMean(freq, highMidEnd, trebleEnd),
		Average: bandMean(freq, 0, averageEnd),
	}
}

func bandMean(freq []byte, lo, hi int) float64 {
	if hi > len(freq) {
		hi = len(freq)
	}
	if lo > hi {
		lo = hi
	}
	sum := 0
	for _, v := range freq[lo:hi] {
		sum += int(v)
	}
	return float64(sum) / float64(max(1, hi-lo)) / 255
}

// sampleAt returns the magnitude at fractional position t of data in [0,1].
func sampleAt(data []byte, t float64) float64 {
	if len(data) == 0 {
		return 0
	}
	i := clampInt(int(t*float64(len(data))), 0, len(data)-1)
	return float64(data[i]) / 255
}

// waveAt returns the time-domain sample at fractional position t in [-1,1].
func waveAt(data []byte, t float64) float64 {
	if len(data) == 0 {
		return 0
	}
	i := clampInt(int(t*float64(len(data))), 0, len(data)-1)
	return (float64(data[i]) - 128) / 128
}
