package analyser

import (
	"encoding/binary"
	"sync"
)

// sampleRing is a thread-safe circular buffer of mono samples decoded from
// interleaved s16le PCM. A frame split across two writes is carried over.
type sampleRing struct {
	mu       sync.Mutex
	buf      []float64
	w        int
	n        int
	channels int
	pending  []byte
}

func newSampleRing(size, channels int) *sampleRing {
	return &sampleRing{
		buf:      make([]float64, size),
		channels: channels,
		pending:  make([]byte, 0, 2*channels),
	}
}

// write mixes each PCM frame down to one sample and appends it, overwriting
// the oldest samples once full.
func (r *sampleRing) write(p []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frameSize := 2 * r.channels
	if len(r.pending) > 0 {
		need := frameSize - len(r.pending)
		if len(p) < need {
			r.pending = append(r.pending, p...)
			return
		}
		r.pending = append(r.pending, p[:need]...)
		r.push(r.mix(r.pending))
		r.pending = r.pending[:0]
		p = p[need:]
	}
	for len(p) >= frameSize {
		r.push(r.mix(p[:frameSize]))
		p = p[frameSize:]
	}
	r.pending = append(r.pending, p...)
}

func (r *sampleRing) mix(frame []byte) float64 {
	var sum float64
	for ch := range r.channels {
		sum += float64(int16(binary.LittleEndian.Uint16(frame[ch*2:]))) / 32768
	}
	return sum / float64(r.channels)
}

func (r *sampleRing) push(v float64) {
	r.buf[r.w] = v
	r.w = (r.w + 1) % len(r.buf)
	if r.n < len(r.buf) {
		r.n++
	}
}

// latest copies the newest len(dst) samples into dst, oldest first. Missing
// history reads as silence at the front.
func (r *sampleRing) latest(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := len(r.buf)
	have := min(r.n, len(dst))
	lead := len(dst) - have
	for i := range lead {
		dst[i] = 0
	}
	start := (r.w - have + size) % size
	for i := range have {
		dst[lead+i] = r.buf[(start+i)%size]
	}
}

func (r *sampleRing) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w = 0
	r.n = 0
	r.pending = r.pending[:0]
}
