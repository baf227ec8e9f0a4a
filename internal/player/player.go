package player

import (
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	bytesPerSample = 2
	pumpInterval   = 20 * time.Millisecond
	monitorEvery   = 100 * time.Millisecond
)

// Options control playback.
type Options struct {
	// Mute skips the audio device; PCM is still paced in real time.
	Mute bool
	// Tap receives every PCM byte as it is consumed.
	Tap    io.Writer
	Logger *log.Logger
}

// tapReader copies what it reads to a tap and counts bytes.
type tapReader struct {
	src Stream
	tap io.Writer
	pos atomic.Int64
	eof atomic.Bool
}

func (t *tapReader) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if n > 0 {
		if t.tap != nil {
			t.tap.Write(p[:n])
		}
		t.pos.Add(int64(n))
	}
	if err != nil {
		t.eof.Store(true)
	}
	return n, err
}

// Player plays a Stream on the audio device, or paces it silently when the
// device is unavailable or muted.
type Player struct {
	reader      *tapReader
	closer      io.Closer
	otoPlayer   *oto.Player
	bytesPerSec int
	duration    time.Duration
	log         *log.Logger

	mu     sync.Mutex
	paused bool
	closed bool

	done     chan struct{}
	doneOnce sync.Once
	stop     chan struct{}
}

var (
	globalOtoCtx  *oto.Context
	globalOtoRate int
	otoOnce       sync.Once
	otoInitErr    error
)

func initOto(rate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: outputChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			globalOtoRate = rate
		}
	})
	if otoInitErr == nil && globalOtoRate != rate {
		return nil, fmt.Errorf("audio device already open at %d Hz, track is %d Hz", globalOtoRate, rate)
	}
	return globalOtoCtx, otoInitErr
}

// Open decodes the file at path and starts playing it.
func Open(path string, opts Options) (*Player, error) {
	s, closer, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	p, err := New(s, opts)
	if err != nil {
		closer.Close()
		return nil, err
	}
	p.closer = closer
	return p, nil
}

// New starts playing s. If the audio device cannot be opened playback
// continues silently so the tap still sees audio in real time.
func New(s Stream, opts Options) (*Player, error) {
	s, err := toStereo(s)
	if err != nil {
		return nil, err
	}
	if s.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, s.SampleRate())
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	bps := s.SampleRate() * outputChannels * bytesPerSample
	p := &Player{
		reader:      &tapReader{src: s, tap: opts.Tap},
		bytesPerSec: bps,
		log:         logger,
		done:        make(chan struct{}),
		stop:        make(chan struct{}),
	}
	if l := s.Length(); l >= 0 {
		p.duration = time.Duration(float64(l) / float64(bps) * float64(time.Second))
	}

	if !opts.Mute {
		ctx, err := initOto(s.SampleRate())
		if err == nil {
			p.otoPlayer = ctx.NewPlayer(p.reader)
			p.otoPlayer.Play()
			go p.monitor()
			return p, nil
		}
		logger.Printf("audio output unavailable, playing silently: %v", err)
	}
	go p.pump()
	return p, nil
}

// pump reads PCM at the stream's real-time rate without a device.
func (p *Player) pump() {
	ticker := time.NewTicker(pumpInterval)
	defer ticker.Stop()
	chunk := make([]byte, int(float64(p.bytesPerSec)*pumpInterval.Seconds())&^3)
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
		}
		if p.Paused() {
			continue
		}
		if _, err := io.ReadFull(p.reader, chunk); err != nil {
			p.finish()
			return
		}
	}
}

func (p *Player) monitor() {
	ticker := time.NewTicker(monitorEvery)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
		}
		p.mu.Lock()
		finished := p.reader.eof.Load() && !p.paused && !p.otoPlayer.IsPlaying()
		p.mu.Unlock()
		if finished {
			if err := p.otoPlayer.Err(); err != nil {
				p.log.Printf("playback: %v", err)
			}
			p.finish()
			return
		}
	}
}

func (p *Player) finish() {
	p.doneOnce.Do(func() { close(p.done) })
}

// Done closes when the stream has been played to the end.
func (p *Player) Done() <-chan struct{} { return p.done }

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.paused = !p.paused
	if p.otoPlayer == nil {
		return
	}
	if p.paused {
		p.otoPlayer.Pause()
	} else {
		p.otoPlayer.Play()
	}
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Silent reports whether playback bypasses the audio device.
func (p *Player) Silent() bool { return p.otoPlayer == nil }

// Position is how much audio has been played.
func (p *Player) Position() time.Duration {
	pos := p.reader.pos.Load()
	if p.otoPlayer != nil {
		pos -= int64(p.otoPlayer.BufferedSize())
	}
	pos = max(0, pos)
	return time.Duration(float64(pos) / float64(p.bytesPerSec) * float64(time.Second))
}

// Duration is the track length, or 0 when unbounded.
func (p *Player) Duration() time.Duration { return p.duration }

// Close stops playback and releases the device player and the file.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.stop)

	var err error
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
		err = p.otoPlayer.Close()
	}
	if p.closer != nil {
		if cerr := p.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
