package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// Stream is forward-only interleaved s16le PCM.
type Stream interface {
	io.Reader
	// Length is the total PCM size in bytes, or -1 when unbounded.
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// OpenFile opens path and picks a decoder by extension. Closing the returned
// closer releases the file.
func OpenFile(path string) (Stream, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	s, err := newStream(f, filepath.Ext(path))
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return s, f, nil
}

func newStream(r io.ReadSeeker, ext string) (Stream, error) {
	switch strings.ToLower(ext) {
	case ".mp3":
		return newMP3Stream(r)
	case ".wav":
		return newWAVStream(r)
	case ".flac":
		return newFLACStream(r)
	case ".ogg":
		return newOGGStream(r)
	case ".aac", ".m4a", ".m4b":
		return newAACStream(r, strings.ToLower(ext))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// pending hands out converted PCM that did not fit the caller's buffer.
type pending struct {
	buf []byte
}

func (p *pending) drain(dst []byte) int {
	n := copy(dst, p.buf)
	p.buf = p.buf[n:]
	return n
}

func (p *pending) emit(dst, raw []byte) int {
	n := copy(dst, raw)
	if n < len(raw) {
		p.buf = raw[n:]
	}
	return n
}

func clampS16(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// --- MP3 ---

type mp3Stream struct {
	dec *mp3.Decoder
}

func newMP3Stream(r io.Reader) (*mp3Stream, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Stream{dec: dec}, nil
}

func (s *mp3Stream) Read(p []byte) (int, error) { return s.dec.Read(p) }
func (s *mp3Stream) Length() int64              { return s.dec.Length() }
func (s *mp3Stream) SampleRate() int            { return s.dec.SampleRate() }
func (s *mp3Stream) ChannelCount() int          { return 2 }

// --- WAV ---

type wavStream struct {
	r          io.Reader
	out        pending
	totalBytes int64
	sampleRate int
	channels   int
	bitDepth   int
}

func newWAVStream(r io.ReadSeeker) (*wavStream, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedFormat, bitDepth)
	}
	srcFrame := int64(channels * bitDepth / 8)
	return &wavStream{
		r:          r,
		totalBytes: dec.PCMLen() / srcFrame * int64(channels) * 2,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		bitDepth:   bitDepth,
	}, nil
}

func (s *wavStream) Read(p []byte) (int, error) {
	if len(s.out.buf) > 0 {
		return s.out.drain(p), nil
	}

	width := s.bitDepth / 8
	samples := max(1, len(p)/2)
	src := make([]byte, samples*width)
	n, err := io.ReadFull(s.r, src)
	got := n / width
	if got == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, got*2)
	for i := range got {
		off := i * width
		var v int
		switch s.bitDepth {
		case 8:
			v = (int(src[off]) - 128) << 8
		case 16:
			v = int(int16(binary.LittleEndian.Uint16(src[off:])))
		case 24:
			x := int32(src[off]) | int32(src[off+1])<<8 | int32(src[off+2])<<16
			if x&0x800000 != 0 {
				x |= ^0xFFFFFF
			}
			v = int(x >> 8)
		case 32:
			v = int(int32(binary.LittleEndian.Uint32(src[off:])) >> 16)
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(clampS16(v)))
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return s.out.emit(p, raw), err
}

func (s *wavStream) Length() int64     { return s.totalBytes }
func (s *wavStream) SampleRate() int   { return s.sampleRate }
func (s *wavStream) ChannelCount() int { return s.channels }

// --- FLAC ---

type flacStream struct {
	stream     *flac.Stream
	out        pending
	totalBytes int64
	sampleRate int
	channels   int
	bps        int
}

func newFLACStream(r io.Reader) (*flacStream, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	channels := int(info.NChannels)
	return &flacStream{
		stream:     stream,
		totalBytes: int64(info.NSamples) * int64(channels) * 2,
		sampleRate: int(info.SampleRate),
		channels:   channels,
		bps:        int(info.BitsPerSample),
	}, nil
}

func (s *flacStream) Read(p []byte) (int, error) {
	if len(s.out.buf) > 0 {
		return s.out.drain(p), nil
	}
	frame, err := s.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	n := int(frame.Subframes[0].NSamples)
	raw := make([]byte, n*s.channels*2)
	for i := range n {
		for ch := range s.channels {
			v := int(frame.Subframes[ch].Samples[i])
			switch {
			case s.bps > 16:
				v >>= s.bps - 16
			case s.bps < 16:
				v <<= 16 - s.bps
			}
			binary.LittleEndian.PutUint16(raw[(i*s.channels+ch)*2:], uint16(clampS16(v)))
		}
	}
	return s.out.emit(p, raw), nil
}

func (s *flacStream) Length() int64     { return s.totalBytes }
func (s *flacStream) SampleRate() int   { return s.sampleRate }
func (s *flacStream) ChannelCount() int { return s.channels }

// --- OGG Vorbis ---

type oggStream struct {
	reader     *oggvorbis.Reader
	out        pending
	totalBytes int64
}

func newOGGStream(r io.Reader) (*oggStream, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggStream{
		reader:     reader,
		totalBytes: reader.Length() * int64(reader.Channels()) * 2,
	}, nil
}

func (s *oggStream) Read(p []byte) (int, error) {
	if len(s.out.buf) > 0 {
		return s.out.drain(p), nil
	}
	samples := make([]float32, max(1, len(p)/2))
	n, err := s.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	raw := make([]byte, n*2)
	for i, v := range samples[:n] {
		v = max(-1, min(1, v))
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(v*32767)))
	}
	return s.out.emit(p, raw), err
}

func (s *oggStream) Length() int64     { return s.totalBytes }
func (s *oggStream) SampleRate() int   { return s.reader.SampleRate() }
func (s *oggStream) ChannelCount() int { return s.reader.Channels() }
