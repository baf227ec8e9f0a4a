package player

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/skrashevich/go-aac/pkg/adts"
	aacdec "github.com/skrashevich/go-aac/pkg/decoder"
)

const (
	aacObjectLC    = 2
	aacFrameLength = 1024
)

// auSource yields raw AAC access units in decode order.
type auSource interface {
	ASC() []byte
	// Leading is the number of priming PCM frames to drop.
	Leading() int64
	// Frames is the playable PCM frame count after Leading.
	Frames() int64
	Next() ([]byte, error)
}

// aacStream decodes AAC-LC from an ADTS or MP4 container.
type aacStream struct {
	src      auSource
	codec    *aacdec.Decoder
	out      pending
	length   int64
	pos      int64
	channels int
	skip     int
}

type readSeekerAt interface {
	io.ReadSeeker
	io.ReaderAt
}

func newAACStream(r io.ReadSeeker, ext string) (*aacStream, error) {
	ra, ok := r.(readSeekerAt)
	if !ok {
		return nil, fmt.Errorf("%w: %s needs random access", ErrUnsupportedFormat, ext)
	}
	var (
		src auSource
		err error
	)
	if ext == ".aac" {
		src, err = newADTSSource(ra)
	} else {
		src, err = newMP4Source(ra)
	}
	if err != nil {
		return nil, err
	}

	codec := aacdec.New()
	if err := codec.SetASC(src.ASC()); err != nil {
		return nil, fmt.Errorf("decoding AAC config: %w", err)
	}
	cfg := codec.Config
	if cfg.Profile != aacObjectLC {
		return nil, fmt.Errorf("%w: AAC object type %d, only LC", ErrUnsupportedFormat, cfg.Profile)
	}
	if cfg.ChanConfig < 1 || cfg.ChanConfig > outputChannels {
		return nil, fmt.Errorf("%w: AAC channel configuration %d", ErrUnsupportedFormat, cfg.ChanConfig)
	}
	if cfg.FrameLength != aacFrameLength {
		return nil, fmt.Errorf("%w: AAC frame length %d", ErrUnsupportedFormat, cfg.FrameLength)
	}
	return &aacStream{
		src:      src,
		codec:    codec,
		length:   src.Frames() * int64(cfg.ChanConfig*2),
		channels: cfg.ChanConfig,
		skip:     int(src.Leading()) * cfg.ChanConfig * 2,
	}, nil
}

func (s *aacStream) Read(p []byte) (int, error) {
	if s.pos >= s.length {
		return 0, io.EOF
	}
	if len(s.out.buf) == 0 {
		raw, err := s.decode()
		if err != nil {
			return 0, err
		}
		s.out.buf = raw
	}
	buf := s.out.buf
	if left := s.length - s.pos; int64(len(buf)) > left {
		buf = buf[:left]
	}
	n := copy(p, buf)
	s.out.buf = s.out.buf[n:]
	s.pos += int64(n)
	return n, nil
}

// decode returns the next non-empty block of PCM, dropping priming samples.
func (s *aacStream) decode() ([]byte, error) {
	for {
		au, err := s.src.Next()
		if err != nil {
			return nil, err
		}
		samples, err := s.codec.DecodeFrame(au)
		if err != nil {
			return nil, fmt.Errorf("decoding AAC: %w", err)
		}
		raw := floatsToS16(samples)
		if s.skip > 0 {
			drop := min(s.skip, len(raw))
			s.skip -= drop
			raw = raw[drop:]
		}
		if len(raw) > 0 {
			return raw, nil
		}
	}
}

func floatsToS16(samples []float32) []byte {
	raw := make([]byte, len(samples)*2)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(clampS16(int(max(-1, min(1, v)) * 32767))))
	}
	return raw
}

func (s *aacStream) Length() int64     { return s.length }
func (s *aacStream) SampleRate() int   { return s.codec.Config.SampleRate }
func (s *aacStream) ChannelCount() int { return s.channels }

// --- ADTS ---

type adtsSource struct {
	r       io.ReaderAt
	asc     []byte
	offsets []int64
	sizes   []int
	next    int
	buf     []byte
}

// newADTSSource indexes every ADTS frame up front.
func newADTSSource(r readSeekerAt) (*adtsSource, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	s := &adtsSource{r: r}
	var hdr [9]byte
	for off := id3v2Size(r); off < size; {
		n, err := r.ReadAt(hdr[:], off)
		if err != nil && err != io.EOF {
			return nil, err
		}
		if n < 7 {
			return nil, fmt.Errorf("short ADTS header at byte %d", off)
		}
		h, err := adts.ReadHeaderFromBytes(hdr[:n])
		if err != nil {
			return nil, fmt.Errorf("ADTS header at byte %d: %w", off, err)
		}
		headerLen := 9
		if h.ProtectionAbsent {
			headerLen = 7
		}
		if h.NumFrames != 1 || h.FrameLength < headerLen || off+int64(h.FrameLength) > size {
			return nil, fmt.Errorf("bad ADTS frame at byte %d", off)
		}
		asc, err := adts.AudioSpecificConfig(h)
		if err != nil {
			return nil, err
		}
		if s.asc == nil {
			s.asc = append([]byte(nil), asc[:]...)
		} else if s.asc[0] != asc[0] || s.asc[1] != asc[1] {
			return nil, fmt.Errorf("%w: ADTS config changes at byte %d", ErrUnsupportedFormat, off)
		}
		s.offsets = append(s.offsets, off)
		s.sizes = append(s.sizes, h.FrameLength)
		off += int64(h.FrameLength)
	}
	if len(s.offsets) == 0 {
		return nil, fmt.Errorf("no ADTS frames found")
	}
	return s, nil
}

// id3v2Size is the length of a leading ID3v2 tag, footer included, or 0.
func id3v2Size(r io.ReaderAt) int64 {
	var h [10]byte
	if n, _ := r.ReadAt(h[:], 0); n < len(h) || string(h[:3]) != "ID3" {
		return 0
	}
	size := int64(h[6]&0x7f)<<21 | int64(h[7]&0x7f)<<14 | int64(h[8]&0x7f)<<7 | int64(h[9]&0x7f)
	size += 10
	if h[5]&0x10 != 0 {
		size += 10
	}
	return size
}

func (s *adtsSource) ASC() []byte    { return s.asc }
func (s *adtsSource) Leading() int64 { return 0 }
func (s *adtsSource) Frames() int64  { return int64(len(s.offsets)) * aacFrameLength }

func (s *adtsSource) Next() ([]byte, error) {
	if s.next >= len(s.offsets) {
		return nil, io.EOF
	}
	au := growTo(&s.buf, s.sizes[s.next])
	if _, err := s.r.ReadAt(au, s.offsets[s.next]); err != nil {
		return nil, err
	}
	s.next++
	return au, nil
}

func growTo(buf *[]byte, n int) []byte {
	if cap(*buf) < n {
		*buf = make([]byte, n)
	}
	return (*buf)[:n]
}

// --- MP4 ---

type mp4Source struct {
	r       io.ReaderAt
	trak    *mp4.TrakBox
	asc     []byte
	leading int64
	frames  int64
	next    uint32
	buf     []byte
}

func newMP4Source(r readSeekerAt) (*mp4Source, error) {
	f, err := mp4.DecodeFile(r, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return nil, fmt.Errorf("decoding MP4: %w", err)
	}
	if f.Moov == nil || f.IsFragmented() {
		return nil, fmt.Errorf("%w: fragmented or moov-less MP4", ErrUnsupportedFormat)
	}

	var trak *mp4.TrakBox
	for _, t := range f.Moov.Traks {
		if t == nil || t.Mdia == nil || t.Mdia.Hdlr == nil || t.Mdia.Hdlr.HandlerType != "soun" {
			continue
		}
		if trak != nil {
			return nil, fmt.Errorf("%w: more than one audio track", ErrUnsupportedFormat)
		}
		trak = t
	}
	if trak == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return nil, fmt.Errorf("MP4 has no usable audio track")
	}
	stsd := trak.Mdia.Minf.Stbl.Stsd
	if stsd.Enca != nil || stsd.Mp4a == nil || stsd.Mp4a.Sinf != nil {
		return nil, fmt.Errorf("%w: MP4 audio is not clear AAC", ErrUnsupportedFormat)
	}
	esds := stsd.Mp4a.Esds
	if esds == nil || esds.DecConfigDescriptor == nil || esds.DecConfigDescriptor.DecSpecificInfo == nil ||
		len(esds.DecConfigDescriptor.DecSpecificInfo.DecConfig) == 0 {
		return nil, fmt.Errorf("MP4 AAC track has no AudioSpecificConfig")
	}
	if trak.GetNrSamples() == 0 {
		return nil, fmt.Errorf("MP4 AAC track has no samples")
	}

	leading, frames, err := mp4PlayWindow(trak)
	if err != nil {
		return nil, err
	}
	return &mp4Source{
		r:       r,
		trak:    trak,
		asc:     append([]byte(nil), esds.DecConfigDescriptor.DecSpecificInfo.DecConfig...),
		leading: leading,
		frames:  frames,
	}, nil
}

// mp4PlayWindow reads the priming offset and playable length from a single
// edit list entry, if present.
func mp4PlayWindow(trak *mp4.TrakBox) (leading, frames int64, err error) {
	if trak.Mdia.Mdhd == nil || trak.Mdia.Minf.Stbl.Stts == nil {
		return 0, 0, fmt.Errorf("MP4 AAC track has no timing tables")
	}
	stts := trak.Mdia.Minf.Stbl.Stts
	for i, d := range stts.SampleTimeDelta {
		last := i == len(stts.SampleTimeDelta)-1
		if d == 0 || d > aacFrameLength || (!last && d != aacFrameLength) {
			return 0, 0, fmt.Errorf("%w: AAC sample delta %d", ErrUnsupportedFormat, d)
		}
	}

	total := int64(trak.Mdia.Mdhd.Duration)
	if trak.Edts == nil || len(trak.Edts.Elst) == 0 {
		return 0, total, nil
	}
	if len(trak.Edts.Elst) != 1 || len(trak.Edts.Elst[0].Entries) != 1 {
		return 0, 0, fmt.Errorf("%w: complex MP4 edit list", ErrUnsupportedFormat)
	}
	e := trak.Edts.Elst[0].Entries[0]
	if e.MediaRateInteger != 1 || e.MediaRateFraction != 0 || e.MediaTime < 0 || e.MediaTime > total {
		return 0, 0, fmt.Errorf("%w: MP4 edit list entry", ErrUnsupportedFormat)
	}
	return e.MediaTime, total - e.MediaTime, nil
}

func (s *mp4Source) ASC() []byte    { return s.asc }
func (s *mp4Source) Leading() int64 { return s.leading }
func (s *mp4Source) Frames() int64  { return s.frames }

func (s *mp4Source) Next() ([]byte, error) {
	if s.next >= s.trak.GetNrSamples() {
		return nil, io.EOF
	}
	nr := s.next + 1
	ranges, err := s.trak.GetRangesForSampleInterval(nr, nr)
	if err != nil {
		return nil, err
	}
	if len(ranges) != 1 {
		return nil, fmt.Errorf("AAC sample %d spans %d ranges", nr, len(ranges))
	}
	au := growTo(&s.buf, int(ranges[0].Size))
	if _, err := s.r.ReadAt(au, int64(ranges[0].Offset)); err != nil {
		return nil, err
	}
	s.next++
	return au, nil
}
