package player

import "fmt"

const outputChannels = 2

// stereoStream duplicates mono samples onto both output channels. Stereo
// input passes through; the sample rate is never changed.
type stereoStream struct {
	src Stream
	buf []byte
	out pending
}

// toStereo adapts src to two-channel output.
func toStereo(src Stream) (Stream, error) {
	switch src.ChannelCount() {
	case 2:
		return src, nil
	case 1:
		return &stereoStream{src: src}, nil
	default:
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, src.ChannelCount())
	}
}

func (s *stereoStream) Read(p []byte) (int, error) {
	if len(s.out.buf) > 0 {
		return s.out.drain(p), nil
	}
	want := max(2, len(p)/2&^1)
	if cap(s.buf) < want {
		s.buf = make([]byte, want)
	}
	n, err := s.src.Read(s.buf[:want])
	n &^= 1
	if n == 0 {
		return 0, err
	}
	raw := make([]byte, n*2)
	for i := 0; i < n; i += 2 {
		copy(raw[i*2:], s.buf[i:i+2])
		copy(raw[i*2+2:], s.buf[i:i+2])
	}
	return s.out.emit(p, raw), err
}

func (s *stereoStream) Length() int64 {
	if l := s.src.Length(); l >= 0 {
		return l * 2
	}
	return -1
}

func (s *stereoStream) SampleRate() int   { return s.src.SampleRate() }
func (s *stereoStream) ChannelCount() int { return outputChannels }
