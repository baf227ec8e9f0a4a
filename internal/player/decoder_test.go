package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

// wavFile builds a minimal PCM WAV file.
func wavFile(rate, channels, bits int, data []byte) []byte {
	var b bytes.Buffer
	le := binary.LittleEndian
	b.WriteString("RIFF")
	binary.Write(&b, le, uint32(36+len(data)))
	b.WriteString("WAVEfmt ")
	binary.Write(&b, le, uint32(16))
	binary.Write(&b, le, uint16(1))
	binary.Write(&b, le, uint16(channels))
	binary.Write(&b, le, uint32(rate))
	binary.Write(&b, le, uint32(rate*channels*bits/8))
	binary.Write(&b, le, uint16(channels*bits/8))
	binary.Write(&b, le, uint16(bits))
	b.WriteString("data")
	binary.Write(&b, le, uint32(len(data)))
	b.Write(data)
	return b.Bytes()
}

func TestWAVStreamDecodes16Bit(t *testing.T) {
	pcm := pcm16(100, -100, 200, -200, 300, -300)
	s, err := newStream(bytes.NewReader(wavFile(22050, 2, 16, pcm)), ".WAV")
	if err != nil {
		t.Fatalf("newStream: %v", err)
	}
	if s.SampleRate() != 22050 || s.ChannelCount() != 2 || s.Length() != int64(len(pcm)) {
		t.Fatalf("rate %d channels %d length %d", s.SampleRate(), s.ChannelCount(), s.Length())
	}
	got, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, pcm) {
		t.Fatalf("decoded %v, want %v", got, pcm)
	}
}

func TestWAVStreamWidens8Bit(t *testing.T) {
	s, err := newStream(bytes.NewReader(wavFile(8000, 1, 8, []byte{128, 255, 0, 128})), ".wav")
	if err != nil {
		t.Fatalf("newStream: %v", err)
	}
	got, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if want := pcm16(0, 127<<8, -128<<8, 0); !bytes.Equal(got, want) {
		t.Fatalf("decoded %v, want %v", got, want)
	}
}

func TestNewStreamRejectsUnknownExtension(t *testing.T) {
	if _, err := newStream(bytes.NewReader(nil), ".opus"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSynthAlternatesSections(t *testing.T) {
	rms := func(s *Synth, seconds float64) float64 {
		buf := make([]byte, int(seconds*synthRate)*4)
		if _, err := io.ReadFull(s, buf); err != nil {
			t.Fatalf("read: %v", err)
		}
		var sum float64
		for i := 0; i < len(buf); i += 4 {
			v := float64(int16(binary.LittleEndian.Uint16(buf[i:]))) / 32768
			sum += v * v
		}
		return math.Sqrt(sum / float64(len(buf)/4))
	}

	s := NewSynth(3)
	if s.Length() != -1 || s.SampleRate() != synthRate || s.ChannelCount() != 2 {
		t.Fatal("unexpected synth format")
	}
	part := float64(barsPerPart*4) * 60 / synthBPM
	drop := rms(s, part)
	breakdown := rms(s, part)
	if drop <= breakdown*1.5 {
		t.Fatalf("drop rms %v not clearly louder than breakdown %v", drop, breakdown)
	}
	if breakdown == 0 {
		t.Fatal("breakdown is silent")
	}
}

func TestMetadataFallsBackToFileName(t *testing.T) {
	m := ReadMetadata("/music/Some Song.flac")
	if m.Title != "Some Song" || m.Label() != "Some Song" {
		t.Fatalf("metadata = %+v", m)
	}
	if got := (Metadata{Title: "T", Artist: "A"}).Label(); got != "A - T" {
		t.Fatalf("label = %q", got)
	}
}
