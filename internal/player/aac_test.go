package player

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestID3v2Size(t *testing.T) {
	tag := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 1, 0x7f}
	if got := id3v2Size(bytes.NewReader(tag)); got != 10+128+127 {
		t.Fatalf("size = %d, want %d", got, 10+128+127)
	}
	tag[5] = 0x10
	if got := id3v2Size(bytes.NewReader(tag)); got != 20+128+127 {
		t.Fatalf("size with footer = %d, want %d", got, 20+128+127)
	}
	if got := id3v2Size(bytes.NewReader([]byte{0xff, 0xf1, 0x50})); got != 0 {
		t.Fatalf("untagged size = %d, want 0", got)
	}
}

func TestADTSSourceRejectsEmptyAndShortInput(t *testing.T) {
	tagOnly := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 0}
	for name, data := range map[string][]byte{
		"empty":    nil,
		"tag only": tagOnly,
	} {
		if _, err := newADTSSource(bytes.NewReader(data)); err == nil || !strings.Contains(err.Error(), "no ADTS frames") {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
	if _, err := newADTSSource(bytes.NewReader([]byte{0xff, 0xf1, 0x50})); err == nil || !strings.Contains(err.Error(), "short ADTS header") {
		t.Fatalf("short: err = %v", err)
	}
}

type plainReadSeeker struct{ io.ReadSeeker }

func TestAACNeedsRandomAccess(t *testing.T) {
	for _, ext := range []string{".aac", ".M4A", ".m4b"} {
		_, err := newStream(plainReadSeeker{bytes.NewReader(nil)}, ext)
		if !errors.Is(err, ErrUnsupportedFormat) || !strings.Contains(err.Error(), "random access") {
			t.Fatalf("%s: err = %v", ext, err)
		}
	}
}

func TestFloatsToS16Clamps(t *testing.T) {
	got := floatsToS16([]float32{1.5, -1.5, 0.5, 0})
	if want := pcm16(32767, -32767, 16383, 0); !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
