package screen

import (
	"image/color"
	"strconv"

	"github.com/muesli/termenv"
)

// Brightness ramp from darkest to brightest, used when colour is off.
const asciiRamp = " .:-=+*#%@"

const ansiReset = termenv.CSI + termenv.ResetSeq + "m"

// maxCached bounds the escape cache for the 16 and 256 colour profiles.
const maxCached = 1 << 14

// palette turns RGB triples into SGR escapes for one colour profile.
type palette struct {
	profile termenv.Profile
	cache   map[uint32]string
}

func newPalette(p termenv.Profile) *palette {
	return &palette{profile: p, cache: make(map[uint32]string)}
}

func (p *palette) color() bool { return p.profile != termenv.Ascii }

// seq returns the escape selecting (r, g, b) as foreground, or background
// when bg is set. Truecolor escapes are built directly; the reduced
// profiles go through termenv's nearest-colour conversion.
func (p *palette) seq(r, g, b uint8, bg bool) string {
	switch p.profile {
	case termenv.Ascii:
		return ""
	case termenv.TrueColor:
		buf := make([]byte, 0, 24)
		buf = append(buf, termenv.CSI...)
		if bg {
			buf = append(buf, "48;2;"...)
		} else {
			buf = append(buf, "38;2;"...)
		}
		buf = strconv.AppendUint(buf, uint64(r), 10)
		buf = append(buf, ';')
		buf = strconv.AppendUint(buf, uint64(g), 10)
		buf = append(buf, ';')
		buf = strconv.AppendUint(buf, uint64(b), 10)
		buf = append(buf, 'm')
		return string(buf)
	}

	key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	if bg {
		key |= 1 << 24
	}
	if s, ok := p.cache[key]; ok {
		return s
	}
	if len(p.cache) >= maxCached {
		clear(p.cache)
	}
	c := p.profile.FromColor(color.RGBA{R: r, G: g, B: b, A: 255})
	s := ""
	if c != nil {
		if sq := c.Sequence(bg); sq != "" {
			s = termenv.CSI + sq + "m"
		}
	}
	p.cache[key] = s
	return s
}

// brightnessChar maps a 0-255 luminance to an ASCII character.
func brightnessChar(lum uint8) byte {
	idx := int(lum) * (len(asciiRamp) - 1) / 255
	return asciiRamp[idx]
}

// luminance is the ITU-R BT.601 perceived brightness.
func luminance(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}
