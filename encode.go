package slate

import (
	"io"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Escape sequence fragments shared by the paint path.
const (
	escReset     = "\x1b[0m"
	escSyncBegin = "\x1b[?2026h" // synchronized update, DEC private mode 2026
	escSyncEnd   = "\x1b[?2026l"
	escLinkClose = "\x1b]8;;\x1b\\"
)

// ansi16RGB holds the reference sRGB values of the 16 basic colors, used
// as the fixed target set for the lossiest downgrade step.
var ansi16RGB = [16][3]uint8{
	{0x00, 0x00, 0x00}, {0x80, 0x00, 0x00}, {0x00, 0x80, 0x00}, {0x80, 0x80, 0x00},
	{0x00, 0x00, 0x80}, {0x80, 0x00, 0x80}, {0x00, 0x80, 0x80}, {0xc0, 0xc0, 0xc0},
	{0x80, 0x80, 0x80}, {0xff, 0x00, 0x00}, {0x00, 0xff, 0x00}, {0xff, 0xff, 0x00},
	{0x00, 0x00, 0xff}, {0xff, 0x00, 0xff}, {0x00, 0xff, 0xff}, {0xff, 0xff, 0xff},
}

// cubeLevels are the 6 channel values of the xterm 256-color cube.
var cubeLevels = [6]uint8{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}

// nearestCubeLevel maps an 8-bit channel to the nearest cube step index.
func nearestCubeLevel(v uint8) int {
	if v < 48 {
		return 0
	}
	if v < 115 {
		return 1
	}
	return int(v-35) / 40
}

// rgbTo256 maps an RGB triple to the nearest 256-palette index using the
// xterm cube and grayscale ramps. Pure arithmetic: the same input always
// yields the same index.
func rgbTo256(r, g, b uint8) uint8 {
	qr, qg, qb := nearestCubeLevel(r), nearestCubeLevel(g), nearestCubeLevel(b)
	cr, cg, cb := cubeLevels[qr], cubeLevels[qg], cubeLevels[qb]

	// Candidate from the 24-step grayscale ramp.
	avg := (int(r) + int(g) + int(b)) / 3
	grayIdx := 23
	if avg < 238 {
		grayIdx = (avg - 3) / 10
		if grayIdx < 0 {
			grayIdx = 0
		}
	}
	gv := uint8(8 + grayIdx*10)

	dist := func(r2, g2, b2 uint8) int {
		dr, dg, db := int(r)-int(r2), int(g)-int(g2), int(b)-int(b2)
		return dr*dr + dg*dg + db*db
	}
	if dist(gv, gv, gv) < dist(cr, cg, cb) {
		return uint8(232 + grayIdx)
	}
	return uint8(16 + 36*qr + 6*qg + qb)
}

// palette256RGB returns the reference RGB triple of a 256-palette index.
func palette256RGB(idx uint8) (uint8, uint8, uint8) {
	switch {
	case idx < 16:
		c := ansi16RGB[idx]
		return c[0], c[1], c[2]
	case idx < 232:
		n := int(idx) - 16
		return cubeLevels[n/36], cubeLevels[(n/6)%6], cubeLevels[n%6]
	default:
		v := uint8(8 + int(idx-232)*10)
		return v, v, v
	}
}

// rgbTo16 maps an RGB triple to the nearest of the 16 basic colors by
// perceptual distance in Luv space. The metric is fixed, so the mapping
// is deterministic.
func rgbTo16(r, g, b uint8) uint8 {
	target := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	best, bestDist := 0, -1.0
	for i, ref := range ansi16RGB {
		c := colorful.Color{R: float64(ref[0]) / 255, G: float64(ref[1]) / 255, B: float64(ref[2]) / 255}
		d := target.DistanceLuv(c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}

// DowngradeColor converts a color to the richest representation the
// terminal supports. Downgrades are monotonic: a color is never promoted
// to a richer representation, and an unsupported level falls to the next
// tier down rather than skipping it.
func DowngradeColor(c Color, level ColorLevel) Color {
	if c.Mode == ColorDefault {
		return c
	}
	switch level {
	case ColorLevelTrueColor:
		return c
	case ColorLevel256:
		if c.Mode == ColorRGB {
			return PaletteColor(rgbTo256(c.R, c.G, c.B))
		}
		return c
	case ColorLevel16:
		switch c.Mode {
		case ColorRGB:
			return BasicColor(rgbTo16(c.R, c.G, c.B))
		case Color256:
			if c.Index < 16 {
				return BasicColor(c.Index)
			}
			r, g, b := palette256RGB(c.Index)
			return BasicColor(rgbTo16(r, g, b))
		}
		return c
	default:
		return DefaultColor()
	}
}

// appendInt appends a non-negative integer without allocation.
func appendInt(b []byte, n int) []byte {
	if n == 0 {
		return append(b, '0')
	}
	if n < 0 {
		b = append(b, '-')
		n = -n
	}
	var scratch [10]byte
	i := len(scratch)
	for n > 0 {
		i--
		scratch[i] = byte('0' + n%10)
		n /= 10
	}
	return append(b, scratch[i:]...)
}

// appendColor appends the SGR parameters selecting a color, downgraded to
// the given level first.
func appendColor(b []byte, c Color, fg bool, level ColorLevel) []byte {
	c = DowngradeColor(c, level)
	switch c.Mode {
	case ColorDefault:
		if fg {
			return append(b, ";39"...)
		}
		return append(b, ";49"...)
	case Color16:
		base := 30
		if !fg {
			base = 40
		}
		idx := int(c.Index)
		if idx >= 8 {
			base += 60
			idx -= 8
		}
		b = append(b, ';')
		return appendInt(b, base+idx)
	case Color256:
		if fg {
			b = append(b, ";38;5;"...)
		} else {
			b = append(b, ";48;5;"...)
		}
		return appendInt(b, int(c.Index))
	default: // ColorRGB
		if fg {
			b = append(b, ";38;2;"...)
		} else {
			b = append(b, ";48;2;"...)
		}
		b = appendInt(b, int(c.R))
		b = append(b, ';')
		b = appendInt(b, int(c.G))
		b = append(b, ';')
		return appendInt(b, int(c.B))
	}
}

// sgrAttrs maps attribute bits to their SGR set parameters.
var sgrAttrs = []struct {
	attr  Attribute
	param string
}{
	{AttrBold, ";1"},
	{AttrItalic, ";3"},
	{AttrUnderline, ";4"},
	{AttrReverse, ";7"},
}

// appendStyle appends the minimal SGR transition from one style to the
// next. Attributes that must turn off force a leading reset (individual
// clears are spottily supported); otherwise only the parameters that
// changed are emitted.
func appendStyle(b []byte, from, to Style, level ColorLevel) []byte {
	needsReset := from.Attr&^to.Attr != 0
	if needsReset {
		b = append(b, "\x1b[0"...)
		for _, a := range sgrAttrs {
			if to.Attr.Has(a.attr) {
				b = append(b, a.param...)
			}
		}
		b = appendColor(b, to.FG, true, level)
		b = appendColor(b, to.BG, false, level)
		return append(b, 'm')
	}

	b = append(b, "\x1b["...)
	mark := len(b)
	for _, a := range sgrAttrs {
		if to.Attr.Has(a.attr) && !from.Attr.Has(a.attr) {
			b = append(b, a.param...)
		}
	}
	if !from.FG.Equal(to.FG) {
		b = appendColor(b, to.FG, true, level)
	}
	if !from.BG.Equal(to.BG) {
		b = appendColor(b, to.BG, false, level)
	}
	if len(b) == mark {
		// Nothing changed; drop the introducer.
		return b[:mark-2]
	}
	// The parameter list begins with a separator from the appenders;
	// replace "\x1b[;" with "\x1b[".
	copy(b[mark:], b[mark+1:])
	b = b[:len(b)-1]
	return append(b, 'm')
}

// appendCursorMove appends an absolute cursor position sequence
// (0-indexed input, 1-indexed on the wire).
func appendCursorMove(b []byte, x, y int) []byte {
	b = append(b, "\x1b["...)
	b = appendInt(b, y+1)
	b = append(b, ';')
	b = appendInt(b, x+1)
	return append(b, 'H')
}

// appendHyperlinkOpen appends an OSC 8 open for the given target.
func appendHyperlinkOpen(b []byte, url, id string) []byte {
	b = append(b, "\x1b]8;"...)
	if id != "" {
		b = append(b, "id="...)
		b = append(b, id...)
	}
	b = append(b, ';')
	b = append(b, url...)
	return append(b, "\x1b\\"...)
}

// appendHyperlinkClose appends an OSC 8 close.
func appendHyperlinkClose(b []byte) []byte {
	return append(b, escLinkClose...)
}

// WriteClipboard copies text to the system clipboard through OSC 52.
// Emitted only on explicit request and only when the terminal supports
// it; on an unsupported terminal it is a silent no-op.
func WriteClipboard(w io.Writer, text string, caps *Capabilities) error {
	if caps == nil || !caps.Clipboard {
		return nil
	}
	if _, err := osc52.New(text).WriteTo(w); err != nil {
		return err
	}
	return nil
}
