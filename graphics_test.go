package slate

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

// solidImage returns a uniformly colored test image.
func solidImage(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestSelectGraphicsProtocol(t *testing.T) {
	if got := SelectGraphicsProtocol(nil); got != GraphicsNone {
		t.Errorf("nil caps: got %d, want none", got)
	}
	caps := &Capabilities{Graphics: GraphicsSixel}
	if got := SelectGraphicsProtocol(caps); got != GraphicsSixel {
		t.Errorf("got %d, want sixel", got)
	}
}

func TestAppendKittyImage(t *testing.T) {
	img := solidImage(4, 4, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	t.Run("HeaderFields", func(t *testing.T) {
		out := string(appendKittyImage(nil, img, NewRect(0, 0, 2, 1)))
		if !strings.HasPrefix(out, "\x1b_G") {
			t.Fatalf("output %q not an APC command", out[:min(len(out), 20)])
		}
		header := out[:strings.IndexByte(out, ';')]
		for _, field := range []string{"a=T", "f=24", "s=16", "v=16", "c=2", "r=1"} {
			if !strings.Contains(header, field) {
				t.Errorf("header %q missing %s", header, field)
			}
		}
		if !strings.HasSuffix(out, "\x1b\\") {
			t.Error("output not terminated with ST")
		}
	})

	t.Run("ChunkingContinues", func(t *testing.T) {
		// 6x3 cells = 48x48 px = 6912 bytes raw, 9216 base64, two chunks.
		out := string(appendKittyImage(nil, img, NewRect(0, 0, 6, 3)))
		if !strings.Contains(out, "m=1;") {
			t.Error("large payload should be chunked with m=1")
		}
		if !strings.Contains(out, "\x1b_Gm=0;") {
			t.Error("final chunk should carry m=0")
		}
		for _, chunk := range strings.Split(out, "\x1b\\") {
			if i := strings.IndexByte(chunk, ';'); i >= 0 {
				if payload := chunk[i+1:]; len(payload) > kittyChunkSize {
					t.Errorf("chunk payload %d bytes exceeds limit", len(payload))
				}
			}
		}
	})

	t.Run("EmptyRectEmitsNothing", func(t *testing.T) {
		if out := appendKittyImage(nil, img, NewRect(0, 0, 0, 3)); len(out) != 0 {
			t.Errorf("emitted %d bytes for empty rect", len(out))
		}
	})
}

func TestAppendSixelImage(t *testing.T) {
	img := solidImage(4, 4, color.NRGBA{R: 255, A: 255}) // pure red

	out := string(appendSixelImage(nil, img, NewRect(0, 0, 2, 1)))
	if !strings.HasPrefix(out, "\x1bPq") {
		t.Fatalf("output does not open a DCS sixel stream: %q", out[:min(len(out), 10)])
	}
	if !strings.HasSuffix(out, "\x1b\\") {
		t.Error("output not terminated with ST")
	}
	// Palette entry for bright red on the 0-100 scale
	if !strings.Contains(out, "#9;2;100;0;0") {
		t.Error("palette definition for bright red missing")
	}
	// A solid red image paints full-width runs only in color 9
	if !strings.Contains(out, "#9~") {
		t.Error("no pixel runs emitted for red")
	}
	for _, ci := range []string{"#1~", "#2~", "#10~"} {
		if strings.Contains(out, ci) {
			t.Errorf("unexpected full run for color %s", ci)
		}
	}
}

func TestBlitImage(t *testing.T) {
	t.Run("HalfBlockFootprint", func(t *testing.T) {
		s := NewSurface(10, 6)
		img := solidImage(8, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		BlitImage(NewContext(s), img, NewRect(1, 1, 4, 3), GraphicsHalfBlock)

		for y := 0; y < 6; y++ {
			for x := 0; x < 10; x++ {
				inside := x >= 1 && x < 5 && y >= 1 && y < 4
				cell := s.Get(x, y)
				if inside && cell.Rune != '▀' {
					t.Errorf("cell (%d,%d) = %q, want half block", x, y, cell.Rune)
				}
				if !inside && cell.Rune == '▀' {
					t.Errorf("cell (%d,%d) painted outside footprint", x, y)
				}
			}
		}
		got := s.Get(1, 1).Style
		if got.FG != RGB(10, 20, 30) || got.BG != RGB(10, 20, 30) {
			t.Errorf("solid image braced colors %+v/%+v", got.FG, got.BG)
		}
	})

	t.Run("ASCIIRampEnds", func(t *testing.T) {
		s := NewSurface(4, 2)
		black := solidImage(4, 4, color.NRGBA{A: 255})
		BlitImage(NewContext(s), black, NewRect(0, 0, 2, 1), GraphicsASCII)
		if got := s.Get(0, 0).Rune; got != ' ' {
			t.Errorf("black maps to %q, want space", got)
		}

		white := solidImage(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		BlitImage(NewContext(s), white, NewRect(2, 0, 2, 1), GraphicsASCII)
		if got := s.Get(2, 0).Rune; got != '@' {
			t.Errorf("white maps to %q, want densest glyph", got)
		}
	})
}

func TestSampleRGBA(t *testing.T) {
	// A 2x1 image scaled to 4x2: left half samples pixel 0, right half pixel 1.
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 11, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 22, A: 255})

	if r, _, _ := sampleRGBA(img, 0, 0, 4, 2); r != 11 {
		t.Errorf("left sample r=%d, want 11", r)
	}
	if _, g, _ := sampleRGBA(img, 3, 1, 4, 2); g != 22 {
		t.Errorf("right sample g=%d, want 22", g)
	}
}

func TestAppendSixelImageEmptyRect(t *testing.T) {
	img := solidImage(2, 2, color.NRGBA{A: 255})
	if out := appendSixelImage(nil, img, NewRect(0, 0, 3, 0)); len(out) != 0 {
		t.Errorf("emitted %d bytes for empty rect", len(out))
	}
}
