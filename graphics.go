package slate

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
)

// SelectGraphicsProtocol picks the richest image protocol the capability
// snapshot reports. Widgets requesting graphics must accept any tier's
// output contract: a block of escape bytes or glyph runs covering exactly
// the row/column footprint the layout assigned.
func SelectGraphicsProtocol(caps *Capabilities) GraphicsTier {
	if caps == nil {
		return GraphicsNone
	}
	return caps.Graphics
}

// kittyChunkSize is the payload limit of one APC chunk in the Kitty
// graphics protocol.
const kittyChunkSize = 4096

// sampleRGBA fetches a pixel with nearest-neighbor scaling from the image
// into a w x h pixel grid.
func sampleRGBA(img image.Image, px, py, w, h int) (uint8, uint8, uint8) {
	b := img.Bounds()
	sx := b.Min.X + px*b.Dx()/w
	sy := b.Min.Y + py*b.Dy()/h
	c := color.NRGBAModel.Convert(img.At(sx, sy)).(color.NRGBA)
	return c.R, c.G, c.B
}

// appendKittyImage appends a Kitty graphics transmit-and-display command
// for the image, scaled to the given cell footprint. Pixel data is raw
// RGB resampled to one pixel per cell times a nominal 8x16 cell, base-64
// encoded and chunked.
func appendKittyImage(dst []byte, img image.Image, r Rect) []byte {
	const cellW, cellH = 8, 16
	pw, ph := r.Width*cellW, r.Height*cellH
	if pw <= 0 || ph <= 0 {
		return dst
	}

	raw := make([]byte, 0, pw*ph*3)
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			pr, pg, pb := sampleRGBA(img, x, y, pw, ph)
			raw = append(raw, pr, pg, pb)
		}
	}
	payload := base64.StdEncoding.EncodeToString(raw)

	first := true
	for len(payload) > 0 {
		n := min(len(payload), kittyChunkSize)
		chunk := payload[:n]
		payload = payload[n:]

		dst = append(dst, "\x1b_G"...)
		if first {
			first = false
			dst = append(dst, "a=T,f=24,s="...)
			dst = appendInt(dst, pw)
			dst = append(dst, ",v="...)
			dst = appendInt(dst, ph)
			dst = append(dst, ",c="...)
			dst = appendInt(dst, r.Width)
			dst = append(dst, ",r="...)
			dst = appendInt(dst, r.Height)
			dst = append(dst, ",m="...)
		} else {
			dst = append(dst, "m="...)
		}
		if len(payload) > 0 {
			dst = append(dst, '1')
		} else {
			dst = append(dst, '0')
		}
		dst = append(dst, ';')
		dst = append(dst, chunk...)
		dst = append(dst, "\x1b\\"...)
	}
	return dst
}

// appendSixelImage appends a sixel rendition of the image quantized to the
// 16 basic colors, scaled to the given cell footprint at a nominal 8x16
// pixels per cell.
func appendSixelImage(dst []byte, img image.Image, r Rect) []byte {
	const cellW, cellH = 8, 16
	pw, ph := r.Width*cellW, r.Height*cellH
	if pw <= 0 || ph <= 0 {
		return dst
	}

	// Quantize every pixel up front so each band emits per-color runs.
	pix := make([]uint8, pw*ph)
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			pr, pg, pb := sampleRGBA(img, x, y, pw, ph)
			pix[y*pw+x] = rgbTo16(pr, pg, pb)
		}
	}

	dst = append(dst, "\x1bPq"...)
	// Palette definition, channel values on the 0-100 sixel scale.
	for i, ref := range ansi16RGB {
		dst = append(dst, '#')
		dst = appendInt(dst, i)
		dst = append(dst, ";2;"...)
		dst = appendInt(dst, int(ref[0])*100/255)
		dst = append(dst, ';')
		dst = appendInt(dst, int(ref[1])*100/255)
		dst = append(dst, ';')
		dst = appendInt(dst, int(ref[2])*100/255)
	}

	for band := 0; band < ph; band += 6 {
		for ci := 0; ci < 16; ci++ {
			var row bytes.Buffer
			used := false
			for x := 0; x < pw; x++ {
				bits := 0
				for dy := 0; dy < 6 && band+dy < ph; dy++ {
					if pix[(band+dy)*pw+x] == uint8(ci) {
						bits |= 1 << dy
					}
				}
				if bits != 0 {
					used = true
				}
				row.WriteByte(byte(63 + bits))
			}
			if !used {
				continue
			}
			dst = append(dst, '#')
			dst = appendInt(dst, ci)
			dst = append(dst, row.Bytes()...)
			dst = append(dst, '$') // carriage return within the band
		}
		dst = append(dst, '-') // next band
	}
	return append(dst, "\x1b\\"...)
}

// asciiRamp orders glyphs by approximate luminance for the lowest tier.
const asciiRamp = " .:-=+*#%@"

// BlitImage renders an image into a context as character cells, for the
// half-block and ASCII tiers. Each cell samples two vertically stacked
// pixels (half-block) or one luminance value (ASCII), filling exactly the
// given local rect.
func BlitImage(ctx *Context, img image.Image, r Rect, tier GraphicsTier) {
	for cy := 0; cy < r.Height; cy++ {
		for cx := 0; cx < r.Width; cx++ {
			tr, tg, tb := sampleRGBA(img, cx, cy*2, r.Width, r.Height*2)
			br, bg, bb := sampleRGBA(img, cx, cy*2+1, r.Width, r.Height*2)
			switch tier {
			case GraphicsHalfBlock:
				style := DefaultStyle().
					Foreground(RGB(tr, tg, tb)).
					Background(RGB(br, bg, bb))
				ctx.SetCell(r.X+cx, r.Y+cy, '▀', style)
			default:
				lum := (2*int(tr) + 5*int(tg) + int(tb) +
					2*int(br) + 5*int(bg) + int(bb)) / 16
				idx := lum * (len(asciiRamp) - 1) / 255
				ctx.SetCell(r.X+cx, r.Y+cy, rune(asciiRamp[idx]), DefaultStyle())
			}
		}
	}
}
