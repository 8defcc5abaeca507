package slate

import (
	"fmt"
	"image"
	"io"
	"os"
)

// FrameStats holds diagnostics from the most recent painted frame.
type FrameStats struct {
	Spans       int
	Cells       int
	Bytes       int
	FullRepaint bool
}

// debugPaint enables per-frame paint diagnostics on stderr.
var debugPaint = os.Getenv("SLATE_DEBUG_PAINT") != ""

// runFrame drives the component protocol for one frame: measure with the
// surface size as the constraint, layout over the full surface rect, then
// render into a fresh context over the cleared back surface. A panicking
// component abandons the frame before diff and paint.
func runFrame(root Component, back *Surface) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRenderFailed, r)
		}
	}()

	size := back.Size()
	cons := Constraints{Max: size}
	root.Measure(cons) // advisory for the root, which is always granted the full surface
	root.Layout(Rect{Width: size.Width, Height: size.Height})

	back.Clear()
	root.Render(NewContext(back))
	return nil
}

// MemoryRenderer renders component trees into an in-memory double buffer
// and returns the dirty spans of each frame. It is the testing and
// headless target: same pipeline as the terminal renderer, no escape
// bytes.
type MemoryRenderer struct {
	front *Surface
	back  *Surface
	caps  *Capabilities
}

// NewMemoryRenderer creates a memory renderer with the given dimensions.
func NewMemoryRenderer(width, height int, caps *Capabilities) (*MemoryRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &MemoryRenderer{
		front: NewSurface(width, height),
		back:  NewSurface(width, height),
		caps:  caps,
	}, nil
}

// RenderFrame runs one frame and returns the spans that changed since the
// previous frame. Rendering the same tree twice with no state change
// yields an empty result on the second call.
func (r *MemoryRenderer) RenderFrame(root Component) ([]DirtySpan, error) {
	if err := runFrame(root, r.back); err != nil {
		return nil, err
	}
	spans := ComputeDirtySpans(r.front, r.back)
	r.front, r.back = r.back, r.front
	return spans, nil
}

// Step runs one frame, discarding the spans. Satisfies FrameTarget.
func (r *MemoryRenderer) Step(root Component) error {
	_, err := r.RenderFrame(root)
	return err
}

// Resize reallocates both buffers and forces the next diff to report
// every cell as changed.
func (r *MemoryRenderer) Resize(width, height int) {
	r.front.Resize(width, height)
	r.back.Resize(width, height)
	r.front.fillSentinel()
}

// Frame returns the last rendered frame for inspection.
func (r *MemoryRenderer) Frame() *Surface {
	return r.front
}

// TerminalRenderer renders component trees to a real terminal, painting
// only the cells that changed between frames with the richest escape
// encodings the capability snapshot allows. Exactly one caller drives a
// renderer at a time; the type performs no internal locking.
type TerminalRenderer struct {
	front *Surface
	back  *Surface
	caps  *Capabilities
	w     io.Writer

	buf          []byte // reusable output buffer
	lastStyle    Style
	lastLink     string
	clearPending bool
	stats        FrameStats
}

// NewTerminalRenderer creates a terminal renderer writing to w.
func NewTerminalRenderer(w io.Writer, width, height int, caps *Capabilities) (*TerminalRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if caps == nil {
		caps = &Capabilities{}
	}
	r := &TerminalRenderer{
		front:     NewSurface(width, height),
		back:      NewSurface(width, height),
		caps:      caps,
		w:         w,
		lastStyle: DefaultStyle(),
	}
	// Nothing has been painted yet; force the first frame out in full.
	r.front.fillSentinel()
	return r, nil
}

// RenderFrame runs one frame and paints the changed spans. On a paint
// write failure the buffers are not swapped, so the next frame diffs
// against the last successfully painted state.
func (r *TerminalRenderer) RenderFrame(root Component) error {
	if err := runFrame(root, r.back); err != nil {
		return err
	}

	spans := ComputeDirtySpans(r.front, r.back)
	if len(spans) > 0 {
		if err := r.paint(spans); err != nil {
			return err
		}
	}
	r.front, r.back = r.back, r.front
	return nil
}

// Step runs one frame. Satisfies FrameTarget.
func (r *TerminalRenderer) Step(root Component) error {
	return r.RenderFrame(root)
}

// paint emits the escape bytes for the given spans in one write.
func (r *TerminalRenderer) paint(spans []DirtySpan) error {
	// The emitted-state trackers advance while the buffer is built. If the
	// write fails none of it reached the terminal, so they roll back to
	// what is actually on screen.
	prevStyle, prevLink := r.lastStyle, r.lastLink

	r.buf = r.buf[:0]
	if r.caps.SyncUpdate {
		r.buf = append(r.buf, escSyncBegin...)
	}
	if r.clearPending {
		r.buf = append(r.buf, "\x1b[2J"...)
	}
	// Start every frame from the neutral baseline unless the previous
	// frame already left the terminal there.
	if !r.lastStyle.Equal(DefaultStyle()) {
		r.buf = append(r.buf, escReset...)
		r.lastStyle = DefaultStyle()
	}

	cells := 0
	cx, cy := -1, -1
	for _, span := range spans {
		x := span.Start
		// A span opening on a continuation cell repaints from the lead:
		// half a wide glyph is not independently paintable.
		if x > 0 && r.back.Get(x, span.Row).IsContinuation() {
			x--
		}
		for ; x < span.End; x++ {
			cell := r.back.Get(x, span.Row)
			if cell.IsContinuation() {
				continue
			}
			if cx != x || cy != span.Row {
				r.buf = appendCursorMove(r.buf, x, span.Row)
				cx, cy = x, span.Row
			}
			r.emitCell(cell)
			cx += max(runeWidth(cell.Rune), 1)
			cells++
		}
	}

	if r.lastLink != "" {
		r.buf = appendHyperlinkClose(r.buf)
		r.lastLink = ""
	}
	if r.caps.SyncUpdate {
		r.buf = append(r.buf, escSyncEnd...)
	}

	if _, err := r.w.Write(r.buf); err != nil {
		r.lastStyle, r.lastLink = prevStyle, prevLink
		return fmt.Errorf("%w: %v", ErrPaintIO, err)
	}
	r.clearPending = false

	r.stats = FrameStats{
		Spans:       len(spans),
		Cells:       cells,
		Bytes:       len(r.buf),
		FullRepaint: cells == r.back.Width()*r.back.Height(),
	}
	if debugPaint {
		fmt.Fprintf(os.Stderr, "paint: %d spans, %d cells, %d bytes\n",
			r.stats.Spans, r.stats.Cells, r.stats.Bytes)
	}
	return nil
}

// emitCell appends one cell's hyperlink, style and rune bytes, emitting
// only what differs from the previously emitted state.
func (r *TerminalRenderer) emitCell(cell Cell) {
	link := ""
	if r.caps.Hyperlinks {
		link = cell.Style.Link
	}
	if link != r.lastLink {
		if r.lastLink != "" {
			r.buf = appendHyperlinkClose(r.buf)
		}
		if link != "" {
			r.buf = appendHyperlinkOpen(r.buf, link, cell.Style.LinkID)
		}
		r.lastLink = link
	}

	if !cell.Style.Equal(r.lastStyle) {
		r.buf = appendStyle(r.buf, r.lastStyle, cell.Style, r.caps.ColorLevel)
		r.lastStyle = cell.Style
	}
	r.buf = append(r.buf, string(cell.Rune)...)
}

// PaintImage emits an image at the given cell rect using the selected
// graphics tier. Kitty and Sixel write protocol payloads directly; the
// block tiers paint glyph cells through the normal pipeline, so for those
// the caller should use BlitImage inside a component's Render instead.
func (r *TerminalRenderer) PaintImage(img image.Image, rect Rect) error {
	if rect.Empty() {
		return nil
	}
	tier := SelectGraphicsProtocol(r.caps)

	r.buf = r.buf[:0]
	switch tier {
	case GraphicsKitty:
		r.buf = appendCursorMove(r.buf, rect.X, rect.Y)
		r.buf = appendKittyImage(r.buf, img, rect)
	case GraphicsSixel:
		r.buf = appendCursorMove(r.buf, rect.X, rect.Y)
		r.buf = appendSixelImage(r.buf, img, rect)
	default:
		BlitImage(NewContext(r.back), img, rect, tier)
		return nil
	}

	if _, err := r.w.Write(r.buf); err != nil {
		return fmt.Errorf("%w: %v", ErrPaintIO, err)
	}
	return nil
}

// Resize reallocates both buffers and forces the next frame to repaint
// everything. Stale cells outside the new bounds are not covered by any
// span, so the next paint opens with a full clear; deferring it there
// keeps every terminal write on paint's error path.
func (r *TerminalRenderer) Resize(width, height int) {
	r.front.Resize(width, height)
	r.back.Resize(width, height)
	r.front.fillSentinel()
	// lastStyle and lastLink keep tracking what was actually emitted: a
	// clear moves no SGR or hyperlink state.
	r.clearPending = true
}

// Size returns the current surface dimensions.
func (r *TerminalRenderer) Size() Size {
	return r.back.Size()
}

// LastStats returns diagnostics from the most recent painted frame.
func (r *TerminalRenderer) LastStats() FrameStats {
	return r.stats
}
