package slate

// Context is the drawing facade components use to paint into the back
// surface. It carries a clip rect in surface coordinates; all writes are
// expressed in the component's local coordinates, translated through the
// clip origin and discarded outside the clip. Components never hold a raw
// Surface, so a nested component cannot write outside its allotted rect.
type Context struct {
	surface *Surface
	clip    Rect
}

// NewContext creates a root context covering the whole surface.
func NewContext(s *Surface) *Context {
	return &Context{
		surface: s,
		clip:    Rect{Width: s.Width(), Height: s.Height()},
	}
}

// Size returns the drawable dimensions of the context.
func (c *Context) Size() Size {
	return c.clip.Size()
}

// Bounds returns the clip rect in surface coordinates.
func (c *Context) Bounds() Rect {
	return c.clip
}

// Sub returns a context restricted to r, expressed in this context's local
// coordinates. Clip regions intersect as they nest, never union; an empty
// intersection makes every write in the subtree a no-op.
func (c *Context) Sub(r Rect) *Context {
	abs := r.Translate(c.clip.X, c.clip.Y)
	return &Context{
		surface: c.surface,
		clip:    c.clip.Intersect(abs),
	}
}

// SetCell writes one cell at local coordinates, clipped to the context.
func (c *Context) SetCell(x, y int, r rune, style Style) {
	ax, ay := c.clip.X+x, c.clip.Y+y
	if !c.clip.Contains(ax, ay) {
		return
	}
	// A wide glyph whose continuation would land outside the clip is
	// dropped whole rather than split across the boundary.
	if ax+1 == c.clip.X+c.clip.Width && runeIsWide(r) {
		return
	}
	c.surface.SetCell(ax, ay, r, style)
}

// WriteRun writes a left-to-right run of text at local coordinates,
// clipping at the context edge. Returns the number of columns advanced.
func (c *Context) WriteRun(x, y int, text string, style Style) int {
	ay := c.clip.Y + y
	if y < 0 || y >= c.clip.Height {
		return 0
	}
	ax := c.clip.X + x
	start := ax
	for _, r := range text {
		w := runeWidth(r)
		if w == 0 {
			continue
		}
		if ax < c.clip.X {
			ax += w
			continue
		}
		if ax+w > c.clip.X+c.clip.Width {
			break
		}
		c.surface.SetCell(ax, ay, r, style)
		ax += w
	}
	if ax < start {
		return 0
	}
	return ax - start
}

// Fill fills the entire context with the given cell.
func (c *Context) Fill(cell Cell) {
	c.surface.FillRect(c.clip, cell)
}

// FillRect fills a rect in local coordinates, clipped to the context.
func (c *Context) FillRect(r Rect, cell Cell) {
	abs := r.Translate(c.clip.X, c.clip.Y).Intersect(c.clip)
	c.surface.FillRect(abs, cell)
}
