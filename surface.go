package slate

import "github.com/mattn/go-runewidth"

// runeWidth returns the display width of r in cells.
func runeWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// runeIsWide returns true if r occupies two cells.
func runeIsWide(r rune) bool {
	return runewidth.RuneWidth(r) == 2
}

// stringWidth returns the display width of s in cells.
func stringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Surface is a fixed-size 2D grid of cells representing one terminal frame.
// Two surfaces (front and back) form the renderer's double buffer.
// All writes clip silently at the edges; nothing panics on out-of-bounds.
type Surface struct {
	cells  []Cell
	width  int
	height int
}

// NewSurface creates a blank surface with the given dimensions.
// Negative dimensions are clamped to zero.
func NewSurface(width, height int) *Surface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s := &Surface{
		cells:  make([]Cell, width*height),
		width:  width,
		height: height,
	}
	s.Clear()
	return s
}

// Width returns the surface width.
func (s *Surface) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *Surface) Height() int {
	return s.height
}

// Size returns the surface dimensions.
func (s *Surface) Size() Size {
	return Size{Width: s.width, Height: s.height}
}

// InBounds returns true if the given coordinates are within the surface.
func (s *Surface) InBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// index converts x,y coordinates to a slice index.
func (s *Surface) index(x, y int) int {
	return y*s.width + x
}

// Get returns the cell at the given coordinates.
// Returns an empty cell if out of bounds.
func (s *Surface) Get(x, y int) Cell {
	if !s.InBounds(x, y) {
		return EmptyCell()
	}
	return s.cells[s.index(x, y)]
}

// repairWideGlyph resets the partner half of any wide glyph occupying
// (x, y), so an overwrite never leaves an orphaned lead or continuation
// behind to produce rendering artifacts.
func (s *Surface) repairWideGlyph(x, y int) {
	c := s.cells[s.index(x, y)]
	if c.IsContinuation() {
		if x > 0 {
			s.cells[s.index(x-1, y)] = EmptyCell()
		}
		return
	}
	if runewidth.RuneWidth(c.Rune) == 2 && x+1 < s.width {
		next := s.cells[s.index(x+1, y)]
		if next.IsContinuation() {
			s.cells[s.index(x+1, y)] = EmptyCell()
		}
	}
}

// SetCell writes one cell, silently clipping if out of bounds.
// A double-width rune occupies two adjacent cells, the second marked as a
// continuation; if the glyph would not fit before the row edge the write is
// dropped entirely rather than split.
func (s *Surface) SetCell(x, y int, r rune, style Style) {
	if !s.InBounds(x, y) {
		return
	}

	w := runewidth.RuneWidth(r)
	if w == 2 {
		if x+1 >= s.width {
			return // no partial glyphs at the row edge
		}
		s.repairWideGlyph(x, y)
		s.repairWideGlyph(x+1, y)
		s.cells[s.index(x, y)] = Cell{Rune: r, Style: style}
		s.cells[s.index(x+1, y)] = Cell{Rune: 0, Style: style}
		return
	}

	s.repairWideGlyph(x, y)
	s.cells[s.index(x, y)] = Cell{Rune: r, Style: style}
}

// WriteRun writes a left-to-right run of text, clipping at the row edge.
// Returns the number of columns advanced.
func (s *Surface) WriteRun(x, y int, text string, style Style) int {
	if y < 0 || y >= s.height {
		return 0
	}
	start := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue // combining marks don't occupy their own cell
		}
		if x >= s.width {
			break
		}
		s.SetCell(x, y, r, style)
		x += w
	}
	return x - start
}

// Fill fills the entire surface with the given cell.
func (s *Surface) Fill(c Cell) {
	for i := range s.cells {
		s.cells[i] = c
	}
}

// Clear clears the surface to empty cells with default style.
func (s *Surface) Clear() {
	s.Fill(EmptyCell())
}

// FillRect fills a rectangular region with the given cell.
func (s *Surface) FillRect(r Rect, c Cell) {
	for dy := 0; dy < r.Height; dy++ {
		for dx := 0; dx < r.Width; dx++ {
			s.SetCell(r.X+dx, r.Y+dy, c.Rune, c.Style)
		}
	}
}

// Resize reallocates the grid to new dimensions and blanks it.
// Old content is discarded: after a resize the caller forces a full-frame
// diff, so preserving cells would only mask stale state.
func (s *Surface) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.cells = make([]Cell, width*height)
	s.width = width
	s.height = height
	s.Clear()
}

// fillSentinel fills the surface with a pattern guaranteed to differ from
// any real cell, so the next diff reports every cell as changed.
func (s *Surface) fillSentinel() {
	s.Fill(Cell{Rune: -1})
}

// Line returns the content of a single row as a string with trailing
// spaces removed. Continuation cells contribute nothing.
func (s *Surface) Line(y int) string {
	if y < 0 || y >= s.height {
		return ""
	}
	var line []byte
	lastNonSpace := -1
	for x := 0; x < s.width; x++ {
		c := s.Get(x, y)
		if c.IsContinuation() {
			continue
		}
		line = append(line, string(c.Rune)...)
		if c.Rune != ' ' {
			lastNonSpace = len(line)
		}
	}
	if lastNonSpace >= 0 {
		return string(line[:lastNonSpace])
	}
	return ""
}

// String returns the surface contents as text, one row per line.
// For testing and debugging.
func (s *Surface) String() string {
	var result []byte
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := s.Get(x, y)
			if c.IsContinuation() {
				continue
			}
			result = append(result, string(c.Rune)...)
		}
		if y < s.height-1 {
			result = append(result, '\n')
		}
	}
	return string(result)
}
