package slate

// Point is an integer position in cell coordinates.
type Point struct {
	X, Y int
}

// Size represents dimensions in cells.
type Size struct {
	Width  int
	Height int
}

// IsZero returns true if either dimension is zero or negative.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an integer rectangle in cell coordinates.
// Width and height are never negative; a zero-area rect contributes
// nothing to rendering.
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect creates a rect, clamping negative dimensions to zero.
func NewRect(x, y, width, height int) Rect {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Empty returns true if the rect has zero area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Size returns the rect's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains returns true if the point (x, y) is inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersect returns the intersection of two rects.
// The result is empty if they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x1 := max(r.X, other.X)
	y1 := max(r.Y, other.Y)
	x2 := min(r.X+r.Width, other.X+other.Width)
	y2 := min(r.Y+r.Height, other.Y+other.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{X: x1, Y: y1}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Translate returns the rect shifted by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Constraints bound a component's desired size during measurement.
// Components must not return a size exceeding Max; Clamp normalizes a
// result that violates the bound.
type Constraints struct {
	Max Size
}

// Clamp limits a size to the constraint's maximum.
func (c Constraints) Clamp(s Size) Size {
	if s.Width > c.Max.Width {
		s.Width = c.Max.Width
	}
	if s.Height > c.Max.Height {
		s.Height = c.Max.Height
	}
	if s.Width < 0 {
		s.Width = 0
	}
	if s.Height < 0 {
		s.Height = 0
	}
	return s
}
