package slate

import "strings"

// Component is the unit of UI composition. The renderer drives a fixed
// call protocol once per frame: Measure with the available space, Layout
// with the final assigned rect, Render into a Context clipped to that
// rect. HandleInput is driven by the application between frames.
//
// Trees are strictly downward-owned: a container owns its children, no
// component holds a parent reference, and events travel by explicit
// parent-to-child dispatch.
type Component interface {
	// Measure returns the desired size given the available space.
	// The result must not exceed c.Max; callers normalize violations
	// with Constraints.Clamp. The root is granted the full surface
	// regardless of what it asks for.
	Measure(c Constraints) Size

	// Layout receives the final assigned rectangle, in the parent's
	// coordinate space. Containers compute and assign child rects here;
	// this is the only place size negotiation happens.
	Layout(r Rect)

	// Render paints into the assigned rectangle via the context only.
	Render(ctx *Context)

	// HandleInput reacts to an event and reports whether a repaint is
	// needed. It must not mutate layout.
	HandleInput(ev Event) Invalidate
}

// Invalidate reports how much of the tree needs repainting after input.
type Invalidate uint8

const (
	InvalidateNone Invalidate = iota
	InvalidateSelf
	InvalidateSubtree
)

// Event is a tagged input value delivered to HandleInput. Decoding raw
// terminal bytes into these values is the input decoder's job, outside
// this package.
type Event interface {
	isEvent()
}

// KeyEvent is a key press. Rune is zero for special keys, which carry
// their name instead ("up", "enter", "ctrl+c", ...).
type KeyEvent struct {
	Rune rune
	Name string
}

// MouseEvent is a mouse press, release or motion in cell coordinates.
type MouseEvent struct {
	X, Y   int
	Button int
	Down   bool
}

// ResizeEvent reports new terminal dimensions.
type ResizeEvent struct {
	Width  int
	Height int
}

// PasteEvent carries bracketed-paste text.
type PasteEvent struct {
	Text string
}

func (KeyEvent) isEvent()    {}
func (MouseEvent) isEvent()  {}
func (ResizeEvent) isEvent() {}
func (PasteEvent) isEvent()  {}

// Text is a leaf component displaying static lines of styled text.
type Text struct {
	Content string
	Style   Style

	rect Rect
}

// NewText creates a text leaf.
func NewText(content string) *Text {
	return &Text{Content: content}
}

// Measure returns the natural size of the content, clamped to c.
func (t *Text) Measure(c Constraints) Size {
	w, h := 0, 0
	for _, line := range strings.Split(t.Content, "\n") {
		lw := stringWidth(line)
		if lw > w {
			w = lw
		}
		h++
	}
	return c.Clamp(Size{Width: w, Height: h})
}

// Layout records the assigned rect.
func (t *Text) Layout(r Rect) {
	t.rect = r
}

// Render writes the content line by line.
func (t *Text) Render(ctx *Context) {
	for y, line := range strings.Split(t.Content, "\n") {
		if y >= t.rect.Height {
			break
		}
		ctx.WriteRun(0, y, line, t.Style)
	}
}

// HandleInput ignores all events.
func (t *Text) HandleInput(Event) Invalidate {
	return InvalidateNone
}

// child pairs a component with its layout policy within a linear container.
type child struct {
	c     Component
	fixed int     // main-axis size in cells, 0 = flexible
	grow  float64 // share of the remainder for flexible children
	rect  Rect
}

// linear holds the shared machinery of Row and Column.
type linear struct {
	children []child
	gap      int
}

func (l *linear) add(c Component, fixed int, grow float64) {
	l.children = append(l.children, child{c: c, fixed: fixed, grow: grow})
}

// distribute splits the main-axis extent among children: fixed sizes
// first, then the remainder proportionally by grow factor.
func (l *linear) distribute(extent int) []int {
	sizes := make([]int, len(l.children))
	remaining := extent - l.gap*max(len(l.children)-1, 0)
	var totalGrow float64
	for i, ch := range l.children {
		if ch.fixed > 0 {
			sizes[i] = min(ch.fixed, max(remaining, 0))
			remaining -= sizes[i]
		} else {
			totalGrow += ch.grow
		}
	}
	if totalGrow <= 0 {
		return sizes
	}
	flexSpace := max(remaining, 0)
	used := 0
	last := -1
	for i, ch := range l.children {
		if ch.fixed > 0 {
			continue
		}
		sizes[i] = int(float64(flexSpace) * ch.grow / totalGrow)
		used += sizes[i]
		last = i
	}
	// Rounding leftovers go to the last flexible child.
	if last >= 0 && flexSpace > used {
		sizes[last] += flexSpace - used
	}
	return sizes
}

func (l *linear) handleInput(ev Event) Invalidate {
	result := InvalidateNone
	for i := range l.children {
		if inv := l.children[i].c.HandleInput(ev); inv > result {
			result = inv
		}
	}
	return result
}

func (l *linear) render(ctx *Context) {
	for i := range l.children {
		ch := &l.children[i]
		if ch.rect.Empty() {
			continue
		}
		ch.c.Render(ctx.Sub(ch.rect))
	}
}

// Column arranges children vertically, clipping each to its own bounds.
type Column struct {
	linear
	rect Rect
}

// NewColumn creates an empty vertical container.
func NewColumn(gap int) *Column {
	return &Column{linear: linear{gap: gap}}
}

// Add appends a flexible child sharing the leftover height equally.
func (c *Column) Add(children ...Component) *Column {
	for _, ch := range children {
		c.add(ch, 0, 1)
	}
	return c
}

// AddFixed appends a child with a fixed height in rows.
func (c *Column) AddFixed(ch Component, rows int) *Column {
	c.add(ch, rows, 0)
	return c
}

// AddFlex appends a flexible child with the given grow factor.
func (c *Column) AddFlex(ch Component, grow float64) *Column {
	c.add(ch, 0, grow)
	return c
}

// Measure asks for all available space.
func (c *Column) Measure(cons Constraints) Size {
	return cons.Max
}

// Layout assigns each child a horizontal slice of the rect.
func (c *Column) Layout(r Rect) {
	c.rect = r
	heights := c.distribute(r.Height)
	y := 0
	for i := range c.children {
		ch := &c.children[i]
		ch.rect = NewRect(0, y, r.Width, heights[i])
		ch.c.Layout(ch.rect)
		y += heights[i] + c.gap
	}
}

// Render paints each child through a sub-context clipped to its rect.
func (c *Column) Render(ctx *Context) {
	c.render(ctx)
}

// HandleInput dispatches top-down to every child.
func (c *Column) HandleInput(ev Event) Invalidate {
	return c.handleInput(ev)
}

// Row arranges children horizontally, clipping each to its own bounds.
type Row struct {
	linear
	rect Rect
}

// NewRow creates an empty horizontal container.
func NewRow(gap int) *Row {
	return &Row{linear: linear{gap: gap}}
}

// Add appends a flexible child sharing the leftover width equally.
func (r *Row) Add(children ...Component) *Row {
	for _, ch := range children {
		r.add(ch, 0, 1)
	}
	return r
}

// AddFixed appends a child with a fixed width in columns.
func (r *Row) AddFixed(ch Component, cols int) *Row {
	r.add(ch, cols, 0)
	return r
}

// AddFlex appends a flexible child with the given grow factor.
func (r *Row) AddFlex(ch Component, grow float64) *Row {
	r.add(ch, 0, grow)
	return r
}

// Measure asks for all available space.
func (r *Row) Measure(cons Constraints) Size {
	return cons.Max
}

// Layout assigns each child a vertical slice of the rect.
func (r *Row) Layout(rect Rect) {
	r.rect = rect
	widths := r.distribute(rect.Width)
	x := 0
	for i := range r.children {
		ch := &r.children[i]
		ch.rect = NewRect(x, 0, widths[i], rect.Height)
		ch.c.Layout(ch.rect)
		x += widths[i] + r.gap
	}
}

// Render paints each child through a sub-context clipped to its rect.
func (r *Row) Render(ctx *Context) {
	r.render(ctx)
}

// HandleInput dispatches top-down to every child.
func (r *Row) HandleInput(ev Event) Invalidate {
	return r.handleInput(ev)
}
