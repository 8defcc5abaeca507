package slate

import "testing"

func TestSurface(t *testing.T) {
	t.Run("NewSurface", func(t *testing.T) {
		s := NewSurface(80, 24)
		if s.Width() != 80 || s.Height() != 24 {
			t.Errorf("expected 80x24, got %dx%d", s.Width(), s.Height())
		}

		// All cells should be blank
		for y := 0; y < s.Height(); y++ {
			for x := 0; x < s.Width(); x++ {
				c := s.Get(x, y)
				if c.Rune != ' ' {
					t.Errorf("expected space at (%d,%d), got %q", x, y, c.Rune)
				}
			}
		}
	})

	t.Run("InBounds", func(t *testing.T) {
		s := NewSurface(10, 10)

		tests := []struct {
			x, y   int
			expect bool
		}{
			{0, 0, true},
			{9, 9, true},
			{-1, 0, false},
			{0, -1, false},
			{10, 0, false},
			{0, 10, false},
		}

		for _, tt := range tests {
			got := s.InBounds(tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("InBounds(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.expect)
			}
		}
	})

	t.Run("SetCellClipsOutOfBounds", func(t *testing.T) {
		s := NewSurface(10, 10)
		// None of these should panic or write anything
		s.SetCell(-1, 0, 'X', DefaultStyle())
		s.SetCell(0, -1, 'X', DefaultStyle())
		s.SetCell(10, 0, 'X', DefaultStyle())
		s.SetCell(0, 10, 'X', DefaultStyle())

		for y := 0; y < 10; y++ {
			if s.Line(y) != "" {
				t.Errorf("row %d not blank after clipped writes: %q", y, s.Line(y))
			}
		}
	})

	t.Run("WriteRun", func(t *testing.T) {
		s := NewSurface(10, 1)
		n := s.WriteRun(0, 0, "AB", DefaultStyle())
		if n != 2 {
			t.Errorf("expected 2 columns advanced, got %d", n)
		}
		if s.Line(0) != "AB" {
			t.Errorf("expected %q, got %q", "AB", s.Line(0))
		}
	})

	t.Run("WriteRunClipsAtRowEdge", func(t *testing.T) {
		s := NewSurface(5, 1)
		n := s.WriteRun(3, 0, "ABCDEF", DefaultStyle())
		if n != 2 {
			t.Errorf("expected 2 columns advanced, got %d", n)
		}
		if s.Line(0) != "   AB" {
			t.Errorf("expected %q, got %q", "   AB", s.Line(0))
		}
	})

	t.Run("WriteRunOffRow", func(t *testing.T) {
		s := NewSurface(5, 2)
		if n := s.WriteRun(0, 5, "AB", DefaultStyle()); n != 0 {
			t.Errorf("expected no columns advanced for off-surface row, got %d", n)
		}
	})
}

func TestSurfaceWideGlyphs(t *testing.T) {
	t.Run("WideGlyphOccupiesTwoCells", func(t *testing.T) {
		s := NewSurface(10, 1)
		s.SetCell(2, 0, '世', DefaultStyle())

		if s.Get(2, 0).Rune != '世' {
			t.Errorf("expected lead cell at 2, got %q", s.Get(2, 0).Rune)
		}
		if !s.Get(3, 0).IsContinuation() {
			t.Error("expected continuation cell at 3")
		}
	})

	t.Run("WideGlyphAtRowEdgeIsClipped", func(t *testing.T) {
		s := NewSurface(5, 1)
		s.SetCell(4, 0, '世', DefaultStyle())

		// No partial glyph: cell stays blank rather than holding half
		if s.Get(4, 0).Rune != ' ' {
			t.Errorf("expected blank cell at row edge, got %q", s.Get(4, 0).Rune)
		}
	})

	t.Run("OverwritingLeadRepairsContinuation", func(t *testing.T) {
		s := NewSurface(10, 1)
		s.SetCell(2, 0, '世', DefaultStyle())
		s.SetCell(2, 0, 'A', DefaultStyle())

		if s.Get(2, 0).Rune != 'A' {
			t.Errorf("expected 'A' at 2, got %q", s.Get(2, 0).Rune)
		}
		if s.Get(3, 0).Rune != ' ' {
			t.Errorf("expected orphaned continuation reset to blank, got %q", s.Get(3, 0).Rune)
		}
	})

	t.Run("OverwritingContinuationRepairsLead", func(t *testing.T) {
		s := NewSurface(10, 1)
		s.SetCell(2, 0, '世', DefaultStyle())
		s.SetCell(3, 0, 'B', DefaultStyle())

		if s.Get(3, 0).Rune != 'B' {
			t.Errorf("expected 'B' at 3, got %q", s.Get(3, 0).Rune)
		}
		if s.Get(2, 0).Rune != ' ' {
			t.Errorf("expected orphaned lead reset to blank, got %q", s.Get(2, 0).Rune)
		}
	})

	t.Run("RunAdvancesByGlyphWidth", func(t *testing.T) {
		s := NewSurface(10, 1)
		n := s.WriteRun(0, 0, "a世b", DefaultStyle())
		if n != 4 {
			t.Errorf("expected 4 columns advanced, got %d", n)
		}
		if s.Get(0, 0).Rune != 'a' || s.Get(1, 0).Rune != '世' || s.Get(3, 0).Rune != 'b' {
			t.Errorf("unexpected layout: %q", s.Line(0))
		}
	})
}

func TestSurfaceResize(t *testing.T) {
	s := NewSurface(10, 5)
	s.WriteRun(0, 0, "hello", DefaultStyle())

	s.Resize(20, 10)
	if s.Width() != 20 || s.Height() != 10 {
		t.Fatalf("expected 20x10, got %dx%d", s.Width(), s.Height())
	}
	// Resize blanks the grid; a full-frame diff follows
	if s.Line(0) != "" {
		t.Errorf("expected blank row after resize, got %q", s.Line(0))
	}
}

func TestSurfaceSentinel(t *testing.T) {
	front := NewSurface(4, 2)
	back := NewSurface(4, 2)
	front.fillSentinel()

	spans := ComputeDirtySpans(front, back)
	if len(spans) != 2 {
		t.Fatalf("expected every row dirty, got %d spans", len(spans))
	}
	for _, span := range spans {
		if span.Start != 0 || span.End != 4 {
			t.Errorf("expected full-row span, got %+v", span)
		}
	}
}
