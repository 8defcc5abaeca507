package slate

// DirtySpan is a contiguous run of changed cells on one row: the unit of
// paint work. End is exclusive.
type DirtySpan struct {
	Row   int
	Start int
	End   int
}

// ComputeDirtySpans compares two equally-sized surfaces and returns the
// minimal set of changed runs, sorted by (row, start) and non-overlapping.
// Identical surfaces produce an empty result.
//
// A continuation cell that changed while its lead did not is reported on
// its own; the engine never widens a span to cover the other half of a
// wide glyph. Writers must not mutate only the continuation half.
//
// One pass over the grid, O(width x height), no auxiliary structures
// beyond the output list.
func ComputeDirtySpans(front, back *Surface) []DirtySpan {
	if front.width != back.width || front.height != back.height {
		// Mismatched buffers: everything is dirty.
		spans := make([]DirtySpan, 0, back.height)
		for y := 0; y < back.height; y++ {
			if back.width > 0 {
				spans = append(spans, DirtySpan{Row: y, Start: 0, End: back.width})
			}
		}
		return spans
	}

	var spans []DirtySpan
	for y := 0; y < back.height; y++ {
		row := y * back.width
		start := -1
		for x := 0; x < back.width; x++ {
			if back.cells[row+x] == front.cells[row+x] {
				if start >= 0 {
					spans = append(spans, DirtySpan{Row: y, Start: start, End: x})
					start = -1
				}
				continue
			}
			if start < 0 {
				start = x
			}
		}
		if start >= 0 {
			spans = append(spans, DirtySpan{Row: y, Start: start, End: back.width})
		}
	}
	return spans
}
