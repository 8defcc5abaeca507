package slate

import "errors"

// Sentinel errors. Callers match them with errors.Is; the renderer wraps
// them with frame-specific detail.
var (
	// ErrRenderFailed marks a measure/layout/render step that failed.
	// The frame is abandoned before diff and paint; the back buffer is
	// never swapped to front, so the next frame recomputes against the
	// last good state.
	ErrRenderFailed = errors.New("slate: render failed")

	// ErrPaintIO marks a failed write of escape bytes to the terminal.
	// The paint aborts without swapping buffers; retry and backoff policy
	// belong to the caller.
	ErrPaintIO = errors.New("slate: paint write failed")

	// ErrProbeTimeout marks a capability query whose response did not
	// arrive in time. The probed feature resolves as unsupported.
	ErrProbeTimeout = errors.New("slate: capability probe timed out")

	// ErrInvalidSize marks a renderer constructed with non-positive
	// dimensions.
	ErrInvalidSize = errors.New("slate: invalid surface size")
)
