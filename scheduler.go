package slate

import (
	"context"
	"time"
)

// FrameTarget is a renderer driven by the scheduler: one step renders one
// complete frame.
type FrameTarget interface {
	Step(root Component) error
	Resize(width, height int)
}

// Scheduler drives repeated single-frame steps against one target. It
// owns frame pacing but no goroutine: each Step runs a frame to
// completion on the caller's goroutine, and the caller decides cadence.
// One scheduler serves one target; external serialization is assumed.
type Scheduler struct {
	target      FrameTarget
	minInterval time.Duration
	lastFrame   time.Time
}

// NewScheduler creates a scheduler for the given target. minInterval
// bounds the frame rate of Loop; zero means unpaced.
func NewScheduler(target FrameTarget, minInterval time.Duration) *Scheduler {
	return &Scheduler{target: target, minInterval: minInterval}
}

// Step renders exactly one frame.
func (s *Scheduler) Step(root Component) error {
	s.lastFrame = time.Now()
	return s.target.Step(root)
}

// Loop renders an initial frame, then steps again whenever an event
// dispatched to the root invalidates it or a resize arrives, paced to the
// scheduler's minimum interval. It returns when ctx is done or a frame
// fails. Either channel may be nil.
func (s *Scheduler) Loop(ctx context.Context, root Component, events <-chan Event, resizes <-chan Size) error {
	if err := s.Step(root); err != nil {
		return err
	}

	dirty := false
	for {
		var pace <-chan time.Time
		if dirty {
			wait := s.minInterval - time.Since(s.lastFrame)
			if wait < 0 {
				wait = 0
			}
			pace = time.After(wait)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if root.HandleInput(ev) != InvalidateNone {
				dirty = true
			}

		case size, ok := <-resizes:
			if !ok {
				resizes = nil
				continue
			}
			s.target.Resize(size.Width, size.Height)
			root.HandleInput(ResizeEvent{Width: size.Width, Height: size.Height})
			dirty = true

		case <-pace:
			dirty = false
			if err := s.Step(root); err != nil {
				return err
			}
		}
	}
}
