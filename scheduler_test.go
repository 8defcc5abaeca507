package slate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// countingTarget records scheduler-driven frames and resizes.
type countingTarget struct {
	frames  atomic.Int64
	resizes atomic.Int64
	err     error
}

func (t *countingTarget) Step(Component) error {
	t.frames.Add(1)
	return t.err
}

func (t *countingTarget) Resize(int, int) {
	t.resizes.Add(1)
}

// reactive flags itself dirty on any key event.
type reactive struct {
	events atomic.Int64
}

func (r *reactive) Measure(c Constraints) Size { return c.Max }
func (r *reactive) Layout(Rect)                {}
func (r *reactive) Render(*Context)            {}
func (r *reactive) HandleInput(ev Event) Invalidate {
	r.events.Add(1)
	if _, ok := ev.(KeyEvent); ok {
		return InvalidateSelf
	}
	return InvalidateNone
}

func TestSchedulerStep(t *testing.T) {
	target := &countingTarget{}
	s := NewScheduler(target, 0)

	if err := s.Step(&reactive{}); err != nil {
		t.Fatal(err)
	}
	if got := target.frames.Load(); got != 1 {
		t.Errorf("frames = %d, want 1", got)
	}
}

func TestSchedulerLoop(t *testing.T) {
	t.Run("RendersInitialFrameAndExitsOnCancel", func(t *testing.T) {
		target := &countingTarget{}
		s := NewScheduler(target, 0)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- s.Loop(ctx, &reactive{}, nil, nil) }()

		waitFor(t, func() bool { return target.frames.Load() >= 1 })
		cancel()

		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	})

	t.Run("InvalidatingEventTriggersRepaint", func(t *testing.T) {
		target := &countingTarget{}
		s := NewScheduler(target, 0)
		root := &reactive{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := make(chan Event)
		done := make(chan error, 1)
		go func() { done <- s.Loop(ctx, root, events, nil) }()

		waitFor(t, func() bool { return target.frames.Load() == 1 })
		events <- KeyEvent{Rune: 'x'}
		waitFor(t, func() bool { return target.frames.Load() == 2 })

		if got := root.events.Load(); got != 1 {
			t.Errorf("root saw %d events, want 1", got)
		}
		cancel()
		<-done
	})

	t.Run("IgnoredEventDoesNotRepaint", func(t *testing.T) {
		target := &countingTarget{}
		s := NewScheduler(target, 0)
		root := &reactive{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := make(chan Event)
		done := make(chan error, 1)
		go func() { done <- s.Loop(ctx, root, events, nil) }()

		waitFor(t, func() bool { return target.frames.Load() == 1 })
		events <- MouseEvent{X: 1, Y: 1} // reactive ignores non-key events
		waitFor(t, func() bool { return root.events.Load() == 1 })

		time.Sleep(20 * time.Millisecond)
		if got := target.frames.Load(); got != 1 {
			t.Errorf("frames = %d after ignored event, want 1", got)
		}
		cancel()
		<-done
	})

	t.Run("ResizeReachesTargetAndRoot", func(t *testing.T) {
		target := &countingTarget{}
		s := NewScheduler(target, 0)
		root := &reactive{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		resizes := make(chan Size)
		done := make(chan error, 1)
		go func() { done <- s.Loop(ctx, root, nil, resizes) }()

		waitFor(t, func() bool { return target.frames.Load() == 1 })
		resizes <- Size{Width: 100, Height: 40}
		waitFor(t, func() bool { return target.frames.Load() == 2 })

		if got := target.resizes.Load(); got != 1 {
			t.Errorf("target resizes = %d, want 1", got)
		}
		if got := root.events.Load(); got != 1 {
			t.Errorf("root did not receive the resize event: %d", got)
		}
		cancel()
		<-done
	})

	t.Run("FrameErrorStopsLoop", func(t *testing.T) {
		boom := errors.New("paint failed")
		target := &countingTarget{err: boom}
		s := NewScheduler(target, 0)

		err := s.Loop(context.Background(), &reactive{}, nil, nil)
		if !errors.Is(err, boom) {
			t.Errorf("got %v, want frame error", err)
		}
	})

	t.Run("ClosedChannelsDisarm", func(t *testing.T) {
		target := &countingTarget{}
		s := NewScheduler(target, 0)
		ctx, cancel := context.WithCancel(context.Background())

		events := make(chan Event)
		close(events)
		done := make(chan error, 1)
		go func() { done <- s.Loop(ctx, &reactive{}, events, nil) }()

		waitFor(t, func() bool { return target.frames.Load() >= 1 })
		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	})
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
