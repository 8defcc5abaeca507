// Command slate-demo paints a small live dashboard for a few seconds,
// exercising capability detection, the diff renderer and the scheduler.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"slate"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "slate-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	caps := slate.Detect()

	term, err := slate.AcquireTerminal()
	if err != nil {
		return err
	}
	defer term.Release()

	size := term.Size()
	r, err := slate.NewTerminalRenderer(term.Writer(), size.Width, size.Height, &caps)
	if err != nil {
		return err
	}
	sched := slate.NewScheduler(r, 33*time.Millisecond)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	start := time.Now()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return nil
		case size := <-term.ResizeChan():
			r.Resize(size.Width, size.Height)
		case <-ticker.C:
		}

		if time.Since(start) > 10*time.Second {
			return nil
		}
		if err := sched.Step(buildView(caps, i)); err != nil {
			return err
		}
	}
}

// buildView assembles a fresh component tree for the frame.
func buildView(caps slate.Capabilities, tick int) slate.Component {
	header := slate.NewText("slate demo - ctrl+c to quit")
	header.Style = slate.DefaultStyle().Bold().Foreground(slate.BrightCyan)

	spinner := `|/-\`[tick%4]
	status := slate.NewText(fmt.Sprintf("%c frame %d", spinner, tick))
	status.Style = slate.DefaultStyle().Foreground(slate.RGB(0xff, 0xaf, 0x00))

	capsLine := slate.NewText(fmt.Sprintf(
		"color=%d unicode=%v hyperlinks=%v sync=%v graphics=%d",
		caps.ColorLevel, caps.Unicode, caps.Hyperlinks, caps.SyncUpdate, caps.Graphics))

	bar := make([]rune, 30)
	fill := tick % 31
	for i := range bar {
		if i < fill {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	progress := slate.NewText(string(bar))
	progress.Style = slate.DefaultStyle().Foreground(slate.Green)

	return slate.NewColumn(0).
		AddFixed(header, 1).
		AddFixed(status, 1).
		AddFixed(progress, 1).
		AddFixed(capsLine, 1).
		Add(slate.NewText(""))
}
