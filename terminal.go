package slate

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// Terminal is the scoped raw-mode resource. Acquire switches the attached
// terminal into raw mode on the alternate screen; Release restores the
// prior mode and screen. Every exit path, including error and signal
// handling, must run Release exactly once.
type Terminal struct {
	in  *os.File
	out *os.File
	fd  int

	origTermios *unix.Termios
	acquired    bool

	resizeCh chan Size
	sigCh    chan os.Signal
	doneCh   chan struct{}
}

// terminalSize returns the current terminal dimensions for a tty fd.
func terminalSize(fd int) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

// AcquireTerminal switches stdin/stdout into raw mode, enters the
// alternate screen, hides the cursor and enables bracketed paste. The
// returned handle must be Released on every exit path.
func AcquireTerminal() (*Terminal, error) {
	t := &Terminal{
		in:       os.Stdin,
		out:      os.Stdout,
		fd:       int(os.Stdout.Fd()),
		resizeCh: make(chan Size, 1),
		sigCh:    make(chan os.Signal, 1),
		doneCh:   make(chan struct{}),
	}

	termios, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("get termios: %w", err)
	}
	t.origTermios = termios

	raw := *termios
	// Input flags: disable break, CR to NL, parity, strip, flow control
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	// Output flags: disable post processing
	raw.Oflag &^= unix.OPOST
	// Control flags: set 8 bit chars
	raw.Cflag |= unix.CS8
	// Local flags: disable echo, canonical mode, signals, extended input
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	// Control chars: min bytes = 1, timeout = 0
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &raw); err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}
	t.acquired = true

	signal.Notify(t.sigCh, syscall.SIGWINCH)
	go t.watchResize()

	t.writeString("\x1b[?1049h") // Enter alternate screen
	t.writeString("\x1b[2J")     // Clear so the front buffer matches the real screen
	t.writeString("\x1b[H")      // Home the cursor
	t.writeString("\x1b[?25l")   // Hide cursor
	t.writeString("\x1b[?2004h") // Enable bracketed paste

	return t, nil
}

// Release restores the original terminal mode and screen. Safe to call
// more than once; only the first call acts.
func (t *Terminal) Release() error {
	if !t.acquired {
		return nil
	}
	t.acquired = false

	close(t.doneCh)
	signal.Stop(t.sigCh)

	t.writeString("\x1b[?2004l") // Disable bracketed paste
	t.writeString("\x1b[?25h")   // Show cursor
	t.writeString("\x1b[?1049l") // Exit alternate screen

	if t.origTermios != nil {
		if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, t.origTermios); err != nil {
			return fmt.Errorf("restore termios: %w", err)
		}
	}
	return nil
}

// watchResize forwards SIGWINCH into size updates. Sends never block; a
// pending unread update is simply replaced by the next one.
func (t *Terminal) watchResize() {
	for {
		select {
		case <-t.sigCh:
			w, h, err := terminalSize(t.fd)
			if err != nil {
				continue
			}
			select {
			case t.resizeCh <- Size{Width: w, Height: h}:
			default:
				// Drop the stale pending update in favor of this one.
				select {
				case <-t.resizeCh:
				default:
				}
				select {
				case t.resizeCh <- Size{Width: w, Height: h}:
				default:
				}
			}
		case <-t.doneCh:
			return
		}
	}
}

// ResizeChan returns a channel receiving size updates on terminal resize.
func (t *Terminal) ResizeChan() <-chan Size {
	return t.resizeCh
}

// Size returns the current terminal dimensions, with an 80x24 fallback.
func (t *Terminal) Size() Size {
	w, h, err := terminalSize(t.fd)
	if err != nil {
		return Size{Width: 80, Height: 24}
	}
	return Size{Width: w, Height: h}
}

// Writer returns the terminal's output stream.
func (t *Terminal) Writer() io.Writer {
	return t.out
}

// Input returns the terminal's input stream, for the host's input decoder.
func (t *Terminal) Input() *os.File {
	return t.in
}

func (t *Terminal) writeString(s string) {
	io.WriteString(t.out, s)
}
