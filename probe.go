package slate

import (
	"bytes"
	"os"
	"time"

	"golang.org/x/term"
)

// probeTimeout bounds each active terminal query. A terminal that doesn't
// answer in time is treated as not supporting the probed feature; a probe
// never blocks a session start indefinitely.
const probeTimeout = 150 * time.Millisecond

// probeRefine sends active queries to the terminal and folds the answers
// into the snapshot. The terminal is held in raw mode for the duration so
// responses arrive unbuffered and unechoed.
func probeRefine(caps *Capabilities, tty *os.File) {
	fd := int(tty.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, state)

	// DEC 2026 synchronized update: DECRQM reports mode state 1 or 2 when
	// the mode is recognized, 0 when not.
	if resp, err := query(tty, "\x1b[?2026$p", func(buf []byte) bool {
		return bytes.HasSuffix(buf, []byte("$y"))
	}); err == nil {
		caps.SyncUpdate = bytes.Contains(resp, []byte("2026;1$y")) ||
			bytes.Contains(resp, []byte("2026;2$y"))
	} else {
		caps.SyncUpdate = false
	}

	// Kitty graphics: a query action for a 1x1 dummy image answers with an
	// APC carrying "OK" on terminals that implement the protocol.
	if caps.Graphics == GraphicsKitty {
		resp, err := query(tty, "\x1b_Gi=31,s=1,v=1,a=q,t=d,f=24;AAAA\x1b\\", func(buf []byte) bool {
			return bytes.HasSuffix(buf, []byte("\x1b\\"))
		})
		if err != nil || !bytes.Contains(resp, []byte(";OK")) {
			caps.Graphics = GraphicsHalfBlock
		}
	}

	// Primary device attributes: parameter 4 advertises sixel.
	if resp, err := query(tty, "\x1b[c", func(buf []byte) bool {
		return len(buf) > 0 && buf[len(buf)-1] == 'c'
	}); err == nil {
		if caps.Graphics < GraphicsSixel && da1HasParam(resp, "4") {
			caps.Graphics = GraphicsSixel
		}
	}
}

// query writes q to the terminal and reads until done reports the response
// complete or the deadline passes.
func query(tty *os.File, q string, done func([]byte) bool) ([]byte, error) {
	if _, err := tty.WriteString(q); err != nil {
		return nil, err
	}
	if err := tty.SetReadDeadline(time.Now().Add(probeTimeout)); err != nil {
		return nil, err
	}
	defer tty.SetReadDeadline(time.Time{})

	var resp []byte
	chunk := make([]byte, 64)
	for {
		n, err := tty.Read(chunk)
		if n > 0 {
			resp = append(resp, chunk[:n]...)
			if done(resp) {
				return resp, nil
			}
		}
		if err != nil {
			return resp, errProbe(err)
		}
	}
}

// errProbe wraps a probe read failure; timeouts resolve the probed feature
// as unsupported.
func errProbe(err error) error {
	if os.IsTimeout(err) {
		return ErrProbeTimeout
	}
	return err
}

// da1HasParam reports whether a DA1 response like "\x1b[?62;4;22c" carries
// the given parameter.
func da1HasParam(resp []byte, param string) bool {
	start := bytes.IndexByte(resp, '?')
	end := bytes.LastIndexByte(resp, 'c')
	if start < 0 || end <= start {
		return false
	}
	for _, p := range bytes.Split(resp[start+1:end], []byte(";")) {
		if string(p) == param {
			return true
		}
	}
	return false
}
