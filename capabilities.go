package slate

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/xo/terminfo"
)

// ColorLevel is the richest color representation a terminal supports.
type ColorLevel uint8

const (
	ColorLevelNone ColorLevel = iota
	ColorLevel16
	ColorLevel256
	ColorLevelTrueColor
)

// GraphicsTier is the richest image protocol a terminal supports.
// Tiers order none < ASCII < half-block < Sixel < Kitty.
type GraphicsTier uint8

const (
	GraphicsNone GraphicsTier = iota
	GraphicsASCII
	GraphicsHalfBlock
	GraphicsSixel
	GraphicsKitty
)

// Capabilities is an immutable snapshot of what the attached terminal
// supports, captured once at startup and passed by reference into every
// renderer and context. A resize changes surface dimensions only, never
// this snapshot.
type Capabilities struct {
	ColorLevel ColorLevel
	Unicode    bool
	Hyperlinks bool // OSC 8
	Clipboard  bool // OSC 52
	SyncUpdate bool // DEC private mode 2026
	Graphics   GraphicsTier

	// Initial dimensions, a hint only; the live size comes from the
	// terminal handle.
	Columns int
	Rows    int
}

// detectConfig carries the knobs of Detect.
type detectConfig struct {
	env      func(string) string
	tty      *os.File
	probes   bool
	terminfo bool
}

// DetectOption configures Detect.
type DetectOption func(*detectConfig)

// WithEnv overrides environment lookup, for tests and embedding hosts.
// Disables the terminfo database lookup, which reads the process
// environment directly.
func WithEnv(env func(string) string) DetectOption {
	return func(c *detectConfig) {
		c.env = env
		c.terminfo = false
	}
}

// WithTTY sets the terminal file used for active probes.
func WithTTY(tty *os.File) DetectOption {
	return func(c *detectConfig) { c.tty = tty }
}

// WithoutProbes disables active terminal queries; detection then relies on
// the environment and terminfo alone, resolving unknowns as unsupported.
func WithoutProbes() DetectOption {
	return func(c *detectConfig) { c.probes = false }
}

// Detect captures a capability snapshot for the attached terminal.
// Environment and terminfo inspection run first; if the output is a real
// terminal and probing is enabled, active queries refine the result. All
// merging is conservative: unknown means unsupported.
func Detect(opts ...DetectOption) Capabilities {
	cfg := detectConfig{
		env:      os.Getenv,
		tty:      os.Stdout,
		probes:   true,
		terminfo: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var caps Capabilities
	isTTY := cfg.tty != nil && isatty.IsTerminal(cfg.tty.Fd())
	if !isTTY {
		// Piped or redirected output gets plain text, nothing else.
		return caps
	}

	caps.ColorLevel = detectColorLevel(&cfg)
	caps.Unicode = detectUnicode(cfg.env)
	caps.Hyperlinks = detectHyperlinks(cfg.env)
	caps.Clipboard = detectClipboard(cfg.env)
	caps.SyncUpdate = detectSyncUpdate(cfg.env)
	caps.Graphics = detectGraphics(cfg.env, caps)

	if w, h, err := terminalSize(int(cfg.tty.Fd())); err == nil {
		caps.Columns, caps.Rows = w, h
	}

	if cfg.probes {
		probeRefine(&caps, cfg.tty)
	}
	return caps
}

// detectColorLevel determines color capability from the environment,
// falling back to the terminfo database.
func detectColorLevel(cfg *detectConfig) ColorLevel {
	env := cfg.env
	if env("NO_COLOR") != "" {
		return ColorLevelNone
	}

	colorterm := env("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorLevelTrueColor
	}

	// Terminals known to support true color without advertising it.
	if env("KITTY_WINDOW_ID") != "" ||
		env("KONSOLE_VERSION") != "" ||
		env("ITERM_SESSION_ID") != "" ||
		env("ALACRITTY_WINDOW_ID") != "" ||
		env("WEZTERM_PANE") != "" ||
		env("GHOSTTY_RESOURCES_DIR") != "" {
		return ColorLevelTrueColor
	}

	term := env("TERM")
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorLevelTrueColor
	}

	if cfg.terminfo {
		if level, err := terminfo.ColorLevelFromEnv(); err == nil {
			switch level {
			case terminfo.ColorLevelMillions:
				return ColorLevelTrueColor
			case terminfo.ColorLevelHundreds:
				return ColorLevel256
			case terminfo.ColorLevelBasic:
				return ColorLevel16
			}
			return ColorLevelNone
		}
	}

	switch {
	case strings.Contains(term, "256color"):
		return ColorLevel256
	case term == "dumb" || term == "":
		return ColorLevelNone
	default:
		return ColorLevel16
	}
}

// detectUnicode checks the locale for UTF-8.
func detectUnicode(env func(string) string) bool {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := env(key)
		if v == "" {
			continue
		}
		up := strings.ToUpper(v)
		return strings.Contains(up, "UTF-8") || strings.Contains(up, "UTF8")
	}
	return false
}

// detectHyperlinks reports OSC 8 support for terminals known to honor it.
func detectHyperlinks(env func(string) string) bool {
	if env("KITTY_WINDOW_ID") != "" ||
		env("WEZTERM_PANE") != "" ||
		env("ITERM_SESSION_ID") != "" ||
		env("GHOSTTY_RESOURCES_DIR") != "" ||
		env("VTE_VERSION") != "" {
		return true
	}
	term := env("TERM")
	return strings.HasPrefix(term, "foot") || strings.HasPrefix(term, "xterm-kitty")
}

// detectClipboard reports OSC 52 support for terminals known to honor it.
func detectClipboard(env func(string) string) bool {
	if env("KITTY_WINDOW_ID") != "" ||
		env("WEZTERM_PANE") != "" ||
		env("ITERM_SESSION_ID") != "" ||
		env("GHOSTTY_RESOURCES_DIR") != "" ||
		env("TMUX") != "" {
		return true
	}
	term := env("TERM")
	return strings.HasPrefix(term, "foot") ||
		strings.HasPrefix(term, "xterm-kitty") ||
		strings.HasPrefix(term, "xterm")
}

// detectSyncUpdate reports DEC 2026 support from the environment alone;
// the active probe gives the definitive answer when enabled.
func detectSyncUpdate(env func(string) string) bool {
	return env("KITTY_WINDOW_ID") != "" ||
		env("WEZTERM_PANE") != "" ||
		env("GHOSTTY_RESOURCES_DIR") != "" ||
		strings.HasPrefix(env("TERM"), "foot")
}

// detectGraphics picks the highest tier the environment advertises.
func detectGraphics(env func(string) string, caps Capabilities) GraphicsTier {
	term := env("TERM")
	switch {
	case env("KITTY_WINDOW_ID") != "" ||
		env("GHOSTTY_RESOURCES_DIR") != "" ||
		strings.HasPrefix(term, "xterm-kitty"):
		return GraphicsKitty
	case env("WEZTERM_PANE") != "" ||
		strings.HasPrefix(term, "foot") ||
		strings.HasPrefix(term, "mlterm") ||
		strings.Contains(term, "sixel"):
		return GraphicsSixel
	case caps.Unicode && caps.ColorLevel >= ColorLevel16:
		return GraphicsHalfBlock
	case caps.ColorLevel >= ColorLevel16:
		return GraphicsASCII
	default:
		return GraphicsNone
	}
}
