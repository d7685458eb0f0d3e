// Package terminal is the concrete realization of the native terminal I/O
// collaborator §1 of the console spec places out of core scope: raw-mode
// TTY setup, keystroke decoding into the core's key-sentinel wire format,
// and a system clipboard. Grounded on pawscript's own terminal.go/repl.go
// split between capability detection and the input loop, restated around
// golang.org/x/term instead of pawscript's fyne/gtk GUI terminal widgets.
package terminal

import (
	"bufio"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rivo/uniseg"
	"golang.org/x/term"

	"github.com/consolekit/qcon/internal/core"
)

// Capabilities reports what the attached stdin/stdout actually support,
// mirroring the detection pawscript's DetectSystemTerminalCapabilities
// performs before deciding whether to enter raw mode.
type Capabilities struct {
	IsTerminal bool
	Width      int
	Height     int
}

// DetectCapabilities inspects stdout, falling back to an 80x24
// non-interactive default when it isn't a real terminal.
func DetectCapabilities() Capabilities {
	caps := Capabilities{Width: 80, Height: 24}
	fd := int(os.Stdout.Fd())
	caps.IsTerminal = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if caps.IsTerminal {
		if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
			caps.Width, caps.Height = w, h
		}
	}
	return caps
}

// DisplayWidth returns the terminal column width of s, accounting for wide
// and zero-width runes, so the redraw protocol §5 requires (a consistent
// visual cursor position across handler output) holds for multi-byte CVar
// values and pasted clipboard text.
func DisplayWidth(s string) int { return uniseg.StringWidth(s) }

// Reader decodes raw stdin bytes into the core's key-sentinel wire format.
// In raw mode (a real TTY) it reads and decodes byte-at-a-time, including
// the common ANSI cursor-key escape sequences. Otherwise it falls back to
// a line-buffered reader that synthesizes one SentinelReturn per line, the
// degraded mode a piped or redirected stdin gets.
type Reader struct {
	fd      int
	raw     bool
	oldTerm *term.State
	stdin   *bufio.Reader
	pending []byte
}

// NewReader opens a key-code reader over os.Stdin, entering raw mode when
// stdin is an interactive terminal.
func NewReader() (*Reader, error) {
	fd := int(os.Stdin.Fd())
	r := &Reader{fd: fd, stdin: bufio.NewReader(os.Stdin)}
	if isatty.IsTerminal(os.Stdin.Fd()) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return r, nil
		}
		r.raw = true
		r.oldTerm = old
	}
	return r, nil
}

// Close restores the terminal's original mode, if raw mode was entered.
func (r *Reader) Close() error {
	if r.raw && r.oldTerm != nil {
		return term.Restore(r.fd, r.oldTerm)
	}
	return nil
}

// ReadKey blocks for the next decoded key code, or returns ok=false at EOF.
func (r *Reader) ReadKey() (code uint32, ok bool) {
	b, err := r.stdin.ReadByte()
	if err != nil {
		return 0, false
	}

	switch b {
	case '\r', '\n':
		return core.EncodeKey(core.SentinelReturn, 0), true
	case '\t':
		return core.EncodeKey(core.SentinelTab, 0), true
	case 0x7f, 0x08:
		return core.EncodeKey(core.SentinelBackspace, 0), true
	case 0x1b:
		return r.readEscape()
	}

	if b < 0x20 {
		// Ctrl+letter arrives as its control code (Ctrl+A == 0x01, etc).
		return core.EncodeControl(b + 'a' - 1), true
	}
	return core.EncodeASCII(b), true
}

// readEscape decodes the CSI sequences xterm-family terminals send for the
// arrow keys and Delete; any other or malformed sequence collapses to a
// plain Escape.
func (r *Reader) readEscape() (uint32, bool) {
	b1, err := r.stdin.ReadByte()
	if err != nil || b1 != '[' {
		return core.EncodeKey(core.SentinelEscape, 0), true
	}
	b2, err := r.stdin.ReadByte()
	if err != nil {
		return core.EncodeKey(core.SentinelEscape, 0), true
	}
	switch b2 {
	case 'A':
		return core.EncodeKey(core.SentinelUp, 0), true
	case 'B':
		return core.EncodeKey(core.SentinelDown, 0), true
	case 'C':
		return core.EncodeKey(core.SentinelRight, 0), true
	case 'D':
		return core.EncodeKey(core.SentinelLeft, 0), true
	case '3':
		if b3, err := r.stdin.ReadByte(); err == nil && b3 == '~' {
			return core.EncodeKey(core.SentinelDelete, 0), true
		}
	}
	return core.EncodeKey(core.SentinelEscape, 0), true
}
