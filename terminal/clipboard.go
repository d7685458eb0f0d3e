package terminal

import "github.com/atotto/clipboard"

// Clipboard is the system-clipboard-backed implementation of
// core.Clipboard, wired to the Ctrl+c/Ctrl+v bindings in §4.5's key table.
// Falls back silently to a no-op when the platform has no clipboard
// utility available (e.g. a headless Linux box without xclip/xsel).
type Clipboard struct{}

// NewClipboard returns a system-clipboard-backed core.Clipboard.
func NewClipboard() *Clipboard { return &Clipboard{} }

func (Clipboard) Copy(text string) {
	_ = clipboard.WriteAll(text)
}

func (Clipboard) Paste() string {
	text, err := clipboard.ReadAll()
	if err != nil {
		return ""
	}
	return text
}
