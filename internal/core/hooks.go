package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// FileMode selects the direction a FileIO handle is opened for.
type FileMode int

const (
	FileRead FileMode = iota
	FileWrite
)

// FileHandle is the opaque handle returned by a FileIO collaborator.
type FileHandle interface{}

// FileIO is the external file-I/O collaborator (§6). The core never touches
// the filesystem directly; config-file replay and history persistence both
// go through this contract so an embedder can sandbox or virtualize it.
type FileIO interface {
	Open(path string, mode FileMode) (FileHandle, error)
	Close(h FileHandle) error
	IsAtEOF(h FileHandle) bool
	Rewind(h FileHandle) error
	ReadLine(h FileHandle) (string, bool)
	WriteString(h FileHandle, s string) error
	WriteFormat(h FileHandle, format string, args ...interface{}) error
}

// osFile is the concrete handle used by the default OS-backed FileIO.
type osFile struct {
	f       *os.File
	scanner *bufio.Scanner
	writer  *bufio.Writer
	atEOF   bool
}

// osFileIO is the default FileIO implementation, backed directly by the
// operating system's filesystem. Embedders that need sandboxing or
// in-memory config files supply their own FileIO instead.
type osFileIO struct{}

// NewOSFileIO returns the default os-backed FileIO collaborator.
func NewOSFileIO() FileIO { return osFileIO{} }

func (osFileIO) Open(path string, mode FileMode) (FileHandle, error) {
	var f *os.File
	var err error
	switch mode {
	case FileWrite:
		f, err = os.Create(path)
	default:
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, err
	}
	h := &osFile{f: f}
	if mode == FileRead {
		h.scanner = bufio.NewScanner(f)
		h.scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	} else {
		h.writer = bufio.NewWriter(f)
	}
	return h, nil
}

func (osFileIO) Close(h FileHandle) error {
	of, ok := h.(*osFile)
	if !ok || of == nil {
		return fmt.Errorf("invalid file handle")
	}
	if of.writer != nil {
		if err := of.writer.Flush(); err != nil {
			of.f.Close()
			return err
		}
	}
	return of.f.Close()
}

func (osFileIO) IsAtEOF(h FileHandle) bool {
	of, ok := h.(*osFile)
	if !ok || of == nil {
		return true
	}
	return of.atEOF
}

func (osFileIO) Rewind(h FileHandle) error {
	of, ok := h.(*osFile)
	if !ok || of == nil {
		return fmt.Errorf("invalid file handle")
	}
	if _, err := of.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	of.scanner = bufio.NewScanner(of.f)
	of.atEOF = false
	return nil
}

func (osFileIO) ReadLine(h FileHandle) (string, bool) {
	of, ok := h.(*osFile)
	if !ok || of == nil || of.scanner == nil {
		return "", false
	}
	if !of.scanner.Scan() {
		of.atEOF = true
		return "", false
	}
	return of.scanner.Text(), true
}

func (osFileIO) WriteString(h FileHandle, s string) error {
	of, ok := h.(*osFile)
	if !ok || of == nil || of.writer == nil {
		return fmt.Errorf("invalid file handle")
	}
	_, err := of.writer.WriteString(s)
	return err
}

func (osFileIO) WriteFormat(h FileHandle, format string, args ...interface{}) error {
	return osFileIO{}.WriteString(h, fmt.Sprintf(format, args...))
}

// Clipboard is the external clipboard collaborator Ctrl+c/Ctrl+v go
// through (§4.5's key table). The core never touches the OS clipboard
// directly.
type Clipboard interface {
	Copy(text string)
	Paste() string
}

// memClipboard is a trivial in-process Clipboard, useful when no system
// clipboard integration is wired up.
type memClipboard struct{ text string }

// NewMemClipboard returns a Clipboard backed by a single in-memory slot.
func NewMemClipboard() Clipboard { return &memClipboard{} }

func (c *memClipboard) Copy(text string) { c.text = text }
func (c *memClipboard) Paste() string    { return c.text }

// BoolStringPair is one (true-spelling, false-spelling) pair in a bool
// string table. The first pair registered is canonical for rendering; every
// pair is accepted when parsing.
type BoolStringPair struct {
	True  string
	False string
}

// BoolStringTable holds the accepted textual spellings for boolean CVars.
type BoolStringTable struct {
	pairs        []BoolStringPair
	caseSensitive bool
}

// DefaultBoolStringTable returns the table described in §4.2: true/false,
// yes/no, on/off, 1/0, with true/false canonical for rendering.
func DefaultBoolStringTable() *BoolStringTable {
	return &BoolStringTable{
		pairs: []BoolStringPair{
			{"true", "false"},
			{"yes", "no"},
			{"on", "off"},
			{"1", "0"},
		},
		caseSensitive: false,
	}
}

// SetCaseSensitive controls whether string-to-bool parsing folds case.
func (t *BoolStringTable) SetCaseSensitive(sensitive bool) { t.caseSensitive = sensitive }

// Render returns the canonical spelling (first pair) for a bool value.
func (t *BoolStringTable) Render(v bool) string {
	if len(t.pairs) == 0 {
		if v {
			return "true"
		}
		return "false"
	}
	if v {
		return t.pairs[0].True
	}
	return t.pairs[0].False
}

// Parse accepts any registered pair's spelling and returns the bool value.
func (t *BoolStringTable) Parse(s string) (bool, bool) {
	for _, p := range t.pairs {
		if t.equal(s, p.True) {
			return true, true
		}
		if t.equal(s, p.False) {
			return false, true
		}
	}
	return false, false
}

func (t *BoolStringTable) equal(a, b string) bool {
	if t.caseSensitive {
		return a == b
	}
	return foldEqual(a, b)
}

// AddPair appends a custom (true, false) spelling pair, accepted for
// parsing but not affecting the canonical rendering.
func (t *BoolStringTable) AddPair(trueSpelling, falseSpelling string) {
	t.pairs = append(t.pairs, BoolStringPair{trueSpelling, falseSpelling})
}
