package core

import "unicode/utf8"

// BuiltinHook lets an embedder observe/override a built-in verb before the
// editor applies its default behavior. Returning true means "handled, skip
// the default".
type BuiltinHook func(args []string) bool

// EditBuffer is the interactive line editor's state machine (§4.5): a rune
// buffer, cursor position, bound History and Completer, and the built-in
// verb table (exit/clear/histView/histClear/histSave/histLoad), all driven
// by HandleKeyInput. Grounded on the source REPL's `src/repl.go` input
// loop and `src/key_input.go` decoding, restated around the spec's key
// sentinel wire format instead of pawscript's own terminal-driver-specific
// values.
type EditBuffer struct {
	line   []rune
	cursor int

	history       *History
	completer     *Completer
	pipeline      *Pipeline
	exitRequested bool

	// FileIO and HistoryPath back the histSave/histLoad built-ins (§4.5.1).
	FileIO      FileIO
	HistoryPath string

	Prompt string

	// Print is the editor's own output channel (a status line, a hint, a
	// history listing) — distinct from command handler output, which flows
	// through whatever collaborator the embedder wired up separately.
	Print func(line string)

	// Clipboard backs Ctrl+c/Ctrl+v: Ctrl+c copies the whole buffer out
	// through it, Ctrl+v asks it for text and inserts each rune as if
	// typed. A nil Clipboard makes both a no-op.
	Clipboard Clipboard

	OnSubmit func(line string)
	OnClear  func()
	OnExit   func()
	builtins map[string]BuiltinHook

	tabHintShown bool

	// cycleStart/cycleEnd bound the completed word in rune coordinates as
	// of the Tab that opened the current cycle, so later Tabs can swap the
	// spliced-in candidate without re-deriving the word from buffer text
	// a previous splice already rewrote.
	cycleStart int
	cycleEnd   int
}

// NewEditBuffer creates a line editor bound to a pipeline (for submitted
// commands) and a completer (for Tab).
func NewEditBuffer(pipeline *Pipeline, completer *Completer, history *History) *EditBuffer {
	if history == nil {
		history = NewHistory(0)
	}
	return &EditBuffer{
		history:   history,
		completer: completer,
		pipeline:  pipeline,
		Prompt:    "> ",
		builtins:  make(map[string]BuiltinHook),
	}
}

// SetBuiltin installs or replaces a built-in verb's hook.
func (e *EditBuffer) SetBuiltin(name string, hook BuiltinHook) { e.builtins[name] = hook }

// Text returns the current buffer contents.
func (e *EditBuffer) Text() string { return string(e.line) }

// CursorRunes returns the cursor position, in runes.
func (e *EditBuffer) CursorRunes() int { return e.cursor }

// SetText replaces the buffer contents and places the cursor at the end.
func (e *EditBuffer) SetText(s string) {
	e.line = []rune(s)
	e.cursor = len(e.line)
}

// ExitRequested reports whether the built-in `exit` command has asked to
// end the session.
func (e *EditBuffer) ExitRequested() bool { return e.exitRequested }

// CancelExit vetoes a pending exit request, for an OnExit hook that wants
// to prompt for confirmation first (§6's exit discipline).
func (e *EditBuffer) CancelExit() { e.exitRequested = false }

func (e *EditBuffer) print(s string) {
	if e.Print != nil {
		e.Print(s)
	}
}

func (e *EditBuffer) insert(r rune) {
	e.line = append(e.line[:e.cursor], append([]rune{r}, e.line[e.cursor:]...)...)
	e.cursor++
}

func (e *EditBuffer) deleteBackward() {
	if e.cursor == 0 {
		return
	}
	e.line = append(e.line[:e.cursor-1], e.line[e.cursor:]...)
	e.cursor--
}

func (e *EditBuffer) deleteForward() {
	if e.cursor >= len(e.line) {
		return
	}
	e.line = append(e.line[:e.cursor], e.line[e.cursor+1:]...)
}

// HandleKeyInput advances the editor state machine by one encoded key
// event (§6/§4.5), returning true if the buffer's contents changed in a
// way the caller should redraw. Any key other than Tab resets the
// tab-completion cycle state. SentinelControl is a nested dispatch: its
// accompanying character selects the Ctrl+letter binding rather than
// being inserted literally.
func (e *EditBuffer) HandleKeyInput(code uint32) bool {
	sentinel, ch := DecodeKey(code)

	if sentinel != SentinelTab {
		e.tabHintShown = false
		if e.completer != nil {
			e.completer.cycleKey = ""
		}
	}

	switch sentinel {
	case SentinelASCII:
		e.insert(rune(ch))
		return true
	case SentinelControl:
		return e.handleControlRune(rune(ch))
	case SentinelReturn:
		e.submit()
		return true
	case SentinelBackspace:
		e.deleteBackward()
		return true
	case SentinelDelete:
		e.deleteForward()
		return true
	case SentinelLeft:
		if e.cursor > 0 {
			e.cursor--
		}
		return true
	case SentinelRight:
		if e.cursor < len(e.line) {
			e.cursor++
		}
		return true
	case SentinelUp:
		if s, ok := e.history.Prev(e.Text()); ok {
			e.SetText(s)
		}
		return true
	case SentinelDown:
		if s, ok := e.history.Next(e.Text()); ok {
			e.SetText(s)
		}
		return true
	case SentinelTab:
		e.tabComplete()
		return true
	case SentinelEscape:
		e.SetText("")
		e.history.ResetWalk()
		return true
	}
	return false
}

// handleControlRune recognizes the Ctrl+letter combinations §4.5 lists:
// Ctrl-C copies the buffer to the clipboard hook, Ctrl-V pastes from it by
// replaying inserts, Ctrl-L clears the terminal, Ctrl-P/Ctrl-N mirror
// Up/Down.
func (e *EditBuffer) handleControlRune(r rune) bool {
	switch r {
	case 'c', 'C':
		if e.Clipboard != nil {
			e.Clipboard.Copy(e.Text())
		}
		return true
	case 'v', 'V':
		if e.Clipboard != nil {
			for _, r := range e.Clipboard.Paste() {
				e.insert(r)
			}
		}
		return true
	case 'l', 'L':
		if e.OnClear != nil {
			e.OnClear()
		}
		return true
	case 'p', 'P':
		if s, ok := e.history.Prev(e.Text()); ok {
			e.SetText(s)
		}
		return true
	case 'n', 'N':
		if s, ok := e.history.Next(e.Text()); ok {
			e.SetText(s)
		}
		return true
	}
	return false
}

// tabComplete implements §4.5.2's three cases through the bound Completer,
// plus the empty-buffer hint-then-list behavior and cycle mode: a single
// match is spliced in immediately; an ambiguous match set prints a list on
// the Tab that opens the cycle, without touching the buffer, and each Tab
// after that swaps in the next candidate in turn, wrapping at the end
// (§8's tab-cycling scenario). Once a cycle is open, further Tabs advance
// it directly through Completer.CycleNext rather than re-running Complete
// against the buffer, since the previous splice already changed the text
// the word would otherwise be re-derived from.
func (e *EditBuffer) tabComplete() {
	if e.completer == nil {
		return
	}
	if len(e.line) == 0 {
		if !e.tabHintShown {
			e.tabHintShown = true
			e.print("(press Tab again to list all commands)")
			return
		}
		res := e.completer.Complete("", 0)
		e.printCandidates(res)
		return
	}

	if e.completer.Cycling() {
		replacement := e.completer.CycleNext()
		before := string(e.line[:e.cycleStart])
		tail := string(e.line[e.cycleEnd:])
		e.SetText(before + replacement + tail)
		e.cycleEnd = e.cycleStart + len([]rune(replacement))
		return
	}

	before := string(e.line[:e.cursor])
	byteStart := lastFieldStart(before)

	res := e.completer.Complete(string(e.line), e.cursor)
	if len(res.Candidates) > 1 {
		e.printCandidates(res)
	}
	if e.completer.Cycling() {
		e.cycleStart = utf8.RuneCountInString(before[:byteStart])
		e.cycleEnd = e.cursor
		return
	}
	if res.Replacement == "" {
		return
	}
	tail := string(e.line[e.cursor:])
	e.SetText(before[:byteStart] + res.Replacement + tail)
}

func (e *EditBuffer) printCandidates(res CompletionResult) {
	if len(res.Candidates) == 0 {
		return
	}
	line := ""
	for i, c := range res.Candidates {
		if i > 0 {
			line += "  "
		}
		line += c
	}
	if res.Total > len(res.Candidates) {
		line += "  (+" + itoa(res.Total-len(res.Candidates)) + " more)"
	}
	e.print(line)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func lastFieldStart(s string) int {
	for i := len(s); i > 0; {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if r == ' ' || r == '\t' {
			return i
		}
		i -= size
	}
	return 0
}

// submit finalizes the current line: records it in history (skipping a
// blank line), dispatches built-ins directly, and otherwise hands the text
// to the pipeline as an immediate execution.
func (e *EditBuffer) submit() {
	text := e.Text()
	e.SetText("")
	if isBlankOrSeparators(text) {
		return
	}
	e.history.Add(text)
	e.history.ResetWalk()

	if e.OnSubmit != nil {
		e.OnSubmit(text)
	}

	fields := splitFields(text)
	if len(fields) == 0 {
		return
	}
	if e.runBuiltinOrDefault(fields[0], fields[1:]) {
		return
	}
	if e.pipeline != nil {
		e.pipeline.Exec(text, ExecNow)
	}
}

func (e *EditBuffer) requestExit() {
	e.exitRequested = true
	if e.OnExit != nil {
		e.OnExit()
	}
}

// runBuiltinOrDefault dispatches a recognized built-in verb, preferring an
// embedder-installed override, and otherwise applying the editor's own
// default behavior (§4.5.3's fixed table: exit, clear, histView, histClear,
// histSave, histLoad).
func (e *EditBuffer) runBuiltinOrDefault(name string, args []string) bool {
	if hook := e.builtins[name]; hook != nil && hook(args) {
		return true
	}
	switch name {
	case "exit":
		e.requestExit()
	case "clear":
		if e.OnClear != nil {
			e.OnClear()
		}
	case "histView":
		for _, l := range e.HistoryLines() {
			e.print(l)
		}
	case "histClear":
		e.history = NewHistory(0)
	case "histSave":
		e.saveHistory()
	case "histLoad":
		e.loadHistory()
	default:
		return false
	}
	return true
}

func (e *EditBuffer) saveHistory() {
	if e.FileIO == nil || e.HistoryPath == "" {
		return
	}
	h, err := e.FileIO.Open(e.HistoryPath, FileWrite)
	if err != nil {
		return
	}
	defer e.FileIO.Close(h)
	for _, line := range e.HistoryLines() {
		e.FileIO.WriteFormat(h, "%s\n", line)
	}
}

func (e *EditBuffer) loadHistory() {
	if e.FileIO == nil || e.HistoryPath == "" {
		return
	}
	h, err := e.FileIO.Open(e.HistoryPath, FileRead)
	if err != nil {
		return
	}
	defer e.FileIO.Close(h)
	loaded := NewHistory(e.history.capacity)
	for {
		line, ok := e.FileIO.ReadLine(h)
		if !ok {
			break
		}
		loaded.Add(line)
	}
	e.history = loaded
}

func splitFields(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// HistoryLines returns every retained history line, oldest first, for the
// histView built-in to render or histSave to persist.
func (e *EditBuffer) HistoryLines() []string {
	out := make([]string, 0, e.history.Len())
	for i := 0; i < e.history.Len(); i++ {
		if l, ok := e.history.Line(i); ok {
			out = append(out, l)
		}
	}
	return out
}
