package core

import "strings"

// MaxReentrantCommands bounds a single ExecuteBuffered call against a
// command that keeps re-queuing itself (§4.4.4 termination condition 2,
// §8's buffer reentrancy scenario): once reached, the remaining buffer is
// discarded and ErrReentrant is reported instead of looping forever.
const MaxReentrantCommands = 1_000_000

// ExecAll requests an unbounded ExecuteBuffered call (no caller-specified
// dispatch cap).
const ExecAll = -1

// Pipeline ties the tokenizer, splitter, substitution, buffer, and the two
// registries together into the dispatch loop described in §4.4.
type Pipeline struct {
	CVars    *CVarRegistry
	Commands *CommandRegistry
	buffer   *CommandBuffer
	tok      *Tokenizer
	sink     *mutableSink
}

// NewPipeline wires a pipeline over an existing CVar and command registry.
func NewPipeline(cvars *CVarRegistry, commands *CommandRegistry, sink ErrorSink) *Pipeline {
	return &Pipeline{
		CVars:    cvars,
		Commands: commands,
		buffer:   NewCommandBuffer(),
		tok:      NewTokenizer(sink),
		sink:     newMutableSink(sink),
	}
}

// Exec routes text according to mode (§4.4.4): ExecNow dispatches every
// command in text immediately and returns once they've all run; ExecInsert
// and ExecAppend instead queue text for a later ExecuteBuffered call.
func (p *Pipeline) Exec(text string, mode ExecMode) {
	switch mode {
	case ExecInsert:
		p.buffer.Insert(text)
	case ExecAppend:
		p.buffer.Append(text)
	default:
		p.runImmediate(text)
	}
}

// runImmediate repeatedly splits and dispatches until text is exhausted, or
// an extraction overflow discards the remainder (Open Question conflation,
// carried by ExtractNextCommand's overflowed result).
func (p *Pipeline) runImmediate(text string) {
	remaining := text
	for remaining != "" {
		var cmdText string
		var overflowed bool
		cmdText, remaining, overflowed = ExtractNextCommand(remaining, p.CVars, p.sink.sink)
		if overflowed {
			p.sink.report(ErrBufferOverflow, "command text overflowed during immediate execution, discarding remainder")
			return
		}
		if cmdText == "" {
			continue
		}
		p.dispatch(cmdText)
	}
}

// ExecuteBuffered drains the command buffer, one command at a time,
// removing each command's text before invoking it (shift-then-invoke) so
// that a handler calling Exec(..., ExecInsert) during its own execution has
// its text run next, ahead of whatever else was already queued.
//
// Termination, in priority order (§4.4.4): (1) an extraction overflow
// clears the whole buffer and stops; (2) MaxReentrantCommands dispatched in
// this call is treated as a reentrant loop, clears the buffer, and reports
// ErrReentrant; (3) maxCount dispatched (when maxCount != ExecAll) stops
// leaving the remainder queued; (4) the buffer empties, at which point a
// remainder of pure whitespace/separators is zeroed rather than left as an
// empty-looking but non-empty buffer.
//
// Returns the number of commands dispatched.
func (p *Pipeline) ExecuteBuffered(maxCount int) int {
	dispatched := 0
	for !p.buffer.Empty() {
		chunk := p.buffer.drain()
		cmdText, rest, overflowed := ExtractNextCommand(chunk, p.CVars, p.sink.sink)
		if overflowed {
			p.sink.report(ErrBufferOverflow, "command buffer extraction overflowed, discarding remainder")
			p.buffer.Clear()
			return dispatched
		}
		if rest != "" {
			p.buffer.Insert(rest)
		}
		if cmdText != "" {
			p.dispatch(cmdText)
			dispatched++
		}
		if dispatched >= MaxReentrantCommands {
			p.sink.report(ErrReentrant, "command buffer exceeded %d dispatches, discarding remainder", MaxReentrantCommands)
			p.buffer.Clear()
			return dispatched
		}
		if maxCount != ExecAll && dispatched >= maxCount {
			return dispatched
		}
	}
	if isBlankOrSeparators(p.buffer.pending) {
		p.buffer.Clear()
	}
	return dispatched
}

func isBlankOrSeparators(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\r' && r != '\n' && r != ';' {
			return false
		}
	}
	return true
}

// dispatch validates and invokes a single already-split, already-substituted
// command's text (§4.4.5).
func (p *Pipeline) dispatch(cmdText string) {
	args, ok := p.tok.Tokenize(cmdText)
	if !ok || args == nil || args.Name == "" {
		return
	}
	if len(args.Name) > MaxCommandNameLength {
		p.sink.report(ErrInvalidName, "command name %q exceeds %d characters", args.Name, MaxCommandNameLength)
		return
	}

	cmd, found := p.Commands.Find(args.Name)
	if !found {
		p.sink.report(ErrNotFound, "unknown command %q", args.Name)
		return
	}
	if p.Commands.IsDisabled(cmd.Flags()) {
		p.sink.report(ErrDisabled, "command %q is disabled", args.Name)
		return
	}
	if cmd.IsAlias() {
		aliasText, mode := cmd.AliasTarget()
		p.Exec(joinAliasArgs(aliasText, args.Args), mode)
		return
	}
	if !cmd.checkArity(len(args.Args)) {
		p.sink.report(ErrInvalidName, "command %q called with %d arguments", args.Name, len(args.Args))
		return
	}
	cmd.invoke(args)
}

// joinAliasArgs appends any arguments given at the call site onto the
// alias's stored text, matching a shell alias's pass-through behavior.
func joinAliasArgs(aliasText string, extra []string) string {
	if len(extra) == 0 {
		return aliasText
	}
	var b strings.Builder
	b.WriteString(aliasText)
	for _, a := range extra {
		b.WriteByte(' ')
		if strings.ContainsAny(a, " \t\"'") {
			b.WriteByte('"')
			b.WriteString(a)
			b.WriteByte('"')
		} else {
			b.WriteString(a)
		}
	}
	return b.String()
}

// ProcessStartupArgs splits a startup command line on `+`-prefixed tokens
// (argv[0] already excluded by the caller) into sub-lines. A `set` or
// `reset` sub-line runs immediately through the privileged CVar path, with
// the InitOnly override enabled for the duration of this call so it can
// target InitOnly variables; anything else is appended to the command
// buffer for a later ExecuteBuffered call (§4.4.6).
func (p *Pipeline) ProcessStartupArgs(args []string) {
	prevInitOnly := p.CVars.allowWritingInitOnly
	p.CVars.SetAllowWritingInitOnly(true)
	defer p.CVars.SetAllowWritingInitOnly(prevInitOnly)

	for _, sub := range splitStartupLine(args) {
		fields := strings.Fields(sub)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "set":
			if len(fields) < 3 {
				p.sink.report(ErrParseError, "+set requires a name and a value")
				continue
			}
			p.CVars.SetInternal(fields[1], fields[2])
		case "reset":
			if len(fields) < 2 {
				p.sink.report(ErrParseError, "+reset requires a name")
				continue
			}
			p.CVars.SetDefault(fields[1], true)
		default:
			p.Exec(sub, ExecAppend)
		}
	}
}

// splitStartupLine breaks argv[1:] into the sub-lines delimited by
// `+`-prefixed tokens; tokens preceding the first `+` are discarded.
func splitStartupLine(args []string) []string {
	var lines []string
	var current []string
	started := false
	for _, tok := range args {
		if strings.HasPrefix(tok, "+") {
			if started {
				lines = append(lines, strings.Join(current, " "))
			}
			started = true
			current = []string{strings.TrimPrefix(tok, "+")}
			continue
		}
		if started {
			current = append(current, tok)
		}
	}
	if started {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

// RunConfigFile replays a config file's lines: blank lines and lines
// starting with `#` or `//` are skipped; everything else is echoed to echo
// (when non-nil) and executed immediately (§4.4.7). `set NAME "VALUE"
// [-flag ...]` and `alias NAME "TEXT" -MODEFLAG ["DESC"]` — the exact
// grammar CVarRegistry.SaveConfigLines and AliasConfigLine produce — are
// recognized directly against the privileged CVar path and CreateAlias;
// any other line falls through to a normal immediate dispatch, so a config
// file may also contain plain command invocations. Errors in one line do
// not abort the rest of the file.
func (p *Pipeline) RunConfigFile(lines []string, echo func(string)) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}
		if echo != nil {
			echo(line)
		}
		fields, ok := p.tok.Tokenize(line)
		if !ok || fields == nil {
			continue
		}
		switch fields.Name {
		case "set":
			if len(fields.Args) < 2 {
				p.sink.report(ErrParseError, "malformed set line: %q", line)
				continue
			}
			p.CVars.SetInternal(fields.Args[0], fields.Args[1])
		case "alias":
			if len(fields.Args) < 3 {
				p.sink.report(ErrParseError, "malformed alias line: %q", line)
				continue
			}
			mode := parseModeFlag(fields.Args[2])
			desc := ""
			if len(fields.Args) >= 4 {
				desc = fields.Args[3]
			}
			p.Commands.CreateAlias(fields.Args[0], desc, fields.Args[1], mode)
		default:
			p.runImmediate(line)
		}
	}
}

func parseModeFlag(flag string) ExecMode {
	switch strings.TrimPrefix(strings.ToLower(flag), "-") {
	case "insert":
		return ExecInsert
	case "append":
		return ExecAppend
	default:
		return ExecNow
	}
}

// LoadConfigFile opens path through io, reads it line by line, and hands
// the collected lines to RunConfigFile (§4.4.7). A missing or unopenable
// file reports ErrIOFailed and is not otherwise fatal to the caller.
func (p *Pipeline) LoadConfigFile(io FileIO, path string, echo func(string)) bool {
	h, err := io.Open(path, FileRead)
	if err != nil {
		p.sink.report(ErrIOFailed, "cannot open config file %q: %v", path, err)
		return false
	}
	defer io.Close(h)

	var lines []string
	for {
		line, ok := io.ReadLine(h)
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	p.RunConfigFile(lines, echo)
	return true
}

// SaveConfigFile writes every persistent cvar and every alias, in the
// `set`/`alias` grammar, to path through io (§4.2/§4.4.6).
func (p *Pipeline) SaveConfigFile(io FileIO, path string) bool {
	h, err := io.Open(path, FileWrite)
	if err != nil {
		p.sink.report(ErrIOFailed, "cannot open config file %q for writing: %v", path, err)
		return false
	}
	defer io.Close(h)

	for _, line := range p.CVars.SaveConfigLines() {
		io.WriteFormat(h, "%s\n", line)
	}
	p.Commands.Enumerate(func(cmd *Command) bool {
		if cmd.IsAlias() {
			io.WriteFormat(h, "%s\n", AliasConfigLine(cmd))
		}
		return true
	})
	return true
}
