package core

import (
	"sort"
	"strings"
)

// MaxCompletionMatches bounds a single completion query's candidate list,
// mirroring MaxCVarMatches for the editor's own scans.
const MaxCompletionMatches = 256

// builtinCompletionNames mirrors the fixed built-in verb table §4.5.3
// installs on the editor; the completer doesn't import EditBuffer, so the
// names are restated here rather than shared through an interface.
var builtinCompletionNames = []string{"exit", "clear", "histView", "histClear", "histSave", "histLoad"}

// CompletionResult is what a completion query yields: the text to splice
// in place of the partial word, the full candidate list (for a "+K more"
// style hint when Total exceeds len(Candidates)), and the total match
// count before truncation.
type CompletionResult struct {
	Replacement string
	Candidates  []string
	Total       int
}

// Completer resolves the tab-completion cases from §4.5.2: (1) an empty
// first word lists built-ins and commands together; (2) a partial first
// word tries built-ins, then cvar names, then command names, stopping at
// the first layer with a match; (3) once the line has whitespace, the
// partial last token completes as a cvar name inside an open `$(`
// expansion, a cvar's own value space (via its CompletionHook or declared
// constraint set), or a command's own argument-completion hook — in that
// order, with no completion if none apply. Grounded on the source REPL's
// tab handling in `src/repl.go`, restructured as a standalone collaborator
// so the editor state machine doesn't own scan/sort logic directly.
type Completer struct {
	Commands *CommandRegistry
	CVars    *CVarRegistry

	cycleKey     string
	cycleMatches []string
	cycleIndex   int
}

// NewCompleter binds a completer to a command/cvar registry pair.
func NewCompleter(commands *CommandRegistry, cvars *CVarRegistry) *Completer {
	return &Completer{Commands: commands, CVars: cvars}
}

// Complete resolves the word ending at cursorPos in text.
func (c *Completer) Complete(text string, cursorPos int) CompletionResult {
	if cursorPos < 0 || cursorPos > len(text) {
		cursorPos = len(text)
	}
	before := text[:cursorPos]
	fields := strings.Fields(before)

	firstWordEnds := len(before) == len(strings.TrimRight(before, " \t")) && len(fields) <= 1
	if firstWordEnds {
		partial := ""
		if len(fields) == 1 {
			partial = fields[0]
		}
		return c.completeNames(partial)
	}

	if len(fields) >= 1 {
		cmdName := fields[0]
		partial := ""
		if !strings.HasSuffix(before, " ") {
			partial = fields[len(fields)-1]
		}
		// Case 3(a): the partial token has an unclosed `$(` in it, so it's
		// a substitution reference rather than an argument or cvar value —
		// complete it against cvar names regardless of what cmdName is.
		if idx := strings.LastIndex(partial, "$("); idx != -1 && !strings.ContainsRune(partial[idx:], ')') {
			return c.completeSubstitutionName(partial, idx)
		}
		if cv, ok := c.CVars.Find(cmdName); ok {
			return c.completeCVarValue(cv, partial)
		}
		// Case 3(c): an argument position for a command that installed its
		// own completion hook.
		if cmd, ok := c.Commands.Find(cmdName); ok {
			if hook := cmd.CompletionHook(); hook != nil {
				return c.completeFromHook(hook, partial)
			}
		}
	}

	return CompletionResult{}
}

func (c *Completer) completeFromHook(hook func(partial string) []string, partial string) CompletionResult {
	return c.finishFiltered(partial, hook(partial))
}

// finishFiltered narrows candidates to those matching partial as a
// case-folded prefix, sorts them, and hands them to finish.
func (c *Completer) finishFiltered(partial string, candidates []string) CompletionResult {
	var filtered []string
	for _, cand := range candidates {
		if partial == "" || hasPrefixFold(foldToLower(cand), foldToLower(partial)) {
			filtered = append(filtered, cand)
		}
	}
	sort.Strings(filtered)
	return c.finish(partial, filtered, len(filtered))
}

// completeNames resolves the first word: an empty partial (case 1, listing
// after the second Tab against an empty buffer) unions built-ins and
// commands into one alphabetical list; a nonempty partial (case 2) tries
// built-ins, then cvar names, then command names, stopping at the first
// layer with a match (§4.5.2).
func (c *Completer) completeNames(partial string) CompletionResult {
	if partial == "" {
		var names []string
		names = append(names, builtinCompletionNames...)
		cmds, _ := c.Commands.FindByPartialName("", MaxCompletionMatches)
		for _, cmd := range cmds {
			names = append(names, cmd.Name())
		}
		sort.Strings(names)
		if len(names) > MaxCompletionMatches {
			names = names[:MaxCompletionMatches]
		}
		return c.finish("", names, len(names))
	}

	var builtinMatches []string
	for _, b := range builtinCompletionNames {
		if hasPrefixFold(foldToLower(b), foldToLower(partial)) {
			builtinMatches = append(builtinMatches, b)
		}
	}
	if len(builtinMatches) > 0 {
		sort.Strings(builtinMatches)
		return c.finish(partial, builtinMatches, len(builtinMatches))
	}

	if cvars, cvarTotal := c.CVars.FindByPartialName(partial, MaxCompletionMatches); len(cvars) > 0 {
		names := make([]string, len(cvars))
		for i, cv := range cvars {
			names[i] = cv.Name()
		}
		return c.finish(partial, names, cvarTotal)
	}

	cmds, cmdTotal := c.Commands.FindByPartialName(partial, MaxCompletionMatches)
	names := make([]string, len(cmds))
	for i, cmd := range cmds {
		names[i] = cmd.Name()
	}
	return c.finish(partial, names, cmdTotal)
}

// completeSubstitutionName completes the cvar name inside an open `$(`
// expansion embedded in partial, keeping everything before the `$(` intact
// in the replacement so splicing the whole field back in stays correct.
func (c *Completer) completeSubstitutionName(partial string, dollarIdx int) CompletionResult {
	prefix := partial[:dollarIdx+2]
	inner := partial[dollarIdx+2:]

	cvars, total := c.CVars.FindByPartialName(inner, MaxCompletionMatches)
	names := make([]string, len(cvars))
	for i, cv := range cvars {
		names[i] = prefix + cv.Name()
	}
	return c.finish(partial, names, total)
}

func (c *Completer) completeCVarValue(cv *CVar, partial string) CompletionResult {
	var candidates []string
	if hook := cv.CompletionHook(); hook != nil {
		candidates = hook(partial)
	} else {
		switch cv.Type() {
		case TypeBool:
			for _, pair := range c.CVars.BoolStrings().pairs {
				candidates = append(candidates, pair.True, pair.False)
			}
		case TypeString:
			candidates = cv.Constraint().AllowedValues
		case TypeEnum:
			for _, ec := range cv.Constraint().EnumValues {
				candidates = append(candidates, ec.Name)
			}
		}
	}

	return c.finishFiltered(partial, candidates)
}

// finish applies the tab-cycling rule (§8's tab-cycling scenario): the Tab
// that first turns up an ambiguous, non-extendable match set only lists the
// candidates, leaving the buffer untouched; each Tab after that advances
// through the set one candidate at a time and wraps at the end. Cycling
// state (cycleKey/cycleMatches/cycleIndex) only drives repeated direct calls
// to Complete against the same unchanged text; EditBuffer instead pins the
// cycle to the field it was opened on and drives it through Cycling/
// CycleNext, since splicing a candidate into the buffer changes the text
// Complete would otherwise re-derive partial from.
func (c *Completer) finish(partial string, matches []string, total int) CompletionResult {
	if len(matches) == 0 {
		c.cycleKey = ""
		return CompletionResult{}
	}
	if len(matches) == 1 {
		c.cycleKey = ""
		return CompletionResult{Replacement: matches[0], Candidates: matches, Total: total}
	}

	key := partial + "\x00" + strings.Join(matches, "\x00")
	if key == c.cycleKey {
		c.cycleIndex = (c.cycleIndex + 1) % len(c.cycleMatches)
		return CompletionResult{Replacement: c.cycleMatches[c.cycleIndex], Candidates: matches, Total: total}
	}

	common := commonPrefix(matches)
	if len(common) > len(partial) {
		c.cycleKey = ""
		return CompletionResult{Replacement: common, Candidates: matches, Total: total}
	}

	c.cycleKey = key
	c.cycleMatches = matches
	c.cycleIndex = -1
	return CompletionResult{Replacement: "", Candidates: matches, Total: total}
}

// Cycling reports whether a Tab-cycle is currently active, i.e. the last
// completion turned up an ambiguous match set with no further common
// prefix to extend.
func (c *Completer) Cycling() bool { return c.cycleKey != "" }

// CycleNext advances an active cycle to its next candidate, wrapping back
// to the first after the last. Only meaningful while Cycling() is true.
func (c *Completer) CycleNext() string {
	c.cycleIndex = (c.cycleIndex + 1) % len(c.cycleMatches)
	return c.cycleMatches[c.cycleIndex]
}

func commonPrefix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0]
	for _, s := range items[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
