package core

import "fmt"

// disableAllSentinel suppresses every command's execution regardless of its
// own flags, per §4.3.
const disableAllSentinel CommandFlag = ^CommandFlag(0)

// CommandRegistry stores named command entries and exposes registration,
// removal, and flag-mask disabling (§4.3).
type CommandRegistry struct {
	index      *NameIndex
	entries    []*Command
	sink       *mutableSink
	disabled   CommandFlag
	aliasCount int

	// Optional back-reference guaranteeing name non-collision with the
	// CVar registry at registration time.
	cvarNames func(name string) bool
}

// NewCommandRegistry creates an empty command registry. Command names are
// always compared exactly (the naming rule in §4.3 has no case-folding
// option, unlike CVar names).
func NewCommandRegistry(sink ErrorSink) *CommandRegistry {
	return &CommandRegistry{
		index: NewNameIndex(false),
		sink:  newMutableSink(sink),
	}
}

// SetCVarNameChecker installs the command<->CVar cross-check hook.
func (r *CommandRegistry) SetCVarNameChecker(exists func(name string) bool) {
	r.cvarNames = exists
}

// DisableFlags sets the disabled-flag mask; commands whose flags intersect
// it are reported and suppressed at dispatch time.
func (r *CommandRegistry) DisableFlags(mask CommandFlag) { r.disabled = mask }

// DisableAll suppresses every command's execution.
func (r *CommandRegistry) DisableAll() { r.disabled = disableAllSentinel }

// EnableAll clears the disabled mask.
func (r *CommandRegistry) EnableAll() { r.disabled = 0 }

// IsDisabled reports whether the given command flags are currently
// suppressed.
func (r *CommandRegistry) IsDisabled(flags CommandFlag) bool {
	if r.disabled == disableAllSentinel {
		return true
	}
	return r.disabled != 0 && flags&r.disabled != 0
}

func (r *CommandRegistry) growTo(handle int) {
	for len(r.entries) <= handle {
		r.entries = append(r.entries, nil)
	}
}

func (r *CommandRegistry) validate(name string) ErrorKind {
	if !ValidateCommandName(name) {
		r.sink.report(ErrInvalidName, "invalid command name %q", name)
		return ErrInvalidName
	}
	if _, ok := r.index.Find(name); ok {
		r.sink.report(ErrDuplicate, "command %q already registered", name)
		return ErrDuplicate
	}
	if r.cvarNames != nil && r.cvarNames(name) {
		r.sink.report(ErrDuplicate, "command %q collides with a registered cvar", name)
		return ErrDuplicate
	}
	return ErrNone
}

func (r *CommandRegistry) link(cmd *Command) *Command {
	handle := r.index.Link(cmd.name, uint32(cmd.flags))
	r.growTo(handle)
	cmd.handle = handle
	r.entries[handle] = cmd
	return cmd
}

// RegisterFunc registers a plain function-callback command carrying an
// opaque user context.
func (r *CommandRegistry) RegisterFunc(name, description string, flags CommandFlag, minArgs, maxArgs int, fn FuncHandler, userdata interface{}) (*Command, ErrorKind) {
	if kind := r.validate(name); kind != ErrNone {
		return nil, kind
	}
	cmd := &Command{name: name, description: description, flags: flags, minArgs: minArgs, maxArgs: maxArgs, variant: VariantFunc, fn: fn, userdata: userdata}
	return r.link(cmd), ErrNone
}

// RegisterClosure registers a command backed by a closure.
func (r *CommandRegistry) RegisterClosure(name, description string, flags CommandFlag, minArgs, maxArgs int, fn ClosureHandler) (*Command, ErrorKind) {
	if kind := r.validate(name); kind != ErrNone {
		return nil, kind
	}
	cmd := &Command{name: name, description: description, flags: flags, minArgs: minArgs, maxArgs: maxArgs, variant: VariantClosure, closure: fn}
	return r.link(cmd), ErrNone
}

// RegisterMethod registers a command backed by a bound-method pair.
func (r *CommandRegistry) RegisterMethod(name, description string, flags CommandFlag, minArgs, maxArgs int, receiver interface{}, method MethodHandler) (*Command, ErrorKind) {
	if kind := r.validate(name); kind != ErrNone {
		return nil, kind
	}
	cmd := &Command{name: name, description: description, flags: flags, minArgs: minArgs, maxArgs: maxArgs, variant: VariantMethod, methodReceiver: receiver, method: method}
	return r.link(cmd), ErrNone
}

// CreateAlias registers a command whose invocation re-enters the pipeline
// with a stored textual command and execution mode.
func (r *CommandRegistry) CreateAlias(name, description, aliasedText string, mode ExecMode) (*Command, ErrorKind) {
	if kind := r.validate(name); kind != ErrNone {
		return nil, kind
	}
	cmd := &Command{
		name:        name,
		description: description,
		flags:       CmdFlagAlias,
		minArgs:     -1,
		maxArgs:     -1,
		variant:     VariantAlias,
		aliasText:   aliasedText,
		aliasMode:   mode,
	}
	r.link(cmd)
	r.aliasCount++
	return cmd, ErrNone
}

// Find performs an exact name lookup.
func (r *CommandRegistry) Find(name string) (*Command, bool) {
	h, ok := r.index.Find(name)
	if !ok {
		return nil, false
	}
	return r.entries[h], true
}

// FindByPartialName returns commands whose name starts with prefix.
func (r *CommandRegistry) FindByPartialName(prefix string, maxMatches int) ([]*Command, int) {
	handles, total := r.index.PrefixScan(prefix, maxMatches)
	return r.resolveAll(handles), total
}

func (r *CommandRegistry) resolveAll(handles []int) []*Command {
	out := make([]*Command, 0, len(handles))
	for _, h := range handles {
		if h >= 0 && h < len(r.entries) && r.entries[h] != nil {
			out = append(out, r.entries[h])
		}
	}
	return out
}

// Remove deletes a command by name.
func (r *CommandRegistry) Remove(name string) bool {
	h, ok := r.index.Find(name)
	if !ok {
		r.sink.report(ErrNotFound, "command %q not found", name)
		return false
	}
	if r.entries[h].IsAlias() {
		r.aliasCount--
	}
	r.index.Unlink(h)
	r.entries[h] = nil
	return true
}

// RemoveAlias removes a command by name, failing if the target is not an
// alias (§4.3).
func (r *CommandRegistry) RemoveAlias(name string) bool {
	cmd, ok := r.Find(name)
	if !ok {
		r.sink.report(ErrNotFound, "command %q not found", name)
		return false
	}
	if !cmd.IsAlias() {
		r.sink.report(ErrTypeMismatch, "command %q is not an alias", name)
		return false
	}
	return r.Remove(name)
}

// RemoveAll deletes every registered command.
func (r *CommandRegistry) RemoveAll() {
	r.index = NewNameIndex(false)
	r.entries = nil
	r.aliasCount = 0
}

// AliasCount returns the number of currently registered aliases.
func (r *CommandRegistry) AliasCount() int { return r.aliasCount }

// Enumerate walks commands in reverse-insertion order.
func (r *CommandRegistry) Enumerate(fn func(*Command) bool) {
	for _, h := range r.index.Handles() {
		cmd := r.entries[h]
		if cmd == nil {
			continue
		}
		if !fn(cmd) {
			return
		}
	}
}

// AliasConfigLine renders an alias as `alias NAME "TEXT" -MODEFLAG ["DESC"]`
// per §4.4.6.
func AliasConfigLine(cmd *Command) string {
	text, mode := cmd.AliasTarget()
	line := fmt.Sprintf("alias %s %q -%s", cmd.name, text, mode)
	if cmd.description != "" {
		line += fmt.Sprintf(" %q", cmd.description)
	}
	return line
}
