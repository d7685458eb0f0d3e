package core

import "fmt"

// MaxCVarMatches bounds the caller-sized output array for partial/flag
// scans, per §4.1's contract.
const MaxCVarMatches = 256

// CVarRegistry stores typed variables, enforces range policy, formats and
// parses values, and tracks modification/writability (§4.2). It owns every
// CVar it creates; external pointers returned at registration are
// invalidated by Remove.
type CVarRegistry struct {
	index         *NameIndex
	entries       []*CVar
	sink          *mutableSink
	boolStrings   *BoolStringTable
	valueFoldCase bool // case policy for string/enum value comparisons

	// Behavior flags toggled around config replay and startup (§6).
	allowWritingReadOnly bool
	allowWritingInitOnly bool

	// Optional back-reference used to guarantee name non-collision with
	// the command registry at registration time.
	commandNames func(name string) bool
}

// NewCVarRegistry creates an empty registry. nameFoldCase selects the
// index's case policy for CVar names; valueFoldCase selects the policy used
// when comparing string/enum *values* against their allowed sets
// (independent of the name policy, per §4.2).
func NewCVarRegistry(nameFoldCase, valueFoldCase bool, sink ErrorSink) *CVarRegistry {
	return &CVarRegistry{
		index:         NewNameIndex(nameFoldCase),
		sink:          newMutableSink(sink),
		boolStrings:   DefaultBoolStringTable(),
		valueFoldCase: valueFoldCase,
	}
}

// BoolStrings returns the bound boolean-string table so an embedder can add
// custom spellings.
func (r *CVarRegistry) BoolStrings() *BoolStringTable { return r.boolStrings }

// SetCommandNameChecker installs the CVar<->command cross-check hook used
// at registration time.
func (r *CVarRegistry) SetCommandNameChecker(exists func(name string) bool) {
	r.commandNames = exists
}

// SetAllowWritingReadOnly toggles the privileged setter's ReadOnly override.
func (r *CVarRegistry) SetAllowWritingReadOnly(v bool) { r.allowWritingReadOnly = v }

// SetAllowWritingInitOnly toggles the privileged setter's InitOnly override.
func (r *CVarRegistry) SetAllowWritingInitOnly(v bool) { r.allowWritingInitOnly = v }

func (r *CVarRegistry) growTo(handle int) {
	for len(r.entries) <= handle {
		r.entries = append(r.entries, nil)
	}
}

func (r *CVarRegistry) reportDup(existing *CVar, flags CVarFlag, sameValue bool) ErrorKind {
	if existing.flags != flags {
		r.sink.report(ErrConflictingFlags, "cvar %q already registered with different flags", existing.name)
		return ErrConflictingFlags
	}
	if !sameValue {
		r.sink.report(ErrConflictingValue, "cvar %q already registered with a different default value", existing.name)
		return ErrConflictingValue
	}
	r.sink.report(ErrDuplicate, "cvar %q already registered", existing.name)
	return ErrDuplicate
}

func (r *CVarRegistry) validateRegistration(name string) ErrorKind {
	if !ValidateCVarName(name) {
		r.sink.report(ErrInvalidName, "invalid cvar name %q", name)
		return ErrInvalidName
	}
	if r.commandNames != nil && r.commandNames(name) {
		r.sink.report(ErrDuplicate, "cvar %q collides with a registered command", name)
		return ErrDuplicate
	}
	return ErrNone
}

// checkFlagConflict reports (but does not reject) a Persistent+Volatile
// conflict, per §3's invariant.
func (r *CVarRegistry) checkFlagConflict(name string, flags CVarFlag) {
	if flags&FlagPersistent != 0 && flags&FlagVolatile != 0 {
		r.sink.report(ErrConflictingFlags, "cvar %q sets mutually exclusive Persistent and Volatile flags", name)
	}
}

func (r *CVarRegistry) newEntry(name, description string, typ CVarType, flags CVarFlag) *CVar {
	return &CVar{
		name:        name,
		description: description,
		typ:         typ,
		flags:       flags,
	}
}

func (r *CVarRegistry) link(cv *CVar) *CVar {
	handle := r.index.Link(cv.name, uint32(cv.flags))
	r.growTo(handle)
	cv.handle = handle
	r.entries[handle] = cv
	return cv
}

// RegisterInt registers an integer CVar with an optional [min,max] range.
func (r *CVarRegistry) RegisterInt(name, description string, def int64, flags CVarFlag, hasRange bool, min, max int64) (*CVar, ErrorKind) {
	if kind := r.validateRegistration(name); kind != ErrNone {
		return nil, kind
	}
	if h, ok := r.index.Find(name); ok {
		existing := r.entries[h]
		same := existing.typ == TypeInt && existing.def.i == def
		return nil, r.reportDup(existing, flags, same)
	}
	r.checkFlagConflict(name, flags)
	cv := r.newEntry(name, description, TypeInt, flags)
	cv.value.i, cv.def.i = def, def
	cv.constraint.HasIntRange = hasRange
	cv.constraint.MinInt, cv.constraint.MaxInt = min, max
	return r.link(cv), ErrNone
}

// RegisterBool registers a boolean CVar.
func (r *CVarRegistry) RegisterBool(name, description string, def bool, flags CVarFlag) (*CVar, ErrorKind) {
	if kind := r.validateRegistration(name); kind != ErrNone {
		return nil, kind
	}
	if h, ok := r.index.Find(name); ok {
		existing := r.entries[h]
		same := existing.typ == TypeBool && existing.def.b == def
		return nil, r.reportDup(existing, flags, same)
	}
	r.checkFlagConflict(name, flags)
	cv := r.newEntry(name, description, TypeBool, flags)
	cv.value.b, cv.def.b = def, def
	return r.link(cv), ErrNone
}

// RegisterFloat registers a floating-point CVar with an optional
// [min,max] range.
func (r *CVarRegistry) RegisterFloat(name, description string, def float64, flags CVarFlag, hasRange bool, min, max float64) (*CVar, ErrorKind) {
	if kind := r.validateRegistration(name); kind != ErrNone {
		return nil, kind
	}
	if h, ok := r.index.Find(name); ok {
		existing := r.entries[h]
		same := existing.typ == TypeFloat && existing.def.f == def
		return nil, r.reportDup(existing, flags, same)
	}
	r.checkFlagConflict(name, flags)
	cv := r.newEntry(name, description, TypeFloat, flags)
	cv.value.f, cv.def.f = def, def
	cv.constraint.HasFloatRange = hasRange
	cv.constraint.MinFloat, cv.constraint.MaxFloat = min, max
	return r.link(cv), ErrNone
}

// RegisterString registers a string CVar with an optional allowed-value set
// (nil/empty means any string is allowed).
func (r *CVarRegistry) RegisterString(name, description, def string, flags CVarFlag, allowed []string) (*CVar, ErrorKind) {
	if kind := r.validateRegistration(name); kind != ErrNone {
		return nil, kind
	}
	if h, ok := r.index.Find(name); ok {
		existing := r.entries[h]
		same := existing.typ == TypeString && existing.def.s == def
		return nil, r.reportDup(existing, flags, same)
	}
	r.checkFlagConflict(name, flags)
	cv := r.newEntry(name, description, TypeString, flags)
	cv.value.s, cv.def.s = def, def
	cv.constraint.AllowedValues = allowed
	return r.link(cv), ErrNone
}

// RegisterEnum registers an enum CVar backed by an int64 value and a
// symbolic constant list.
func (r *CVarRegistry) RegisterEnum(name, description string, def int64, flags CVarFlag, constants []EnumConstant) (*CVar, ErrorKind) {
	if kind := r.validateRegistration(name); kind != ErrNone {
		return nil, kind
	}
	if h, ok := r.index.Find(name); ok {
		existing := r.entries[h]
		same := existing.typ == TypeEnum && existing.def.i == def
		return nil, r.reportDup(existing, flags, same)
	}
	r.checkFlagConflict(name, flags)
	cv := r.newEntry(name, description, TypeEnum, flags)
	cv.value.i, cv.def.i = def, def
	cv.constraint.EnumValues = constants
	return r.link(cv), ErrNone
}

// Find performs an exact name lookup.
func (r *CVarRegistry) Find(name string) (*CVar, bool) {
	h, ok := r.index.Find(name)
	if !ok {
		return nil, false
	}
	return r.entries[h], true
}

// FindByPartialName returns CVars whose name starts with prefix, up to
// maxMatches, alphabetically ordered, plus the total match count.
func (r *CVarRegistry) FindByPartialName(prefix string, maxMatches int) ([]*CVar, int) {
	handles, total := r.index.PrefixScan(prefix, maxMatches)
	return r.resolveAll(handles), total
}

// FindByFlags returns CVars whose flags intersect mask.
func (r *CVarRegistry) FindByFlags(mask CVarFlag, maxMatches int) ([]*CVar, int) {
	handles, total := r.index.FlagScan(uint32(mask), maxMatches)
	return r.resolveAll(handles), total
}

func (r *CVarRegistry) resolveAll(handles []int) []*CVar {
	out := make([]*CVar, 0, len(handles))
	for _, h := range handles {
		if h >= 0 && h < len(r.entries) && r.entries[h] != nil {
			out = append(out, r.entries[h])
		}
	}
	return out
}

// Remove deletes a CVar by name. Any pointer previously returned for it is
// invalidated.
func (r *CVarRegistry) Remove(name string) bool {
	h, ok := r.index.Find(name)
	if !ok {
		r.sink.report(ErrNotFound, "cvar %q not found", name)
		return false
	}
	r.index.Unlink(h)
	r.entries[h] = nil
	return true
}

// RemoveAll deletes every registered CVar.
func (r *CVarRegistry) RemoveAll() {
	r.index = NewNameIndex(r.index.foldCase)
	r.entries = nil
}

// Enumerate walks CVars in reverse-insertion-order, invoking fn for each.
// Returning false from fn stops enumeration early.
func (r *CVarRegistry) Enumerate(fn func(*CVar) bool) {
	for _, h := range r.index.Handles() {
		cv := r.entries[h]
		if cv == nil {
			continue
		}
		if !fn(cv) {
			return
		}
	}
}

// autoRegister is applied when a Set* call auto-registers a missing
// variable, per §4.2: a default empty description and the caller-supplied
// flags.
func (r *CVarRegistry) autoRegister(name string, flags CVarFlag, typ CVarType) *CVar {
	var cv *CVar
	switch typ {
	case TypeInt:
		cv, _ = r.RegisterInt(name, "", 0, flags, false, 0, 0)
	case TypeBool:
		cv, _ = r.RegisterBool(name, "", false, flags)
	case TypeFloat:
		cv, _ = r.RegisterFloat(name, "", 0, flags, false, 0, 0)
	case TypeString:
		cv, _ = r.RegisterString(name, "", "", flags, nil)
	}
	return cv
}

// writeAllowed applies the write policy from §4.2: fails with ReadOnly if
// either ReadOnly or InitOnly is set, unless privileged is true and the
// corresponding override is enabled.
func (c *CVar) writeAllowed(privileged, allowReadOnly, allowInitOnly bool) bool {
	if !privileged {
		return c.flags&(FlagReadOnly|FlagInitOnly) == 0
	}
	if c.flags&FlagReadOnly != 0 && !allowReadOnly {
		// allowWritingReadOnly implicitly includes InitOnly, per §6.
		return false
	}
	if c.flags&FlagInitOnly != 0 && !allowInitOnly && !allowReadOnly {
		return false
	}
	return true
}

func (c *CVar) markWrite(privileged bool) {
	if !privileged {
		c.flags |= FlagModified
	}
}

// fireChange invokes c's OnChange hook, if any, comparing its rendering
// before and after a write that already succeeded.
func (r *CVarRegistry) fireChange(c *CVar, old string) {
	if c.onChange == nil {
		return
	}
	if new := c.AsString(r.boolStrings); new != old {
		c.onChange(old, new)
	}
}

// setInt applies a range-checked integer write, used by both the public and
// privileged setters.
func (r *CVarRegistry) setInt(c *CVar, v int64, privileged bool) ErrorKind {
	if !c.writeAllowed(privileged, r.allowWritingReadOnly, r.allowWritingInitOnly) {
		r.sink.report(ErrReadOnly, "cvar %q is read-only", c.name)
		return ErrReadOnly
	}
	if !c.checkIntRange(v) {
		r.sink.report(ErrOutOfRange, "value %d out of range for cvar %q", v, c.name)
		return ErrOutOfRange
	}
	old := c.AsString(r.boolStrings)
	c.value.i = v
	c.markWrite(privileged)
	r.fireChange(c, old)
	return ErrNone
}

func (r *CVarRegistry) setFloat(c *CVar, v float64, privileged bool) ErrorKind {
	if !c.writeAllowed(privileged, r.allowWritingReadOnly, r.allowWritingInitOnly) {
		r.sink.report(ErrReadOnly, "cvar %q is read-only", c.name)
		return ErrReadOnly
	}
	if !c.checkFloatRange(v) {
		r.sink.report(ErrOutOfRange, "value %v out of range for cvar %q", v, c.name)
		return ErrOutOfRange
	}
	old := c.AsString(r.boolStrings)
	c.value.f = v
	c.markWrite(privileged)
	r.fireChange(c, old)
	return ErrNone
}

func (r *CVarRegistry) setBool(c *CVar, v bool, privileged bool) ErrorKind {
	if !c.writeAllowed(privileged, r.allowWritingReadOnly, r.allowWritingInitOnly) {
		r.sink.report(ErrReadOnly, "cvar %q is read-only", c.name)
		return ErrReadOnly
	}
	old := c.AsString(r.boolStrings)
	c.value.b = v
	c.markWrite(privileged)
	r.fireChange(c, old)
	return ErrNone
}

func (r *CVarRegistry) setString(c *CVar, v string, privileged bool) ErrorKind {
	if !c.writeAllowed(privileged, r.allowWritingReadOnly, r.allowWritingInitOnly) {
		r.sink.report(ErrReadOnly, "cvar %q is read-only", c.name)
		return ErrReadOnly
	}
	old := c.AsString(r.boolStrings)
	switch c.typ {
	case TypeString:
		if !c.checkStringAllowed(v, r.valueFoldCase) {
			r.sink.report(ErrOutOfRange, "value %q not in allowed set for cvar %q", v, c.name)
			return ErrOutOfRange
		}
		c.value.s = v
	case TypeEnum:
		iv, ok := c.resolveEnumValue(v, r.valueFoldCase)
		if !ok {
			r.sink.report(ErrParseError, "value %q is not a valid member of enum cvar %q", v, c.name)
			return ErrParseError
		}
		c.value.i = iv
	case TypeInt:
		iv, ok := ParseInt(v)
		if !ok {
			r.sink.report(ErrParseError, "cannot parse %q as int for cvar %q", v, c.name)
			return ErrParseError
		}
		if !c.checkIntRange(iv) {
			r.sink.report(ErrOutOfRange, "value %q out of range for cvar %q", v, c.name)
			return ErrOutOfRange
		}
		c.value.i = iv
	case TypeFloat:
		fv, ok := ParseFloat(v)
		if !ok {
			r.sink.report(ErrParseError, "cannot parse %q as float for cvar %q", v, c.name)
			return ErrParseError
		}
		if !c.checkFloatRange(fv) {
			r.sink.report(ErrOutOfRange, "value %q out of range for cvar %q", v, c.name)
			return ErrOutOfRange
		}
		c.value.f = fv
	case TypeBool:
		bv, ok := r.boolStrings.Parse(v)
		if !ok {
			r.sink.report(ErrParseError, "cannot parse %q as bool for cvar %q", v, c.name)
			return ErrParseError
		}
		c.value.b = bv
	}
	c.markWrite(privileged)
	r.fireChange(c, old)
	return ErrNone
}

// GetInt reads a CVar as int64. Missing variables report NotFound and
// return the zero value.
func (r *CVarRegistry) GetInt(name string) (int64, ErrorKind) {
	cv, ok := r.Find(name)
	if !ok {
		r.sink.report(ErrNotFound, "cvar %q not found", name)
		return 0, ErrNotFound
	}
	v, ok := cv.AsInt()
	if !ok {
		r.sink.report(ErrTypeMismatch, "no available conversion to int for cvar %q", name)
		return 0, ErrTypeMismatch
	}
	return v, ErrNone
}

// SetInt writes an int64 value, auto-registering the variable if it did not
// already exist.
func (r *CVarRegistry) SetInt(name string, v int64, autoFlags CVarFlag) ErrorKind {
	cv, ok := r.Find(name)
	if !ok {
		cv = r.autoRegister(name, autoFlags, TypeInt)
		if cv == nil {
			return ErrInvalidName
		}
	}
	if cv.typ != TypeInt && cv.typ != TypeEnum {
		return r.setViaString(cv, FormatInt(v, FormatDecimal), false)
	}
	return r.setInt(cv, v, false)
}

// GetFloat reads a CVar as float64.
func (r *CVarRegistry) GetFloat(name string) (float64, ErrorKind) {
	cv, ok := r.Find(name)
	if !ok {
		r.sink.report(ErrNotFound, "cvar %q not found", name)
		return 0, ErrNotFound
	}
	v, ok := cv.AsFloat()
	if !ok {
		r.sink.report(ErrTypeMismatch, "no available conversion to float for cvar %q", name)
		return 0, ErrTypeMismatch
	}
	return v, ErrNone
}

// SetFloat writes a float64 value, auto-registering if missing.
func (r *CVarRegistry) SetFloat(name string, v float64, autoFlags CVarFlag) ErrorKind {
	cv, ok := r.Find(name)
	if !ok {
		cv = r.autoRegister(name, autoFlags, TypeFloat)
		if cv == nil {
			return ErrInvalidName
		}
	}
	if cv.typ != TypeFloat {
		return r.setViaString(cv, FormatFloat(v), false)
	}
	return r.setFloat(cv, v, false)
}

// GetBool reads a CVar as bool.
func (r *CVarRegistry) GetBool(name string) (bool, ErrorKind) {
	cv, ok := r.Find(name)
	if !ok {
		r.sink.report(ErrNotFound, "cvar %q not found", name)
		return false, ErrNotFound
	}
	v, ok := cv.AsBool(r.boolStrings)
	if !ok {
		r.sink.report(ErrTypeMismatch, "no available conversion to bool for cvar %q", name)
		return false, ErrTypeMismatch
	}
	return v, ErrNone
}

// SetBool writes a bool value, auto-registering if missing.
func (r *CVarRegistry) SetBool(name string, v bool, autoFlags CVarFlag) ErrorKind {
	cv, ok := r.Find(name)
	if !ok {
		cv = r.autoRegister(name, autoFlags, TypeBool)
		if cv == nil {
			return ErrInvalidName
		}
	}
	if cv.typ != TypeBool {
		return r.setViaString(cv, r.boolStrings.Render(v), false)
	}
	return r.setBool(cv, v, false)
}

// GetString reads a CVar as its textual rendering.
func (r *CVarRegistry) GetString(name string) (string, ErrorKind) {
	cv, ok := r.Find(name)
	if !ok {
		r.sink.report(ErrNotFound, "cvar %q not found", name)
		return "", ErrNotFound
	}
	return cv.AsString(r.boolStrings), ErrNone
}

// SetString writes a textual value, auto-registering as a string CVar if
// missing, using the type-directed parse for whatever type it already is.
func (r *CVarRegistry) SetString(name, v string, autoFlags CVarFlag) ErrorKind {
	cv, ok := r.Find(name)
	if !ok {
		cv = r.autoRegister(name, autoFlags, TypeString)
		if cv == nil {
			return ErrInvalidName
		}
	}
	return r.setViaString(cv, v, false)
}

func (r *CVarRegistry) setViaString(cv *CVar, v string, privileged bool) ErrorKind {
	return r.setString(cv, v, privileged)
}

// SetInternal is the privileged setter used by config-file replay and
// startup command-line processing (§4.2). It honors the two independent
// overrides and never sets Modified, so persisted state round-trips
// cleanly.
func (r *CVarRegistry) SetInternal(name, v string) ErrorKind {
	cv, ok := r.Find(name)
	if !ok {
		r.sink.report(ErrNotFound, "cvar %q not found", name)
		return ErrNotFound
	}
	return r.setString(cv, v, true)
}

// SetDefault resets a CVar to its registered default. The public path sets
// Modified; the privileged path does not.
func (r *CVarRegistry) SetDefault(name string, privileged bool) ErrorKind {
	cv, ok := r.Find(name)
	if !ok {
		r.sink.report(ErrNotFound, "cvar %q not found", name)
		return ErrNotFound
	}
	if !privileged && !cv.IsWritable() {
		r.sink.report(ErrReadOnly, "cvar %q is read-only", cv.name)
		return ErrReadOnly
	}
	cv.value = cv.def
	cv.markWrite(privileged)
	return ErrNone
}

// SaveConfigLines renders every persistent CVar as a `set NAME "VALUE"
// [-flag ...]` line (§4.2), clearing each one's Modified bit afterward.
// Quotes are emitted only for string and enum types; flags are only
// materialized for UserDefined variables.
func (r *CVarRegistry) SaveConfigLines() []string {
	var lines []string
	r.Enumerate(func(cv *CVar) bool {
		if cv.flags&FlagPersistent == 0 {
			return true
		}
		lines = append(lines, r.configLine(cv))
		return true
	})
	r.Enumerate(func(cv *CVar) bool {
		if cv.flags&FlagPersistent != 0 {
			cv.flags &^= FlagModified
		}
		return true
	})
	return lines
}

func (r *CVarRegistry) configLine(cv *CVar) string {
	val := cv.AsString(r.boolStrings)
	quoted := cv.typ == TypeString || cv.typ == TypeEnum
	var line string
	if quoted {
		line = fmt.Sprintf("set %s %q", cv.name, val)
	} else {
		line = fmt.Sprintf("set %s %s", cv.name, val)
	}
	if cv.flags&FlagUserDefined != 0 {
		const materialized = FlagPersistent | FlagVolatile | FlagReadOnly | FlagInitOnly | FlagModified
		if flagStr := formatCVarFlags(cv.flags & materialized); flagStr != "" {
			line += " " + flagStr
		}
	}
	return line
}

func formatCVarFlags(flags CVarFlag) string {
	var parts []string
	add := func(mask CVarFlag, name string) {
		if flags&mask != 0 {
			parts = append(parts, "-"+name)
		}
	}
	add(FlagPersistent, "persistent")
	add(FlagVolatile, "volatile")
	add(FlagReadOnly, "readonly")
	add(FlagInitOnly, "initonly")
	add(FlagModified, "modified")
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}
