package core

// CVarType tags the active member of the CVar value union.
type CVarType int

const (
	TypeInt CVarType = iota
	TypeBool
	TypeFloat
	TypeString
	TypeEnum
)

func (t CVarType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// NumberFormat controls how integer CVars render to text.
type NumberFormat int

const (
	FormatDecimal NumberFormat = iota
	FormatBinary
	FormatOctal
	FormatHexadecimal
)

// CVarFlag is the per-variable metadata bitset from §3.
type CVarFlag uint32

const (
	FlagPersistent CVarFlag = 1 << iota
	FlagVolatile
	FlagReadOnly
	FlagInitOnly
	FlagModified
	FlagUserDefined
	FlagRangeCheck
)

// EnumConstant is one named member of an enum CVar's constant list.
type EnumConstant struct {
	Name  string
	Value int64
}

// Constraint captures the validity constraint attached to a CVar at
// registration: a numeric range for Int/Float, an allowed-string set for
// String, or an enum constant list for Enum.
type Constraint struct {
	HasIntRange   bool
	MinInt        int64
	MaxInt        int64
	HasFloatRange bool
	MinFloat      float64
	MaxFloat      float64
	AllowedValues []string // string type's allowed set
	EnumValues    []EnumConstant
}

// CompletionHook produces value-completion candidates for a CVar, given the
// partial text already typed.
type CompletionHook func(partial string) []string

// cvarUnion is the tagged-sum storage for a CVar's current/default value,
// replacing the source's templated subclasses with one struct dispatched on
// CVar.typ (design note #1).
type cvarUnion struct {
	i int64
	f float64
	b bool
	s string
}

// CVar is a single typed configuration variable.
type CVar struct {
	name         string
	description  string
	typ          CVarType
	numberFormat NumberFormat
	flags        CVarFlag
	value        cvarUnion
	def          cvarUnion
	constraint   Constraint
	completion   CompletionHook
	handle       int
	onChange     func(oldValue, newValue string)
}

// OnChange installs a callback fired after a successful typed or string
// write (public or privileged) that changes the value's string rendering,
// given the old and new renderings. A write that leaves the rendering
// unchanged does not fire it, and neither does SetDefault. Supplements
// §4.2's write policy with the change-notification behavior
// `cfg_cvar.cpp` gives its own variables; it does not alter any write's
// success/failure outcome.
func (c *CVar) OnChange(fn func(oldValue, newValue string)) { c.onChange = fn }

// Name returns the CVar's registered name.
func (c *CVar) Name() string { return c.name }

// Description returns the CVar's optional description.
func (c *CVar) Description() string { return c.description }

// Type returns the CVar's type tag.
func (c *CVar) Type() CVarType { return c.typ }

// NumberFormat returns the number-format tag used when rendering an Int
// CVar to text.
func (c *CVar) NumberFormat() NumberFormat { return c.numberFormat }

// SetNumberFormat changes the rendering base for an Int CVar.
func (c *CVar) SetNumberFormat(f NumberFormat) { c.numberFormat = f }

// Flags returns the current flag bitset.
func (c *CVar) Flags() CVarFlag { return c.flags }

// HasFlag reports whether every bit in mask is set.
func (c *CVar) HasFlag(mask CVarFlag) bool { return c.flags&mask == mask }

// IsModified reports the dirty bit set by public writes.
func (c *CVar) IsModified() bool { return c.flags&FlagModified != 0 }

// IsWritable reports whether an unprivileged write would be accepted.
func (c *CVar) IsWritable() bool {
	return c.flags&(FlagReadOnly|FlagInitOnly) == 0
}

// Constraint returns the CVar's validity constraint.
func (c *CVar) Constraint() Constraint { return c.constraint }

// SetCompletionHook installs a value-completion hook used by the line
// editor's argument-completion case (§4.5.2).
func (c *CVar) SetCompletionHook(hook CompletionHook) { c.completion = hook }

// CompletionHook returns the installed value-completion hook, or nil.
func (c *CVar) CompletionHook() CompletionHook { return c.completion }
