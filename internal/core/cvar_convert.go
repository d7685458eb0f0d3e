package core

import (
	"strconv"
	"strings"
)

// FormatInt renders an integer under a NumberFormat, per §4.2: hex is
// prefixed 0x, negative decimals carry a leading '-'. Binary and octal carry
// no base prefix; negative values under those bases (and hex) render as the
// absolute magnitude with a leading '-', the same as decimal.
func FormatInt(v int64, format NumberFormat) string {
	switch format {
	case FormatHexadecimal:
		if v < 0 {
			return "-0x" + strconv.FormatUint(uint64(-v), 16)
		}
		return "0x" + strconv.FormatUint(uint64(v), 16)
	case FormatBinary:
		if v < 0 {
			return "-" + strconv.FormatUint(uint64(-v), 2)
		}
		return strconv.FormatUint(uint64(v), 2)
	case FormatOctal:
		if v < 0 {
			return "-" + strconv.FormatUint(uint64(-v), 8)
		}
		return strconv.FormatUint(uint64(v), 8)
	default:
		return strconv.FormatInt(v, 10)
	}
}

// ParseInt parses an integer literal with an optional leading sign: a 0x/0X
// prefix selects hex, anything else is read as decimal. Binary and octal
// text as FormatInt renders it is not recognized; it is read as decimal.
func ParseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	body := s
	if body[0] == '+' || body[0] == '-' {
		neg = body[0] == '-'
		body = body[1:]
	}
	base := 10
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		base = 16
		body = body[2:]
	}
	u, err := strconv.ParseUint(body, base, 64)
	if err != nil {
		return 0, false
	}
	v := int64(u)
	if neg {
		v = -v
	}
	return v, true
}

// FormatFloat renders a float in printf-style general notation with up to
// 8 significant digits, trailing zeros after the decimal point trimmed
// (and the decimal point itself dropped if nothing remains after it).
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', 8, 64)
	if strings.ContainsAny(s, "eE") {
		return s
	}
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// ParseFloat parses a float literal via the standard numeric parse.
func ParseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// AsInt reads the CVar's value as an int, converting across types. Returns
// (0, false) on "no available conversion" (e.g. a non-numeric string).
func (c *CVar) AsInt() (int64, bool) {
	switch c.typ {
	case TypeInt, TypeEnum:
		return c.value.i, true
	case TypeBool:
		if c.value.b {
			return 1, true
		}
		return 0, true
	case TypeFloat:
		return int64(c.value.f), true
	case TypeString:
		return ParseInt(c.value.s)
	}
	return 0, false
}

// AsFloat reads the CVar's value as a float64.
func (c *CVar) AsFloat() (float64, bool) {
	switch c.typ {
	case TypeInt, TypeEnum:
		return float64(c.value.i), true
	case TypeBool:
		if c.value.b {
			return 1, true
		}
		return 0, true
	case TypeFloat:
		return c.value.f, true
	case TypeString:
		return ParseFloat(c.value.s)
	}
	return 0, false
}

// AsBool reads the CVar's value as a bool, using boolStrings to interpret
// string-typed values.
func (c *CVar) AsBool(boolStrings *BoolStringTable) (bool, bool) {
	switch c.typ {
	case TypeBool:
		return c.value.b, true
	case TypeInt, TypeEnum:
		return c.value.i != 0, true
	case TypeFloat:
		return c.value.f != 0, true
	case TypeString:
		return boolStrings.Parse(c.value.s)
	}
	return false, false
}

// AsString renders the CVar's value as text under the type-specific rule
// from §4.2.
func (c *CVar) AsString(boolStrings *BoolStringTable) string {
	switch c.typ {
	case TypeInt:
		return FormatInt(c.value.i, c.numberFormat)
	case TypeFloat:
		return FormatFloat(c.value.f)
	case TypeBool:
		return boolStrings.Render(c.value.b)
	case TypeString:
		return c.value.s
	case TypeEnum:
		for _, ec := range c.constraint.EnumValues {
			if ec.Value == c.value.i {
				return ec.Name
			}
		}
		return FormatInt(c.value.i, FormatDecimal)
	}
	return ""
}

// checkIntRange enforces §4.2's range policy using the CVar's declared
// numeric type.
func (c *CVar) checkIntRange(v int64) bool {
	if c.flags&FlagRangeCheck == 0 || !c.constraint.HasIntRange {
		return true
	}
	return v >= c.constraint.MinInt && v <= c.constraint.MaxInt
}

func (c *CVar) checkFloatRange(v float64) bool {
	if c.flags&FlagRangeCheck == 0 || !c.constraint.HasFloatRange {
		return true
	}
	return v >= c.constraint.MinFloat && v <= c.constraint.MaxFloat
}

// checkStringAllowed enforces the allowed-string set using the given
// value-string case-sensitivity policy (independent of the name policy).
func (c *CVar) checkStringAllowed(v string, foldCase bool) bool {
	if len(c.constraint.AllowedValues) == 0 {
		return true
	}
	for _, allowed := range c.constraint.AllowedValues {
		if foldCase {
			if foldEqual(v, allowed) {
				return true
			}
		} else if v == allowed {
			return true
		}
	}
	return false
}

// resolveEnumValue accepts either a symbolic enum member name or a numeric
// literal for enum string assignment.
func (c *CVar) resolveEnumValue(s string, foldCase bool) (int64, bool) {
	for _, ec := range c.constraint.EnumValues {
		if foldCase {
			if foldEqual(ec.Name, s) {
				return ec.Value, true
			}
		} else if ec.Name == s {
			return ec.Value, true
		}
	}
	return ParseInt(s)
}
