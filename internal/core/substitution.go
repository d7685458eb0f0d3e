package core

// MaxSubstitutionDepth bounds $(...) recursion (§4.4.3): a name expression
// that itself contains a nested $(...) reference is expanded again, up to
// this many nested levels, guarding against reference cycles. The resolved
// cvar value is copied in verbatim and never re-expanded, so this bound
// only ever guards name-building recursion.
const MaxSubstitutionDepth = 15

// SubstituteCVars expands every $(expr) occurrence in text with the named
// cvar's string rendering. expr is itself expanded recursively before use
// as a lookup name, with all whitespace it contains discarded (§4.4.3:
// "whitespace inside the name is ignored"); the surrounding literal text is
// left untouched. Any failure — unbalanced parentheses, a name that
// resolves to no cvar, or exceeding MaxSubstitutionDepth — invalidates the
// whole call: per the design notes' Open Question, this implementation
// preserves the source's conflation of "legitimate truncation" and
// "aborted expansion" into one signal, so callers uniformly discard
// whatever they were assembling rather than keep a partial result.
func SubstituteCVars(text string, cvars *CVarRegistry, sink ErrorSink) (string, bool) {
	return substituteCVars(text, cvars, newMutableSink(sink), 0)
}

func substituteCVars(text string, cvars *CVarRegistry, sink *mutableSink, depth int) (string, bool) {
	if depth > MaxSubstitutionDepth {
		sink.report(ErrRecursionLimit, "cvar substitution exceeded depth %d", MaxSubstitutionDepth)
		return "", false
	}
	if cvars == nil {
		sink.report(ErrNotFound, "no cvar registry bound for $(...) substitution")
		return "", false
	}

	var out []byte
	i, n := 0, len(text)

	for i < n {
		if text[i] == '$' && i+1 < n && text[i+1] == '(' {
			j := i + 2
			paren := 1
			for j < n && paren > 0 {
				switch text[j] {
				case '(':
					paren++
				case ')':
					paren--
				}
				if paren == 0 {
					break
				}
				j++
			}
			if j >= n {
				sink.report(ErrParseError, "unbalanced parentheses in $(...) substitution in %q", text)
				return "", false
			}

			nameExpanded, nameOK := substituteCVars(text[i+2:j], cvars, sink, depth+1)
			if !nameOK {
				return "", false
			}
			name := stripAllWhitespace(nameExpanded)
			if !ValidateCVarName(name) {
				sink.report(ErrInvalidName, "invalid cvar name %q in $(...) substitution", name)
				return "", false
			}

			val, kind := cvars.GetString(name)
			if kind != ErrNone {
				sink.report(ErrNotFound, "cvar %q referenced by $(...) not found", name)
				return "", false
			}
			out = append(out, val...)
			i = j + 1
			continue
		}
		out = append(out, text[i])
		i++
	}

	return string(out), true
}

func stripAllWhitespace(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
