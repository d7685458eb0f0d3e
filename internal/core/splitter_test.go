package core

import "testing"

func TestExtractNextCommandSplitsOnSemicolon(t *testing.T) {
	cmd, rest, overflowed := ExtractNextCommand("say hi; say bye", nil, nil)
	if overflowed {
		t.Fatal("did not expect overflow")
	}
	if cmd != "say hi" {
		t.Errorf("expected %q, got %q", "say hi", cmd)
	}
	if rest != " say bye" {
		t.Errorf("expected remainder %q, got %q", " say bye", rest)
	}
}

func TestExtractNextCommandSemicolonInsideQuotesIsLiteral(t *testing.T) {
	cmd, rest, overflowed := ExtractNextCommand(`say "a;b"; say next`, nil, nil)
	if overflowed {
		t.Fatal("did not expect overflow")
	}
	if cmd != `say "a;b"` {
		t.Errorf("expected quoted semicolon preserved, got %q", cmd)
	}
	if rest != " say next" {
		t.Errorf("expected remainder %q, got %q", " say next", rest)
	}
}

func TestExtractNextCommandJoinsBackslashNewline(t *testing.T) {
	cmd, _, overflowed := ExtractNextCommand("say hi \\\nthere", nil, nil)
	if overflowed {
		t.Fatal("did not expect overflow")
	}
	if cmd != "say hi there" {
		t.Errorf("expected joined line, got %q", cmd)
	}
}

func TestExtractNextCommandSubstitutesCVar(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	cvars.RegisterString("player.name", "", "Ranger", 0, nil)

	cmd, _, overflowed := ExtractNextCommand("say hello $(player.name)", cvars, nil)
	if overflowed {
		t.Fatal("did not expect overflow")
	}
	if cmd != "say hello Ranger" {
		t.Errorf("expected substituted text, got %q", cmd)
	}
}

func TestExtractNextCommandUnbalancedParenOverflows(t *testing.T) {
	_, _, overflowed := ExtractNextCommand("say $(unterminated", nil, nil)
	if !overflowed {
		t.Error("expected an unbalanced $(...) to report overflow")
	}
}

func TestExtractNextCommandUndefinedCVarOverflows(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	_, _, overflowed := ExtractNextCommand("say $(nope)", cvars, nil)
	if !overflowed {
		t.Error("expected a reference to an unknown cvar to overflow (conflated failure mode)")
	}
}

func TestExtractNextCommandTrimsLeadingSeparators(t *testing.T) {
	cmd, _, overflowed := ExtractNextCommand("  ;; say hi", nil, nil)
	if overflowed {
		t.Fatal("did not expect overflow")
	}
	if cmd != "say hi" {
		t.Errorf("expected leading whitespace/separators consumed, got %q", cmd)
	}
}
