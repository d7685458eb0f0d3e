package core

import "testing"

func setupCompleter() (*Completer, *CommandRegistry, *CVarRegistry) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	cvars.RegisterBool("fullscreen", "", false, 0)
	cvars.RegisterString("difficulty", "", "normal", 0, []string{"easy", "normal", "hard"})
	commands.RegisterClosure("fov", "", 0, 1, 1, func(*CommandArgs) bool { return true })
	commands.RegisterClosure("quit", "", 0, 0, 0, func(*CommandArgs) bool { return true })
	return NewCompleter(commands, cvars), commands, cvars
}

func TestCompleteFirstWordStopsAtFirstMatchingLayer(t *testing.T) {
	c, _, _ := setupCompleter()
	// "fov" (command) and "fullscreen" (cvar) both start with "f", but
	// layered completion stops at the cvar layer once it has a match,
	// never considering the command layer at all.
	res := c.Complete("f", 1)
	if res.Replacement != "fullscreen" {
		t.Fatalf("expected the cvar layer to win over the command layer, got %q", res.Replacement)
	}
	if len(res.Candidates) != 1 {
		t.Errorf("expected exactly the cvar-layer candidate, got %v", res.Candidates)
	}
}

func TestCompleteFirstWordFallsThroughToCommandsWhenNoCVarMatches(t *testing.T) {
	c, _, _ := setupCompleter()
	res := c.Complete("qu", 2)
	if res.Replacement != "quit" {
		t.Fatalf("expected the command layer to complete when built-ins and cvars have no match, got %q", res.Replacement)
	}
}

func TestCompleteBuiltinLayerWinsOverCommandsAndCVars(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	commands.RegisterClosure("clearall", "", 0, 0, 0, func(*CommandArgs) bool { return true })
	c := NewCompleter(commands, cvars)

	res := c.Complete("cl", 2)
	if res.Replacement != "clear" {
		t.Fatalf("expected the built-in 'clear' to win over the command 'clearall', got %q", res.Replacement)
	}
}

func TestCompleteSubstitutionNameInsideOpenExpansion(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	cvars.RegisterInt("fov", "", 90, 0, false, 0, 0)
	commands.RegisterClosure("echo", "", 0, 1, 1, func(*CommandArgs) bool { return true })
	c := NewCompleter(commands, cvars)

	res := c.Complete("echo $(fo", 9)
	if res.Replacement != "$(fov" {
		t.Errorf("expected the cvar name inside the open $( expansion to complete, got %q", res.Replacement)
	}
}

func TestCompleteBoolCVarValue(t *testing.T) {
	c, _, _ := setupCompleter()
	res := c.Complete("fullscreen tr", 13)
	if res.Replacement != "true" {
		t.Errorf("expected bool value completion to %q, got %q", "true", res.Replacement)
	}
}

func TestCompleteStringCVarValueFromAllowedSet(t *testing.T) {
	c, _, _ := setupCompleter()
	res := c.Complete("difficulty ha", 13)
	if res.Replacement != "hard" {
		t.Errorf("expected allowed-set completion to %q, got %q", "hard", res.Replacement)
	}
}

func TestCompleteCVarValueViaCompletionHook(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	cv, _ := cvars.RegisterString("player.name", "", "", 0, nil)
	cv.SetCompletionHook(func(partial string) []string {
		return []string{"Ranger", "Rogue"}
	})
	c := NewCompleter(commands, cvars)

	res := c.Complete("player.name R", 13)
	if len(res.Candidates) != 2 {
		t.Fatalf("expected the completion hook's candidates to be used, got %v", res.Candidates)
	}
}

func TestCompleteArgumentViaCommandCompletionHook(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	cmd, _ := commands.RegisterClosure("map", "", 0, 1, 1, func(*CommandArgs) bool { return true })
	cmd.SetCompletionHook(func(partial string) []string {
		return []string{"arena", "army"}
	})
	c := NewCompleter(commands, cvars)

	res := c.Complete("map ar", 6)
	if len(res.Candidates) != 2 {
		t.Fatalf("expected the command's own completion hook to supply argument candidates, got %v", res.Candidates)
	}
}

func TestCompleteCyclesThroughRepeatedTabOnSamePartial(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	// "tab" and "tag" share no more of a common prefix than the partial
	// itself, so the very first Tab already enters cycle mode instead of
	// completing further, matching the tab/tag ambiguity §8's cycling
	// scenario describes.
	commands.RegisterClosure("tab", "", 0, 0, 0, func(*CommandArgs) bool { return true })
	commands.RegisterClosure("tag", "", 0, 0, 0, func(*CommandArgs) bool { return true })
	c := NewCompleter(commands, cvars)

	first := c.Complete("ta", 2)
	if first.Replacement != "" {
		t.Fatalf("expected the Tab that opens a cycle to only list candidates, got replacement %q", first.Replacement)
	}
	second := c.Complete("ta", 2)
	third := c.Complete("ta", 2)
	if second.Replacement == third.Replacement {
		t.Errorf("expected successive Tabs to cycle to a different candidate, got %q twice", second.Replacement)
	}
	fourth := c.Complete("ta", 2)
	if fourth.Replacement != second.Replacement {
		t.Errorf("expected cycling to wrap back to the first candidate, got %q", fourth.Replacement)
	}
}

func TestCompleteNoMatchesReturnsEmptyResult(t *testing.T) {
	c, _, _ := setupCompleter()
	res := c.Complete("zzz", 3)
	if res.Replacement != "" || len(res.Candidates) != 0 {
		t.Errorf("expected no match to produce an empty result, got %#v", res)
	}
}
