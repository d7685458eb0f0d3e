package core

import "testing"

func TestRegisterClosureAndDispatch(t *testing.T) {
	r := NewCommandRegistry(nil)
	called := false
	r.RegisterClosure("greet", "", 0, 0, 1, func(args *CommandArgs) bool {
		called = true
		return true
	})

	cmd, ok := r.Find("greet")
	if !ok {
		t.Fatal("expected to find registered command")
	}
	cmd.invoke(&CommandArgs{Name: "greet"})
	if !called {
		t.Error("expected closure to run")
	}
	if cmd.InvocationCount() != 1 {
		t.Errorf("expected invocation count 1, got %d", cmd.InvocationCount())
	}
}

func TestRegisterInvalidNameRejected(t *testing.T) {
	r := NewCommandRegistry(nil)
	_, kind := r.RegisterClosure("1bad", "", 0, 0, 0, func(*CommandArgs) bool { return true })
	if kind != ErrInvalidName {
		t.Errorf("expected ErrInvalidName, got %v", kind)
	}
}

func TestRegisterDuplicateCommandRejected(t *testing.T) {
	r := NewCommandRegistry(nil)
	r.RegisterClosure("quit", "", 0, 0, 0, func(*CommandArgs) bool { return true })
	_, kind := r.RegisterClosure("quit", "", 0, 0, 0, func(*CommandArgs) bool { return true })
	if kind != ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", kind)
	}
}

func TestCreateAliasAndRemoveAlias(t *testing.T) {
	r := NewCommandRegistry(nil)
	alias, kind := r.CreateAlias("qs", "quick save", "save slot1", ExecNow)
	if kind != ErrNone {
		t.Fatalf("expected successful alias creation, got %v", kind)
	}
	if !alias.IsAlias() {
		t.Error("expected IsAlias to be true")
	}
	if r.AliasCount() != 1 {
		t.Errorf("expected alias count 1, got %d", r.AliasCount())
	}
	if !r.RemoveAlias("qs") {
		t.Error("expected RemoveAlias to succeed")
	}
	if r.AliasCount() != 0 {
		t.Errorf("expected alias count back to 0, got %d", r.AliasCount())
	}
}

func TestRemoveAliasRejectsNonAlias(t *testing.T) {
	r := NewCommandRegistry(nil)
	r.RegisterClosure("quit", "", 0, 0, 0, func(*CommandArgs) bool { return true })
	if r.RemoveAlias("quit") {
		t.Error("expected RemoveAlias to reject a non-alias command")
	}
}

func TestDisableFlagsSuppressesMatchingCommands(t *testing.T) {
	r := NewCommandRegistry(nil)
	cmd, _ := r.RegisterClosure("noclip", "", CmdFlagCheat, 0, 0, func(*CommandArgs) bool { return true })
	r.DisableFlags(CmdFlagCheat)
	if !r.IsDisabled(cmd.Flags()) {
		t.Error("expected the cheat command to be disabled")
	}
	r.EnableAll()
	if r.IsDisabled(cmd.Flags()) {
		t.Error("expected EnableAll to clear the disabled mask")
	}
}

func TestDisableAllSuppressesEverything(t *testing.T) {
	r := NewCommandRegistry(nil)
	cmd, _ := r.RegisterClosure("plain", "", 0, 0, 0, func(*CommandArgs) bool { return true })
	r.DisableAll()
	if !r.IsDisabled(cmd.Flags()) {
		t.Error("expected DisableAll to suppress a command with no flags at all")
	}
}

func TestCommandCVarNameCollisionRejected(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	cvars.RegisterInt("fov", "", 90, 0, false, 0, 0)
	commands.SetCVarNameChecker(func(name string) bool { _, ok := cvars.Find(name); return ok })

	_, kind := commands.RegisterClosure("fov", "", 0, 0, 0, func(*CommandArgs) bool { return true })
	if kind != ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", kind)
	}
}
