package core

import (
	"fmt"
	"strings"
	"testing"
)

func TestPipelineExecNowDispatchesImmediately(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	p := NewPipeline(cvars, commands, nil)

	var calls []string
	commands.RegisterClosure("ping", "", 0, 0, 0, func(*CommandArgs) bool {
		calls = append(calls, "ping")
		return true
	})

	p.Exec("ping; ping; ping", ExecNow)
	if len(calls) != 3 {
		t.Fatalf("expected 3 immediate dispatches, got %d", len(calls))
	}
}

func TestPipelineExecInsertRunsBeforeAppend(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	p := NewPipeline(cvars, commands, nil)

	var order []string
	commands.RegisterClosure("mark", "", 0, 1, 1, func(args *CommandArgs) bool {
		order = append(order, args.Args[0])
		return true
	})

	p.Exec("mark first", ExecAppend)
	p.Exec("mark second", ExecInsert)
	p.ExecuteBuffered(ExecAll)

	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("expected [second first], got %v", order)
	}
}

func TestPipelineExecuteBufferedMaxCountLeavesRemainder(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	p := NewPipeline(cvars, commands, nil)

	calls := 0
	commands.RegisterClosure("tick", "", 0, 0, 0, func(*CommandArgs) bool {
		calls++
		return true
	})

	p.Exec("tick; tick; tick", ExecAppend)
	dispatched := p.ExecuteBuffered(2)
	if dispatched != 2 || calls != 2 {
		t.Fatalf("expected 2 dispatched with cap, got dispatched=%d calls=%d", dispatched, calls)
	}

	remaining := p.ExecuteBuffered(ExecAll)
	if remaining != 1 || calls != 3 {
		t.Fatalf("expected remaining 1 dispatch to drain the buffer, got remaining=%d calls=%d", remaining, calls)
	}
}

func TestPipelineReentrantSelfQueueingIsBounded(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	var reported ErrorKind
	p := NewPipeline(cvars, commands, ErrorSinkFunc(func(kind ErrorKind, msg, ctx string) {
		if kind == ErrReentrant {
			reported = kind
		}
	}))

	commands.RegisterClosure("loop", "", 0, 0, 0, func(*CommandArgs) bool {
		p.Exec("loop", ExecInsert)
		return true
	})

	p.Exec("loop", ExecAppend)
	dispatched := p.ExecuteBuffered(ExecAll)

	if reported != ErrReentrant {
		t.Error("expected the reentrancy guard to report ErrReentrant")
	}
	if dispatched != MaxReentrantCommands {
		t.Errorf("expected dispatch count to stop exactly at the reentrancy cap, got %d", dispatched)
	}
}

func TestPipelineUnknownCommandReportsNotFound(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	var reported ErrorKind
	p := NewPipeline(cvars, commands, ErrorSinkFunc(func(kind ErrorKind, msg, ctx string) {
		reported = kind
	}))

	p.Exec("nosuchcommand", ExecNow)
	if reported != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", reported)
	}
}

func TestPipelineAliasPassesThroughExtraArgs(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	p := NewPipeline(cvars, commands, nil)

	var got []string
	commands.RegisterClosure("save", "", 0, 0, 2, func(args *CommandArgs) bool {
		got = args.Args
		return true
	})
	commands.CreateAlias("qs", "", "save slot1", ExecNow)

	p.Exec("qs extra", ExecNow)
	if len(got) != 2 || got[0] != "slot1" || got[1] != "extra" {
		t.Errorf("expected alias args plus call-site args, got %v", got)
	}
}

func TestProcessStartupArgsSetHonorsInitOnly(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	p := NewPipeline(cvars, commands, nil)
	cvars.RegisterString("mode", "", "default", FlagInitOnly, nil)

	p.ProcessStartupArgs([]string{"game.exe", "+set", "mode", "arcade"})

	v, kind := cvars.GetString("mode")
	if kind != ErrNone || v != "arcade" {
		t.Errorf("expected InitOnly cvar set at startup, got %q kind=%v", v, kind)
	}
}

func TestProcessStartupArgsDiscardsTokensBeforeFirstPlus(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	p := NewPipeline(cvars, commands, nil)

	var invoked bool
	commands.RegisterClosure("map", "", 0, 0, 1, func(*CommandArgs) bool {
		invoked = true
		return true
	})

	p.ProcessStartupArgs([]string{"game.exe", "map", "+map", "arena"})
	p.ExecuteBuffered(ExecAll)
	if !invoked {
		t.Error("expected the +map sub-line to run despite leading unprefixed argv tokens")
	}
}

func TestRunConfigFileRecognizesSetAndAliasGrammar(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	p := NewPipeline(cvars, commands, nil)
	cvars.RegisterString("mode", "", "default", FlagPersistent, nil)

	lines := []string{
		`# a comment`,
		``,
		`set mode "arcade"`,
		`alias qs "save slot1" -now`,
	}
	p.RunConfigFile(lines, nil)

	v, _ := cvars.GetString("mode")
	if v != "arcade" {
		t.Errorf("expected set line applied, got %q", v)
	}
	cmd, ok := commands.Find("qs")
	if !ok || !cmd.IsAlias() {
		t.Error("expected alias line to register an alias command")
	}
}

type memFileIO struct {
	files map[string][]string
}

type memFileHandle struct {
	path  string
	lines []string
	pos   int
	write bool
}

func newMemFileIO() *memFileIO { return &memFileIO{files: make(map[string][]string)} }

func (m *memFileIO) Open(path string, mode FileMode) (FileHandle, error) {
	if mode == FileWrite {
		return &memFileHandle{path: path, write: true}, nil
	}
	lines, ok := m.files[path]
	if !ok {
		return nil, errNotFound{path}
	}
	return &memFileHandle{path: path, lines: lines}, nil
}

func (m *memFileIO) Close(h FileHandle) error {
	mh := h.(*memFileHandle)
	if mh.write {
		m.files[mh.path] = mh.lines
	}
	return nil
}

func (m *memFileIO) IsAtEOF(h FileHandle) bool {
	mh := h.(*memFileHandle)
	return mh.pos >= len(mh.lines)
}

func (m *memFileIO) Rewind(h FileHandle) error {
	h.(*memFileHandle).pos = 0
	return nil
}

func (m *memFileIO) ReadLine(h FileHandle) (string, bool) {
	mh := h.(*memFileHandle)
	if mh.pos >= len(mh.lines) {
		return "", false
	}
	line := mh.lines[mh.pos]
	mh.pos++
	return line, true
}

func (m *memFileIO) WriteString(h FileHandle, s string) error {
	mh := h.(*memFileHandle)
	mh.lines = append(mh.lines, strings.TrimRight(s, "\n"))
	return nil
}

func (m *memFileIO) WriteFormat(h FileHandle, format string, args ...interface{}) error {
	return m.WriteString(h, fmt.Sprintf(format, args...))
}

type errNotFound struct{ path string }

func (e errNotFound) Error() string { return "no such file: " + e.path }

func TestSaveThenLoadConfigFileRoundTrips(t *testing.T) {
	cvars := NewCVarRegistry(false, false, nil)
	commands := NewCommandRegistry(nil)
	p := NewPipeline(cvars, commands, nil)
	cvars.RegisterString("mode", "", "default", FlagPersistent, nil)
	cvars.SetString("mode", "arcade", 0)
	commands.RegisterClosure("save", "", 0, 0, 1, func(*CommandArgs) bool { return true })
	commands.CreateAlias("qs", "", "save slot1", ExecNow)

	io := newMemFileIO()
	if !p.SaveConfigFile(io, "console.cfg") {
		t.Fatal("expected SaveConfigFile to succeed")
	}

	cvars2 := NewCVarRegistry(false, false, nil)
	commands2 := NewCommandRegistry(nil)
	p2 := NewPipeline(cvars2, commands2, nil)
	cvars2.RegisterString("mode", "", "default", FlagPersistent, nil)
	commands2.RegisterClosure("save", "", 0, 0, 1, func(*CommandArgs) bool { return true })

	if !p2.LoadConfigFile(io, "console.cfg", nil) {
		t.Fatal("expected LoadConfigFile to succeed")
	}

	v, _ := cvars2.GetString("mode")
	if v != "arcade" {
		t.Errorf("expected round-tripped cvar value %q, got %q", "arcade", v)
	}
	if _, ok := commands2.Find("qs"); !ok {
		t.Error("expected round-tripped alias to be recreated")
	}
}
