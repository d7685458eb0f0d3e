// Command console is a minimal interactive demo binary embedding qcon: it
// wires the CVar/command registries, the buffered pipeline, and the line
// editor to a real terminal, in the same spirit as pawscript's own repl.go
// driving its interpreter from stdin/stdout.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"

	"github.com/consolekit/qcon/internal/core"
	"github.com/consolekit/qcon/terminal"
)

// bootConfig is the shell-around-the-console configuration §SPEC_FULL's
// AMBIENT STACK section describes: separate from the CVar registry's own
// set/alias config file, this only configures where the demo binary looks
// for that file and where it keeps history.
type bootConfig struct {
	ConfigPath  string `toml:"config_path"`
	HistoryPath string `toml:"history_path"`
	LogLevel    string `toml:"log_level"`
}

func loadBootConfig(path string) bootConfig {
	cfg := bootConfig{ConfigPath: "console.cfg", HistoryPath: "console.history", LogLevel: "info"}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	_ = toml.Unmarshal(data, &cfg)
	return cfg
}

func main() {
	boot := loadBootConfig("console.toml")

	cvars := core.NewCVarRegistry(false, false, nil)
	commands := core.NewCommandRegistry(nil)
	commands.SetCVarNameChecker(func(name string) bool { _, ok := cvars.Find(name); return ok })
	pipeline := core.NewPipeline(cvars, commands, nil)

	registerDefaultCommands(commands, cvars, pipeline)

	io := core.NewOSFileIO()
	if _, err := os.Stat(boot.ConfigPath); err == nil {
		pipeline.LoadConfigFile(io, boot.ConfigPath, func(line string) { fmt.Println(line) })
	}
	pipeline.ProcessStartupArgs(os.Args[1:])
	pipeline.ExecuteBuffered(core.ExecAll)

	watchConfigFile(boot.ConfigPath, func() {
		pipeline.LoadConfigFile(io, boot.ConfigPath, func(line string) { fmt.Println(line) })
		pipeline.ExecuteBuffered(core.ExecAll)
	})

	history := core.NewHistory(0)
	completer := core.NewCompleter(commands, cvars)
	editor := core.NewEditBuffer(pipeline, completer, history)
	editor.FileIO = io
	editor.HistoryPath = boot.HistoryPath
	editor.Clipboard = terminal.NewClipboard()
	editor.Print = func(s string) { fmt.Println(s) }
	editor.OnClear = func() { fmt.Print("\x1b[2J\x1b[H") }
	editor.OnExit = func() {}

	reader, err := terminal.NewReader()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot open terminal:", err)
		os.Exit(1)
	}
	defer reader.Close()

	fmt.Print(editor.Prompt)
	for !editor.ExitRequested() {
		code, ok := reader.ReadKey()
		if !ok {
			break
		}
		if editor.HandleKeyInput(code) {
			redraw(editor)
		}
		pipeline.ExecuteBuffered(core.ExecAll)
	}
}

func redraw(e *core.EditBuffer) {
	fmt.Print("\r\x1b[K", e.Prompt, e.Text())
}

// watchConfigFile is an optional convenience the core registry itself has
// no opinion about: it watches the config file's directory for writes to
// that file and re-runs onChange, so editing console.cfg in another editor
// while the console is running takes effect without a restart. Failure to
// start the watcher (missing directory, no inotify support) is silent; the
// demo still works, just without hot-reload.
func watchConfigFile(path string, onChange func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return
	}
	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					onChange()
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}

// registerDefaultCommands installs the small set of "default commands"
// §1 explicitly places out of the core's own scope: set, toggle,
// listCVars, saveConfig. These are ordinary consumers of the public registry API, not
// part of internal/core.
func registerDefaultCommands(commands *core.CommandRegistry, cvars *core.CVarRegistry, pipeline *core.Pipeline) {
	commands.RegisterClosure("set", "set NAME VALUE", 0, 2, 2, func(args *core.CommandArgs) bool {
		cvars.SetString(args.Args[0], args.Args[1], 0)
		return true
	})
	commands.RegisterClosure("toggle", "toggle NAME", 0, 1, 1, func(args *core.CommandArgs) bool {
		v, kind := cvars.GetBool(args.Args[0])
		if kind == core.ErrNone {
			cvars.SetBool(args.Args[0], !v, 0)
		}
		return true
	})
	commands.RegisterClosure("listCVars", "listCVars", 0, 0, 0, func(args *core.CommandArgs) bool {
		cvars.Enumerate(func(cv *core.CVar) bool {
			fmt.Printf("%s = %s\n", cv.Name(), cv.AsString(cvars.BoolStrings()))
			return true
		})
		return true
	})
	commands.RegisterClosure("saveConfig", "saveConfig [path]", 0, 0, 1, func(args *core.CommandArgs) bool {
		path := "console.cfg"
		if len(args.Args) == 1 {
			path = args.Args[0]
		}
		return pipeline.SaveConfigFile(core.NewOSFileIO(), path)
	})
}
