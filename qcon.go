// Package qcon provides an embeddable CVar/command console subsystem,
// modeled after the in-game consoles popularized by Quake and DOOM: a
// typed configuration-variable registry, a command registry and buffered
// execution pipeline, and a terminal-agnostic interactive line editor.
//
// This package re-exports the public API implemented in internal/core.
// For full documentation, see that package.
//
// Basic usage:
//
//	cvars := qcon.NewCVarRegistry(false, false, nil)
//	commands := qcon.NewCommandRegistry(nil)
//	commands.SetCVarNameChecker(func(name string) bool { _, ok := cvars.Find(name); return ok })
//	pipeline := qcon.NewPipeline(cvars, commands, nil)
//	pipeline.Exec("set fps 60", qcon.ExecNow)
package qcon

import impl "github.com/consolekit/qcon/internal/core"

// =============================================================================
// CVAR REGISTRY
// =============================================================================

type CVarRegistry = impl.CVarRegistry
type CVar = impl.CVar
type CVarType = impl.CVarType
type CVarFlag = impl.CVarFlag
type NumberFormat = impl.NumberFormat
type Constraint = impl.Constraint
type EnumConstant = impl.EnumConstant
type CompletionHook = impl.CompletionHook
type Snapshot = impl.Snapshot

const (
	TypeInt    = impl.TypeInt
	TypeBool   = impl.TypeBool
	TypeFloat  = impl.TypeFloat
	TypeString = impl.TypeString
	TypeEnum   = impl.TypeEnum
)

const (
	FormatDecimal     = impl.FormatDecimal
	FormatBinary      = impl.FormatBinary
	FormatOctal       = impl.FormatOctal
	FormatHexadecimal = impl.FormatHexadecimal
)

const (
	FlagPersistent  = impl.FlagPersistent
	FlagVolatile    = impl.FlagVolatile
	FlagReadOnly    = impl.FlagReadOnly
	FlagInitOnly    = impl.FlagInitOnly
	FlagModified    = impl.FlagModified
	FlagUserDefined = impl.FlagUserDefined
	FlagRangeCheck  = impl.FlagRangeCheck
)

var NewCVarRegistry = impl.NewCVarRegistry

// =============================================================================
// COMMAND REGISTRY AND PIPELINE
// =============================================================================

type Command = impl.Command
type CommandFlag = impl.CommandFlag
type CommandRegistry = impl.CommandRegistry
type CommandArgs = impl.CommandArgs
type ExecMode = impl.ExecMode
type Pipeline = impl.Pipeline
type FuncHandler = impl.FuncHandler
type ClosureHandler = impl.ClosureHandler
type MethodHandler = impl.MethodHandler

const (
	ExecNow    = impl.ExecNow
	ExecInsert = impl.ExecInsert
	ExecAppend = impl.ExecAppend
	ExecAll    = impl.ExecAll
)

var (
	NewCommandRegistry = impl.NewCommandRegistry
	NewPipeline        = impl.NewPipeline
)

// =============================================================================
// LINE EDITOR
// =============================================================================

type EditBuffer = impl.EditBuffer
type History = impl.History
type Completer = impl.Completer
type CompletionResult = impl.CompletionResult
type BuiltinHook = impl.BuiltinHook

var (
	NewEditBuffer = impl.NewEditBuffer
	NewHistory    = impl.NewHistory
	NewCompleter  = impl.NewCompleter
)

// =============================================================================
// KEY CODES
// =============================================================================

type Sentinel = impl.Sentinel

const (
	SentinelASCII     = impl.SentinelASCII
	SentinelReturn    = impl.SentinelReturn
	SentinelTab       = impl.SentinelTab
	SentinelBackspace = impl.SentinelBackspace
	SentinelDelete    = impl.SentinelDelete
	SentinelUp        = impl.SentinelUp
	SentinelDown      = impl.SentinelDown
	SentinelRight     = impl.SentinelRight
	SentinelLeft      = impl.SentinelLeft
	SentinelEscape    = impl.SentinelEscape
	SentinelControl   = impl.SentinelControl
)

var (
	EncodeKey     = impl.EncodeKey
	DecodeKey     = impl.DecodeKey
	EncodeASCII   = impl.EncodeASCII
	EncodeControl = impl.EncodeControl
)

// =============================================================================
// COLLABORATOR CONTRACTS (§6)
// =============================================================================

type ErrorSink = impl.ErrorSink
type ErrorSinkFunc = impl.ErrorSinkFunc
type ErrorKind = impl.ErrorKind
type FileIO = impl.FileIO
type FileMode = impl.FileMode
type FileHandle = impl.FileHandle
type Clipboard = impl.Clipboard
type BoolStringTable = impl.BoolStringTable
type BoolStringPair = impl.BoolStringPair

const (
	FileRead  = impl.FileRead
	FileWrite = impl.FileWrite
)

var (
	NewOSFileIO            = impl.NewOSFileIO
	NewMemClipboard        = impl.NewMemClipboard
	DefaultBoolStringTable = impl.DefaultBoolStringTable
)
