// Package script embeds the Lua engine that project scripts run in.
//
// Scripts describe solutions and projects by calling host functions
// (solution, project, configuration, files and one accessor per field).
// Those functions build plain Lua tables under the _SOLUTIONS global; the
// session's loader walks the tables afterwards. The layout is:
//
//	_SOLUTIONS = { sln, ... }
//	sln   = { name=, basedir=, blocks={ block, ... }, projects={ prj, ... } }
//	prj   = { name=, basedir=, blocks={ block, ... }, files={ file, ... } }
//	block = { terms=<configuration name or nil>, <field>=<string or list> }
//	file  = { path=, buildaction= }
//
// The first block of a solution or project is its root block and has no terms.
package script

import (
	"errors"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/simonhull/firebird-suite/nest/internal/fields"
	"github.com/simonhull/firebird-suite/nest/internal/logger"
)

// Names of the globals and table keys shared with the loader.
const (
	SolutionsKey = "_SOLUTIONS"
	ActionKey    = "_ACTION"

	KeyName        = "name"
	KeyBaseDir     = "basedir"
	KeyBlocks      = "blocks"
	KeyProjects    = "projects"
	KeyFiles       = "files"
	KeyTerms       = "terms"
	KeyPath        = "path"
	KeyBuildAction = "buildaction"
)

// Result is the value returned by a script, converted to text.
type Result struct {
	Value   string
	Present bool
}

// Error is a script failure: a syntax error, a runtime error raised by the
// script, or an error raised by a host function.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Engine owns one Lua state and the host context bound to it.
type Engine struct {
	L    *lua.LState
	host *Host
	log  logger.Logger
}

// New starts a Lua state with the standard libraries, the host functions and
// one accessor for every assignable field in table.
func New(table fields.Table, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewSilentLogger()
	}

	L := lua.NewState()
	L.SetGlobal(SolutionsKey, L.NewTable())

	host := newHost(L, table, log)
	host.register()

	return &Engine{L: L, host: host, log: log}
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.L.Close()
}

// Solutions returns the script-side solution list.
func (e *Engine) Solutions() *lua.LTable {
	tbl, ok := e.L.GetGlobal(SolutionsKey).(*lua.LTable)
	if !ok {
		return e.L.NewTable()
	}
	return tbl
}

// SetAction publishes the action name to scripts as _ACTION.
func (e *Engine) SetAction(action string) {
	e.L.SetGlobal(ActionKey, lua.LString(action))
}

// Action returns the current _ACTION value, or "" when unset.
func (e *Engine) Action() string {
	if s, ok := e.L.GetGlobal(ActionKey).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// RunFile executes the script at path. The call goes through the dofile
// host function so nested and top-level scripts resolve paths the same way.
func (e *Engine) RunFile(path string) (Result, error) {
	e.log.Debug("running script file", logger.F("path", path))

	top := e.L.GetTop()
	e.L.Push(e.L.GetGlobal("dofile"))
	e.L.Push(lua.LString(path))
	if err := e.L.PCall(1, lua.MultRet, nil); err != nil {
		e.L.SetTop(top)
		return Result{}, &Error{Message: errorMessage(err), Cause: err}
	}
	return e.collect(top), nil
}

// RunString executes inline code. Error messages lose the
// `[string "..."]:N:` chunk prefix the engine adds, leaving only the text
// raised by the script.
func (e *Engine) RunString(code string) (Result, error) {
	chunk := chunkName(code)
	top := e.L.GetTop()

	fn, err := e.L.Load(strings.NewReader(code), chunk)
	if err != nil {
		return Result{}, &Error{Message: stripChunkPrefix(errorMessage(err), chunk), Cause: err}
	}

	e.L.Push(fn)
	if err := e.L.PCall(0, lua.MultRet, nil); err != nil {
		e.L.SetTop(top)
		return Result{}, &Error{Message: stripChunkPrefix(errorMessage(err), chunk), Cause: err}
	}
	return e.collect(top), nil
}

// collect converts the first value returned above top and pops all results.
func (e *Engine) collect(top int) Result {
	defer e.L.SetTop(top)

	if e.L.GetTop() <= top {
		return Result{}
	}
	return toResult(e.L.Get(top + 1))
}

func toResult(v lua.LValue) Result {
	switch v := v.(type) {
	case *lua.LNilType:
		return Result{}
	case lua.LBool:
		if v {
			return Result{Value: "true", Present: true}
		}
		return Result{Value: "false", Present: true}
	default:
		return Result{Value: v.String(), Present: true}
	}
}

func errorMessage(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		return apiErr.Object.String()
	}
	return err.Error()
}

const maxChunkLine = 40

// chunkName mirrors the reference Lua naming of string chunks:
// [string "first line..."].
func chunkName(code string) string {
	line, _, multi := strings.Cut(code, "\n")
	if len(line) > maxChunkLine {
		line = line[:maxChunkLine]
		multi = true
	}
	if multi {
		line += "..."
	}
	return fmt.Sprintf("[string %q]", line)
}

// stripChunkPrefix removes the chunk label the engine puts in front of
// messages: "<chunk>:<line>: " for runtime errors and
// "<chunk> line:<line>(column:<col>) " for syntax errors.
func stripChunkPrefix(msg, chunk string) string {
	msg = strings.TrimSpace(msg)
	if rest, ok := strings.CutPrefix(msg, chunk+":"); ok {
		if rest, ok := cutDigits(rest); ok && strings.HasPrefix(rest, ":") {
			return strings.TrimSpace(rest[1:])
		}
		return msg
	}
	if rest, ok := strings.CutPrefix(msg, chunk+" line:"); ok {
		rest, ok := cutDigits(rest)
		if !ok {
			return msg
		}
		if rest, ok = strings.CutPrefix(rest, "(column:"); !ok {
			return msg
		}
		if rest, ok = cutDigits(rest); !ok || !strings.HasPrefix(rest, ")") {
			return msg
		}
		return strings.TrimSpace(rest[1:])
	}
	return msg
}

// cutDigits removes a leading run of digits, reporting whether there was one.
func cutDigits(s string) (string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[i:], i > 0
}
