package script

import (
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/simonhull/firebird-suite/nest/internal/fields"
	"github.com/simonhull/firebird-suite/nest/internal/logger"
	"github.com/simonhull/firebird-suite/nest/internal/pathutil"
)

// Host is the state the host functions share: the active solution, project
// and configuration block, plus the stack of scripts being run. Every host
// function is a method value bound to one Host.
type Host struct {
	L     *lua.LState
	table fields.Table
	log   logger.Logger

	solution *lua.LTable
	project  *lua.LTable
	block    *lua.LTable

	scripts []string
}

func newHost(L *lua.LState, table fields.Table, log logger.Logger) *Host {
	return &Host{L: L, table: table, log: log}
}

func (h *Host) register() {
	L := h.L
	L.SetGlobal("solution", L.NewFunction(h.solutionFn))
	L.SetGlobal("project", L.NewFunction(h.projectFn))
	L.SetGlobal("configuration", L.NewFunction(h.configurationFn))
	L.SetGlobal("files", L.NewFunction(h.filesFn))
	L.SetGlobal("dofile", L.NewFunction(h.dofileFn))
	L.SetGlobal("include", L.NewFunction(h.includeFn))

	for _, info := range h.table {
		if info.Scope == 0 {
			continue
		}
		L.SetGlobal(info.Name, L.NewFunction(h.accessor(info)))
	}

	if osLib, ok := L.GetGlobal("os").(*lua.LTable); ok {
		osLib.RawSetString("getcwd", L.NewFunction(h.getcwdFn))
	}
}

// ScriptDir is the directory of the script currently running, or the
// working directory when no script file is active.
func (h *Host) ScriptDir() string {
	if n := len(h.scripts); n > 0 {
		return filepath.Dir(h.scripts[n-1])
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func (h *Host) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(h.ScriptDir(), path)
}

func (h *Host) solutionFn(L *lua.LState) int {
	if L.GetTop() == 0 {
		pushOrNil(L, h.solution)
		return 1
	}
	name := L.CheckString(1)

	list, ok := L.GetGlobal(SolutionsKey).(*lua.LTable)
	if !ok {
		L.RaiseError("%s is not a table; solution('%s') cannot be declared", SolutionsKey, name)
		return 0
	}
	sln := findNamed(list, name)
	if sln == nil {
		sln = h.newContainer(name)
		sln.RawSetString(KeyProjects, L.NewTable())
		list.Append(sln)
		h.log.Debug("declared solution", logger.F("name", name))
	}

	h.solution = sln
	h.project = nil
	h.block = rootBlock(sln)
	L.Push(sln)
	return 1
}

func (h *Host) projectFn(L *lua.LState) int {
	if L.GetTop() == 0 {
		pushOrNil(L, h.project)
		return 1
	}
	name := L.CheckString(1)
	if h.solution == nil {
		L.RaiseError("no active solution; call solution() before project('%s')", name)
		return 0
	}

	list := h.tableField(L, h.solution, KeyProjects)
	prj := findNamed(list, name)
	if prj == nil {
		prj = h.newContainer(name)
		prj.RawSetString(KeyFiles, L.NewTable())
		list.Append(prj)
		h.log.Debug("declared project", logger.F("name", name))
	}

	h.project = prj
	h.block = rootBlock(prj)
	L.Push(prj)
	return 1
}

// configurationFn opens a block of settings scoped to the named
// configuration. No name, or an empty one, returns to the root block.
func (h *Host) configurationFn(L *lua.LState) int {
	container := h.container()
	if container == nil {
		L.RaiseError("no active solution or project")
		return 0
	}

	name := ""
	if L.GetTop() > 0 && L.Get(1) != lua.LNil {
		name = L.CheckString(1)
	}
	if name == "" {
		h.block = rootBlock(container)
		L.Push(h.block)
		return 1
	}

	block := L.NewTable()
	block.RawSetString(KeyTerms, lua.LString(name))
	h.tableField(L, container, KeyBlocks).Append(block)
	h.block = block
	L.Push(block)
	return 1
}

// accessor builds the getter/setter for one field.
func (h *Host) accessor(info fields.Info) lua.LGFunction {
	return func(L *lua.LState) int {
		if h.block == nil {
			L.RaiseError("no active solution; call solution() before %s()", info.Name)
			return 0
		}

		current := h.block.RawGetString(info.Name)
		if L.GetTop() == 0 {
			L.Push(current)
			return 1
		}

		scope := h.scope()
		if !info.Scope.Has(scope) {
			L.RaiseError("'%s' cannot be set in a %s", info.Name, scopeName(scope))
			return 0
		}

		if info.Kind == fields.String {
			value := lua.LString(L.CheckString(1))
			h.block.RawSetString(info.Name, value)
			L.Push(value)
			return 1
		}

		list, ok := current.(*lua.LTable)
		if !ok {
			list = L.NewTable()
			h.block.RawSetString(info.Name, list)
		}
		for i := 1; i <= L.GetTop(); i++ {
			h.appendValues(L, info.Name, list, L.Get(i))
		}
		L.Push(list)
		return 1
	}
}

func (h *Host) appendValues(L *lua.LState, name string, list *lua.LTable, v lua.LValue) {
	switch v := v.(type) {
	case lua.LString:
		list.Append(v)
	case lua.LNumber:
		list.Append(lua.LString(v.String()))
	case *lua.LTable:
		for i := 1; i <= v.Len(); i++ {
			h.appendValues(L, name, list, v.RawGetInt(i))
		}
	default:
		L.RaiseError("%s: expected a string or a list of strings, got %s", name, v.Type().String())
	}
}

// filesFn appends to the active project's file list. Entries are paths, or
// tables of the form { "path", buildaction = "Content" } (path may also be
// given as path = "...").
func (h *Host) filesFn(L *lua.LState) int {
	if h.project == nil || h.block != rootBlock(h.project) {
		L.RaiseError("files may only be listed on a project, outside configuration blocks")
		return 0
	}

	list := h.tableField(L, h.project, KeyFiles)
	for i := 1; i <= L.GetTop(); i++ {
		h.appendFiles(L, list, L.Get(i))
	}
	L.Push(list)
	return 1
}

func (h *Host) appendFiles(L *lua.LState, list *lua.LTable, v lua.LValue) {
	switch v := v.(type) {
	case lua.LString:
		list.Append(h.fileEntry(L, string(v), ""))
	case *lua.LTable:
		if path := fileEntryPath(v); path != "" {
			list.Append(h.fileEntry(L, path, lua.LVAsString(v.RawGetString(KeyBuildAction))))
			return
		}
		for i := 1; i <= v.Len(); i++ {
			h.appendFiles(L, list, v.RawGetInt(i))
		}
	default:
		L.RaiseError("files: expected a path or a table, got %s", v.Type().String())
	}
}

// fileEntryPath returns the path of a single-file table, or "" for a plain list.
func fileEntryPath(t *lua.LTable) string {
	if p, ok := t.RawGetString(KeyPath).(lua.LString); ok {
		return string(p)
	}
	if t.RawGetString(KeyBuildAction) == lua.LNil {
		return ""
	}
	if p, ok := t.RawGetInt(1).(lua.LString); ok {
		return string(p)
	}
	return ""
}

func (h *Host) fileEntry(L *lua.LState, path, action string) *lua.LTable {
	entry := L.NewTable()
	entry.RawSetString(KeyPath, lua.LString(pathutil.ToSlash(path)))
	if action != "" {
		entry.RawSetString(KeyBuildAction, lua.LString(action))
	}
	return entry
}

// dofileFn runs a script file relative to the running script and returns
// whatever it returns. Errors propagate to the caller unchanged.
func (h *Host) dofileFn(L *lua.LState) int {
	path := h.resolve(L.CheckString(1))
	return h.runFile(L, path)
}

// includeFn runs nest.lua from a directory, or the named file when given a
// .lua path.
func (h *Host) includeFn(L *lua.LState) int {
	path := h.resolve(L.CheckString(1))
	if !strings.EqualFold(filepath.Ext(path), ".lua") {
		path = filepath.Join(path, DefaultScript)
	}
	return h.runFile(L, path)
}

// DefaultScript is the file include() looks for in a directory.
const DefaultScript = "nest.lua"

func (h *Host) runFile(L *lua.LState, path string) int {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	fn, err := L.LoadFile(path)
	if err != nil {
		L.RaiseError("%s", errorMessage(err))
		return 0
	}

	h.scripts = append(h.scripts, path)
	defer func() { h.scripts = h.scripts[:len(h.scripts)-1] }()

	top := L.GetTop()
	L.Push(fn)
	L.Call(0, lua.MultRet)
	return L.GetTop() - top
}

func (h *Host) getcwdFn(L *lua.LState) int {
	wd, err := os.Getwd()
	if err != nil {
		L.RaiseError("getcwd: %s", err.Error())
		return 0
	}
	L.Push(lua.LString(filepath.ToSlash(wd)))
	return 1
}

// newContainer creates a solution or project table with an empty root block.
func (h *Host) newContainer(name string) *lua.LTable {
	L := h.L
	t := L.NewTable()
	t.RawSetString(KeyName, lua.LString(name))

	dir := h.ScriptDir()
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	t.RawSetString(KeyBaseDir, lua.LString(dir))

	blocks := L.NewTable()
	blocks.Append(L.NewTable())
	t.RawSetString(KeyBlocks, blocks)
	return t
}

// tableField returns t[key], raising a script error when a script has
// replaced it with something other than a table.
func (h *Host) tableField(L *lua.LState, t *lua.LTable, key string) *lua.LTable {
	v, ok := t.RawGetString(key).(*lua.LTable)
	if !ok {
		L.RaiseError("'%s' of '%s' is not a table", key, lua.LVAsString(t.RawGetString(KeyName)))
		return nil
	}
	return v
}

func (h *Host) container() *lua.LTable {
	if h.project != nil {
		return h.project
	}
	return h.solution
}

func (h *Host) scope() fields.Scope {
	container := h.container()
	switch {
	case h.block != rootBlock(container):
		return fields.ConfigurationScope
	case h.project != nil:
		return fields.ProjectScope
	default:
		return fields.SolutionScope
	}
}

func scopeName(s fields.Scope) string {
	switch s {
	case fields.ConfigurationScope:
		return "configuration block"
	case fields.ProjectScope:
		return "project"
	default:
		return "solution"
	}
}

func rootBlock(container *lua.LTable) *lua.LTable {
	if container == nil {
		return nil
	}
	blocks, ok := container.RawGetString(KeyBlocks).(*lua.LTable)
	if !ok {
		return nil
	}
	root, _ := blocks.RawGetInt(1).(*lua.LTable)
	return root
}

func findNamed(list *lua.LTable, name string) *lua.LTable {
	for i := 1; i <= list.Len(); i++ {
		t, ok := list.RawGetInt(i).(*lua.LTable)
		if ok && lua.LVAsString(t.RawGetString(KeyName)) == name {
			return t
		}
	}
	return nil
}

func pushOrNil(L *lua.LState, t *lua.LTable) {
	if t == nil {
		L.Push(lua.LNil)
		return
	}
	L.Push(t)
}
