package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/simonhull/firebird-suite/nest/internal/fields"
)

var testTable = fields.Table{
	{Name: "basedir", Kind: fields.String},
	{Name: "configurations", Kind: fields.List, Scope: fields.SolutionScope},
	{Name: "language", Kind: fields.String, Scope: fields.SolutionScope | fields.ProjectScope},
	{Name: "kind", Kind: fields.String, Scope: fields.AnyScope},
	{Name: "defines", Kind: fields.List, Scope: fields.AnyScope},
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(testTable, nil)
	t.Cleanup(e.Close)
	return e
}

func TestRunString_Results(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    string
		present bool
	}{
		{"arithmetic", "return 1+1", "2", true},
		{"true", "return true", "true", true},
		{"false", "return false", "false", true},
		{"string", "return 'Debug'", "Debug", true},
		{"first of many", "return 'a', 'b'", "a", true},
		{"nil", "return nil", "", false},
		{"no return", "local x = 1", "", false},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.RunString(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.present, res.Present)
			assert.Equal(t, tt.want, res.Value)
		})
	}
	assert.Equal(t, 0, e.L.GetTop(), "results must not accumulate on the stack")
}

func TestRunString_ErrorMessageIsStripped(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.RunString("error('boom')")
	require.Error(t, err)

	var scriptErr *Error
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, "boom", scriptErr.Message)

	_, err = e.RunString("local a = 1\nerror('on line two')")
	require.Error(t, err)
	assert.Equal(t, "on line two", err.Error())
}

func TestRunString_SyntaxErrorIsStripped(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.RunString("return +")
	require.Error(t, err)
	assert.Equal(t, "near '+':   syntax error", err.Error())
	assert.Equal(t, 0, e.L.GetTop())
}

func TestChunkName(t *testing.T) {
	assert.Equal(t, `[string "return 1"]`, chunkName("return 1"))
	assert.Equal(t, `[string "a = 1..."]`, chunkName("a = 1\nreturn a"))
	long := "local value = 'a string that is clearly longer than forty characters'"
	assert.Equal(t, `[string "local value = 'a string that is clearly ..."]`, chunkName(long))
}

func TestStripChunkPrefix(t *testing.T) {
	chunk := `[string "x"]`
	assert.Equal(t, "boom", stripChunkPrefix(chunk+":1: boom", chunk))
	assert.Equal(t, "boom", stripChunkPrefix(chunk+":12: boom", chunk))
	assert.Equal(t, "other.lua:3: boom", stripChunkPrefix("other.lua:3: boom", chunk))
	assert.Equal(t, chunk+": boom", stripChunkPrefix(chunk+": boom", chunk))
	assert.Equal(t, "boom", stripChunkPrefix(chunk+":3: boom\n", chunk))
	assert.Equal(t, "near 'x':   syntax error", stripChunkPrefix(chunk+" line:2(column:14) near 'x':   syntax error\n", chunk))
	assert.Equal(t, chunk+" line:x near", stripChunkPrefix(chunk+" line:x near", chunk))
	assert.Equal(t, chunk+" line:2 near", stripChunkPrefix(chunk+" line:2 near", chunk))
}

func TestAction(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, "", e.Action())

	e.SetAction("gmake")
	assert.Equal(t, "gmake", e.Action())

	res, err := e.RunString("return _ACTION")
	require.NoError(t, err)
	assert.Equal(t, "gmake", res.Value)
}

func TestHost_BuildsSolutionTables(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.RunString(`
solution "Game"
  configurations { "Debug", "Release" }
  language "C#"

project "Engine"
  kind "dll"
  defines { "TRACE" }
  files { "src/Main.cs", { "Strings.resx", buildaction = "EmbeddedResource" } }

configuration "Debug"
  defines "DEBUG"
`)
	require.NoError(t, err)

	slns := e.Solutions()
	require.Equal(t, 1, slns.Len())
	sln := slns.RawGetInt(1).(*lua.LTable)
	assert.Equal(t, "Game", lua.LVAsString(sln.RawGetString(KeyName)))

	root := rootBlock(sln)
	cfgs := root.RawGetString("configurations").(*lua.LTable)
	assert.Equal(t, 2, cfgs.Len())
	assert.Equal(t, "C#", lua.LVAsString(root.RawGetString("language")))

	prjs := sln.RawGetString(KeyProjects).(*lua.LTable)
	require.Equal(t, 1, prjs.Len())
	prj := prjs.RawGetInt(1).(*lua.LTable)

	blocks := prj.RawGetString(KeyBlocks).(*lua.LTable)
	require.Equal(t, 2, blocks.Len())
	debug := blocks.RawGetInt(2).(*lua.LTable)
	assert.Equal(t, "Debug", lua.LVAsString(debug.RawGetString(KeyTerms)))
	assert.Equal(t, "DEBUG", lua.LVAsString(debug.RawGetString("defines").(*lua.LTable).RawGetInt(1)))

	files := prj.RawGetString(KeyFiles).(*lua.LTable)
	require.Equal(t, 2, files.Len())
	resx := files.RawGetInt(2).(*lua.LTable)
	assert.Equal(t, "Strings.resx", lua.LVAsString(resx.RawGetString(KeyPath)))
	assert.Equal(t, "EmbeddedResource", lua.LVAsString(resx.RawGetString(KeyBuildAction)))
}

func TestHost_FilePathsUseForwardSlashes(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.RunString(`
solution "Game"
project "Engine"
  files { "src\\Main.cs", { "res\\Strings.resx", buildaction = "EmbeddedResource" } }
`)
	require.NoError(t, err)

	prj := e.Solutions().RawGetInt(1).(*lua.LTable).RawGetString(KeyProjects).(*lua.LTable).RawGetInt(1).(*lua.LTable)
	files := prj.RawGetString(KeyFiles).(*lua.LTable)
	assert.Equal(t, "src/Main.cs", lua.LVAsString(files.RawGetInt(1).(*lua.LTable).RawGetString(KeyPath)))
	assert.Equal(t, "res/Strings.resx", lua.LVAsString(files.RawGetInt(2).(*lua.LTable).RawGetString(KeyPath)))
}

func TestHost_ReopeningIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.RunString(`
solution "Game"
project "Engine"
solution "Game"
project "Engine"
`)
	require.NoError(t, err)
	sln := e.Solutions().RawGetInt(1).(*lua.LTable)
	assert.Equal(t, 1, e.Solutions().Len())
	assert.Equal(t, 1, sln.RawGetString(KeyProjects).(*lua.LTable).Len())
}

func TestHost_Getters(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.RunString(`
solution "Game"
language "C#"
return language()
`)
	require.NoError(t, err)
	assert.Equal(t, "C#", res.Value)

	res, err = e.RunString("return project()")
	require.NoError(t, err)
	assert.False(t, res.Present)
}

func TestHost_Errors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"project without solution", `project "Engine"`, "no active solution"},
		{"field without solution", `kind "dll"`, "no active solution"},
		{"configurations on project", "solution 'S'\nproject 'P'\nconfigurations { 'Debug' }", "'configurations' cannot be set in a project"},
		{"language in configuration", "solution 'S'\nconfiguration 'Debug'\nlanguage 'C#'", "'language' cannot be set in a configuration block"},
		{"files on solution", "solution 'S'\nfiles { 'a.cs' }", "files may only be listed on a project"},
		{"bad list value", "solution 'S'\ndefines { true }", "expected a string or a list of strings"},
		{"solution list replaced", "_SOLUTIONS = nil\nsolution 'S'", "_SOLUTIONS is not a table; solution('S') cannot be declared"},
		{"project list replaced", "local s = solution 'S'\ns.projects = 1\nproject 'P'", "'projects' of 'S' is not a table"},
		{"file list replaced", "solution 'S'\nlocal p = project 'P'\np.files = 'x'\nfiles { 'a.cs' }", "'files' of 'P' is not a table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			_, err := e.RunString(tt.code)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunFile_ResolvesRelativeToScript(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "engine")
	require.NoError(t, os.MkdirAll(sub, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "nest.lua"), []byte(`
solution "Game"
include "engine"
return "done"
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "nest.lua"), []byte(`
project "Engine"
dofile "settings.lua"
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "settings.lua"), []byte(`kind "dll"`), 0644))

	e := newTestEngine(t)
	res, err := e.RunFile(filepath.Join(dir, "nest.lua"))
	require.NoError(t, err)
	assert.Equal(t, "done", res.Value)

	sln := e.Solutions().RawGetInt(1).(*lua.LTable)
	prj := sln.RawGetString(KeyProjects).(*lua.LTable).RawGetInt(1).(*lua.LTable)
	assert.Equal(t, sub, lua.LVAsString(prj.RawGetString(KeyBaseDir)))
	assert.Equal(t, "dll", lua.LVAsString(rootBlock(prj).RawGetString("kind")))
	assert.Empty(t, e.host.scripts, "script stack unwinds after the run")
}

func TestRunFile_Missing(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.RunFile(filepath.Join(t.TempDir(), "missing.lua"))
	require.Error(t, err)

	var scriptErr *Error
	assert.ErrorAs(t, err, &scriptErr)
	assert.Empty(t, e.host.scripts)
}

func TestGetcwd(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.RunString("return os.getcwd()")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(wd), res.Value)
}
