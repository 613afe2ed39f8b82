package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/nest"
	"github.com/simonhull/firebird-suite/nest/internal/app"
	"github.com/simonhull/firebird-suite/nest/internal/output"
	"github.com/simonhull/firebird-suite/nest/internal/session"
)

func newRoot() *cobra.Command {
	root := RootCmd()
	reg := app.DefaultRegistry()
	root.AddCommand(GenerateCmd(reg))
	root.AddCommand(ActionsCmd(reg))
	root.AddCommand(EvalCmd())
	root.AddCommand(VersionCmd())
	return root
}

// execute runs the CLI from dir and returns what it wrote to stdout.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var out, errOut, status bytes.Buffer
	output.SetOutput(&status)
	t.Cleanup(func() { output.SetOutput(nil) })

	root := newRoot()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

const gameScript = `
solution "Game"
  configurations { "Debug", "Release" }
  language "C#"
project "Engine"
  kind "dll"
  files { "Main.cs" }
`

func TestEval(t *testing.T) {
	out, err := execute(t, t.TempDir(), "eval", "return", "1+1")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = execute(t, t.TempDir(), "eval", "return nil")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = execute(t, t.TempDir(), "eval", "error('boom')")
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
}

func TestActions(t *testing.T) {
	out, err := execute(t, t.TempDir(), "actions")
	require.NoError(t, err)
	assert.Contains(t, out, "clean")
	assert.Contains(t, out, "dump")
	assert.Contains(t, out, "gmake")
}

func TestGenerate_Gmake(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nest.lua"), []byte(gameScript), 0644))

	_, err := execute(t, dir, "generate", "gmake", "--dotnet", "mono")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "Makefile"))
	assert.FileExists(t, filepath.Join(dir, "Engine.make"))

	_, err = execute(t, dir, "generate", "clean")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "Makefile"))
	assert.NoFileExists(t, filepath.Join(dir, "Engine.make"))
}

func TestGenerate_FileFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nest.yml"), []byte("script: missing.lua\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.lua"), []byte(gameScript), 0644))

	_, err := execute(t, dir, "generate", "dump")
	require.Error(t, err)
	assert.True(t, session.IsKind(err, session.KindScript))

	_, err = execute(t, dir, "generate", "dump", "-f", "build.lua")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "Game.nest.yml"))
}

func TestGenerate_BadDotNet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nest.lua"), []byte(gameScript), 0644))

	_, err := execute(t, dir, "generate", "gmake", "--dotnet", "rotor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown .NET runtime 'rotor'")
}

func TestGenerate_BadConfig(t *testing.T) {
	_, err := execute(t, t.TempDir(), "generate", "gmake", "--config", "nowhere.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestGenerate_UnknownAction(t *testing.T) {
	_, err := execute(t, t.TempDir(), "generate", "xcode")
	require.Error(t, err)
	assert.Equal(t, "xcode: unknown action 'xcode'", err.Error())
}

func TestGenerate_RequiresAction(t *testing.T) {
	_, err := execute(t, t.TempDir(), "generate")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "nest "+nest.Version+"\n", out)
}
