package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/nest/internal/logger"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "nest.lua", cfg.Script)
	assert.Equal(t, "", cfg.DotNet)
	assert.Equal(t, "", cfg.OS)
	assert.Equal(t, "", cfg.File)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, logger.LevelInfo, level)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nest.yml"), []byte(`
script: build/game.lua
dotnet: mono2
os: windows
log:
  level: debug
`), 0644))

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "build/game.lua", cfg.Script)
	assert.Equal(t, "mono2", cfg.DotNet)
	assert.Equal(t, "windows", cfg.OS)
	assert.Equal(t, filepath.Join(dir, "nest.yml"), cfg.File)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, logger.LevelDebug, level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nest.yml"), []byte("dotnet: mono\n"), 0644))
	t.Setenv("NEST_DOTNET", "pnet")
	t.Setenv("NEST_LOG_LEVEL", "warn")

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "pnet", cfg.DotNet)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ci.yml")
	require.NoError(t, os.WriteFile(path, []byte("dotnet: ms\n"), 0644))

	cfg, err := Load(".", path)
	require.NoError(t, err)
	assert.Equal(t, "ms", cfg.DotNet)

	_, err = Load(".", filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "nest.yml"), []byte("dotnet: [unclosed\n"), 0644))
		_, err := Load(dir, "")
		assert.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "nest.yml"), []byte("log:\n  level: loud\n"), 0644))
		_, err := Load(dir, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loud")
	})
}
