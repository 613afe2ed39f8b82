package action

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/simonhull/firebird-suite/nest/internal/logger"
	"github.com/simonhull/firebird-suite/nest/internal/script"
)

// TargetOS returns the configured OS, or the host OS when unset.
func (o Options) TargetOS() string {
	if o.OS == "" {
		return runtime.GOOS
	}
	return strings.ToLower(o.OS)
}

// ScriptName returns the base name of the script, or the default name.
func (o Options) ScriptName() string {
	if o.Script == "" {
		return script.DefaultScript
	}
	return filepath.Base(o.Script)
}

func logFields(name string, opts Options) []logger.Field {
	return []logger.Field{
		logger.F("action", name),
		logger.F("dotnet", opts.DotNet),
		logger.F("os", opts.TargetOS()),
	}
}
