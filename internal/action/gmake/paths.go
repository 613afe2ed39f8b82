package gmake

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/firebird-suite/nest/internal/pathutil"
	"github.com/simonhull/firebird-suite/nest/internal/project"
)

// MakefilePath is where a project's makefile goes: Makefile when the project
// has its location to itself, <name>.make when it shares it with the
// solution or a sibling.
func MakefilePath(prj *project.Project) string {
	if ownsPath(prj) {
		return filepath.Join(prj.Location(), "Makefile")
	}
	return filepath.Join(prj.Location(), pathutil.Join("", prj.Name, "make"))
}

// SolutionMakefilePath is where the solution makefile goes.
func SolutionMakefilePath(sln *project.Solution) string {
	return filepath.Join(sln.Location(), "Makefile")
}

func ownsPath(prj *project.Project) bool {
	sln := prj.Solution()
	if sln == nil {
		return true
	}
	loc := prj.Location()
	if sln.Location() == loc {
		return false
	}
	for _, other := range sln.Projects() {
		if other != prj && other.Location() == loc {
			return false
		}
	}
	return true
}

type kindInfo struct {
	flag        string
	description string
	ext         string
}

var kinds = map[string]kindInfo{
	"exe":    {flag: "exe", description: "Console Executable", ext: "exe"},
	"winexe": {flag: "winexe", description: "Windowed Executable", ext: "exe"},
	"dll":    {flag: "library", description: "Shared Library", ext: "dll"},
	"aspnet": {flag: "library", description: "ASP.NET", ext: "dll"},
}

func kindOf(prj *project.Project) (kindInfo, error) {
	kind, _ := prj.ValueFor(firstConfig(prj), project.Kind)
	k, ok := kinds[kind]
	if !ok {
		return kindInfo{}, fmt.Errorf("unknown project kind '%s'", kind)
	}
	return k, nil
}

// firstConfig names the configuration whose values stand for the whole
// project where make has no per-configuration equivalent.
func firstConfig(prj *project.Project) string {
	if cfgs := prj.Configurations(); len(cfgs) > 0 {
		return cfgs[0].Name
	}
	return ""
}

// targetName is the file name of the project's output assembly.
func targetName(prj *project.Project) (string, error) {
	k, err := kindOf(prj)
	if err != nil {
		return "", err
	}
	target, ok := prj.ValueFor(firstConfig(prj), project.Target)
	if !ok || target == "" {
		target = prj.Name
	}
	return pathutil.Join("", pathutil.Name(target), k.ext), nil
}

// rebase makes a path written relative to the project script relative to the
// directory the makefile lives in.
func rebase(prj *project.Project, p string) string {
	if filepath.IsAbs(p) {
		return filepath.ToSlash(p)
	}
	return pathutil.Rel(prj.Location(), filepath.Join(prj.BaseDir(), p))
}

func binValue(prj *project.Project, cfg string) string {
	if dir, ok := prj.ValueFor(cfg, project.BinDir); ok && dir != "" {
		return dir
	}
	return "."
}

func binDir(prj *project.Project, cfg string) string {
	return rebase(prj, binValue(prj, cfg))
}

func objDir(prj *project.Project) string {
	dir, ok := prj.ValueFor(firstConfig(prj), project.ObjDir)
	if !ok || dir == "" {
		dir = "obj"
	}
	return rebase(prj, dir)
}

func sibling(prj *project.Project, name string) (*project.Project, bool) {
	sln := prj.Solution()
	if sln == nil {
		return nil, false
	}
	return sln.FindProject(name)
}

// siblingTarget is the path of a sibling's output for cfg, relative to prj's
// makefile.
func siblingTarget(prj, sib *project.Project, cfg string) (string, error) {
	name, err := targetName(sib)
	if err != nil {
		return "", fmt.Errorf("reference from '%s': %w", prj.Name, err)
	}
	dir := binValue(sib, cfg)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(sib.BaseDir(), dir)
	}
	return pathutil.Rel(prj.Location(), filepath.Join(dir, name)), nil
}

// localAssembly looks for <libdir>/<name>.dll under the project's base
// directory and returns its makefile-relative path.
func localAssembly(prj *project.Project, name string) (string, bool) {
	for _, dir := range prj.ValuesFor(firstConfig(prj), project.LibDirs) {
		candidate := pathutil.Join(dir, name, "dll")
		full := candidate
		if !filepath.IsAbs(full) {
			full = filepath.Join(prj.BaseDir(), candidate)
		}
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			return rebase(prj, candidate), true
		}
	}
	return "", false
}
