package gmake

import (
	"path/filepath"
	"slices"

	"github.com/simonhull/firebird-suite/nest/internal/logger"
	"github.com/simonhull/firebird-suite/nest/internal/pathutil"
	"github.com/simonhull/firebird-suite/nest/internal/project"
	"github.com/simonhull/firebird-suite/nest/internal/session"
)

type solutionData struct {
	Script        string
	DefaultConfig string
	Projects      []solutionProject
}

type solutionProject struct {
	Name string
	Dir  string
	File string
	Deps []string
}

// solution resolves the toolset for the run and writes the solution
// makefile, which builds every project in dependency order.
func (r *run) solution(s *session.Session, sln *project.Solution, _ session.Stream) error {
	tools, err := ResolveToolset(r.opts.DotNet, r.opts.TargetOS())
	if err != nil {
		return err
	}
	r.tools = tools

	data := solutionData{Script: r.opts.ScriptName()}
	if names := sln.ConfigurationNames(); len(names) > 0 {
		data.DefaultConfig = names[0]
	}
	for _, prj := range sln.Projects() {
		var deps []string
		for _, link := range prj.ValuesFor(firstConfig(prj), project.Links) {
			if _, ok := sln.FindProject(link); ok && !slices.Contains(deps, link) {
				deps = append(deps, link)
			}
		}
		path := MakefilePath(prj)
		data.Projects = append(data.Projects, solutionProject{
			Name: prj.Name,
			Dir:  pathutil.Rel(sln.Location(), filepath.Dir(path)),
			File: filepath.Base(path),
			Deps: deps,
		})
	}

	out, err := r.render("solution", data)
	if err != nil {
		return err
	}

	path := SolutionMakefilePath(sln)
	s.Logger().Debug("writing solution makefile", logger.F("solution", sln.Name), logger.F("path", path))
	strm, err := s.OpenStream(path)
	if err != nil {
		return err
	}
	strm.WriteString(out)
	return nil
}
