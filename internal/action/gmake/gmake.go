// Package gmake generates GNU makefiles for C# solutions: one makefile per
// solution that drives one makefile per project.
package gmake

import (
	"embed"
	"fmt"
	"strings"

	"github.com/simonhull/firebird-suite/nest/internal/action"
	"github.com/simonhull/firebird-suite/nest/internal/logger"
	"github.com/simonhull/firebird-suite/nest/internal/project"
	"github.com/simonhull/firebird-suite/nest/internal/render"
	"github.com/simonhull/firebird-suite/nest/internal/session"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Generator is the gmake action.
type Generator struct {
	renderer *render.Renderer
}

// New creates the gmake generator.
func New() *Generator {
	return &Generator{renderer: render.NewRenderer()}
}

func (g *Generator) Name() string {
	return "gmake"
}

func (g *Generator) Description() string {
	return "GNU makefiles for C# projects"
}

// Callbacks wires one run of the generator. The solution callback writes the
// solution makefile; the project steps write the project makefile around
// the per-configuration blocks.
func (g *Generator) Callbacks(opts action.Options) session.Callbacks {
	r := &run{opts: opts, renderer: g.renderer}
	return session.Callbacks{
		Solution: []session.SolutionFunc{r.solution},
		Project: []session.ProjectStep{
			session.Invoke(r.open),
			session.Invoke(r.header),
			session.ExpandConfigurations,
			session.Invoke(r.fileLists),
			session.Invoke(r.rules),
		},
		Configuration: []session.ProjectFunc{r.configuration},
	}
}

// run carries the state of one generation pass.
type run struct {
	opts     action.Options
	renderer *render.Renderer
	tools    Toolset
}

// Toolset names the external programs a makefile invokes.
type Toolset struct {
	CSC    string
	ResGen string
}

// ResolveToolset picks the C# compiler for a .NET flavour. An empty flavour
// selects csc on Windows and mcs elsewhere.
func ResolveToolset(dotnet, goos string) (Toolset, error) {
	switch strings.ToLower(dotnet) {
	case "":
		if goos == "windows" {
			return Toolset{CSC: "csc", ResGen: "resgen"}, nil
		}
		return Toolset{CSC: "mcs", ResGen: "resgen"}, nil
	case "ms":
		return Toolset{CSC: "csc", ResGen: "resgen"}, nil
	case "pnet":
		return Toolset{CSC: "cscc", ResGen: "resgen"}, nil
	case "mono":
		return Toolset{CSC: "mcs", ResGen: "resgen"}, nil
	case "mono2":
		return Toolset{CSC: "gmcs", ResGen: "resgen"}, nil
	default:
		return Toolset{}, fmt.Errorf("unknown .NET runtime '%s'", dotnet)
	}
}

func (r *run) render(name string, data any) (string, error) {
	out, err := r.renderer.RenderFS(templates, "templates/"+name+".tmpl", data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// open checks that the project can be built by make and makes its makefile
// the active stream.
func (r *run) open(s *session.Session, prj *project.Project, _ session.Stream) error {
	if lang, _ := prj.Language(); !strings.EqualFold(lang, "c#") {
		return fmt.Errorf("project '%s' uses language '%s'; gmake only supports C#", prj.Name, lang)
	}
	if _, err := kindOf(prj); err != nil {
		return err
	}

	prj.AssignDefaultActions(project.DefaultActionRules)

	path := MakefilePath(prj)
	s.Logger().Debug("writing project makefile", logger.F("project", prj.Name), logger.F("path", path))
	_, err := s.OpenStream(path)
	return err
}

type headerData struct {
	Description   string
	Script        string
	DefaultConfig string
	CSC           string
	ResGen        string
	ObjDir        string
}

func (r *run) header(_ *session.Session, prj *project.Project, strm session.Stream) error {
	k, err := kindOf(prj)
	if err != nil {
		return err
	}
	out, err := r.render("header", headerData{
		Description:   k.description,
		Script:        r.opts.ScriptName(),
		DefaultConfig: firstConfig(prj),
		CSC:           r.tools.CSC,
		ResGen:        r.tools.ResGen,
		ObjDir:        objDir(prj),
	})
	if err != nil {
		return err
	}
	strm.WriteString(out)
	return nil
}

type configData struct {
	Name   string
	BinDir string
	OutDir string
	Kind   string
	Flags  []string
	Deps   []string
	Target string
}

// configuration writes the ifeq block for the project's current
// configuration.
func (r *run) configuration(_ *session.Session, prj *project.Project, strm session.Stream) error {
	k, err := kindOf(prj)
	if err != nil {
		return err
	}
	cfg := prj.ConfigurationName()
	first := firstConfig(prj)

	var flags []string
	if !prj.HasFlag("no-symbols") {
		flags = append(flags, "/debug")
	}
	if (prj.HasFlag("optimize") || prj.HasFlag("optimize-size") || prj.HasFlag("optimize-speed")) && r.tools.CSC != "mcs" {
		flags = append(flags, "/optimize")
	}
	if prj.HasFlag("unsafe") {
		flags = append(flags, "/unsafe")
	}
	if prj.HasFlag("fatal-warnings") {
		flags = append(flags, "/warnaserror")
	}
	for _, d := range prj.Values(project.Defines) {
		flags = append(flags, "/d:"+d)
	}

	// Link paths and external references come from the first configuration.
	for _, dir := range prj.ValuesFor(first, project.LibDirs) {
		flags = append(flags, fmt.Sprintf(`/lib:"%s"`, rebase(prj, dir)))
	}
	for _, link := range prj.ValuesFor(first, project.Links) {
		if _, ok := sibling(prj, link); !ok {
			flags = append(flags, "/r:"+link+".dll")
		}
	}

	var deps []string
	for _, link := range prj.Values(project.Links) {
		sib, ok := sibling(prj, link)
		if !ok {
			continue
		}
		path, err := siblingTarget(prj, sib, cfg)
		if err != nil {
			return err
		}
		if lang, _ := sib.Language(); strings.EqualFold(lang, "c#") {
			flags = append(flags, "/r:"+path)
		}
		deps = append(deps, path)
	}

	target, err := targetName(prj)
	if err != nil {
		return err
	}
	bin := binDir(prj, cfg)
	out, err := r.render("config", configData{
		Name:   cfg,
		BinDir: bin,
		OutDir: bin,
		Kind:   k.flag,
		Flags:  flags,
		Deps:   deps,
		Target: target,
	})
	if err != nil {
		return err
	}
	strm.WriteString(out)
	return nil
}
