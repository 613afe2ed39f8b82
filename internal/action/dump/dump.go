// Package dump writes a YAML snapshot of the loaded model, one file per
// solution, for inspecting what a script produced.
package dump

import (
	"bytes"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/nest/internal/action"
	"github.com/simonhull/firebird-suite/nest/internal/fields"
	"github.com/simonhull/firebird-suite/nest/internal/project"
	"github.com/simonhull/firebird-suite/nest/internal/session"
)

// Extension is appended to the solution name to form the output file name.
const Extension = ".nest.yml"

// Path is where the snapshot of sln is written.
func Path(sln *project.Solution) string {
	return filepath.Join(sln.Location(), sln.Name+Extension)
}

// Solution is the YAML form of a solution.
type Solution struct {
	Name           string         `yaml:"solution"`
	BaseDir        string         `yaml:"basedir"`
	Configurations []string       `yaml:"configurations,omitempty"`
	Fields         map[string]any `yaml:"fields,omitempty"`
	Projects       []*Project     `yaml:"projects"`
}

// Project is the YAML form of a project.
type Project struct {
	Name           string           `yaml:"name"`
	BaseDir        string           `yaml:"basedir"`
	Location       string           `yaml:"location"`
	Fields         map[string]any   `yaml:"fields,omitempty"`
	Files          []File           `yaml:"files,omitempty"`
	Configurations []*Configuration `yaml:"configurations,omitempty"`
}

// File is the YAML form of a project file.
type File struct {
	Path   string `yaml:"path"`
	Action string `yaml:"action,omitempty"`
}

// Configuration holds the values a project resolves to under one
// configuration.
type Configuration struct {
	Name   string         `yaml:"name"`
	Fields map[string]any `yaml:"fields,omitempty"`
}

// Generator is the dump action.
type Generator struct{}

// New creates the dump generator.
func New() *Generator {
	return &Generator{}
}

func (g *Generator) Name() string {
	return "dump"
}

func (g *Generator) Description() string {
	return "YAML snapshot of the loaded solutions"
}

func (g *Generator) Callbacks(action.Options) session.Callbacks {
	r := &run{}
	return session.Callbacks{
		Solution: []session.SolutionFunc{r.solution},
		Project: []session.ProjectStep{
			session.Invoke(r.beginProject),
			session.ExpandConfigurations,
			session.Invoke(r.endProject),
		},
		Configuration: []session.ProjectFunc{r.configuration},
	}
}

type run struct {
	doc     *Solution
	current *Project
}

func (r *run) solution(s *session.Session, sln *project.Solution, _ session.Stream) error {
	r.doc = &Solution{
		Name:           sln.Name,
		BaseDir:        filepath.ToSlash(sln.BaseDir()),
		Configurations: sln.ConfigurationNames(),
		Fields:         storeValues(sln.Fields, fields.SolutionScope),
		Projects:       []*Project{},
	}
	if _, err := s.OpenStream(Path(sln)); err != nil {
		return err
	}
	if sln.NumProjects() == 0 {
		return r.flush(s.ActiveStream())
	}
	return nil
}

func (r *run) beginProject(_ *session.Session, prj *project.Project, _ session.Stream) error {
	r.current = &Project{
		Name:     prj.Name,
		BaseDir:  filepath.ToSlash(prj.BaseDir()),
		Location: filepath.ToSlash(prj.Location()),
		Fields:   storeValues(prj.Fields, fields.ProjectScope),
	}
	for _, f := range prj.Files() {
		entry := File{Path: f.Path}
		if f.Action() != project.ActionUnset {
			entry.Action = f.Action().String()
		}
		r.current.Files = append(r.current.Files, entry)
	}
	r.doc.Projects = append(r.doc.Projects, r.current)
	return nil
}

// configuration records the values the project resolves to under the
// current configuration filter.
func (r *run) configuration(_ *session.Session, prj *project.Project, _ session.Stream) error {
	values := make(map[string]any)
	for i, info := range project.FieldTable {
		if !info.Scope.Has(fields.ConfigurationScope) {
			continue
		}
		if info.Kind == fields.List {
			if v := prj.Values(i); len(v) > 0 {
				values[info.Name] = v
			}
			continue
		}
		if v, ok := prj.Value(i); ok {
			values[info.Name] = v
		}
	}
	r.current.Configurations = append(r.current.Configurations, &Configuration{
		Name:   prj.ConfigurationName(),
		Fields: values,
	})
	return nil
}

// endProject writes the document once the solution's last project is done.
func (r *run) endProject(_ *session.Session, prj *project.Project, strm session.Stream) error {
	sln := prj.Solution()
	if sln == nil || sln.Project(sln.NumProjects()-1) != prj {
		return nil
	}
	return r.flush(strm)
}

func (r *run) flush(strm session.Stream) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r.doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	strm.WriteString(buf.String())
	return nil
}

// storeValues returns the fields of store that are assignable at scope,
// keyed by field name.
func storeValues(store *fields.Store, scope fields.Scope) map[string]any {
	values := make(map[string]any)
	for i := 0; i < store.Len(); i++ {
		info := store.Info(i)
		if !info.Scope.Has(scope) || !store.IsSet(i) {
			continue
		}
		if info.Kind == fields.List {
			values[info.Name] = store.Values(i)
			continue
		}
		v, _ := store.Get(i)
		values[info.Name] = v
	}
	return values
}
