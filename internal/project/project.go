// Package project holds the in-memory build model: solutions, the projects
// they own, per-project configurations and file lists.
//
// The model is created by the session's loader after the script has run and
// is read-only during generation, with two exceptions: a project's current
// configuration filter, and the one-time assignment of default build actions
// to files that have none.
package project

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/simonhull/firebird-suite/nest/internal/fields"
)

// Configuration is a named set of field overrides scoped to one project.
type Configuration struct {
	Name   string
	Fields *fields.Store
}

// Project is a single build unit.
type Project struct {
	Name   string
	Fields *fields.Store

	solution *Solution
	files    []*File
	configs  []*Configuration
	filter   *Configuration
}

// New creates an empty project.
func New(name string) *Project {
	return &Project{
		Name:   name,
		Fields: NewFields(),
	}
}

// Solution returns the owning solution, or nil before the project is added
// to one.
func (p *Project) Solution() *Solution {
	return p.solution
}

// Language returns the project's language tag.
func (p *Project) Language() (string, bool) {
	return p.Fields.Get(Language)
}

// BaseDir is the directory of the script that declared the project.
func (p *Project) BaseDir() string {
	dir, _ := p.Fields.Get(BaseDir)
	return dir
}

// Location is the directory generated project files are written to: the
// location field resolved against BaseDir, or BaseDir itself.
func (p *Project) Location() string {
	return resolveDir(p.BaseDir(), p.Fields)
}

// AddFile appends f to the ordered file list.
func (p *Project) AddFile(f *File) {
	p.files = append(p.files, f)
}

// Files returns the ordered file list.
func (p *Project) Files() []*File {
	return p.files
}

// AssignDefaultActions gives every file without a build action the action
// of the first rule matching its extension.
func (p *Project) AssignDefaultActions(rules []ActionRule) {
	for _, f := range p.files {
		if f.Action() != ActionUnset {
			continue
		}
		for _, r := range rules {
			if r.matches(f.Path) {
				f.AssignAction(r.Action)
				break
			}
		}
	}
}

// AddConfiguration creates (or returns the existing) configuration called name.
func (p *Project) AddConfiguration(name string) *Configuration {
	if cfg, ok := p.Configuration(name); ok {
		return cfg
	}
	cfg := &Configuration{Name: name, Fields: NewFields()}
	p.configs = append(p.configs, cfg)
	return cfg
}

// Configuration looks up a configuration by name.
func (p *Project) Configuration(name string) (*Configuration, bool) {
	for _, cfg := range p.configs {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return nil, false
}

// Configurations returns the project's configurations in declaration order.
func (p *Project) Configurations() []*Configuration {
	return p.configs
}

// SetConfigurationFilter selects the configuration whose overrides Value
// and Values consult. Unknown names are rejected and leave the filter as it was.
func (p *Project) SetConfigurationFilter(name string) error {
	cfg, ok := p.Configuration(name)
	if !ok {
		return fmt.Errorf("project '%s' has no configuration '%s'", p.Name, name)
	}
	p.filter = cfg
	return nil
}

// ClearConfigurationFilter removes the current filter.
func (p *Project) ClearConfigurationFilter() {
	p.filter = nil
}

// ConfigurationName returns the name of the selected configuration, or ""
// when no filter is set.
func (p *Project) ConfigurationName() string {
	if p.filter == nil {
		return ""
	}
	return p.filter.Name
}

// Value returns the single value of a field under the current filter: the
// configuration override if present, otherwise the project value.
func (p *Project) Value(index int) (string, bool) {
	return p.valueIn(p.filter, index)
}

// Values returns the project values of a list field followed by those of
// the current configuration.
func (p *Project) Values(index int) []string {
	return p.valuesIn(p.filter, index)
}

// ValueFor is Value for a named configuration, leaving the filter untouched.
func (p *Project) ValueFor(config string, index int) (string, bool) {
	cfg, _ := p.Configuration(config)
	return p.valueIn(cfg, index)
}

// ValuesFor is Values for a named configuration, leaving the filter untouched.
func (p *Project) ValuesFor(config string, index int) []string {
	cfg, _ := p.Configuration(config)
	return p.valuesIn(cfg, index)
}

// HasFlag reports whether flag is present under the current filter.
func (p *Project) HasFlag(flag string) bool {
	return slices.Contains(p.Values(Flags), flag)
}

func (p *Project) valueIn(cfg *Configuration, index int) (string, bool) {
	if cfg != nil {
		if v, ok := cfg.Fields.Get(index); ok {
			return v, true
		}
	}
	return p.Fields.Get(index)
}

func (p *Project) valuesIn(cfg *Configuration, index int) []string {
	values := p.Fields.Values(index)
	if cfg != nil {
		values = append(values, cfg.Fields.Values(index)...)
	}
	return values
}

func resolveDir(base string, store *fields.Store) string {
	loc, ok := store.Get(Location)
	if !ok || loc == "" {
		return base
	}
	if filepath.IsAbs(loc) {
		return filepath.Clean(loc)
	}
	return filepath.Join(base, loc)
}
