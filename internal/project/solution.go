package project

import (
	"github.com/simonhull/firebird-suite/nest/internal/fields"
)

// Solution is an ordered collection of projects sharing one list of
// configuration names.
type Solution struct {
	Name string

	// Fields holds the solution-scope values. Everything except
	// configurations and location has already been cascaded into each
	// project by the loader.
	Fields *fields.Store

	projects []*Project
}

// NewSolution creates an empty solution.
func NewSolution(name string) *Solution {
	return &Solution{
		Name:   name,
		Fields: NewFields(),
	}
}

// AddProject appends p and makes this solution its owner.
func (s *Solution) AddProject(p *Project) {
	p.solution = s
	s.projects = append(s.projects, p)
}

// Projects returns the projects in insertion order.
func (s *Solution) Projects() []*Project {
	return s.projects
}

// NumProjects returns the number of projects.
func (s *Solution) NumProjects() int {
	return len(s.projects)
}

// Project returns the project at index.
func (s *Solution) Project(index int) *Project {
	return s.projects[index]
}

// FindProject returns the sibling project called name.
func (s *Solution) FindProject(name string) (*Project, bool) {
	for _, p := range s.projects {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// ConfigurationNames returns the configuration names in declaration order.
func (s *Solution) ConfigurationNames() []string {
	return s.Fields.Values(Configurations)
}

// BaseDir is the directory of the script that declared the solution.
func (s *Solution) BaseDir() string {
	dir, _ := s.Fields.Get(BaseDir)
	return dir
}

// Location is where solution-level files are written.
func (s *Solution) Location() string {
	return resolveDir(s.BaseDir(), s.Fields)
}
