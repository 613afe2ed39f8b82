package session

import (
	"github.com/simonhull/firebird-suite/nest/internal/logger"
	"github.com/simonhull/firebird-suite/nest/internal/project"
)

// SolutionFunc is a solution-level generator callback.
type SolutionFunc func(s *Session, sln *project.Solution, strm Stream) error

// ProjectFunc is a project- or configuration-level generator callback.
// Configuration callbacks see the project with its configuration filter set.
type ProjectFunc func(s *Session, prj *project.Project, strm Stream) error

// ProjectStep is one entry in a project callback list: either a callback to
// invoke, or the point where configuration callbacks are expanded.
type ProjectStep struct {
	fn     ProjectFunc
	expand bool
}

// Invoke wraps fn as a project step. A step with a nil fn is skipped.
func Invoke(fn ProjectFunc) ProjectStep {
	return ProjectStep{fn: fn}
}

// ExpandConfigurations marks where the configuration callbacks run, once per
// solution configuration.
var ExpandConfigurations = ProjectStep{expand: true}

// Callbacks are the three callback lists a generator supplies.
type Callbacks struct {
	Solution      []SolutionFunc
	Project       []ProjectStep
	Configuration []ProjectFunc
}

// Enumerate walks solutions, then their projects, then (at each expansion
// step) the solution's configurations, calling cb at each tier. The first
// callback error stops the walk. The active stream is released exactly once
// on the way out; its close error is reported only if the walk succeeded.
func (s *Session) Enumerate(cb Callbacks) (err error) {
	defer func() {
		if cerr := s.releaseStream(); cerr != nil && err == nil {
			err = s.newError(KindTraversal, cerr)
		}
	}()

	for _, sln := range s.solutions {
		if err := s.enumerateSolution(sln, cb); err != nil {
			return s.newError(KindTraversal, err)
		}
	}
	return nil
}

func (s *Session) enumerateSolution(sln *project.Solution, cb Callbacks) error {
	log := s.log.WithFields(logger.F("solution", sln.Name))
	log.Debug("enumerating solution")

	for _, fn := range cb.Solution {
		if err := fn(s, sln, s.active); err != nil {
			return err
		}
	}

	for _, prj := range sln.Projects() {
		for _, step := range cb.Project {
			if !step.expand {
				if step.fn == nil {
					continue
				}
				if err := step.fn(s, prj, s.active); err != nil {
					return err
				}
				continue
			}
			if err := s.enumerateConfigurations(sln, prj, cb.Configuration); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) enumerateConfigurations(sln *project.Solution, prj *project.Project, fns []ProjectFunc) error {
	defer prj.ClearConfigurationFilter()

	for _, name := range sln.ConfigurationNames() {
		if err := prj.SetConfigurationFilter(name); err != nil {
			return err
		}
		for _, fn := range fns {
			if err := fn(s, prj, s.active); err != nil {
				return err
			}
		}
	}
	return nil
}
