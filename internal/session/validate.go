package session

import "fmt"

// Validate checks that every solution has a project and every project has a
// language, stopping at the first violation.
func (s *Session) Validate() error {
	for _, sln := range s.solutions {
		if sln.NumProjects() == 0 {
			return s.newError(KindValidation, fmt.Errorf("no projects defined for solution '%s'", sln.Name))
		}
		for _, prj := range sln.Projects() {
			if _, ok := prj.Language(); !ok {
				return s.newError(KindValidation, fmt.Errorf("no language defined for project '%s'", prj.Name))
			}
		}
	}
	return nil
}
