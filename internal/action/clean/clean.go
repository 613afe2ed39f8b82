// Package clean removes the files the other actions generate.
package clean

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/simonhull/firebird-suite/nest/internal/action"
	"github.com/simonhull/firebird-suite/nest/internal/action/dump"
	"github.com/simonhull/firebird-suite/nest/internal/action/gmake"
	"github.com/simonhull/firebird-suite/nest/internal/logger"
	"github.com/simonhull/firebird-suite/nest/internal/project"
	"github.com/simonhull/firebird-suite/nest/internal/session"
)

// Generator is the clean action.
type Generator struct{}

// New creates the clean action.
func New() *Generator {
	return &Generator{}
}

func (g *Generator) Name() string {
	return "clean"
}

func (g *Generator) Description() string {
	return "Remove generated makefiles and snapshots"
}

func (g *Generator) Callbacks(action.Options) session.Callbacks {
	return session.Callbacks{
		Solution: []session.SolutionFunc{cleanSolution},
		Project:  []session.ProjectStep{session.Invoke(cleanProject)},
	}
}

func cleanSolution(s *session.Session, sln *project.Solution, _ session.Stream) error {
	for _, path := range []string{gmake.SolutionMakefilePath(sln), dump.Path(sln)} {
		if err := remove(s.Logger(), path); err != nil {
			return err
		}
	}
	return nil
}

func cleanProject(s *session.Session, prj *project.Project, _ session.Stream) error {
	return remove(s.Logger(), gmake.MakefilePath(prj))
}

// remove deletes path; a file that is already gone is not an error.
func remove(log logger.Logger, path string) error {
	err := os.Remove(path)
	switch {
	case err == nil:
		log.Info("removed", logger.F("path", path))
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("cannot remove %s: %w", path, err)
	}
}
