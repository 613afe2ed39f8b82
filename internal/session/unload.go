package session

import (
	"fmt"
	"slices"

	lua "github.com/yuin/gopher-lua"

	"github.com/simonhull/firebird-suite/nest/internal/fields"
	"github.com/simonhull/firebird-suite/nest/internal/logger"
	"github.com/simonhull/firebird-suite/nest/internal/project"
	"github.com/simonhull/firebird-suite/nest/internal/script"
)

// Unload copies the solutions built by the script into the session.
//
// Values cascade: a project starts from its solution's root block, then
// applies its own root block. Each project gets one configuration per
// solution configuration name, filled from the solution's blocks for that
// name and then the project's. Blocks naming an undeclared configuration
// are skipped.
func (s *Session) Unload() error {
	list := s.engine.Solutions()
	for i := 1; i <= list.Len(); i++ {
		tbl, ok := list.RawGetInt(i).(*lua.LTable)
		if !ok {
			return s.newError(KindLoader, fmt.Errorf("solution list entry %d is a %s, not a table", i, list.RawGetInt(i).Type()))
		}
		sln, err := s.unloadSolution(tbl)
		if err != nil {
			return s.newError(KindLoader, err)
		}
		s.AddSolution(sln)
	}
	return nil
}

type block struct {
	terms string
	tbl   *lua.LTable
}

func (s *Session) unloadSolution(tbl *lua.LTable) (*project.Solution, error) {
	sln := project.NewSolution(lua.LVAsString(tbl.RawGetString(script.KeyName)))
	sln.Fields.Set(project.BaseDir, lua.LVAsString(tbl.RawGetString(script.KeyBaseDir)))

	blocks, err := readBlocks(tbl)
	if err != nil {
		return nil, fmt.Errorf("solution '%s': %w", sln.Name, err)
	}
	if err := copyBlock(sln.Fields, blocks[0].tbl, allFields); err != nil {
		return nil, fmt.Errorf("solution '%s': %w", sln.Name, err)
	}

	log := s.log.WithFields(logger.F("solution", sln.Name))
	warnUnknownTerms(log, sln.ConfigurationNames(), blocks[1:])

	projects, _ := tbl.RawGetString(script.KeyProjects).(*lua.LTable)
	if projects == nil {
		return sln, nil
	}
	for i := 1; i <= projects.Len(); i++ {
		ptbl, ok := projects.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("solution '%s': project entry %d is not a table", sln.Name, i)
		}
		prj, err := s.unloadProject(sln, blocks, ptbl)
		if err != nil {
			return nil, fmt.Errorf("project '%s': %w", lua.LVAsString(ptbl.RawGetString(script.KeyName)), err)
		}
		sln.AddProject(prj)
	}

	log.Debug("loaded solution", logger.F("projects", sln.NumProjects()))
	return sln, nil
}

func (s *Session) unloadProject(sln *project.Solution, slnBlocks []block, tbl *lua.LTable) (*project.Project, error) {
	prj := project.New(lua.LVAsString(tbl.RawGetString(script.KeyName)))
	prj.Fields.Set(project.BaseDir, lua.LVAsString(tbl.RawGetString(script.KeyBaseDir)))

	blocks, err := readBlocks(tbl)
	if err != nil {
		return nil, err
	}

	if err := copyBlock(prj.Fields, slnBlocks[0].tbl, cascades); err != nil {
		return nil, err
	}
	if err := copyBlock(prj.Fields, blocks[0].tbl, allFields); err != nil {
		return nil, err
	}

	names := sln.ConfigurationNames()
	for _, name := range names {
		cfg := prj.AddConfiguration(name)
		for _, group := range [][]block{slnBlocks[1:], blocks[1:]} {
			for _, b := range group {
				if b.terms != name {
					continue
				}
				if err := copyBlock(cfg.Fields, b.tbl, allFields); err != nil {
					return nil, fmt.Errorf("configuration '%s': %w", name, err)
				}
			}
		}
	}
	warnUnknownTerms(s.log.WithFields(logger.F("project", prj.Name)), names, blocks[1:])

	if err := unloadFiles(prj, tbl); err != nil {
		return nil, err
	}
	return prj, nil
}

func unloadFiles(prj *project.Project, tbl *lua.LTable) error {
	files, _ := tbl.RawGetString(script.KeyFiles).(*lua.LTable)
	if files == nil {
		return nil
	}
	for i := 1; i <= files.Len(); i++ {
		entry, ok := files.RawGetInt(i).(*lua.LTable)
		if !ok {
			return fmt.Errorf("file entry %d is not a table", i)
		}
		path := lua.LVAsString(entry.RawGetString(script.KeyPath))
		action, err := project.ParseBuildAction(lua.LVAsString(entry.RawGetString(script.KeyBuildAction)))
		if err != nil {
			return fmt.Errorf("file '%s': %w", path, err)
		}
		prj.AddFile(project.NewFile(path, action))
	}
	return nil
}

func readBlocks(tbl *lua.LTable) ([]block, error) {
	list, ok := tbl.RawGetString(script.KeyBlocks).(*lua.LTable)
	if !ok || list.Len() == 0 {
		return nil, fmt.Errorf("missing root settings block")
	}
	out := make([]block, 0, list.Len())
	for i := 1; i <= list.Len(); i++ {
		b, ok := list.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("settings block %d is not a table", i)
		}
		out = append(out, block{terms: lua.LVAsString(b.RawGetString(script.KeyTerms)), tbl: b})
	}
	return out, nil
}

// allFields selects every script-assignable field.
func allFields(info fields.Info) bool {
	return info.Scope != 0
}

// cascades selects the solution fields a project inherits. A solution's
// location and configuration list stay with the solution.
func cascades(info fields.Info) bool {
	return info.Scope.Has(fields.ProjectScope) && info.Name != project.FieldTable[project.Location].Name
}

// copyBlock applies the selected fields of a script block to store. String
// fields replace the current value and list fields append.
func copyBlock(store *fields.Store, tbl *lua.LTable, include func(fields.Info) bool) error {
	for i := 0; i < store.Len(); i++ {
		info := store.Info(i)
		if !include(info) {
			continue
		}
		switch v := tbl.RawGetString(info.Name).(type) {
		case *lua.LNilType:
		case lua.LString:
			if info.Kind == fields.List {
				store.Add(i, string(v))
			} else {
				store.Set(i, string(v))
			}
		case *lua.LTable:
			if info.Kind != fields.List {
				return fmt.Errorf("field '%s' expects a single value, got a list", info.Name)
			}
			for j := 1; j <= v.Len(); j++ {
				store.Add(i, lua.LVAsString(v.RawGetInt(j)))
			}
		default:
			return fmt.Errorf("field '%s' has unsupported value type %s", info.Name, v.Type())
		}
	}
	return nil
}

func warnUnknownTerms(log logger.Logger, names []string, blocks []block) {
	for _, b := range blocks {
		if !slices.Contains(names, b.terms) {
			log.Debug("ignoring settings for undeclared configuration", logger.F("configuration", b.terms))
		}
	}
}
