// Package app runs the generation pipeline: execute the script, load and
// validate the model, then hand it to the generator for the action.
package app

import (
	"fmt"

	"github.com/simonhull/firebird-suite/nest/internal/action"
	"github.com/simonhull/firebird-suite/nest/internal/action/clean"
	"github.com/simonhull/firebird-suite/nest/internal/action/dump"
	"github.com/simonhull/firebird-suite/nest/internal/action/gmake"
	"github.com/simonhull/firebird-suite/nest/internal/logger"
	"github.com/simonhull/firebird-suite/nest/internal/script"
	"github.com/simonhull/firebird-suite/nest/internal/session"
)

// Config is everything a single run needs.
type Config struct {
	Script string
	Action string
	DotNet string
	OS     string
}

// App holds the dependencies shared by runs.
type App struct {
	log      logger.Logger
	registry *action.Registry
}

// DefaultRegistry returns a registry with every built-in action.
func DefaultRegistry() *action.Registry {
	reg := action.NewRegistry()
	for _, g := range []action.Generator{gmake.New(), dump.New(), clean.New()} {
		if err := reg.Register(g); err != nil {
			panic(err)
		}
	}
	return reg
}

// New creates an App. A nil registry selects DefaultRegistry.
func New(log logger.Logger, reg *action.Registry) *App {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &App{log: log, registry: reg}
}

// Registry returns the action registry.
func (a *App) Registry() *action.Registry {
	return a.registry
}

// Generate runs the whole pipeline for cfg.Action.
func (a *App) Generate(cfg Config) (err error) {
	if cfg.Action == "" {
		return &session.Error{Kind: session.KindTraversal, Err: fmt.Errorf("no action given")}
	}
	if !a.registry.Has(cfg.Action) {
		return &session.Error{Kind: session.KindTraversal, Action: cfg.Action, Err: fmt.Errorf("unknown action '%s'", cfg.Action)}
	}

	log := a.log.WithFields(logger.F("action", cfg.Action))
	sess := session.New(session.WithLogger(log))
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	sess.SetAction(cfg.Action)

	log.Debug("running script", logger.F("script", cfg.Script))
	if _, err := sess.RunFile(cfg.Script); err != nil {
		return err
	}

	if err := sess.Unload(); err != nil {
		return err
	}
	log.Debug("model loaded", logger.F("solutions", sess.NumSolutions()))
	for _, sln := range sess.Solutions() {
		log.Debug("loaded solution", logger.F("solution", sln.Name), logger.F("projects", sln.NumProjects()))
	}

	if err := sess.Validate(); err != nil {
		return err
	}

	return a.registry.Run(sess, action.Options{
		DotNet: cfg.DotNet,
		OS:     cfg.OS,
		Script: cfg.Script,
	})
}

// Eval runs inline code in a fresh session and returns its result.
func (a *App) Eval(code string) (script.Result, error) {
	sess := session.New(session.WithLogger(a.log))
	defer sess.Close()
	return sess.RunString(code)
}
