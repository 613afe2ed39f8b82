// Package action maps action names to generators and runs the selected
// generator over a loaded session.
package action

import (
	"fmt"
	"sort"
	"sync"

	"github.com/simonhull/firebird-suite/nest/internal/session"
)

// Options are the command-line choices that affect generated output but
// not the traversal.
type Options struct {
	// DotNet selects the C# toolchain: ms, pnet, mono or mono2. Empty picks
	// the default for OS.
	DotNet string
	// OS is the target operating system, in GOOS form.
	OS string
	// Script is the script file name quoted in generated headers.
	Script string
}

// Generator is one output back-end.
type Generator interface {
	// Name is the action name that selects the generator.
	Name() string
	// Description is a one-line summary for listings.
	Description() string
	// Callbacks returns the callback lists the session enumerates.
	Callbacks(opts Options) session.Callbacks
}

// Registry manages registered generators
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(g Generator) error {
	if g == nil {
		return fmt.Errorf("cannot register nil generator")
	}

	name := g.Name()
	if name == "" {
		return fmt.Errorf("cannot register generator with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.generators[name]; exists {
		return fmt.Errorf("action '%s' is already registered", name)
	}

	r.generators[name] = g
	return nil
}

// Get retrieves a generator by action name
func (r *Registry) Get(name string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.generators[name]
	return g, ok
}

// Has checks if an action is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns all registered action names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// ListWithDescriptions returns all registered actions with their descriptions
func (r *Registry) ListWithDescriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.generators))
	for name, g := range r.generators {
		result[name] = g.Description()
	}
	return result
}

// Run enumerates the session with the generator for the session's action.
func (r *Registry) Run(sess *session.Session, opts Options) error {
	name := sess.Action()
	if name == "" {
		return &session.Error{Kind: session.KindTraversal, Err: fmt.Errorf("no action set")}
	}

	g, ok := r.Get(name)
	if !ok {
		return &session.Error{Kind: session.KindTraversal, Action: name, Err: fmt.Errorf("unknown action '%s'", name)}
	}

	sess.Logger().Debug("running action", logFields(name, opts)...)
	return sess.Enumerate(g.Callbacks(opts))
}
