package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/simonhull/firebird-suite/nest/internal/pathutil"
)

// BuildAction classifies how a generator treats a source file.
type BuildAction int

const (
	ActionUnset BuildAction = iota
	Code
	EmbeddedResource
	LinkedResource
	Content
)

var buildActionNames = map[BuildAction]string{
	ActionUnset:      "",
	Code:             "Code",
	EmbeddedResource: "EmbeddedResource",
	LinkedResource:   "LinkedResource",
	Content:          "Content",
}

func (a BuildAction) String() string {
	return buildActionNames[a]
}

// ParseBuildAction converts a script value into a BuildAction. The empty
// string maps to ActionUnset.
func ParseBuildAction(s string) (BuildAction, error) {
	for action, name := range buildActionNames {
		if strings.EqualFold(name, s) {
			return action, nil
		}
	}
	return ActionUnset, fmt.Errorf("unknown build action '%s' (supported: Code, EmbeddedResource, LinkedResource, Content)", s)
}

// File is one entry of a project's file list. Paths are relative to the
// project's base directory and use forward slashes.
type File struct {
	Path   string
	action BuildAction
}

// NewFile creates a file entry with an explicit (possibly unset) action.
func NewFile(path string, action BuildAction) *File {
	return &File{Path: pathutil.ToSlash(path), action: action}
}

// Action returns the file's build action.
func (f *File) Action() BuildAction {
	return f.action
}

// Is reports whether the file carries action a.
func (f *File) Is(a BuildAction) bool {
	return f.action == a
}

// AssignAction sets the build action only if none has been set yet, and
// reports whether it did. Once assigned, an action never changes.
func (f *File) AssignAction(a BuildAction) bool {
	if f.action != ActionUnset {
		return false
	}
	f.action = a
	return true
}

// ActionRule maps file extensions to the build action given to files that
// have none.
type ActionRule struct {
	Extensions []string
	Action     BuildAction
}

// DefaultActionRules are the .NET conventions applied before generation.
var DefaultActionRules = []ActionRule{
	{Extensions: []string{".cs"}, Action: Code},
	{Extensions: []string{".resx"}, Action: EmbeddedResource},
	{Extensions: []string{".asax", ".aspx"}, Action: Content},
}

func (r ActionRule) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range r.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
