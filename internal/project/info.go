package project

import "github.com/simonhull/firebird-suite/nest/internal/fields"

// Field indices into FieldTable. Solutions and projects share the table so
// that values set at solution scope can cascade into every project.
const (
	BaseDir = iota
	BinDir
	Configurations
	Defines
	Flags
	Kind
	Language
	LibDirs
	Links
	Location
	ObjDir
	Target
)

// FieldTable is the static metadata for every solution, project and
// configuration field store. A zero Scope marks a field the loader fills in
// itself; scripts cannot assign it.
var FieldTable = fields.Table{
	BaseDir:        {Name: "basedir", Kind: fields.String},
	BinDir:         {Name: "bindir", Kind: fields.String, Scope: fields.AnyScope},
	Configurations: {Name: "configurations", Kind: fields.List, Scope: fields.SolutionScope},
	Defines:        {Name: "defines", Kind: fields.List, Scope: fields.AnyScope},
	Flags:          {Name: "flags", Kind: fields.List, Scope: fields.AnyScope},
	Kind:           {Name: "kind", Kind: fields.String, Scope: fields.AnyScope},
	Language:       {Name: "language", Kind: fields.String, Scope: fields.SolutionScope | fields.ProjectScope},
	LibDirs:        {Name: "libdirs", Kind: fields.List, Scope: fields.AnyScope},
	Links:          {Name: "links", Kind: fields.List, Scope: fields.AnyScope},
	Location:       {Name: "location", Kind: fields.String, Scope: fields.SolutionScope | fields.ProjectScope},
	ObjDir:         {Name: "objdir", Kind: fields.String, Scope: fields.AnyScope},
	Target:         {Name: "target", Kind: fields.String, Scope: fields.AnyScope},
}

// NewFields returns an empty store over FieldTable.
func NewFields() *fields.Store {
	return fields.New(FieldTable)
}
