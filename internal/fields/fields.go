// Package fields provides the metadata-driven attribute store used by
// solutions, projects and configurations.
//
// A Store is created from a fixed table of descriptors and holds one ordered
// sequence of strings per descriptor. Single-value fields and list fields
// share the same storage shape; the single-value accessors only ever touch
// the first element of a slot.
package fields

import "fmt"

// Kind tells accessors whether a field holds one value or a list.
type Kind int

const (
	String Kind = iota
	List
)

func (k Kind) String() string {
	if k == List {
		return "list"
	}
	return "string"
}

// Scope is a bit set of the places a field may be assigned from a script.
type Scope int

const (
	SolutionScope Scope = 1 << iota
	ProjectScope
	ConfigurationScope

	// AnyScope allows a field on solutions, projects and configuration blocks.
	AnyScope = SolutionScope | ProjectScope | ConfigurationScope
)

// Has reports whether s includes other.
func (s Scope) Has(other Scope) bool {
	return s&other != 0
}

// Info describes one field slot.
type Info struct {
	Name  string
	Kind  Kind
	Scope Scope
}

// Table is an ordered list of field descriptors. A descriptor's position is
// its index in every Store created from the table.
type Table []Info

// Lookup returns the index of the field named name.
func (t Table) Lookup(name string) (int, bool) {
	for i, info := range t {
		if info.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Store holds the values of every field in a Table.
type Store struct {
	table  Table
	values [][]string
}

// New creates a store with one empty slot per descriptor in table.
func New(table Table) *Store {
	return &Store{
		table:  table,
		values: make([][]string, len(table)),
	}
}

// Len returns the number of slots.
func (s *Store) Len() int {
	return len(s.values)
}

// Table returns the descriptors the store was created from.
func (s *Store) Table() Table {
	return s.table
}

// Info returns the descriptor for index.
func (s *Store) Info(index int) Info {
	s.check(index)
	return s.table[index]
}

// Get returns the first value of the field at index. The boolean is false
// when the field has never been set; an empty string is a legitimate value.
func (s *Store) Get(index int) (string, bool) {
	s.check(index)
	if len(s.values[index]) == 0 {
		return "", false
	}
	return s.values[index][0], true
}

// Set stores value as the single value of the field at index. An empty
// slot gains one element; otherwise only the first element is overwritten
// and any further elements are left in place.
func (s *Store) Set(index int, value string) {
	s.check(index)
	if len(s.values[index]) == 0 {
		s.values[index] = append(s.values[index], value)
		return
	}
	s.values[index][0] = value
}

// Add appends values to the field at index.
func (s *Store) Add(index int, values ...string) {
	s.check(index)
	s.values[index] = append(s.values[index], values...)
}

// Values returns a copy of every value of the field at index.
func (s *Store) Values(index int) []string {
	s.check(index)
	out := make([]string, len(s.values[index]))
	copy(out, s.values[index])
	return out
}

// IsSet reports whether the field at index holds at least one value.
func (s *Store) IsSet(index int) bool {
	s.check(index)
	return len(s.values[index]) > 0
}

func (s *Store) check(index int) {
	if index < 0 || index >= len(s.values) {
		panic(fmt.Sprintf("fields: index %d out of range [0,%d)", index, len(s.values)))
	}
}
