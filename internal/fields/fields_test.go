package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTable = Table{
	{Name: "kind", Kind: String, Scope: AnyScope},
	{Name: "defines", Kind: List, Scope: AnyScope},
	{Name: "location", Kind: String, Scope: ProjectScope},
}

func TestNew(t *testing.T) {
	s := New(testTable)
	assert.Equal(t, 3, s.Len())
	for i := 0; i < s.Len(); i++ {
		assert.False(t, s.IsSet(i))
		assert.Empty(t, s.Values(i))
	}
}

func TestGet_UnsetIsAbsent(t *testing.T) {
	s := New(testTable)

	v, ok := s.Get(0)
	assert.False(t, ok)
	assert.Equal(t, "", v)

	s.Set(0, "")
	v, ok = s.Get(0)
	assert.True(t, ok, "an explicitly empty value is still a value")
	assert.Equal(t, "", v)
}

func TestSet_Overwrites(t *testing.T) {
	s := New(testTable)
	s.Set(0, "exe")
	s.Set(0, "dll")

	v, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, "dll", v)
	assert.Equal(t, []string{"dll"}, s.Values(0))
}

func TestSet_PreservesTrailingValues(t *testing.T) {
	s := New(testTable)
	s.Add(1, "DEBUG", "TRACE", "WIN32")
	s.Set(1, "NDEBUG")

	assert.Equal(t, []string{"NDEBUG", "TRACE", "WIN32"}, s.Values(1))
}

func TestValues_ReturnsCopy(t *testing.T) {
	s := New(testTable)
	s.Add(1, "A")

	vals := s.Values(1)
	vals[0] = "mutated"

	v, _ := s.Get(1)
	assert.Equal(t, "A", v)
}

func TestOutOfRangePanics(t *testing.T) {
	s := New(testTable)
	assert.Panics(t, func() { s.Get(3) })
	assert.Panics(t, func() { s.Set(-1, "x") })
	assert.Panics(t, func() { s.Add(99, "x") })
}

func TestTable_Lookup(t *testing.T) {
	i, ok := testTable.Lookup("defines")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = testTable.Lookup("missing")
	assert.False(t, ok)
}

func TestScope_Has(t *testing.T) {
	assert.True(t, AnyScope.Has(ConfigurationScope))
	assert.False(t, ProjectScope.Has(SolutionScope))
}
