package rebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubstitution(t *testing.T) {
	sub, err := ParseSubstitution("C2432T")
	require.NoError(t, err)
	assert.Equal(t, Substitution{Ref: 'C', Coord: 2432, Alt: 'T'}, sub)
	assert.Equal(t, "C2432T", sub.String())
}

func TestParseSubstitutionDeletionAlt(t *testing.T) {
	sub, err := ParseSubstitution("A100-")
	require.NoError(t, err)
	assert.Equal(t, byte('-'), sub.Alt)
}

func TestParseSubstitutionInvalid(t *testing.T) {
	for _, bad := range []string{"", "C2432", "2432T", "X100T", "C100X"} {
		_, err := ParseSubstitution(bad)
		assert.ErrorIs(t, err, ErrInvalidSubstitution, bad)
	}
}

func TestSortSubstitutions(t *testing.T) {
	subs := []Substitution{
		MustParseSubstitution("A300T"),
		MustParseSubstitution("C100G"),
		MustParseSubstitution("A100T"),
	}
	SortSubstitutions(subs)
	require.Len(t, subs, 3)
	assert.Equal(t, 100, subs[0].Coord)
	assert.Equal(t, 100, subs[1].Coord)
	assert.Equal(t, 300, subs[2].Coord)
	assert.True(t, subs[0].String() < subs[1].String())
}

func TestSubSetArithmetic(t *testing.T) {
	a := NewSubSet(MustParseSubstitution("A100T"), MustParseSubstitution("C200G"))
	b := NewSubSet(MustParseSubstitution("C200G"), MustParseSubstitution("A300T"))

	union := a.Union(b)
	assert.Len(t, union, 3)

	inter := a.Intersect(b)
	assert.Len(t, inter, 1)
	assert.True(t, inter.Contains(MustParseSubstitution("C200G")))

	diff := a.Difference(b)
	assert.Len(t, diff, 1)
	assert.True(t, diff.Contains(MustParseSubstitution("A100T")))
}

func TestSubSetSliceIsSorted(t *testing.T) {
	set := NewSubSet(
		MustParseSubstitution("A300T"),
		MustParseSubstitution("C100G"),
	)
	slice := set.Slice()
	require.Len(t, slice, 2)
	assert.Equal(t, 100, slice[0].Coord)
	assert.Equal(t, 300, slice[1].Coord)
}
