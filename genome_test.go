package rebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenomeSortsAndDedupes(t *testing.T) {
	g := NewGenome("sample1", 29903,
		[]Substitution{MustParseSubstitution("A300T"), MustParseSubstitution("C100G")},
		[]int{50, 10, 50},
		[]int{5, 5, 6},
	)
	require.Len(t, g.Substitutions, 2)
	assert.Equal(t, 100, g.Substitutions[0].Coord)
	assert.Equal(t, []int{10, 50}, g.Deletions)
	assert.Equal(t, []int{5, 6}, g.Missing)
}

func TestCompressRanges(t *testing.T) {
	assert.Equal(t, []string{"1-3", "5", "7-8"}, CompressRanges([]int{1, 2, 3, 5, 7, 8}))
	assert.Nil(t, CompressRanges(nil))
	assert.Equal(t, []string{"42"}, CompressRanges([]int{42}))
}

func TestParseIntervalList(t *testing.T) {
	coords, err := ParseIntervalList("1-3,5,7-8")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 5, 7, 8}, coords)

	coords, err = ParseIntervalList("NA")
	require.NoError(t, err)
	assert.Nil(t, coords)

	coords, err = ParseIntervalList("")
	require.NoError(t, err)
	assert.Nil(t, coords)
}

func TestParseIntervalListMalformed(t *testing.T) {
	_, err := ParseIntervalList("abc")
	require.Error(t, err)
	var malformed *InputMalformedError
	assert.ErrorAs(t, err, &malformed)
}

func TestCompressRangesRoundTrip(t *testing.T) {
	original := []int{10, 11, 12, 20, 30, 31}
	ranges := CompressRanges(original)
	joined := ""
	for i, r := range ranges {
		if i > 0 {
			joined += ","
		}
		joined += r
	}
	roundTripped, err := ParseIntervalList(joined)
	require.NoError(t, err)
	assert.Equal(t, original, roundTripped)
}
