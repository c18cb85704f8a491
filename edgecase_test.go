package rebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEdgeCaseUnknownGroup(t *testing.T) {
	summary := BarcodeSummary{Lineages: []string{"A", "B"}, Counts: []int{1, 1}}
	out, thresholds, applied := ApplyEdgeCase("ZZZ", summary, NewLineageTree("MRCA"), DefaultThresholds())
	assert.False(t, applied)
	assert.Equal(t, summary, out)
	assert.Equal(t, DefaultThresholds(), thresholds)
}

func TestApplyEdgeCaseXBNarrowsToDescendants(t *testing.T) {
	tree := NewLineageTree("MRCA")
	require.NoError(t, tree.AddChild("MRCA", "B.1.631"))
	require.NoError(t, tree.AddChild("B.1.631", "B.1.631.1"))
	require.NoError(t, tree.AddChild("MRCA", "B.1.634"))

	summary := BarcodeSummary{
		Lineages: []string{"B.1.631.1", "B.1.634"},
		Counts:   []int{5, 5},
	}
	out, _, applied := ApplyEdgeCase("XB", summary, tree, DefaultThresholds())
	require.True(t, applied)
	assert.Equal(t, []string{"B.1.631.1"}, out.Lineages)
}

func TestApplyEdgeCaseXAVExcludesDescendants(t *testing.T) {
	tree := NewLineageTree("MRCA")
	require.NoError(t, tree.AddChild("MRCA", "BA.5.1.24"))
	require.NoError(t, tree.AddChild("BA.5.1.24", "BA.5.1.24.1"))
	require.NoError(t, tree.AddChild("MRCA", "BA.2"))

	summary := BarcodeSummary{
		Lineages: []string{"BA.5.1.24.1", "BA.2"},
		Counts:   []int{3, 3},
	}
	out, thresholds, applied := ApplyEdgeCase("XAV", summary, tree, DefaultThresholds())
	require.True(t, applied)
	assert.Equal(t, []string{"BA.2"}, out.Lineages)
	assert.Equal(t, 0, thresholds.MinSubs)
	assert.Equal(t, 2, thresholds.MinConsecutive)
}

func TestApplyEdgeCaseXRThresholdsOnly(t *testing.T) {
	summary := BarcodeSummary{Lineages: []string{"A"}, Counts: []int{1}}
	out, thresholds, applied := ApplyEdgeCase("XR", summary, NewLineageTree("MRCA"), DefaultThresholds())
	require.True(t, applied)
	assert.Equal(t, summary, out)
	assert.Equal(t, 0, thresholds.MinSubs)
	assert.Equal(t, 2, thresholds.MinConsecutive)
	assert.Equal(t, DefaultThresholds().MinLength, thresholds.MinLength)
}
