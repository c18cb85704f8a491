package rebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchLineageEmptySummaryReturnsNil(t *testing.T) {
	m := MatchLineage(&Genome{ID: "g1"}, BarcodeSummary{}, MatcherInputs{
		Barcodes:       NewBarcodeMatrix(nil),
		Tree:           NewLineageTree("MRCA"),
		LineageToClade: nil,
	}, nil)
	assert.Nil(t, m)
	assert.True(t, m.IsEmpty())
}

func TestMatchLineageSingleTopLineage(t *testing.T) {
	tree := NewLineageTree("MRCA")
	require.NoError(t, tree.AddChild("MRCA", "B.1"))

	matrix := NewBarcodeMatrix(map[string]SubSet{
		"B.1": NewSubSet(MustParseSubstitution("A100T")),
	})
	genome := NewGenome("g1", 29903, []Substitution{MustParseSubstitution("A100T")}, nil, nil)
	summary := BarcodeSummary{Lineages: []string{"B.1"}, Counts: []int{1}}

	m := MatchLineage(genome, summary, MatcherInputs{Barcodes: matrix, Tree: tree}, nil)
	require.NotNil(t, m)
	assert.Equal(t, "B.1", m.Lineage)
	assert.Empty(t, m.OutlierLineages)
	assert.Empty(t, m.ConflictRef)
	assert.Empty(t, m.ConflictAlt)
}

// buildOutlierFixture constructs a tree of 8 "near" leaves (pairwise
// distance 2) and 2 "far" leaves (distance 4 from every near leaf, 2
// between themselves) under a common root, matching spec.md's scenario 6
// without needing >10 top lineages (so the seeded subsampler never
// triggers, keeping the expected outcome hand-computable).
func buildOutlierFixture(t *testing.T) (*LineageTree, []string, []string) {
	t.Helper()
	tree := NewLineageTree("MRCA")
	require.NoError(t, tree.AddChild("MRCA", "NEAR"))
	require.NoError(t, tree.AddChild("MRCA", "FAR"))

	var near, far []string
	for i := 0; i < 8; i++ {
		name := "N" + string(rune('1'+i))
		require.NoError(t, tree.AddChild("NEAR", name))
		near = append(near, name)
	}
	for i := 0; i < 2; i++ {
		name := "F" + string(rune('1'+i))
		require.NoError(t, tree.AddChild("FAR", name))
		far = append(far, name)
	}
	return tree, near, far
}

func TestMatchLineageOutlierDetection(t *testing.T) {
	tree, near, far := buildOutlierFixture(t)
	top := append(append([]string{}, near...), far...)

	byLineage := make(map[string]SubSet, len(top))
	for _, l := range top {
		byLineage[l] = SubSet{}
	}
	matrix := NewBarcodeMatrix(byLineage)

	genome := NewGenome("g1", 29903, nil, nil, nil)
	counts := make([]int, len(top))
	for i := range counts {
		counts[i] = 1
	}
	summary := BarcodeSummary{Lineages: top, Counts: counts}

	m := MatchLineage(genome, summary, MatcherInputs{Barcodes: matrix, Tree: tree}, nil)
	require.NotNil(t, m)

	assert.ElementsMatch(t, far, m.OutlierLineages)
	assert.Equal(t, "NEAR", m.Lineage)
}

// TestKeepAndOutliersDeduplicatesRepeatedDraws exercises the >10-top-
// lineages subsampling path directly: topSubsample here repeats "N1" and
// "F1" (as sampleWithReplacement's draws would for a >10-lineage pool),
// and keepAndOutliers must still return each lineage at most once, derived
// from distances' unique key set rather than topSubsample's raw elements.
func TestKeepAndOutliersDeduplicatesRepeatedDraws(t *testing.T) {
	tree, near, far := buildOutlierFixture(t)

	// Each lineage drawn twice, mimicking sampleWithReplacement's repeated
	// picks for a >10-lineage pool. Duplicating every lineage by the same
	// factor preserves the same relative means as the undeduplicated
	// fixture in TestMatchLineageOutlierDetection, so near stays the
	// modal (kept) group and far stays the outlier group - but only if
	// keepAndOutliers correctly collapses the repeats first.
	topSubsample := []string{
		near[0], near[0], near[1], near[1], near[2], near[2],
		far[0], far[0], far[1], far[1],
	}

	keep, outliers := keepAndOutliers(topSubsample, tree)

	assertNoDuplicates(t, keep)
	assertNoDuplicates(t, outliers)

	assert.ElementsMatch(t, near[:3], keep)
	assert.ElementsMatch(t, far, outliers)
}

func assertNoDuplicates(t *testing.T, names []string) {
	t.Helper()
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			t.Fatalf("duplicate entry %q in %v", n, names)
		}
		seen[n] = struct{}{}
	}
}

func TestRoundedMode(t *testing.T) {
	values := map[string]float64{
		"a": 2.4444449,
		"b": 2.4444441,
		"c": 3.7777778,
	}
	mode := roundedMode(values)
	assert.InDelta(t, 2.444444, mode, 1e-6)
}

// TestOutlierModeRounding is the regression test spec.md §9 asks for:
// floating-point means that differ only past the 6th decimal place must
// still be treated as the same mode bucket.
func TestOutlierModeRounding(t *testing.T) {
	values := map[string]float64{
		"a": 1.0000001,
		"b": 0.9999999,
		"c": 1.0000002,
		"d": 5.0,
	}
	mode := roundedMode(values)
	assert.InDelta(t, 1.0, mode, 1e-6)
}

func TestSetRecombinantStatusXRoot(t *testing.T) {
	m := &Match{Lineage: "X"}
	SetRecombinantStatus(m, nil, NewLineageTree("MRCA"))
	assert.Equal(t, RecombinantX, m.RecombinantStatus)
	assert.False(t, m.Recursive)
}

func TestSetRecombinantStatusNamedGroup(t *testing.T) {
	tree := NewLineageTree("MRCA")
	require.NoError(t, tree.AddChild("MRCA", "X"))
	require.NoError(t, tree.AddChild("X", "XBB"))
	require.NoError(t, tree.AddChild("XBB", "XBB.1"))

	recombinant := map[string]struct{}{"XBB.1": {}}
	m := &Match{Lineage: "XBB.1"}
	SetRecombinantStatus(m, recombinant, tree)

	assert.Equal(t, RecombinantNamed, m.RecombinantStatus)
	assert.Equal(t, "XBB", m.RecombinantGroup)
}

func TestSetRecombinantStatusPerfectMatch(t *testing.T) {
	m := &Match{Lineage: "B.1", ConflictRef: nil}
	SetRecombinantStatus(m, map[string]struct{}{}, NewLineageTree("MRCA"))
	assert.Equal(t, RecombinantNo, m.RecombinantStatus)
}
