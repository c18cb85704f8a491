package rebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestMatrix() *BarcodeMatrix {
	return NewBarcodeMatrix(map[string]SubSet{
		"A": NewSubSet(MustParseSubstitution("A100T"), MustParseSubstitution("C200G")),
		"B": NewSubSet(MustParseSubstitution("A100T"), MustParseSubstitution("G300C")),
		"C": NewSubSet(MustParseSubstitution("T400A")),
	})
}

func TestComputeBarcodeSummaryOrdering(t *testing.T) {
	matrix := buildTestMatrix()
	genomeSubs := []Substitution{MustParseSubstitution("A100T"), MustParseSubstitution("C200G")}

	summary := ComputeBarcodeSummary(genomeSubs, matrix)
	require.Equal(t, 2, summary.Len())
	assert.Equal(t, "A", summary.Lineages[0])
	assert.Equal(t, 2, summary.Counts[0])
	assert.Equal(t, []string{"A"}, summary.TopLineages())
}

func TestComputeBarcodeSummaryTies(t *testing.T) {
	matrix := buildTestMatrix()
	genomeSubs := []Substitution{MustParseSubstitution("A100T")}

	summary := ComputeBarcodeSummary(genomeSubs, matrix)
	top := summary.TopLineages()
	assert.ElementsMatch(t, []string{"A", "B"}, top)
}

func TestBarcodeMatrixApplyManualEdits(t *testing.T) {
	matrix := buildTestMatrix()
	matrix.ApplyManualEdits(map[string][]Substitution{
		"A": {MustParseSubstitution("G500T")},
	})
	assert.True(t, matrix.Barcode("A").Contains(MustParseSubstitution("G500T")))
}

func TestBarcodeSummaryExclude(t *testing.T) {
	matrix := buildTestMatrix()
	genomeSubs := []Substitution{MustParseSubstitution("A100T")}
	summary := ComputeBarcodeSummary(genomeSubs, matrix)
	excluded := summary.Exclude([]string{"A"})
	assert.Equal(t, []string{"B"}, excluded.Lineages)
}

func TestBarcodeSummaryEmpty(t *testing.T) {
	matrix := buildTestMatrix()
	summary := ComputeBarcodeSummary(nil, matrix)
	assert.Equal(t, 0, summary.Len())
	assert.Nil(t, summary.TopLineages())
}
