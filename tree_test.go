package rebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestTree builds:
//
//	MRCA
//	├── A
//	│   ├── A.1
//	│   └── A.2
//	└── X
//	    └── XA
func buildTestTree(t *testing.T) *LineageTree {
	t.Helper()
	tree := NewLineageTree("MRCA")
	require.NoError(t, tree.AddChild("MRCA", "A"))
	require.NoError(t, tree.AddChild("A", "A.1"))
	require.NoError(t, tree.AddChild("A", "A.2"))
	require.NoError(t, tree.AddChild("MRCA", "X"))
	require.NoError(t, tree.AddChild("X", "XA"))
	return tree
}

func TestAddChildUnknownParent(t *testing.T) {
	tree := NewLineageTree("MRCA")
	err := tree.AddChild("nope", "child")
	assert.Error(t, err)
	var unknown *LineageUnknownError
	assert.ErrorAs(t, err, &unknown)
}

func TestPathToRootExcludesRoot(t *testing.T) {
	tree := buildTestTree(t)
	path := tree.PathToRoot("A.1")
	assert.Equal(t, []string{"A.1", "A"}, path)
}

func TestDescendantsIncludesSelf(t *testing.T) {
	tree := buildTestTree(t)
	desc := tree.Descendants("X")
	assert.ElementsMatch(t, []string{"X", "XA"}, desc)
}

func TestMRCASingleLineage(t *testing.T) {
	tree := buildTestTree(t)
	node := tree.MRCA([]string{"A.1"})
	assert.Equal(t, "A.1", node.Name)
}

func TestMRCAOfSiblings(t *testing.T) {
	tree := buildTestTree(t)
	node := tree.MRCA([]string{"A.1", "A.2"})
	assert.Equal(t, "A", node.Name)
}

func TestMRCAAcrossSubtrees(t *testing.T) {
	tree := buildTestTree(t)
	node := tree.MRCA([]string{"A.1", "XA"})
	assert.Equal(t, "MRCA", node.Name)
}

func TestDistance(t *testing.T) {
	tree := buildTestTree(t)
	assert.Equal(t, 0, tree.Distance("A.1", "A.1"))
	assert.Equal(t, 2, tree.Distance("A.1", "A.2"))
	assert.Equal(t, 4, tree.Distance("A.1", "XA"))
}
