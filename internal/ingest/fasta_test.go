package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGenomesFromAlignment(t *testing.T) {
	refPath := writeTempFile(t, "ref.fasta", ">MRCA\nACGTACGT\n")
	alignPath := writeTempFile(t, "aligned.fasta", ""+
		">sample1\nACTTACNT\n"+
		">sample2\nACGT-CGT\n")

	genomes, err := LoadGenomesFromAlignment(alignPath, refPath)
	require.NoError(t, err)
	require.Len(t, genomes, 2)

	s1 := genomes[0]
	assert.Equal(t, "sample1", s1.ID)
	require.Len(t, s1.Substitutions, 1)
	assert.Equal(t, 3, s1.Substitutions[0].Coord)
	assert.Equal(t, byte('T'), s1.Substitutions[0].Alt)
	assert.Equal(t, []int{7}, s1.Missing)

	s2 := genomes[1]
	assert.Equal(t, "sample2", s2.ID)
	assert.Equal(t, []int{5}, s2.Deletions)
	assert.Empty(t, s2.Substitutions)
}
