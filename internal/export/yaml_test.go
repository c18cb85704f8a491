package export

import (
	"bytes"
	"testing"

	rebar "github.com/phac-nml/rebar-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestWriteYAMLRoundTrip(t *testing.T) {
	results := []*rebar.Result{
		{
			Genome: &rebar.Genome{ID: "sample1"},
			Primary: &rebar.Match{
				Lineage:           "XBB",
				Clade:             "23A",
				RecombinantStatus: rebar.RecombinantNamed,
				RecombinantGroup:  "XBB",
				TopLineages:       []string{"BA.2.10", "BA.2.9"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, results))

	var docs []resultYAML
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "sample1", docs[0].Strain)
	require.NotNil(t, docs[0].Primary)
	assert.Equal(t, "XBB", docs[0].Primary.Lineage)
	assert.Equal(t, []string{"BA.2.9", "BA.2.10"}, docs[0].Primary.TopLineages, "natural order, not lexicographic")
}

func TestToMatchYAMLNilIsNil(t *testing.T) {
	assert.Nil(t, toMatchYAML(nil))
}

func TestNaturalSort(t *testing.T) {
	names := []string{"BA.2.10", "BA.2.2", "BA.2.9"}
	assert.Equal(t, []string{"BA.2.2", "BA.2.9", "BA.2.10"}, naturalSort(names))
}
