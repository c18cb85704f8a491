package export

import (
	"io"
	"sort"

	"github.com/shenwei356/natsort"
	"gopkg.in/yaml.v2"

	"github.com/phac-nml/rebar-go"
)

// matchYAML and resultYAML mirror original_source/rebar/barcode.py and
// recombination.py's to_dict/to_yaml methods: empty slices are omitted
// rather than emitted as `[]`, and an unset string field is omitted rather
// than emitted as `""`, via `omitempty`.
type matchYAML struct {
	Lineage              string   `yaml:"lineage"`
	Clade                string   `yaml:"clade,omitempty"`
	TopLineages          []string `yaml:"top_lineages,omitempty"`
	OutlierLineages      []string `yaml:"outlier_lineages,omitempty"`
	Support              []string `yaml:"support,omitempty"`
	Missing              []string `yaml:"missing,omitempty"`
	ConflictRef          []string `yaml:"conflict_ref,omitempty"`
	ConflictAlt          []string `yaml:"conflict_alt,omitempty"`
	Definition           string   `yaml:"definition,omitempty"`
	Recombinant          string   `yaml:"recombinant,omitempty"`
	Recursive            bool     `yaml:"recursive,omitempty"`
	EdgeCase             bool     `yaml:"edge_case,omitempty"`
}

type resultYAML struct {
	Strain        string     `yaml:"strain"`
	Primary       *matchYAML `yaml:"primary,omitempty"`
	Parent1       *matchYAML `yaml:"parent_1,omitempty"`
	Parent2       *matchYAML `yaml:"parent_2,omitempty"`
	Breakpoints   []string   `yaml:"breakpoints,omitempty"`
	Regions       []string   `yaml:"regions,omitempty"`
	Depth         int        `yaml:"depth,omitempty"`
}

// WriteYAML serializes the full result set as a single YAML sequence, one
// entry per genome, the richer sibling of WriteTSV's flattened row (spec.md §6).
func WriteYAML(w io.Writer, results []*rebar.Result) error {
	docs := make([]resultYAML, len(results))
	for i, r := range results {
		docs[i] = toResultYAML(r)
	}
	data, err := yaml.Marshal(docs)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func toResultYAML(r *rebar.Result) resultYAML {
	out := resultYAML{}
	if r.Genome != nil {
		out.Strain = r.Genome.ID
	}
	out.Primary = toMatchYAML(r.Primary)
	out.Parent1 = toMatchYAML(r.Parent1)
	out.Parent2 = toMatchYAML(r.Parent2)
	if r.Recombination != nil {
		out.Breakpoints = r.Recombination.Breakpoints
		out.Depth = r.Recombination.Depth
		out.Regions = make([]string, len(r.Recombination.Regions))
		for i, reg := range r.Recombination.Regions {
			out.Regions[i] = reg.Parent
		}
	}
	return out
}

func toMatchYAML(m *rebar.Match) *matchYAML {
	if m == nil {
		return nil
	}
	top := naturalSort(append([]string(nil), m.TopLineages...))
	outliers := naturalSort(append([]string(nil), m.OutlierLineages...))
	return &matchYAML{
		Lineage:         m.Lineage,
		Clade:           m.Clade,
		TopLineages:     top,
		OutlierLineages: outliers,
		Support:         subStrings(m.Support),
		Missing:         subStrings(m.Missing),
		ConflictRef:     subStrings(m.ConflictRef),
		ConflictAlt:     subStrings(m.ConflictAlt),
		Definition:      m.Definition,
		Recombinant:     naField(m),
		Recursive:       m.Recursive,
		EdgeCase:        m.EdgeCase,
	}
}

func subStrings(subs []rebar.Substitution) []string {
	if len(subs) == 0 {
		return nil
	}
	out := make([]string, len(subs))
	for i, s := range subs {
		out[i] = s.String()
	}
	return out
}

// naturalSort orders lineage names the way a human reads them
// ("BA.2.9" before "BA.2.10"), unlike a plain lexicographic sort; lineage
// names are exactly the dotted version-like identifiers natsort targets.
func naturalSort(names []string) []string {
	sort.Slice(names, func(i, j int) bool { return natsort.Compare(names[i], names[j]) })
	return names
}
