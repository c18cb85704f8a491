// Package export serializes rebar.Result values to the tabular and YAML
// output formats described in spec.md §6.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/phac-nml/rebar-go"
)

var tsvHeader = []string{
	"strain", "lineage", "clade", "recombinant", "recursive", "edge_case",
	"parents", "parents_clade_lineage", "breakpoints", "regions",
}

// WriteTSV writes one header row followed by one row per result, matching
// spec.md §6's per-sample output record.
func WriteTSV(w io.Writer, results []*rebar.Result) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(tsvHeader, "\t") + "\n"); err != nil {
		return err
	}
	for _, r := range results {
		if _, err := bw.WriteString(strings.Join(rowFor(r), "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func rowFor(r *rebar.Result) []string {
	strain := ""
	if r.Genome != nil {
		strain = r.Genome.ID
	}

	lineage, clade := "", ""
	if r.Primary != nil {
		lineage = r.Primary.Lineage
		clade = r.Primary.Clade
	}

	recombinant := naField(r.Primary)
	recursive := "false"
	edgeCase := "false"
	if r.Primary != nil {
		recursive = strconv.FormatBool(r.Primary.Recursive)
		edgeCase = strconv.FormatBool(r.Primary.EdgeCase)
	}

	parents, parentsClade := "", ""
	if r.Parent1 != nil && r.Parent2 != nil {
		parents = r.Parent1.Lineage + "," + r.Parent2.Lineage
		parentsClade = r.Parent1.Clade + ":" + r.Parent1.Lineage + "," + r.Parent2.Clade + ":" + r.Parent2.Lineage
	}

	breakpoints, regions := "", ""
	if r.Recombination != nil {
		breakpoints = strings.Join(r.Recombination.Breakpoints, ",")
		parts := make([]string, len(r.Recombination.Regions))
		for i, reg := range r.Recombination.Regions {
			parts[i] = fmt.Sprintf("%d-%d|%s", reg.Start, reg.End, reg.Parent)
		}
		regions = strings.Join(parts, ",")
	}

	return []string{
		strain, lineage, clade, recombinant, recursive, edgeCase,
		parents, parentsClade, breakpoints, regions,
	}
}

// naField renders a match's recombinant-status column: the designated
// group name, "X", "false" for a confirmed non-recombinant, or "NA" when
// classification never reached a decision (spec.md §9's tagged-variant
// replacement of the source's overloaded field).
func naField(m *rebar.Match) string {
	if m == nil {
		return rebar.NoDataChar
	}
	switch m.RecombinantStatus {
	case rebar.RecombinantNamed:
		return m.RecombinantGroup
	case rebar.RecombinantX:
		return "X"
	case rebar.RecombinantNo:
		return "false"
	default:
		return rebar.NoDataChar
	}
}
