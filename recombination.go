package rebar

import (
	"sort"
	"strconv"
)

// RecombinationTable is the column-oriented replacement for
// original_source/rebar/recombination.py's pandas DataFrame (spec.md §9's
// design note): a `coord`/`ref` pair of columns plus a name-keyed map of
// per-parent base columns and a `parent` annotation column, all aligned by
// row index. Avoids generating a distinct struct field per lineage name,
// which is unknowable at compile time.
type RecombinationTable struct {
	Coord      []int
	Ref        []byte
	ParentCols map[string][]byte // keyed by parent_1.Lineage, parent_2.Lineage, and the genome's ID
	Parent     []string          // "shared", parent_1.Lineage, or parent_2.Lineage; empty for private rows
	Private    []bool            // true for rows dropped at 4.F.3 (kept for diagnostics, not region-finding)
}

// Region is a maximal run of coordinate-ordered rows sharing one parent
// origin, after the two-direction filtering pass (spec.md §4.F.6-4.F.8).
type Region struct {
	Start  int
	End    int
	Parent string
	Subs   []int // coordinates belonging to this region
}

// RecombinationResult is the output of the finder (spec.md §3 "Recombination
// result"): both parent matches, the ordered regions, their derived
// breakpoints, the annotated joint table, and a recursion depth set by the
// orchestrator: 1 when either parent's lineage is itself a designated
// recombinant, otherwise 0 (SPEC_FULL.md §5's supplemented feature).
type RecombinationResult struct {
	Parent1     *Match
	Parent2     *Match
	Regions     []Region // ordered by Start
	Breakpoints []string
	Table       RecombinationTable
	Depth       int
}

// jointRow is the internal, struct-of-rows working representation used
// while building and filtering the table; FindRecombination flattens it into
// the exported column-oriented RecombinationTable only at the end.
type jointRow struct {
	Coord   int
	Ref     byte
	P1      byte
	P2      byte
	Genome  byte
	Parent  string
	Private bool
}

// FindRecombination runs the recombination finder (spec.md §4.F) for one
// genome given its two candidate parent matches. Returns nil if no
// recombination is detected (precheck failure, fewer than 2 regions survive
// filtering, or too many breakpoints).
func FindRecombination(genome *Genome, parent1, parent2 *Match, thresholds RegionThresholds) *RecombinationResult {
	rows := buildJointRows(genome, parent1, parent2)
	rows = applyPrivateExclusion(rows, parent1.Lineage, parent2.Lineage)

	visible := make([]jointRow, 0, len(rows))
	for _, r := range rows {
		if !r.Private {
			visible = append(visible, r)
		}
	}

	if !passesUniquenessPrecheck(visible, parent1.Lineage, parent2.Lineage, thresholds.MinSubs) {
		return nil
	}

	regions := identifyRegions(visible)

	forward := filterDirection(regions, thresholds)
	backward := reverseRegions(filterDirection(reverseRegions(regions), thresholds))

	intersected := intersectRegions(forward, backward)
	if len(intersected) < 2 {
		return nil
	}

	breakpoints := extractBreakpoints(intersected)
	if len(breakpoints) > thresholds.MaxBreakpoints {
		return nil
	}

	return &RecombinationResult{
		Parent1:     parent1,
		Parent2:     parent2,
		Regions:     intersected,
		Breakpoints: breakpoints,
		Table:       flattenTable(rows, parent1.Lineage, parent2.Lineage, genome.ID),
	}
}

// buildJointRows implements spec.md §4.F.1-4.F.2 as a single pass: for every
// coordinate touched by either parent's barcode, resolve each parent's base
// by whether that parent's barcode carries an alt allele at that coordinate
// (nil/absent collapses to ref), which is exactly the 4.F.2 multi-allelic
// merge rule applied uniformly rather than as a separate correction pass.
// Rows where both parent bases end up equal (non-discriminating) are
// dropped, mirroring 4.F.2's final step.
func buildJointRows(genome *Genome, parent1, parent2 *Match) []jointRow {
	p1Set := NewSubSet(parent1.Barcode...)
	p2Set := NewSubSet(parent2.Barcode...)
	all := p1Set.Union(p2Set).Slice()
	SortSubstitutions(all)

	missing := genome.missingSet()
	deletions := genome.deletionSet()
	genomeSubs := make(map[int]byte, len(genome.Substitutions))
	for _, s := range genome.Substitutions {
		genomeSubs[s.Coord] = s.Alt
	}

	seen := make(map[int]struct{})
	var rows []jointRow
	for _, s := range all {
		if _, done := seen[s.Coord]; done {
			continue
		}
		seen[s.Coord] = struct{}{}

		ref := s.Ref
		p1base := baseAtCoord(p1Set, s.Coord, ref)
		p2base := baseAtCoord(p2Set, s.Coord, ref)
		if p1base == p2base {
			continue
		}
		gbase := resolveGenomeBase(s.Coord, ref, missing, deletions, genomeSubs)

		rows = append(rows, jointRow{
			Coord:  s.Coord,
			Ref:    ref,
			P1:     p1base,
			P2:     p2base,
			Genome: gbase,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Coord < rows[j].Coord })
	return rows
}

func baseAtCoord(set SubSet, coord int, ref byte) byte {
	for _, s := range set {
		if s.Coord == coord {
			return s.Alt
		}
	}
	return ref
}

func resolveGenomeBase(coord int, ref byte, missing, deletions map[int]struct{}, genomeSubs map[int]byte) byte {
	if _, ok := missing[coord]; ok {
		return 'N'
	}
	if _, ok := deletions[coord]; ok {
		return '-'
	}
	if alt, ok := genomeSubs[coord]; ok {
		return alt
	}
	return ref
}

// applyPrivateExclusion implements spec.md §4.F.3-4.F.4: marks rows where
// the genome base matches neither parent nor ref as private (excluded from
// region-finding but retained in the flattened table for inspection), and
// annotates the remaining rows' parent-of-origin.
func applyPrivateExclusion(rows []jointRow, parent1Name, parent2Name string) []jointRow {
	out := make([]jointRow, len(rows))
	copy(out, rows)
	for i := range out {
		r := &out[i]
		if r.Genome != r.P1 && r.Genome != r.P2 && r.Genome != r.Ref {
			r.Private = true
			continue
		}
		switch {
		case r.Genome == r.P1 && r.Genome == r.P2:
			r.Parent = "shared"
		case r.Genome == r.P1:
			r.Parent = parent1Name
		default:
			r.Parent = parent2Name
		}
	}
	return out
}

// passesUniquenessPrecheck implements spec.md §4.F.5.
func passesUniquenessPrecheck(rows []jointRow, parent1Name, parent2Name string, minSubs int) bool {
	u1, u2 := 0, 0
	for _, r := range rows {
		switch r.Parent {
		case parent1Name:
			if r.P1 != r.Ref {
				u1++
			}
		case parent2Name:
			if r.P2 != r.Ref {
				u2++
			}
		}
	}
	return u1 >= minSubs && u2 >= minSubs
}

// identifyRegions implements spec.md §4.F.6: a single pass grouping
// consecutive coordinate-ordered rows sharing the same parent annotation.
func identifyRegions(rows []jointRow) []Region {
	var regions []Region
	for _, r := range rows {
		if len(regions) > 0 && regions[len(regions)-1].Parent == r.Parent {
			last := &regions[len(regions)-1]
			last.End = r.Coord
			last.Subs = append(last.Subs, r.Coord)
			continue
		}
		regions = append(regions, Region{
			Start:  r.Coord,
			End:    r.Coord,
			Parent: r.Parent,
			Subs:   []int{r.Coord},
		})
	}
	return regions
}

// filterDirection implements one direction of spec.md §4.F.7's two sub-pass
// filter: first by min_consecutive (with min_length relaxed to 0), then by
// min_length (with min_consecutive relaxed to 0). Callers run this once
// forward (5′ pass) and once over a reversed region list, un-reversed
// afterward (3′ pass).
func filterDirection(regions []Region, thresholds RegionThresholds) []Region {
	regions = filterPass(regions, thresholds.MinConsecutive, 0)
	regions = filterPass(regions, 0, thresholds.MinLength)
	return regions
}

// filterPass is one threshold sub-pass of spec.md §4.F.7, a single
// sequential scan ported directly from
// original_source/rebar/recombination.py's filter_regions_5p /
// filter_regions_3p: a region is only checked against its own
// min_consecutive/min_length when its parent differs from the last
// *accepted* region's parent. A region whose parent matches the last
// accepted region's parent is merged into it unconditionally, regardless of
// its own count, so a same-parent continuation survives across an
// intermission that itself failed this pass's filter - the "prev_parent ==
// parent" branch in the Python never re-checks the bridging region's own
// counts.
func filterPass(regions []Region, minConsecutive, minLength int) []Region {
	var out []Region
	for _, r := range regions {
		if len(out) == 0 || out[len(out)-1].Parent != r.Parent {
			numConsecutive := len(r.Subs)
			regionLength := r.End - r.Start + 1
			if numConsecutive >= minConsecutive && regionLength >= minLength {
				out = append(out, r)
			}
			continue
		}
		last := &out[len(out)-1]
		last.Start = minInt(last.Start, r.Start)
		last.End = maxInt(last.End, r.End)
		last.Subs = append(last.Subs, r.Subs...)
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func reverseRegions(regions []Region) []Region {
	out := make([]Region, len(regions))
	for i, r := range regions {
		out[len(regions)-1-i] = r
	}
	return out
}

// intersectRegions implements spec.md §4.F.8: for every same-parent pair
// from the two filtered passes with overlapping subs, emit the intersected
// region, then order the result by start (the "ordered map keyed by start"
// of spec.md §3).
func intersectRegions(forward, backward []Region) []Region {
	var out []Region
	for _, r5 := range forward {
		for _, r3 := range backward {
			if r5.Parent != r3.Parent {
				continue
			}
			overlap := intersectSortedInts(r5.Subs, r3.Subs)
			if len(overlap) == 0 {
				continue
			}
			out = append(out, Region{
				Start:  overlap[0],
				End:    overlap[len(overlap)-1],
				Parent: r5.Parent,
				Subs:   overlap,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func intersectSortedInts(a, b []int) []int {
	set := make(map[int]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	var out []int
	for _, v := range a {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

// extractBreakpoints implements spec.md §4.F.10.
func extractBreakpoints(regions []Region) []string {
	breakpoints := make([]string, 0, len(regions)-1)
	for i := 0; i+1 < len(regions); i++ {
		lo := regions[i].End + 1
		hi := regions[i+1].Start - 1
		breakpoints = append(breakpoints, strconv.Itoa(lo)+":"+strconv.Itoa(hi))
	}
	return breakpoints
}

func flattenTable(rows []jointRow, parent1Name, parent2Name, genomeID string) RecombinationTable {
	t := RecombinationTable{
		ParentCols: map[string][]byte{
			parent1Name: make([]byte, len(rows)),
			parent2Name: make([]byte, len(rows)),
			genomeID:    make([]byte, len(rows)),
		},
	}
	for i, r := range rows {
		t.Coord = append(t.Coord, r.Coord)
		t.Ref = append(t.Ref, r.Ref)
		t.ParentCols[parent1Name][i] = r.P1
		t.ParentCols[parent2Name][i] = r.P2
		t.ParentCols[genomeID][i] = r.Genome
		t.Parent = append(t.Parent, r.Parent)
		t.Private = append(t.Private, r.Private)
	}
	return t
}
