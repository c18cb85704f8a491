package rebar

import "sort"

// BarcodeMatrix is a semantic mapping from lineage name to the set of
// substitutions that define it, equivalent to the CSV/TSV barcode table of
// spec.md §3 after its 0/1 columns have been reduced to the columns holding
// a 1. Read-only and shared by reference across every sample's analysis
// (spec.md §5).
type BarcodeMatrix struct {
	bylineage map[string]SubSet
}

// NewBarcodeMatrix builds a matrix from a lineage->substitution-set map.
func NewBarcodeMatrix(byLineage map[string]SubSet) *BarcodeMatrix {
	m := &BarcodeMatrix{bylineage: make(map[string]SubSet, len(byLineage))}
	for lineage, subs := range byLineage {
		m.bylineage[lineage] = subs
	}
	return m
}

// Lineages returns every lineage name in the matrix, sorted.
func (m *BarcodeMatrix) Lineages() []string {
	out := make([]string, 0, len(m.bylineage))
	for l := range m.bylineage {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Has reports whether lineage is present in the matrix.
func (m *BarcodeMatrix) Has(lineage string) bool {
	_, ok := m.bylineage[lineage]
	return ok
}

// Barcode returns the expected substitution set for a lineage, or an empty
// set if the lineage is unknown (callers that need to distinguish
// "unknown" from "empty barcode" should check Has first).
func (m *BarcodeMatrix) Barcode(lineage string) SubSet {
	if subs, ok := m.bylineage[lineage]; ok {
		return subs
	}
	return SubSet{}
}

// ApplyManualEdits patches barcode rows in place, adding the given
// substitutions to the named lineages. This is the Go home of
// original_source/rebar/constants.py's BARCODE_MANUAL_EDITS table
// (SPEC_FULL.md §5 "supplemented features"): a small number of barcode
// sources disagree on individual sites, and this lets an operator correct
// the loaded matrix without hand-editing the source CSV.
func (m *BarcodeMatrix) ApplyManualEdits(edits map[string][]Substitution) {
	for lineage, subs := range edits {
		existing, ok := m.bylineage[lineage]
		if !ok {
			existing = SubSet{}
		}
		for _, s := range subs {
			existing.Add(s)
		}
		m.bylineage[lineage] = existing
	}
}

// BarcodeSummary is a per-genome, sorted-by-count-descending tally of how
// many of each lineage's expected substitutions were observed in the
// genome, keeping only counts > 0. It is the candidate pool consulted by
// the matcher (spec.md §4.D step 1-2), and corresponds to
// original_source/rebar/genome.py's Genome.identify_barcode.
type BarcodeSummary struct {
	Lineages []string
	Counts   []int
}

// Len is the number of candidate lineages in the summary.
func (b BarcodeSummary) Len() int { return len(b.Lineages) }

// Filter returns a new summary keeping only lineages for which keep
// returns true, preserving relative order (and thus descending-count
// order).
func (b BarcodeSummary) Filter(keep func(lineage string) bool) BarcodeSummary {
	out := BarcodeSummary{}
	for i, l := range b.Lineages {
		if keep(l) {
			out.Lineages = append(out.Lineages, l)
			out.Counts = append(out.Counts, b.Counts[i])
		}
	}
	return out
}

// Exclude returns a new summary dropping every lineage in excluded.
func (b BarcodeSummary) Exclude(excluded []string) BarcodeSummary {
	set := make(map[string]struct{}, len(excluded))
	for _, l := range excluded {
		set[l] = struct{}{}
	}
	return b.Filter(func(l string) bool {
		_, bad := set[l]
		return !bad
	})
}

// MaxCount returns the highest count in the summary; the summary is
// presumed sorted by count descending (as produced by
// ComputeBarcodeSummary), so this is simply the first element.
func (b BarcodeSummary) MaxCount() int {
	if len(b.Counts) == 0 {
		return 0
	}
	return b.Counts[0]
}

// TopLineages returns every lineage tied at MaxCount.
func (b BarcodeSummary) TopLineages() []string {
	max := b.MaxCount()
	if max == 0 && len(b.Lineages) == 0 {
		return nil
	}
	var out []string
	for i, l := range b.Lineages {
		if b.Counts[i] == max {
			out = append(out, l)
		}
	}
	return out
}

// ComputeBarcodeSummary counts, for each lineage in the matrix, how many of
// that lineage's expected substitutions appear in the genome's observed
// substitutions, keeping only lineages with count > 0 and sorting
// descending by count (ties broken alphabetically for determinism, since
// Go map iteration order is randomized and the Python source relies on a
// stable pandas sort).
func ComputeBarcodeSummary(genomeSubs []Substitution, matrix *BarcodeMatrix) BarcodeSummary {
	observed := NewSubSet(genomeSubs...)

	type hit struct {
		lineage string
		count   int
	}
	var hits []hit
	for _, lineage := range matrix.Lineages() {
		count := 0
		for key := range matrix.Barcode(lineage) {
			if _, ok := observed[key]; ok {
				count++
			}
		}
		if count > 0 {
			hits = append(hits, hit{lineage, count})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].count != hits[j].count {
			return hits[i].count > hits[j].count
		}
		return hits[i].lineage < hits[j].lineage
	})

	summary := BarcodeSummary{
		Lineages: make([]string, len(hits)),
		Counts:   make([]int, len(hits)),
	}
	for i, h := range hits {
		summary.Lineages[i] = h.lineage
		summary.Counts[i] = h.count
	}
	return summary
}
