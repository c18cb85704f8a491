package rebar

import (
	"sort"
	"strconv"
	"strings"
)

// Genome is one sample's observed substitutions, deletion/missing-site
// coordinates, and barcode-hit summary. Mirrors
// original_source/rebar/genome.py's Genome class. NewGenome sorts and
// deduplicates the coordinate collections; it does not check that the three
// collections are pairwise disjoint or that coordinates are <= GenomeLength.
type Genome struct {
	ID             string
	GenomeLength   int
	Substitutions  []Substitution
	Deletions      []int // sorted, unique
	Missing        []int // sorted, unique
	BarcodeSummary BarcodeSummary

	// Debug enables verbose per-sample logging in the matcher/finder,
	// mirroring the Python Genome.debug flag consulted throughout
	// barcode.py and recombination.py.
	Debug bool
}

// substitutionSet returns the genome's substitutions as a lookup set.
func (g *Genome) substitutionSet() SubSet {
	return NewSubSet(g.Substitutions...)
}

// missingSet and deletionSet provide O(1) coordinate membership checks;
// both collections are expected to be small per genome so a map is plenty.
func (g *Genome) missingSet() map[int]struct{} {
	return coordSet(g.Missing)
}

func (g *Genome) deletionSet() map[int]struct{} {
	return coordSet(g.Deletions)
}

func coordSet(coords []int) map[int]struct{} {
	set := make(map[int]struct{}, len(coords))
	for _, c := range coords {
		set[c] = struct{}{}
	}
	return set
}

// NewGenome builds a Genome from already-parsed fields, sorting and
// deduplicating the coordinate collections. It does not validate
// cross-collection disjointness or coordinate bounds, and neither do the
// internal/ingest loaders that call it.
func NewGenome(id string, genomeLength int, subs []Substitution, deletions, missing []int) *Genome {
	substitutions := append([]Substitution(nil), subs...)
	SortSubstitutions(substitutions)

	g := &Genome{
		ID:            id,
		GenomeLength:  genomeLength,
		Substitutions: substitutions,
		Deletions:     sortedUniqueInts(deletions),
		Missing:       sortedUniqueInts(missing),
	}
	return g
}

func sortedUniqueInts(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	set := make(map[int]struct{}, len(in))
	for _, c := range in {
		set[c] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// CompressRanges collapses a sorted coordinate list into "a-b"/"a" range
// strings, the inverse of the interval parsing done in
// internal/ingest/genometable.go and the Go port of
// original_source/rebar/genome.py's GenomeAlt.coords_to_ranges.
func CompressRanges(coords []int) []string {
	if len(coords) == 0 {
		return nil
	}
	sorted := append([]int(nil), coords...)
	sort.Ints(sorted)

	var ranges []string
	start := sorted[0]
	prev := sorted[0]
	flush := func(end int) {
		if start == end {
			ranges = append(ranges, strconv.Itoa(start))
		} else {
			ranges = append(ranges, strconv.Itoa(start)+"-"+strconv.Itoa(end))
		}
	}
	for _, c := range sorted[1:] {
		if c == prev+1 {
			prev = c
			continue
		}
		flush(prev)
		start, prev = c, c
	}
	flush(prev)
	return ranges
}

// ParseIntervalList parses a comma-separated list of single coordinates or
// "a-b" ranges (the wire form described in spec.md §6), expanding ranges
// into individual coordinates. "NA" and the empty string denote absence.
func ParseIntervalList(s string) ([]int, error) {
	if s == "" || s == NoDataChar {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		if part == "" || part == NoDataChar {
			continue
		}
		bounds := strings.SplitN(part, "-", 2)
		lo, err := strconv.Atoi(bounds[0])
		if err != nil {
			return nil, &InputMalformedError{Source: "interval-list", Reason: "bad coordinate " + part}
		}
		hi := lo
		if len(bounds) == 2 {
			hi, err = strconv.Atoi(bounds[1])
			if err != nil {
				return nil, &InputMalformedError{Source: "interval-list", Reason: "bad range " + part}
			}
		}
		for c := lo; c <= hi; c++ {
			out = append(out, c)
		}
	}
	return out, nil
}

// NoDataChar is the sentinel string used throughout the external-interface
// tables (spec.md §6) to denote an absent field.
const NoDataChar = "NA"
