package rebar

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// substitutionPattern matches the wire form of a Substitution: a reference
// base, a 1-based coordinate, and an alternate base (or "-" for a deletion
// expressed barcode-side).
var substitutionPattern = regexp.MustCompile(`^([ACGT])(\d+)([ACGT-])$`)

// ErrInvalidSubstitution is returned by ParseSubstitution when the input
// does not match the `[ACGT]\d+[ACGT-]` grammar.
var ErrInvalidSubstitution = fmt.Errorf("rebar: invalid substitution string")

// Substitution is an immutable (ref, coord, alt) triple. Two substitutions
// are equal only if all three fields match; ordering is by coordinate only.
type Substitution struct {
	Ref   byte
	Coord int
	Alt   byte
}

// ParseSubstitution parses a string of the form "<ref><coord><alt>",
// e.g. "C2432T".
func ParseSubstitution(s string) (Substitution, error) {
	m := substitutionPattern.FindStringSubmatch(s)
	if m == nil {
		return Substitution{}, ErrInvalidSubstitution
	}
	coord, err := strconv.Atoi(m[2])
	if err != nil {
		return Substitution{}, ErrInvalidSubstitution
	}
	return Substitution{Ref: m[1][0], Coord: coord, Alt: m[3][0]}, nil
}

// MustParseSubstitution is ParseSubstitution but panics on error; useful in
// table literals and tests where the input is known-good.
func MustParseSubstitution(s string) Substitution {
	sub, err := ParseSubstitution(s)
	if err != nil {
		panic(err)
	}
	return sub
}

// String renders the canonical wire form "<ref><coord><alt>".
func (s Substitution) String() string {
	return fmt.Sprintf("%c%d%c", s.Ref, s.Coord, s.Alt)
}

// Less orders two substitutions by coordinate only, matching the Python
// Substitution.__lt__ which ignores ref/alt for ordering purposes.
func (s Substitution) Less(other Substitution) bool {
	return s.Coord < other.Coord
}

// SortSubstitutions sorts in place by coordinate, breaking ties by the full
// string form so that output is fully deterministic even at non-bi-allelic
// duplicate coordinates.
func SortSubstitutions(subs []Substitution) {
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Coord != subs[j].Coord {
			return subs[i].Coord < subs[j].Coord
		}
		return subs[i].String() < subs[j].String()
	})
}

// SubSet is a small set of substitutions, keyed by wire-form string, used
// throughout the matcher and finder for union/intersect/difference
// arithmetic over the (typically tiny) per-lineage barcode sets.
type SubSet map[string]Substitution

// NewSubSet builds a SubSet from a slice, deduplicating as it goes.
func NewSubSet(subs ...Substitution) SubSet {
	set := make(SubSet, len(subs))
	for _, s := range subs {
		set[s.String()] = s
	}
	return set
}

// Contains reports whether s is a member.
func (set SubSet) Contains(s Substitution) bool {
	_, ok := set[s.String()]
	return ok
}

// Add inserts s, returning the (possibly unchanged) set for chaining.
func (set SubSet) Add(s Substitution) SubSet {
	set[s.String()] = s
	return set
}

// Slice returns the members sorted by coordinate.
func (set SubSet) Slice() []Substitution {
	out := make([]Substitution, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	SortSubstitutions(out)
	return out
}

// Union returns a new set containing members of both sets.
func (set SubSet) Union(other SubSet) SubSet {
	out := make(SubSet, len(set)+len(other))
	for k, v := range set {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Intersect returns a new set containing members present in both sets.
func (set SubSet) Intersect(other SubSet) SubSet {
	out := make(SubSet)
	small, big := set, other
	if len(other) < len(set) {
		small, big = other, set
	}
	for k, v := range small {
		if _, ok := big[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Difference returns a new set containing members of set not present in
// any of the others.
func (set SubSet) Difference(others ...SubSet) SubSet {
	out := make(SubSet, len(set))
	for k, v := range set {
		out[k] = v
	}
	for _, other := range others {
		for k := range other {
			delete(out, k)
		}
	}
	return out
}
