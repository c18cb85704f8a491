package rebar

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// RecombinantStatus tags the outcome of set_recombinant_status
// (spec.md §4.D), replacing the Python source's overloaded
// `None | false | "X" | group-name` field with an explicit tagged variant,
// per spec.md §9's design note.
type RecombinantStatus int

const (
	// RecombinantUnknown means classification has not run, or ran and
	// could not decide (conflict_ref non-empty, lineage not a named
	// recombinant): the orchestrator continues the pipeline.
	RecombinantUnknown RecombinantStatus = iota
	// RecombinantNo is a perfect non-recombinant match (conflict_ref empty).
	RecombinantNo
	// RecombinantX is the generic "X" recombinant root lineage.
	RecombinantX
	// RecombinantNamed is a designated recombinant group, e.g. "XBB".
	RecombinantNamed
)

// Match is the result of one matcher invocation: a chosen lineage, its
// supporting evidence partitions, and its recombinant classification.
// Mirrors original_source/rebar/barcode.py's Barcode class.
type Match struct {
	Lineage               string
	Clade                 string
	TopLineages           []string
	TopLineagesSubsample  []string
	OutlierLineages       []string
	Barcode               []Substitution
	Support               []Substitution
	Missing               []Substitution
	ConflictRef           []Substitution
	ConflictAlt           []Substitution
	Definition            string
	RecombinantStatus     RecombinantStatus
	RecombinantGroup      string // set iff RecombinantStatus == RecombinantNamed
	Recursive             bool
	EdgeCase              bool
}

// IsEmpty reports whether this is the zero Match returned when no lineage
// could be matched at all (spec.md B1 / MatchEmptyError).
func (m *Match) IsEmpty() bool {
	return m == nil || m.Lineage == ""
}

// MatcherInputs bundles the read-only, cross-sample-shared inputs to the
// matcher (spec.md §4.D), analogous to the positional args of Python's
// Barcode.search.
type MatcherInputs struct {
	Barcodes        *BarcodeMatrix
	Tree            *LineageTree
	LineageToClade  map[string]string
}

// debugLogger is set by callers that want per-sample debug logging (spec.md
// §5's debug mode); nil by default so the core has no direct logging
// dependency.
type debugLogger func(format string, args ...interface{})

// MatchLineage runs the barcode matcher (spec.md §4.D) for one genome against a
// candidate pool. Returns a nil *Match (spec.md B1) if summary is empty.
func MatchLineage(genome *Genome, summary BarcodeSummary, in MatcherInputs, logf debugLogger) *Match {
	if summary.Len() == 0 {
		return nil
	}

	topLineages := summary.TopLineages()
	topSubsample := topLineages

	lineage := in.Tree.MRCA(topLineages).Name

	var outliers []string
	keep := topLineages

	if len(topLineages) >= 2 {
		if len(topLineages) > MaxTopLineagesForOutlierDetection {
			topSubsample = sampleWithReplacement(topLineages, MaxTopLineagesForOutlierDetection)
		}

		keep, outliers = keepAndOutliers(topSubsample, in.Tree)

		lineageNode := in.Tree.MRCA(keep)
		lineage = lineageNode.Name
		descendants := make(map[string]struct{}, 8)
		for _, d := range lineageNode.Descendants() {
			descendants[d] = struct{}{}
		}
		listed := make(map[string]struct{}, len(outliers))
		for _, l := range outliers {
			listed[l] = struct{}{}
		}
		for _, l := range topLineages {
			_, isDescendant := descendants[l]
			_, isListed := listed[l]
			if !isDescendant && !isListed {
				listed[l] = struct{}{}
				outliers = append(outliers, l)
			}
		}
	}

	clade := resolveClade(lineage, in.LineageToClade)
	if clade == "" && logf != nil {
		logf("WARNING: unknown clade for lineage %s", lineage)
	}

	// Shared-sub promotion (spec.md §4.D step 6): subs common to every
	// lineage in (top ∩ keep) must not be counted as conflicts for the
	// MRCA, per the XAJ rationale documented in barcode.py.
	sharedCandidates := make([]SubSet, 0, len(keep))
	for _, l := range keep {
		sharedCandidates = append(sharedCandidates, in.Barcodes.Barcode(l))
	}
	shared := intersectAll(sharedCandidates)

	expected := in.Barcodes.Barcode(lineage).Union(shared)

	genomeSubs := genome.substitutionSet()
	missingCoords := genome.missingSet()

	var support, missing, conflictRef, conflictAlt []Substitution
	for key, s := range expected {
		if _, ok := genomeSubs[key]; ok {
			support = append(support, s)
			continue
		}
		if _, ok := missingCoords[s.Coord]; ok {
			missing = append(missing, s)
		} else {
			conflictRef = append(conflictRef, s)
		}
	}
	for key, s := range genomeSubs {
		if _, ok := expected[key]; ok {
			continue
		}
		if _, ok := shared[key]; ok {
			continue
		}
		conflictAlt = append(conflictAlt, s)
	}
	SortSubstitutions(support)
	SortSubstitutions(missing)
	SortSubstitutions(conflictRef)
	SortSubstitutions(conflictAlt)

	definition := lineage
	if len(conflictAlt) > 0 {
		parts := make([]string, len(conflictAlt))
		for i, s := range conflictAlt {
			parts[i] = s.String()
		}
		definition += "+" + strings.Join(parts, ",")
	}

	return &Match{
		Lineage:              lineage,
		Clade:                clade,
		TopLineages:          topLineages,
		TopLineagesSubsample: topSubsample,
		OutlierLineages:      outliers,
		Barcode:              expected.Slice(),
		Support:              support,
		Missing:              missing,
		ConflictRef:          conflictRef,
		ConflictAlt:          conflictAlt,
		Definition:           definition,
	}
}

func resolveClade(lineage string, lineageToClade map[string]string) string {
	if clade, ok := lineageToClade[lineage]; ok {
		return clade
	}
	if lineage == "MRCA" || lineage == "X" {
		return lineage
	}
	return ""
}

func intersectAll(sets []SubSet) SubSet {
	if len(sets) == 0 {
		return SubSet{}
	}
	out := sets[0]
	for _, s := range sets[1:] {
		out = out.Intersect(s)
	}
	return out
}

// roundedMode computes the statistical mode of a map's values after
// rounding each to 6 decimal places, per spec.md §9's open-question
// resolution ("the reimplementation should define mode over rounded
// values... to avoid floating-point sensitivity"). Uses
// gonum.org/v1/gonum/stat.Mode, which requires its input sorted ascending.
func roundedMode(values map[string]float64) float64 {
	rounded := make([]float64, 0, len(values))
	for _, v := range values {
		rounded = append(rounded, math.Round(v*1e6)/1e6)
	}
	sort.Float64s(rounded)
	mode, _ := stat.Mode(rounded, nil)
	return mode
}

// keepAndOutliers splits topSubsample into the lineages within the modal
// pairwise-distance band and those outside it (spec.md §4.D step 4).
// topSubsample may repeat a lineage name (sampled with replacement), but
// distances is keyed by lineage, so walking its unique key set - not
// topSubsample itself - is what keeps the two returned slices free of
// duplicates, matching distances_summary.items() in barcode.py.
func keepAndOutliers(topSubsample []string, tree *LineageTree) (keep, outliers []string) {
	distances := make(map[string]float64, len(topSubsample))
	var uniqueSubsample []string
	for _, l1 := range topSubsample {
		if _, ok := distances[l1]; ok {
			continue
		}
		var ds []float64
		for _, l2 := range topSubsample {
			if l1 == l2 {
				continue
			}
			ds = append(ds, float64(tree.Distance(l1, l2)))
		}
		distances[l1] = stat.Mean(ds, nil)
		uniqueSubsample = append(uniqueSubsample, l1)
	}

	mode := roundedMode(distances)

	for _, l := range uniqueSubsample {
		if math.Round(distances[l]*1e6)/1e6 <= mode {
			keep = append(keep, l)
		} else {
			outliers = append(outliers, l)
		}
	}
	return keep, outliers
}

// SetRecombinantStatus classifies a Match's recombinant status (spec.md
// §4.D "Recombinant classification"), given the set of designated
// recombinant lineage names and a tree holding the recombinant subtree
// rooted at "X" (the whole lineage tree, as AnalyzeGenome passes, or that
// subtree alone). The "X" node itself is never taken as a group and is not
// counted toward the recursion check.
// Mirrors original_source/rebar/barcode.py's Barcode.set_recombinant_status.
func SetRecombinantStatus(m *Match, recombinantLineages map[string]struct{}, recombinantTree *LineageTree) {
	if m.Lineage == "X" {
		m.RecombinantStatus = RecombinantX
		m.Recursive = false
		return
	}

	if _, ok := recombinantLineages[m.Lineage]; ok {
		// PathToRoot is leaf-first, so this walks from the lineage upward.
		for _, name := range recombinantTree.PathToRoot(m.Lineage) {
			if name == "X" {
				break
			}
			if strings.HasPrefix(name, "X") {
				m.RecombinantStatus = RecombinantNamed
				m.RecombinantGroup = strings.SplitN(name, ".", 2)[0]
				break
			}
		}
		if m.RecombinantGroup != "" {
			below := 0
			for _, name := range recombinantTree.PathToRoot(m.RecombinantGroup) {
				if name == "X" {
					break
				}
				below++
			}
			if below > 1 {
				m.Recursive = true
			}
		}
		return
	}

	if len(m.ConflictRef) == 0 {
		m.RecombinantStatus = RecombinantNo
	}
}
