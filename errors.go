package rebar

import "fmt"

// Error kinds from spec.md §7. InputMalformed is fatal at load time;
// LineageUnknown is logged per-occurrence and the affected lineage is
// excluded from its candidate pool; MatchEmpty/ThresholdViolation name
// recoverable per-sample outcomes. AnalyzeGenome does not return these two:
// it returns nil for such a genome, and AnalyzeBatch leaves it out of its
// results.

// InputMalformedError reports a structurally invalid input: barcode
// columns that don't parse as substitutions, a tree missing its "X" or
// "MRCA" node, or duplicate lineage rows. Always fatal.
type InputMalformedError struct {
	Source string // e.g. "barcodes.csv", "tree.nwk"
	Reason string
}

func (e *InputMalformedError) Error() string {
	return fmt.Sprintf("rebar: malformed input %s: %s", e.Source, e.Reason)
}

// LineageUnknownError reports a lineage present in one input but absent
// from another (barcodes vs. tree, or tree vs. lineage_to_clade). Never
// fatal; the caller logs it and excludes the lineage from its pool.
type LineageUnknownError struct {
	Lineage string
	In      string // where it was found
	Missing string // where it is missing
}

func (e *LineageUnknownError) Error() string {
	if e.In == "" && e.Missing == "" {
		return fmt.Sprintf("rebar: unknown lineage %q", e.Lineage)
	}
	return fmt.Sprintf("rebar: lineage %q found in %s but missing from %s", e.Lineage, e.In, e.Missing)
}

// MatchEmptyError reports that no lineage at all matched a genome's
// observed substitutions (the barcode summary was empty). Recoverable:
// AnalyzeGenome returns nil for such a genome, so it is omitted from the
// batch output.
type MatchEmptyError struct {
	GenomeID string
}

func (e *MatchEmptyError) Error() string {
	return fmt.Sprintf("rebar: no barcode match for genome %q", e.GenomeID)
}

// ThresholdViolationError reports that a parent_2 candidate failed
// min_subs/min_consecutive/min_length, or that fewer than two regions
// survived filtering. Recoverable: AnalyzeGenome returns nil for such a
// genome, so it is omitted from the batch output.
type ThresholdViolationError struct {
	GenomeID string
	Reason   string
}

func (e *ThresholdViolationError) Error() string {
	return fmt.Sprintf("rebar: genome %q failed recombination thresholds: %s", e.GenomeID, e.Reason)
}
