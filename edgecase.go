package rebar

// edgeCaseRule is one row of the static edge-case policy table (spec.md
// §4.E), encoded as data rather than a conditional cascade per spec.md §9's
// design note. A zero value for a threshold field means "inherit the
// caller's default" (the table's "-" entries).
type edgeCaseRule struct {
	Group string

	// Exactly one of IncludeDescendantsOf / ExcludeDescendantsOf may be
	// set; it narrows or excludes the parent_2 candidate pool to/from the
	// named lineage's subtree.
	IncludeDescendantsOf string
	ExcludeDescendantsOf string

	// Threshold overrides; nil means "no override" (inherit caller's
	// default). "0" is itself a meaningful override (e.g. XR/XAV/XAZ's
	// min_subs=0), so these are *int to tell "unset" from "explicitly
	// zero".
	MinSubs        *int
	MinConsecutive *int
	MinLength      *int
}

func intPtr(v int) *int { return &v }

// edgeCaseTable is the authoritative encoding of spec.md §4.E's table,
// ported 1:1 from original_source/rebar/edge_cases.py's handle_edge_cases.
var edgeCaseTable = map[string]edgeCaseRule{
	"XB": {
		Group:                 "XB",
		IncludeDescendantsOf: "B.1.631",
	},
	"XP": {
		Group:                 "XP",
		IncludeDescendantsOf: "BA.2",
		MinConsecutive:        intPtr(1),
		MinLength:             intPtr(1),
	},
	"XR": {
		Group:          "XR",
		MinSubs:        intPtr(0),
		MinConsecutive: intPtr(2),
	},
	"XBK": {
		Group:                 "XBK",
		IncludeDescendantsOf: "BA.2",
	},
	"XBQ": {
		Group:                 "XBQ",
		IncludeDescendantsOf: "BA.2",
	},
	"XBZ": {
		Group:          "XBZ",
		MinConsecutive: intPtr(2),
		MinLength:      intPtr(300),
	},
	"XAS": {
		Group:                 "XAS",
		IncludeDescendantsOf: "BA.2",
	},
	"XAE": {
		Group:                 "XAE",
		IncludeDescendantsOf: "BA.1",
		MinConsecutive:        intPtr(5),
	},
	"XAV": {
		Group:                 "XAV",
		ExcludeDescendantsOf: "BA.5.1.24",
		MinSubs:               intPtr(0),
		MinConsecutive:        intPtr(2),
	},
	"XAZ": {
		Group:                 "XAZ",
		IncludeDescendantsOf: "BA.2",
		MinSubs:               intPtr(0),
		MinConsecutive:        intPtr(1),
		MinLength:             intPtr(1),
	},
}

// RegionThresholds are the tunable filters consulted by the region/
// breakpoint finder (spec.md §4.F); Config holds the caller's defaults and
// ApplyEdgeCase may override a subset of them per-sample.
type RegionThresholds struct {
	MaxBreakpoints int
	MinSubs        int
	MinConsecutive int
	MinLength      int
}

// ApplyEdgeCase applies the static policy table to a primary match's
// recombinant group, narrowing/excluding the parent_2 candidate pool and
// overriding thresholds as spec.md §4.E prescribes. Returns the (possibly
// rewritten) summary and thresholds, and whether a rule fired at all (the
// caller sets Match.EdgeCase accordingly). Mirrors
// original_source/rebar/edge_cases.py: handle_edge_cases.
func ApplyEdgeCase(group string, summary BarcodeSummary, tree *LineageTree, defaults RegionThresholds) (BarcodeSummary, RegionThresholds, bool) {
	rule, ok := edgeCaseTable[group]
	if !ok {
		return summary, defaults, false
	}

	out := defaults
	if rule.MinSubs != nil {
		out.MinSubs = *rule.MinSubs
	}
	if rule.MinConsecutive != nil {
		out.MinConsecutive = *rule.MinConsecutive
	}
	if rule.MinLength != nil {
		out.MinLength = *rule.MinLength
	}

	result := summary
	switch {
	case rule.IncludeDescendantsOf != "":
		include := make(map[string]struct{})
		for _, d := range tree.Descendants(rule.IncludeDescendantsOf) {
			include[d] = struct{}{}
		}
		result = summary.Filter(func(l string) bool {
			_, ok := include[l]
			return ok
		})
	case rule.ExcludeDescendantsOf != "":
		exclude := make(map[string]struct{})
		for _, d := range tree.Descendants(rule.ExcludeDescendantsOf) {
			exclude[d] = struct{}{}
		}
		result = summary.Filter(func(l string) bool {
			_, bad := exclude[l]
			return !bad
		})
	}

	return result, out, true
}
