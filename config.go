package rebar

// Config bundles the tunable options consulted across a whole run: region
// thresholds, concurrency, and the globally excluded lineage list. Built
// from cobra flags in cmd/rebar/cmd; kept as a plain struct rather than a
// viper-style dynamic config since every field here is set once at startup
// and never reloaded, matching the teacher's root.go persistent-flag style.
type Config struct {
	Thresholds RegionThresholds

	// ProblematicLineages is a small constant-ish set of lineages (e.g.
	// "BA.2.85") excluded from every candidate pool globally. Kept
	// data-driven rather than hard-coded per spec.md §9's note.
	ProblematicLineages []string

	// Threads bounds the worker pool size (spec.md §5). Ignored (forced to
	// 1) when Debug is set.
	Threads int

	// Debug enables verbose per-sample logging and forces single-worker
	// execution so logs interleave predictably.
	Debug bool
}

// DefaultThresholds mirrors original_source/rebar/constants.py's default
// recombination-search parameters.
func DefaultThresholds() RegionThresholds {
	return RegionThresholds{
		MaxBreakpoints: 10,
		MinSubs:        1,
		MinConsecutive: 3,
		MinLength:      1,
	}
}

// EffectiveThreads returns the worker count the pool should actually use,
// applying the debug-mode override.
func (c Config) EffectiveThreads() int {
	if c.Debug {
		return 1
	}
	if c.Threads < 1 {
		return 1
	}
	return c.Threads
}
