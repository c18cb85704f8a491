package rebar

import "sync"

// Dataset bundles the read-only, cross-sample-shared inputs consulted by
// every worker (spec.md §5): the nomenclature tree, the barcode matrix, the
// lineage-to-clade lookup, and the set of lineages designated as
// recombinants in the tree. Loaded once at startup by internal/ingest and
// never mutated afterward.
type Dataset struct {
	Tree                *LineageTree
	Barcodes            *BarcodeMatrix
	LineageToClade      map[string]string
	RecombinantLineages map[string]struct{}
}

func (d *Dataset) matcherInputs() MatcherInputs {
	return MatcherInputs{Barcodes: d.Barcodes, Tree: d.Tree, LineageToClade: d.LineageToClade}
}

// Result is one genome's full analysis outcome: the primary lineage
// assignment, the two parent matches (nil unless a recombination search
// actually ran), and the finder's output (nil if no recombination was
// detected). Mirrors spec.md §3's "Recombination result" plus the
// non-recombinant short-circuit paths of §4.G.
type Result struct {
	Genome        *Genome
	Primary       *Match
	Parent1       *Match
	Parent2       *Match
	Recombination *RecombinationResult
}

// maxRecursionDepth caps the value recursionDepth returns (SPEC_FULL.md §5's
// "depth" supplemented feature): a starting depth at or above it is
// returned unchanged. The Python sources reviewed never populate this
// field; this is the Go implementation's own policy.
const maxRecursionDepth = 3

// AnalyzeGenome runs the full per-sample pipeline (spec.md §4.G): primary
// match and classification, perfect-match short-circuit, edge-case-aware
// parent_1 search, parent_2 search, and the recombination finder. Returns
// nil if the genome should be skipped at any stage (empty match, empty
// parent, or no recombination found) - the caller's aggregator simply omits
// it from the output.
func AnalyzeGenome(genome *Genome, ds *Dataset, cfg Config, logf debugLogger) *Result {
	recombinantNames := make([]string, 0, len(ds.RecombinantLineages))
	for name := range ds.RecombinantLineages {
		recombinantNames = append(recombinantNames, name)
	}

	summary := ComputeBarcodeSummary(genome.Substitutions, ds.Barcodes).Exclude(cfg.ProblematicLineages)
	genome.BarcodeSummary = summary

	primary := MatchLineage(genome, summary, ds.matcherInputs(), logf)
	if primary.IsEmpty() {
		return nil
	}
	SetRecombinantStatus(primary, ds.RecombinantLineages, ds.Tree)

	if primary.RecombinantStatus == RecombinantNo {
		return &Result{Genome: genome, Primary: primary}
	}

	p1Summary := summary.Exclude(recombinantNames)
	thresholds := cfg.Thresholds
	edgeCase := false
	if primary.RecombinantStatus == RecombinantNamed {
		if narrowed, overridden, applied := ApplyEdgeCase(primary.RecombinantGroup, p1Summary, ds.Tree, thresholds); applied {
			p1Summary = narrowed
			thresholds = overridden
			edgeCase = true
		}
	}

	parent1 := MatchLineage(genome, p1Summary, ds.matcherInputs(), logf)
	if parent1.IsEmpty() {
		return nil
	}
	if len(parent1.ConflictRef) == 0 {
		// Stricter non-recombinant definition (spec.md §4.G step 6): the
		// excluded-recombinant pool alone already explains the genome.
		return &Result{Genome: genome, Primary: primary, Parent1: parent1}
	}

	p2Summary := p1Summary.Exclude(parent1.TopLineages)
	parent2 := MatchLineage(genome, p2Summary, ds.matcherInputs(), logf)
	if parent2.IsEmpty() {
		return nil
	}

	if edgeCase {
		primary.EdgeCase = true
		parent1.EdgeCase = true
	}

	recombination := FindRecombination(genome, parent1, parent2, thresholds)
	if recombination == nil {
		return nil
	}
	recombination.Depth = recursionDepth(parent1, parent2, ds, 0)

	return &Result{
		Genome:        genome,
		Primary:       primary,
		Parent1:       parent1,
		Parent2:       parent2,
		Recombination: recombination,
	}
}

// recursionDepth implements the "depth" field left unpopulated in the
// reviewed Python sources (spec.md §9's open question): it returns depth+1
// when either parent's lineage is itself a designated recombinant lineage,
// and depth otherwise. The recombinant parent is not re-analyzed, so
// nesting below that parent is not counted; AnalyzeGenome starts from 0
// and therefore records 0 or 1.
func recursionDepth(parent1, parent2 *Match, ds *Dataset, depth int) int {
	if depth >= maxRecursionDepth {
		return depth
	}
	_, p1Recombinant := ds.RecombinantLineages[parent1.Lineage]
	_, p2Recombinant := ds.RecombinantLineages[parent2.Lineage]
	if !p1Recombinant && !p2Recombinant {
		return depth
	}
	return depth + 1
}

// AnalyzeBatch runs AnalyzeGenome over every genome using a worker pool
// sized by cfg.EffectiveThreads (spec.md §5's per-sample data-parallelism
// model), mirroring the teacher's channel/WaitGroup fan-out idiom in
// unikmer/cmd/util-search.go. Debug mode collapses to a single worker.
// Cancellation is cooperative: a worker finishes its current genome, then
// stops picking up new ones once cancel is closed.
func AnalyzeBatch(genomes []*Genome, ds *Dataset, cfg Config, logf debugLogger, cancel <-chan struct{}) []*Result {
	jobs := make(chan *Genome, len(genomes))
	for _, g := range genomes {
		jobs <- g
	}
	close(jobs)

	results := make(chan *Result, len(genomes))
	var wg sync.WaitGroup

	workers := cfg.EffectiveThreads()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for genome := range jobs {
				select {
				case <-cancel:
					return
				default:
				}
				if r := AnalyzeGenome(genome, ds, cfg, logf); r != nil {
					results <- r
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]*Result, 0, len(genomes))
	for r := range results {
		out = append(out, r)
	}
	return out
}
