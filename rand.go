package rebar

import "math/rand"

// OutlierSamplingSeed fixes the PRNG used for top-lineage outlier
// subsampling (spec.md §4.D step 4). The matcher re-seeds with this
// constant on every call, so results never depend on worker ordering
// (spec.md §5) - the direct translation of Python's random.seed(123456).
const OutlierSamplingSeed = 123456

// MaxTopLineagesForOutlierDetection caps the number of top lineages
// actually used for the pairwise distance matrix; larger sets are
// subsampled with replacement, exactly matching
// original_source/rebar/barcode.py's random.choices(top_lineages, k=10).
const MaxTopLineagesForOutlierDetection = 10

// sampleWithReplacement draws k elements from items, with replacement,
// using a PRNG seeded with OutlierSamplingSeed. This must stay a draw
// *with* replacement (not without) to reproduce the Python source's
// behavior, per spec.md §9's explicit note on this point.
func sampleWithReplacement(items []string, k int) []string {
	r := rand.New(rand.NewSource(OutlierSamplingSeed))
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = items[r.Intn(len(items))]
	}
	return out
}
