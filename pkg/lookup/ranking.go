package lookup

import (
	"math"
	"sort"

	"github.com/fstlab/morphserve/pkg/analysis"
)

// DistanceFunc scores how far a candidate surface form is from the source
// string; smaller is closer. Levenshtein distance is the usual choice, but
// any metric works.
type DistanceFunc func(source, candidate string) float64

// sortByDistance stably re-sorts candidates ascending by distance between
// source and each candidate's standardized form. Candidates without a
// standardized form rank as infinitely distant, so they end up last in their
// original relative order.
func sortByDistance(candidates []analysis.FullAnalysis, source string, distance DistanceFunc) {
	keys := make([]float64, len(candidates))
	for i, c := range candidates {
		if c.Standardized == nil {
			keys[i] = math.Inf(1)
			continue
		}
		keys[i] = distance(source, *c.Standardized)
	}
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return keys[order[i]] < keys[order[j]]
	})
	sorted := make([]analysis.FullAnalysis, len(candidates))
	for i, idx := range order {
		sorted[i] = candidates[idx]
	}
	copy(candidates, sorted)
}
