// Package distance provides string distance functions for ranking generated
// surface forms against a source wordform.
package distance

// Levenshtein returns the edit distance between a and b, counting insertions,
// deletions and substitutions over runes. Chosen as the stock ranking metric
// because morphological variants of a wordform differ by short affix edits.
func Levenshtein(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return float64(len(rb))
	}
	if len(rb) == 0 {
		return float64(len(ra))
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			// deletion, insertion, substitution
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return float64(prev[len(rb)])
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
