package analysis

import "github.com/fstlab/morphserve/pkg/fst"

// FilterSymbols strips empty tokens and flag diacritics from a raw output
// symbol sequence, preserving the order of what remains. Diacritic
// classification is the engine's; this layer only applies it. Idempotent.
func FilterSymbols(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, sym := range raw {
		if sym == "" || fst.IsDiacritic(sym) {
			continue
		}
		out = append(out, sym)
	}
	return out
}
