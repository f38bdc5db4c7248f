package lookup

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/fstlab/morphserve/pkg/analysis"
	"github.com/fstlab/morphserve/pkg/fst"
)

func lengthDistance(a, b string) float64 {
	return math.Abs(float64(len(a)) - float64(len(b)))
}

func newTestPair(analyserResults, generatorResults map[string][]fst.Path) *Pair {
	return NewPair(
		New(&stubEngine{results: analyserResults}),
		New(&stubEngine{results: generatorResults}),
	)
}

func TestAnalyseWithoutDistanceKeepsEngineOrder(t *testing.T) {
	p := newTestPair(
		map[string][]fst.Path{
			"ab": {
				path(1, "first", "+T"),
				path(2, "second", "+T"),
			},
		},
		map[string][]fst.Path{
			"first+T":  {path(0, "aaaa")},
			"second+T": {path(0, "b")},
		},
	)

	got := p.Analyse("ab", nil)
	if len(got) != 2 {
		t.Fatalf("got %d analyses, want 2", len(got))
	}
	if got[0].Analysis.Lemma != "first" || got[1].Analysis.Lemma != "second" {
		t.Errorf("order changed without a distance function: %v", lemmas(got))
	}
}

func TestAnalyseDistanceRanking(t *testing.T) {
	// Three candidates standardizing to "a", "b" and nothing. With source
	// "ab" and |len| distance, "a" and "b" tie at 1 and must keep their
	// original relative order; the unstandardized one sorts last.
	p := newTestPair(
		map[string][]fst.Path{
			"ab": {
				path(1, "one", "+T"),
				path(2, "two", "+T"),
				path(3, "three", "+T"),
			},
		},
		map[string][]fst.Path{
			"one+T": {path(0, "a")},
			"two+T": {path(0, "b")},
			// three+T standardizes to nothing: two distinct surfaces.
			"three+T": {path(0, "x"), path(1, "y")},
		},
	)

	got := p.Analyse("ab", lengthDistance)
	want := []string{"one", "two", "three"}
	if diff := cmp.Diff(want, lemmas(got)); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
	if got[2].Standardized != nil {
		t.Errorf("last candidate Standardized = %q, want absent", *got[2].Standardized)
	}
}

func TestAnalyseDistanceReordersByCloseness(t *testing.T) {
	p := newTestPair(
		map[string][]fst.Path{
			"ab": {
				path(1, "far", "+T"),
				path(2, "near", "+T"),
			},
		},
		map[string][]fst.Path{
			"far+T":  {path(0, "aaaaaa")},
			"near+T": {path(0, "ab")},
		},
	)

	got := p.Analyse("ab", lengthDistance)
	want := []string{"near", "far"}
	if diff := cmp.Diff(want, lemmas(got)); diff != "" {
		t.Errorf("closest standardized form should rank first (-want +got):\n%s", diff)
	}
}

func TestAnalyseWordform(t *testing.T) {
	p := newTestPair(
		map[string][]fst.Path{
			"walks": {path(1, "walk", "+V")},
		},
		map[string][]fst.Path{
			"walk+V": {path(0, "walks")},
		},
	)
	w := analysis.Wordform{Symbols: []string{"walk", "s"}}
	got := p.AnalyseWordform(w, nil)
	if len(got) != 1 || got[0].Analysis.Lemma != "walk" {
		t.Errorf("AnalyseWordform(%q) = %v", w.Surface(), lemmas(got))
	}
}

func TestGenerateEntryPoints(t *testing.T) {
	generated := map[string][]fst.Path{
		"PV/e+walk+V": {path(0, "e-", "walks")},
	}
	p := newTestPair(nil, generated)

	a := analysis.Analysis{Prefixes: []string{"PV/e+"}, Lemma: "walk", Suffixes: []string{"+V"}}
	fa := analysis.FullAnalysis{Symbols: []string{"PV/e+", "walk", "+V"}, Analysis: a}

	for name, forms := range map[string][]analysis.Wordform{
		"Generate":         p.Generate("PV/e+walk+V"),
		"GenerateAnalysis": p.GenerateAnalysis(a),
		"GenerateFull":     p.GenerateFull(fa),
	} {
		if len(forms) != 1 || forms[0].Surface() != "e-walks" {
			t.Errorf("%s produced %v, want one wordform e-walks", name, forms)
		}
	}
}

func TestLoadPair(t *testing.T) {
	dir := t.TempDir()

	build := func(name string, in []string, out []string) string {
		b := fst.NewBuilder()
		prev := uint32(0)
		n := max(len(in), len(out))
		for i := 0; i < n; i++ {
			next := b.AddState()
			inSym, outSym := "", ""
			if i < len(in) {
				inSym = in[i]
			}
			if i < len(out) {
				outSym = out[i]
			}
			b.AddArc(prev, inSym, outSym, next, 0)
			prev = next
		}
		b.SetFinal(prev, 0)
		p := dir + "/" + name
		if err := b.Transducer().WriteFile(p, fst.TypeOptimized); err != nil {
			t.Fatal(err)
		}
		return p
	}

	analyserPath := build("analyser.mfst", []string{"walks"}, []string{"walk", "+V"})
	generatorPath := build("generator.mfst", []string{"walk", "+V"}, []string{"walks"})

	p, err := LoadPair(analyserPath, generatorPath, WithCutoff(time.Second))
	if err != nil {
		t.Fatalf("LoadPair: %v", err)
	}
	got := p.Analyse("walks", nil)
	if len(got) != 1 {
		t.Fatalf("Analyse(walks) returned %d candidates, want 1", len(got))
	}
	if got[0].Standardized == nil || *got[0].Standardized != "walks" {
		t.Errorf("Standardized = %v, want walks", got[0].Standardized)
	}
}

func lemmas(fas []analysis.FullAnalysis) []string {
	out := make([]string, len(fas))
	for i, fa := range fas {
		out[i] = fa.Analysis.Lemma
	}
	return out
}
