/*
Package lookup wraps the FST engine with the morphological lookup surface:
string and symbol lookups, bulk lookup with set semantics, weighted lookups
decoded into structured analyses, and the analyser/generator pairing with its
standardization cross-check.

A Transducer owns exactly one engine handle and a per-instance search cutoff
fixed at construction. Instances are not safe for concurrent use; give each
worker its own.
*/
package lookup

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fstlab/morphserve/pkg/analysis"
	"github.com/fstlab/morphserve/pkg/fst"
)

// ErrInfinitelyAmbiguous is returned by Load when the transducer reports
// unbounded ambiguity. Such a transducer makes lookups terminate only through
// the cutoff, so loading one is refused outright.
var ErrInfinitelyAmbiguous = errors.New("transducer is infinitely ambiguous")

// DefaultCutoff is the stock per-call bound on engine search effort.
const DefaultCutoff = 60 * time.Second

// Engine is the transducer engine surface this layer consumes. *fst.Transducer
// satisfies it; tests substitute stubs.
type Engine interface {
	// Lookup returns weighted transductions for input, best (lowest weight)
	// first, bounded by cutoff. Empty means no analysis, never an error.
	Lookup(input string, cutoff time.Duration) []fst.Path
	// AlphabetSize returns the size of the engine's symbol table.
	AlphabetSize() int
}

// Transducer wraps one loaded engine handle.
type Transducer struct {
	engine Engine
	cutoff time.Duration
}

// Option configures a Transducer at construction.
type Option func(*Transducer)

// WithCutoff sets the per-call search cutoff. The default is DefaultCutoff.
func WithCutoff(d time.Duration) Option {
	return func(t *Transducer) { t.cutoff = d }
}

// Load opens the container file at path and wraps the transducer inside.
// It fails with fs.ErrNotExist for a missing path, fst.ErrNotTransducer for
// an unparseable stream, fst.ErrMultipleTransducers for a container holding
// more than one transducer, and ErrInfinitelyAmbiguous for a transducer with
// unbounded ambiguity.
func Load(path string, opts ...Option) (*Transducer, error) {
	engine, err := fst.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load transducer %s: %w", path, err)
	}
	if engine.IsInfinitelyAmbiguous() {
		return nil, fmt.Errorf("load transducer %s: %w", path, ErrInfinitelyAmbiguous)
	}
	return New(engine, opts...), nil
}

// New wraps an already-constructed engine handle.
func New(engine Engine, opts ...Option) *Transducer {
	t := &Transducer{engine: engine, cutoff: DefaultCutoff}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Cutoff returns the per-call search bound this instance was built with.
func (t *Transducer) Cutoff() time.Duration {
	return t.cutoff
}

// Lookup transduces input and concatenates each transduction's filtered
// symbols into a flat string. Duplicates from the engine are kept; see
// BulkLookup for set semantics.
func (t *Transducer) Lookup(input string) []string {
	symbolLists := t.LookupSymbols(input)
	out := make([]string, len(symbolLists))
	for i, symbols := range symbolLists {
		out[i] = strings.Join(symbols, "")
	}
	return out
}

// LookupSymbols transduces input into filtered, un-concatenated symbol lists,
// one per transduction, in engine order (lowest weight first). This layer
// never re-sorts.
func (t *Transducer) LookupSymbols(input string) [][]string {
	paths := t.engine.Lookup(input, t.cutoff)
	out := make([][]string, len(paths))
	for i, p := range paths {
		out[i] = analysis.FilterSymbols(p.Symbols)
	}
	return out
}

// BulkLookup maps each distinct input to the deduplicated set of its lookup
// outputs. Duplicate inputs collapse to one entry; each key is computed
// independently.
func (t *Transducer) BulkLookup(inputs []string) map[string][]string {
	out := make(map[string][]string, len(inputs))
	for _, input := range inputs {
		if _, done := out[input]; done {
			continue
		}
		seen := make(map[string]struct{})
		set := []string{}
		for _, result := range t.Lookup(input) {
			if _, dup := seen[result]; dup {
				continue
			}
			seen[result] = struct{}{}
			set = append(set, result)
		}
		out[input] = set
	}
	return out
}

// WeightedLookupFullAnalysis transduces input into structured analyses with
// their weights, in engine order. When generator is non-nil, each candidate
// is cross-validated through it and Standardized is filled per the unanimity
// rule. Candidates whose symbols do not decode are dropped and reported, not
// fatal to the rest.
//
// With a generator this performs one full generator lookup per candidate,
// which dominates the cost of a paired lookup.
func (t *Transducer) WeightedLookupFullAnalysis(input string, generator *Transducer) []analysis.FullAnalysis {
	paths := t.engine.Lookup(input, t.cutoff)
	out := make([]analysis.FullAnalysis, 0, len(paths))
	for _, p := range paths {
		symbols := analysis.FilterSymbols(p.Symbols)
		decoded, err := analysis.Decode(symbols)
		if err != nil {
			log.Warnf("dropping analysis of %q: %v", input, err)
			continue
		}
		fa := analysis.FullAnalysis{
			Weight:   p.Weight,
			Symbols:  symbols,
			Analysis: decoded,
		}
		if generator != nil {
			fa.Standardized = generator.standardize(symbols)
		}
		out = append(out, fa)
	}
	return out
}

// standardize regenerates surface forms for the candidate symbols and returns
// the single agreed form, or nil when the generator returns nothing or
// returns two distinct surfaces. Unanimous agreement or nothing; one
// disagreement invalidates the whole standardization.
func (t *Transducer) standardize(symbols []string) *string {
	var agreed *string
	for _, p := range t.engine.Lookup(analysis.FSTOutputFormat(symbols), t.cutoff) {
		candidate := strings.Join(analysis.FilterSymbols(p.Symbols), "")
		if agreed != nil && *agreed != candidate {
			return nil
		}
		agreed = &candidate
	}
	return agreed
}

// WeightedLookupFullWordform transduces input into weighted surface
// wordforms, in engine order, without decoding.
func (t *Transducer) WeightedLookupFullWordform(input string) []analysis.Wordform {
	paths := t.engine.Lookup(input, t.cutoff)
	out := make([]analysis.Wordform, len(paths))
	for i, p := range paths {
		out[i] = analysis.Wordform{
			Weight:  p.Weight,
			Symbols: analysis.FilterSymbols(p.Symbols),
		}
	}
	return out
}

// SymbolCount returns the size of the engine's alphabet.
func (t *Transducer) SymbolCount() int {
	return t.engine.AlphabetSize()
}
