/*
Package fst implements a weighted finite-state transducer engine for
morphological lookup.

A transducer maps input strings to one or more weighted output symbol
sequences. Transducers are loaded from .mfst container files, which hold
exactly one transducer in either the generic compiled form or the
optimized-lookup form. Generic-form transducers are optimized in place at load
time, a one-time cost.

Lookup tokenizes the input into alphabet symbols with longest-match
segmentation, then searches the arc graph depth-first, honoring flag-diacritic
constraints and accumulating path weights. Results come back sorted by weight,
lowest (most probable) first. A per-call cutoff bounds search effort; hitting
it yields a partial result set, not an error.

A Transducer is not safe for concurrent use; give each worker its own
instance.
*/
package fst

import (
	"bufio"
	"io"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Type identifies the on-disk representation of a transducer.
type Type uint8

const (
	// TypeGeneric is the generic compiled form: arcs stored in insertion
	// order, not directly suitable for fast lookup.
	TypeGeneric Type = iota
	// TypeOptimized is the optimized-lookup form: arcs sorted by input
	// symbol with input-epsilon arcs split out.
	TypeOptimized
)

// epsilonID is the reserved alphabet index for the epsilon symbol.
const epsilonID uint32 = 0

type arc struct {
	in     uint32
	out    uint32
	target uint32
	weight float64
}

type state struct {
	final       bool
	finalWeight float64
	// eps holds input-epsilon arcs, including flag-diacritic arcs which
	// consume no input. arcs holds the consuming arcs, sorted by input
	// symbol once optimized.
	eps  []arc
	arcs []arc
}

// Path is one weighted transduction: the accumulated weight and the output
// symbols in order. Output may contain empty (epsilon) tokens and flag
// diacritics; filtering is the caller's concern.
type Path struct {
	Weight  float64
	Symbols []string
}

// Transducer is one loaded weighted FST. The zero value is not usable; obtain
// instances from Load or Builder.Transducer.
type Transducer struct {
	typ       Type
	alphabet  []string
	states    []state
	tokens    *patricia.Trie
	diacritic []bool
}

// Load reads a single transducer from the container file at path.
//
// It fails with the wrapped fs.ErrNotExist when the path does not exist, with
// ErrNotTransducer when the stream cannot be parsed, and with
// ErrMultipleTransducers when the container holds more than one transducer.
// The file handle is released on every path.
func Load(path string) (*Transducer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	t, err := readTransducer(r)
	if err != nil {
		return nil, err
	}
	// Exactly one transducer per container: any trailing bytes mean the
	// file holds a second one.
	if _, err := r.Peek(1); err != io.EOF {
		return nil, ErrMultipleTransducers
	}

	if t.typ != TypeOptimized {
		log.Debugf("transducer %s not in optimized-lookup form, optimizing", path)
		t.optimize()
	}
	t.finish()
	return t, nil
}

// optimize converts the generic representation into the lookup form: arcs
// sorted by input symbol, input-epsilon and flag arcs split out per state.
func (t *Transducer) optimize() {
	for i := range t.states {
		st := &t.states[i]
		consuming := st.arcs[:0]
		for _, a := range st.arcs {
			if a.in == epsilonID || t.diacritic[a.in] {
				st.eps = append(st.eps, a)
			} else {
				consuming = append(consuming, a)
			}
		}
		st.arcs = consuming
		sort.SliceStable(st.arcs, func(x, y int) bool {
			return st.arcs[x].in < st.arcs[y].in
		})
	}
	t.typ = TypeOptimized
}

// finish builds the longest-match tokenizer over the alphabet. Epsilon and
// flag diacritics never occur in raw input, so they stay out of the trie.
func (t *Transducer) finish() {
	t.tokens = patricia.NewTrie()
	for id, sym := range t.alphabet {
		if uint32(id) == epsilonID || sym == "" || t.diacritic[id] {
			continue
		}
		t.tokens.Insert(patricia.Prefix(sym), uint32(id))
	}
}

// AlphabetSize returns the number of symbols in the transducer's alphabet,
// the epsilon symbol included.
func (t *Transducer) AlphabetSize() int {
	return len(t.alphabet)
}

// IsInfinitelyAmbiguous reports whether the transducer can produce unbounded
// output for some input, which happens exactly when a cycle of input-epsilon
// arcs is reachable from the start state. Lookups against such a transducer
// terminate only through the cutoff.
func (t *Transducer) IsInfinitelyAmbiguous() bool {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	color := make([]uint8, len(t.states))
	var walk func(id uint32) bool
	walk = func(id uint32) bool {
		color[id] = onStack
		for _, a := range t.states[id].eps {
			switch color[a.target] {
			case onStack:
				return true
			case unvisited:
				if walk(a.target) {
					return true
				}
			}
		}
		color[id] = done
		return false
	}
	// Epsilon cycles only matter if reachable at all, so walk the whole
	// graph from the start state first.
	reach := t.reachable()
	for id := range t.states {
		if reach[id] && color[id] == unvisited && walk(uint32(id)) {
			return true
		}
	}
	return false
}

func (t *Transducer) reachable() []bool {
	reach := make([]bool, len(t.states))
	if len(t.states) == 0 {
		return reach
	}
	stack := []uint32{0}
	reach[0] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		st := &t.states[id]
		for _, arcs := range [][]arc{st.eps, st.arcs} {
			for _, a := range arcs {
				if !reach[a.target] {
					reach[a.target] = true
					stack = append(stack, a.target)
				}
			}
		}
	}
	return reach
}

// tokenize segments input into alphabet symbol ids, preferring the longest
// symbol at each position. It reports failure when a position matches no
// alphabet symbol, which means the input cannot be transduced at all.
func (t *Transducer) tokenize(input string) ([]uint32, bool) {
	ids := make([]uint32, 0, len(input))
	for i := 0; i < len(input); {
		rest := input[i:]
		matched := false
		var id uint32
		var length int
		err := t.tokens.VisitPrefixes(patricia.Prefix(rest), func(p patricia.Prefix, item patricia.Item) error {
			// Prefixes are visited shortest first; the last one wins.
			matched = true
			id = item.(uint32)
			length = len(p)
			return nil
		})
		if err != nil || !matched {
			return nil, false
		}
		ids = append(ids, id)
		i += length
	}
	return ids, true
}

// Lookup transduces input, returning every weighted path found within the
// cutoff, sorted ascending by weight. An empty result means "no analysis",
// never an error. Exceeding the cutoff yields whatever was found so far.
func (t *Transducer) Lookup(input string, cutoff time.Duration) []Path {
	ids, ok := t.tokenize(input)
	if !ok {
		return nil
	}
	s := searcher{
		t:        t,
		deadline: time.Now().Add(cutoff),
	}
	s.visit(0, ids, 0, nil, nil, 0, 0)
	sort.SliceStable(s.paths, func(i, j int) bool {
		return s.paths[i].Weight < s.paths[j].Weight
	})
	return s.paths
}
