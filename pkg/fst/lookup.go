package fst

import (
	"sort"
	"time"
)

// deadlineStride controls how often the searcher consults the clock; checking
// on every visit costs more than the visits themselves.
const deadlineStride = 64

// maxSearchDepth caps recursion independently of the cutoff so that an
// epsilon-heavy transducer cannot blow the stack before the deadline fires.
// Legitimate morphological paths are far shorter than this.
const maxSearchDepth = 1 << 10

type searcher struct {
	t        *Transducer
	deadline time.Time
	steps    int
	expired  bool
	paths    []Path
}

func (s *searcher) checkDeadline() bool {
	if s.expired {
		return true
	}
	s.steps++
	if s.steps%deadlineStride == 0 && time.Now().After(s.deadline) {
		s.expired = true
	}
	return s.expired
}

// visit explores the arc graph from state id with pos input symbols consumed.
// out accumulates output symbol ids along the current path; env carries
// flag-diacritic state. Both are treated as immutable by callees: out is
// re-sliced per branch and env is copy-on-write.
func (s *searcher) visit(id uint32, input []uint32, pos int, out []uint32, env flagEnv, weight float64, depth int) {
	if depth > maxSearchDepth || s.checkDeadline() {
		return
	}
	st := &s.t.states[id]

	if pos == len(input) && st.final {
		s.emit(weight+st.finalWeight, out)
	}

	for _, a := range st.eps {
		next := env
		if a.in != epsilonID {
			var ok bool
			next, ok = applyFlag(env, s.t.alphabet[a.in])
			if !ok {
				continue
			}
		}
		s.visit(a.target, input, pos, appendOut(out, a.out), next, weight+a.weight, depth+1)
	}

	if pos < len(input) {
		sym := input[pos]
		arcs := st.arcs
		lo := sort.Search(len(arcs), func(i int) bool { return arcs[i].in >= sym })
		for i := lo; i < len(arcs) && arcs[i].in == sym; i++ {
			a := arcs[i]
			s.visit(a.target, input, pos+1, appendOut(out, a.out), env, weight+a.weight, depth+1)
		}
	}
}

func (s *searcher) emit(weight float64, out []uint32) {
	symbols := make([]string, len(out))
	for i, id := range out {
		symbols[i] = s.t.alphabet[id]
	}
	s.paths = append(s.paths, Path{Weight: weight, Symbols: symbols})
}

// appendOut returns out extended with id without sharing backing storage
// between sibling branches.
func appendOut(out []uint32, id uint32) []uint32 {
	next := make([]uint32, len(out), len(out)+1)
	copy(next, out)
	return append(next, id)
}
