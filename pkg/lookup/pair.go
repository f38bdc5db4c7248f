package lookup

import (
	"github.com/fstlab/morphserve/pkg/analysis"
)

// Pair composes an analyser transducer with its generator counterpart over
// the same morphology: the analyser maps surface forms to analyses, the
// generator maps analyses back to surface forms. Each side is independently
// owned with its own cutoff; nothing is shared between them beyond the
// standardization round-trip.
type Pair struct {
	Analyser  *Transducer
	Generator *Transducer
}

// LoadPair loads both sides of a pair from their container files, applying
// the same options to each.
func LoadPair(analyserPath, generatorPath string, opts ...Option) (*Pair, error) {
	analyser, err := Load(analyserPath, opts...)
	if err != nil {
		return nil, err
	}
	generator, err := Load(generatorPath, opts...)
	if err != nil {
		return nil, err
	}
	return &Pair{Analyser: analyser, Generator: generator}, nil
}

// NewPair wraps two already-loaded transducers.
func NewPair(analyser, generator *Transducer) *Pair {
	return &Pair{Analyser: analyser, Generator: generator}
}

// Analyse runs the analyser over input with generator-backed standardization.
// When distance is non-nil the results are re-sorted ascending by
// distance(input, standardized); candidates without a standardized form sort
// last, and ties keep their engine order.
func (p *Pair) Analyse(input string, distance DistanceFunc) []analysis.FullAnalysis {
	candidates := p.Analyser.WeightedLookupFullAnalysis(input, p.Generator)
	if distance != nil {
		sortByDistance(candidates, input, distance)
	}
	return candidates
}

// AnalyseWordform is Analyse applied to a wordform's surface string.
func (p *Pair) AnalyseWordform(w analysis.Wordform, distance DistanceFunc) []analysis.FullAnalysis {
	return p.Analyse(w.Surface(), distance)
}

// Generate transduces a raw analysis string into weighted surface wordforms.
func (p *Pair) Generate(input string) []analysis.Wordform {
	return p.Generator.WeightedLookupFullWordform(input)
}

// GenerateAnalysis generates surface wordforms for a structured analysis,
// serialized as prefixes + lemma + suffixes.
func (p *Pair) GenerateAnalysis(a analysis.Analysis) []analysis.Wordform {
	return p.Generate(analysis.ToFSTInput(a))
}

// GenerateFull generates surface wordforms for a full analysis, using its raw
// symbol sequence.
func (p *Pair) GenerateFull(fa analysis.FullAnalysis) []analysis.Wordform {
	return p.Generate(analysis.FSTOutputFormat(fa.Symbols))
}
