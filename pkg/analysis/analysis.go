/*
Package analysis defines the structured records produced by morphological
lookup and the codec between those records and the flat symbol sequences a
transducer consumes and emits.

A surface wordform analysed by an FST comes back as a sequence of symbols
mixing the lemma with affix markers, for example

	PV/e+  wâpamêw  +V  +TA  +3Sg

Symbols ending in "+" are prefixes, symbols starting with "+" are suffixes or
tags, and bare symbols concatenate into the lemma. Because the markers are
part of the symbols themselves, serialization is plain concatenation and the
scheme round-trips through the transducer unchanged.
*/
package analysis

import "strings"

// Wordform is one weighted surface string candidate from a generator lookup.
// Lower weights are more probable; the scale is engine-defined. Immutable
// once constructed.
type Wordform struct {
	Weight  float64
	Symbols []string
}

// Surface returns the concatenation of the wordform's symbols.
func (w Wordform) Surface() string {
	return strings.Join(w.Symbols, "")
}

// Analysis is a structured morphological analysis: affixes in concatenation
// order around the lemma.
type Analysis struct {
	Prefixes []string
	Lemma    string
	Suffixes []string
}

// String renders the analysis in transducer input format,
// prefixes + lemma + suffixes.
func (a Analysis) String() string {
	return ToFSTInput(a)
}

// FullAnalysis is an Analysis enriched with lookup metadata. Standardized is
// set only when a paired generator round-trip unanimously agreed on a single
// surface form; nil otherwise. Instances are created once per lookup result
// and never mutated.
type FullAnalysis struct {
	Weight float64
	// Symbols holds the filtered raw output symbols the analysis was
	// decoded from.
	Symbols      []string
	Analysis     Analysis
	Standardized *string
}
