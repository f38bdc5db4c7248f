package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedAnalysis is returned by Decode when a symbol sequence does not
// follow the prefixes-lemma-suffixes grammar. A malformed candidate should be
// dropped and reported, never silently restructured.
var ErrMalformedAnalysis = errors.New("malformed analysis symbols")

// ToFSTInput serializes an Analysis into the string the transducer's lookup
// expects: prefixes, lemma, suffixes concatenated. The affix markers are part
// of the symbols, so this round-trips through Decode exactly.
func ToFSTInput(a Analysis) string {
	var sb strings.Builder
	for _, p := range a.Prefixes {
		sb.WriteString(p)
	}
	sb.WriteString(a.Lemma)
	for _, s := range a.Suffixes {
		sb.WriteString(s)
	}
	return sb.String()
}

// FSTOutputFormat re-serializes raw output symbols for submission as input to
// a second lookup, as the standardization round-trip does. Empty tokens and
// flag diacritics are dropped first; the rest concatenate unchanged.
func FSTOutputFormat(symbols []string) string {
	return strings.Join(FilterSymbols(symbols), "")
}

// Decode parses a filtered symbol sequence into a structured Analysis.
//
// Grammar: zero or more prefixes (symbols ending in "+"), then one or more
// bare symbols concatenating into the lemma, then zero or more suffixes
// (symbols starting with "+"). Anything out of order fails with
// ErrMalformedAnalysis.
func Decode(symbols []string) (Analysis, error) {
	const (
		inPrefixes = iota
		inLemma
		inSuffixes
	)
	var a Analysis
	phase := inPrefixes
	var lemma strings.Builder

	for _, sym := range symbols {
		switch {
		case sym == "+":
			return Analysis{}, fmt.Errorf("%w: bare %q symbol", ErrMalformedAnalysis, sym)
		case len(sym) > 1 && strings.HasSuffix(sym, "+") && !strings.HasPrefix(sym, "+"):
			if phase != inPrefixes {
				return Analysis{}, fmt.Errorf("%w: prefix %q after lemma", ErrMalformedAnalysis, sym)
			}
			a.Prefixes = append(a.Prefixes, sym)
		case len(sym) > 1 && strings.HasPrefix(sym, "+"):
			if phase == inPrefixes && lemma.Len() == 0 {
				return Analysis{}, fmt.Errorf("%w: suffix %q before lemma", ErrMalformedAnalysis, sym)
			}
			phase = inSuffixes
			a.Suffixes = append(a.Suffixes, sym)
		default:
			if phase == inSuffixes {
				return Analysis{}, fmt.Errorf("%w: lemma symbol %q after suffixes", ErrMalformedAnalysis, sym)
			}
			phase = inLemma
			lemma.WriteString(sym)
		}
	}
	if lemma.Len() == 0 {
		return Analysis{}, fmt.Errorf("%w: no lemma", ErrMalformedAnalysis)
	}
	a.Lemma = lemma.String()
	return a, nil
}

// EncodeSymbols renders an Analysis back into a symbol sequence: the inverse
// of Decode up to lemma granularity (the lemma comes back as one symbol).
func EncodeSymbols(a Analysis) []string {
	out := make([]string, 0, len(a.Prefixes)+1+len(a.Suffixes))
	out = append(out, a.Prefixes...)
	out = append(out, a.Lemma)
	out = append(out, a.Suffixes...)
	return out
}
