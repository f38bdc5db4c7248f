package analysis

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name    string
		symbols []string
		want    Analysis
	}{
		{
			name:    "lemma only",
			symbols: []string{"wâpamêw"},
			want:    Analysis{Lemma: "wâpamêw"},
		},
		{
			name:    "lemma with tags",
			symbols: []string{"walk", "+V", "+3Sg"},
			want:    Analysis{Lemma: "walk", Suffixes: []string{"+V", "+3Sg"}},
		},
		{
			name:    "prefixes and suffixes",
			symbols: []string{"PV/e+", "PV/ki+", "wâpamêw", "+V", "+TA"},
			want: Analysis{
				Prefixes: []string{"PV/e+", "PV/ki+"},
				Lemma:    "wâpamêw",
				Suffixes: []string{"+V", "+TA"},
			},
		},
		{
			name:    "lemma emitted symbol by symbol",
			symbols: []string{"w", "a", "l", "k", "+N"},
			want:    Analysis{Lemma: "walk", Suffixes: []string{"+N"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.symbols)
			if err != nil {
				t.Fatalf("Decode(%v): %v", tc.symbols, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Decode(%v) mismatch (-want +got):\n%s", tc.symbols, diff)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name    string
		symbols []string
	}{
		{"empty", nil},
		{"no lemma", []string{"PV/e+"}},
		{"suffix before lemma", []string{"+V", "walk"}},
		{"prefix after lemma", []string{"walk", "PV/e+"}},
		{"lemma after suffix", []string{"walk", "+V", "er"}},
		{"bare plus", []string{"walk", "+"}},
		{"only tags", []string{"+V", "+3Sg"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.symbols); !errors.Is(err, ErrMalformedAnalysis) {
				t.Errorf("Decode(%v) error = %v, want ErrMalformedAnalysis", tc.symbols, err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []Analysis{
		{Lemma: "walk"},
		{Lemma: "walk", Suffixes: []string{"+V", "+3Sg"}},
		{Prefixes: []string{"PV/e+"}, Lemma: "wâpamêw", Suffixes: []string{"+V", "+TA", "+Ind"}},
	}
	for _, want := range cases {
		got, err := Decode(EncodeSymbols(want))
		if err != nil {
			t.Fatalf("Decode(EncodeSymbols(%v)): %v", want, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch for %v (-want +got):\n%s", want, diff)
		}
	}
}

func TestToFSTInput(t *testing.T) {
	a := Analysis{
		Prefixes: []string{"PV/e+"},
		Lemma:    "wâpamêw",
		Suffixes: []string{"+V", "+TA"},
	}
	want := "PV/e+wâpamêw+V+TA"
	if got := ToFSTInput(a); got != want {
		t.Errorf("ToFSTInput = %q, want %q", got, want)
	}
	if got := a.String(); got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

func TestFSTOutputFormat(t *testing.T) {
	symbols := []string{"@P.NUM.SG@", "walk", "", "+V", "@R.NUM.SG@", "+3Sg"}
	if got := FSTOutputFormat(symbols); got != "walk+V+3Sg" {
		t.Errorf("FSTOutputFormat = %q, want %q", got, "walk+V+3Sg")
	}
}
