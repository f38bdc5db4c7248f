package server

import (
	"bytes"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/fstlab/morphserve/pkg/config"
	"github.com/fstlab/morphserve/pkg/fst"
	"github.com/fstlab/morphserve/pkg/lookup"
)

type stubEngine struct {
	results  map[string][]fst.Path
	alphabet int
}

func (s *stubEngine) Lookup(input string, cutoff time.Duration) []fst.Path {
	return s.results[input]
}

func (s *stubEngine) AlphabetSize() int { return s.alphabet }

func testPair() *lookup.Pair {
	analyser := &stubEngine{
		alphabet: 5,
		results: map[string][]fst.Path{
			"walks": {
				{Weight: 0.5, Symbols: []string{"walk", "+V", "+3Sg"}},
			},
		},
	}
	generator := &stubEngine{
		alphabet: 7,
		results: map[string][]fst.Path{
			"walk+V+3Sg": {
				{Weight: 0, Symbols: []string{"walks"}},
			},
		},
	}
	return lookup.NewPair(lookup.New(analyser), lookup.New(generator))
}

// run feeds the given requests through a server and decodes one response per
// request into the supplied pointers.
func run(t *testing.T, requests []Request, responses ...any) {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		if err := enc.Encode(req); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	srv := NewServerIO(testPair(), config.DefaultConfig(), &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	for _, resp := range responses {
		if err := dec.Decode(resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
}

func TestAnalyzeOp(t *testing.T) {
	var resp AnalyzeResponse
	run(t, []Request{{ID: "r1", Op: "analyze", Input: "walks"}}, &resp)

	if resp.ID != "r1" {
		t.Errorf("response ID = %q, want r1", resp.ID)
	}
	if resp.Count != 1 || len(resp.Analyses) != 1 {
		t.Fatalf("got %d analyses, want 1", len(resp.Analyses))
	}
	a := resp.Analyses[0]
	if a.Lemma != "walk" {
		t.Errorf("lemma = %q, want walk", a.Lemma)
	}
	if a.Standardized != "walks" {
		t.Errorf("standardized = %q, want walks", a.Standardized)
	}
}

func TestGenerateOp(t *testing.T) {
	var resp GenerateResponse
	run(t, []Request{{ID: "r2", Op: "generate", Input: "walk+V+3Sg"}}, &resp)

	if resp.Count != 1 || len(resp.Forms) != 1 {
		t.Fatalf("got %d forms, want 1", len(resp.Forms))
	}
	if resp.Forms[0].Surface != "walks" {
		t.Errorf("surface = %q, want walks", resp.Forms[0].Surface)
	}
}

func TestLookupOp(t *testing.T) {
	var resp LookupResponse
	run(t, []Request{{ID: "r3", Op: "lookup", Inputs: []string{"walks", "walks"}}}, &resp)

	if len(resp.Results) != 1 {
		t.Fatalf("got %d result keys, want 1", len(resp.Results))
	}
	set := resp.Results["walks"]
	if len(set) != 1 || set[0] != "walk+V+3Sg" {
		t.Errorf("Results[walks] = %v, want [walk+V+3Sg]", set)
	}
}

func TestStatusOp(t *testing.T) {
	var resp StatusResponse
	run(t, []Request{{ID: "r4", Op: "status"}}, &resp)

	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.AnalyserSymbols != 5 || resp.GeneratorSymbols != 7 {
		t.Errorf("symbol counts = %d/%d, want 5/7", resp.AnalyserSymbols, resp.GeneratorSymbols)
	}
}

func TestUnknownOp(t *testing.T) {
	var resp ErrorResponse
	run(t, []Request{{ID: "r5", Op: "transmogrify"}}, &resp)

	if resp.ID != "r5" || resp.Code != 400 {
		t.Errorf("error response = %+v, want ID r5 code 400", resp)
	}
}

func TestAnalyzeRejectsInvalidInput(t *testing.T) {
	var resp ErrorResponse
	run(t, []Request{{ID: "r6", Op: "analyze", Input: "two words"}}, &resp)

	if resp.Code != 400 {
		t.Errorf("expected 400 for invalid input, got %+v", resp)
	}
}

func TestAnalyzeUnknownWordIsEmptyNotError(t *testing.T) {
	var resp AnalyzeResponse
	run(t, []Request{{ID: "r7", Op: "analyze", Input: "zzz"}}, &resp)

	if resp.Count != 0 {
		t.Errorf("unknown word should yield empty analyses, got %d", resp.Count)
	}
}
