/*
Package server implements msgpack IPC for morphological lookup services.

The server speaks binary msgpack over stdin/stdout on a request/response
model. Each request carries an ID echoed back in the response, an op selector,
and the op's arguments. Requests are processed synchronously with timing info
included in responses.

Analyse a surface wordform (optionally re-ranked by edit distance against the
standardized forms):

	{"id": "req_001", "op": "analyze", "in": "walks", "rank": true}

The server answers with the weighted analyses:

	{"id": "req_001", "a": [{"lemma": "walk", "suf": ["+V", "+3Sg"], "w": 0.5, "std": "walks"}], "c": 1, "t": 2}

Generate surface forms from a serialized analysis:

	{"id": "req_002", "op": "generate", "in": "walk+V+3Sg"}

Bulk lookup maps each distinct input to its deduplicated output set:

	{"id": "req_003", "op": "lookup", "ins": ["walks", "ran"]}

A status op reports alphabet sizes and readiness. Malformed or unknown
requests produce an error response with the offending ID when available.
*/
package server

// Request is the envelope for every incoming op.
type Request struct {
	ID     string   `msgpack:"id"`
	Op     string   `msgpack:"op"`
	Input  string   `msgpack:"in,omitempty"`
	Inputs []string `msgpack:"ins,omitempty"`
	Rank   bool     `msgpack:"rank,omitempty"`
}

// AnalysisRecord is one weighted analysis in an analyze response.
type AnalysisRecord struct {
	Lemma        string   `msgpack:"lemma"`
	Prefixes     []string `msgpack:"pre,omitempty"`
	Suffixes     []string `msgpack:"suf,omitempty"`
	Weight       float64  `msgpack:"w"`
	Standardized string   `msgpack:"std,omitempty"`
}

// AnalyzeResponse answers an analyze op.
type AnalyzeResponse struct {
	ID        string           `msgpack:"id"`
	Analyses  []AnalysisRecord `msgpack:"a"`
	Count     int              `msgpack:"c"`
	TimeTaken int64            `msgpack:"t"`
}

// WordformRecord is one weighted surface form in a generate response.
type WordformRecord struct {
	Surface string  `msgpack:"s"`
	Weight  float64 `msgpack:"w"`
}

// GenerateResponse answers a generate op.
type GenerateResponse struct {
	ID        string           `msgpack:"id"`
	Forms     []WordformRecord `msgpack:"f"`
	Count     int              `msgpack:"c"`
	TimeTaken int64            `msgpack:"t"`
}

// LookupResponse answers a lookup op with set semantics per input.
type LookupResponse struct {
	ID        string              `msgpack:"id"`
	Results   map[string][]string `msgpack:"r"`
	Count     int                 `msgpack:"c"`
	TimeTaken int64               `msgpack:"t"`
}

// StatusResponse answers a status op.
type StatusResponse struct {
	ID               string `msgpack:"id"`
	Status           string `msgpack:"status"`
	AnalyserSymbols  int    `msgpack:"analyser_symbols"`
	GeneratorSymbols int    `msgpack:"generator_symbols"`
}

// ErrorResponse reports a failed op.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
