package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/fstlab/morphserve/internal/utils"
	"github.com/fstlab/morphserve/pkg/config"
	"github.com/fstlab/morphserve/pkg/distance"
	"github.com/fstlab/morphserve/pkg/lookup"
)

// Server handles the IPC for morphological lookups. It serves one request at
// a time; the underlying transducer pair is not shared with anything else.
type Server struct {
	pair *lookup.Pair
	cfg  *config.Config
	dec  *msgpack.Decoder
	enc  *msgpack.Encoder
}

// NewServer creates a lookup server over stdin/stdout.
func NewServer(pair *lookup.Pair, cfg *config.Config) *Server {
	return NewServerIO(pair, cfg, os.Stdin, os.Stdout)
}

// NewServerIO creates a lookup server over the given streams.
func NewServerIO(pair *lookup.Pair, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		pair: pair,
		cfg:  cfg,
		dec:  msgpack.NewDecoder(r),
		enc:  msgpack.NewEncoder(w),
	}
}

// Start begins the request loop. It returns nil on clean EOF and the decode
// error otherwise.
func (s *Server) Start() error {
	log.Debug("starting IPC server")
	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("decoding request: %v", err)
			return err
		}
		s.handle(req)
	}
}

func (s *Server) handle(req Request) {
	switch req.Op {
	case "analyze":
		s.handleAnalyze(req)
	case "generate":
		s.handleGenerate(req)
	case "lookup":
		s.handleLookup(req)
	case "status":
		s.send(StatusResponse{
			ID:               req.ID,
			Status:           "ok",
			AnalyserSymbols:  s.pair.Analyser.SymbolCount(),
			GeneratorSymbols: s.pair.Generator.SymbolCount(),
		})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown op: %s", req.Op), 400)
	}
}

func (s *Server) handleAnalyze(req Request) {
	if !s.validInput(req.Input) {
		s.sendError(req.ID, "missing or invalid 'in' parameter", 400)
		return
	}

	var dist lookup.DistanceFunc
	if req.Rank && s.cfg.Server.RankByDistance {
		dist = distance.Levenshtein
	}

	start := time.Now()
	candidates := s.pair.Analyse(req.Input, dist)
	elapsed := time.Since(start)

	records := make([]AnalysisRecord, len(candidates))
	for i, c := range candidates {
		records[i] = AnalysisRecord{
			Lemma:    c.Analysis.Lemma,
			Prefixes: c.Analysis.Prefixes,
			Suffixes: c.Analysis.Suffixes,
			Weight:   c.Weight,
		}
		if c.Standardized != nil {
			records[i].Standardized = *c.Standardized
		}
	}
	s.send(AnalyzeResponse{
		ID:        req.ID,
		Analyses:  records,
		Count:     len(records),
		TimeTaken: elapsed.Milliseconds(),
	})
}

func (s *Server) handleGenerate(req Request) {
	if !s.validInput(req.Input) {
		s.sendError(req.ID, "missing or invalid 'in' parameter", 400)
		return
	}

	start := time.Now()
	forms := s.pair.Generate(req.Input)
	elapsed := time.Since(start)

	records := make([]WordformRecord, len(forms))
	for i, f := range forms {
		records[i] = WordformRecord{Surface: f.Surface(), Weight: f.Weight}
	}
	s.send(GenerateResponse{
		ID:        req.ID,
		Forms:     records,
		Count:     len(records),
		TimeTaken: elapsed.Milliseconds(),
	})
}

func (s *Server) handleLookup(req Request) {
	if len(req.Inputs) == 0 {
		s.sendError(req.ID, "missing 'ins' parameter", 400)
		return
	}
	if len(req.Inputs) > s.cfg.Server.MaxBatch {
		s.sendError(req.ID, fmt.Sprintf("batch exceeds maximum of %d inputs", s.cfg.Server.MaxBatch), 400)
		return
	}
	for _, input := range req.Inputs {
		if !s.validInput(input) {
			s.sendError(req.ID, fmt.Sprintf("invalid input: %q", input), 400)
			return
		}
	}

	start := time.Now()
	results := s.pair.Analyser.BulkLookup(req.Inputs)
	elapsed := time.Since(start)

	count := 0
	for _, set := range results {
		count += len(set)
	}
	s.send(LookupResponse{
		ID:        req.ID,
		Results:   results,
		Count:     count,
		TimeTaken: elapsed.Milliseconds(),
	})
}

func (s *Server) validInput(input string) bool {
	if len(input) > s.cfg.Server.MaxInput {
		return false
	}
	return utils.IsValidInput(input)
}

func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	log.Debugf("request %s failed: %s", id, message)
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
