// Package cli handles cmd line input for DBG and trying analyses interactively
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fstlab/morphserve/internal/utils"
	"github.com/fstlab/morphserve/pkg/distance"
	"github.com/fstlab/morphserve/pkg/lookup"
)

// InputHandler processes user input from stdin, printing weighted analyses
// for each wordform. Lines prefixed with ":g " run the generator instead.
// It accepts flags to control the result limit, distance re-ranking and
// weight display.
type InputHandler struct {
	pair         *lookup.Pair
	limit        int
	showWeights  bool
	rankDistance bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(pair *lookup.Pair, limit int, showWeights, rankDistance bool) *InputHandler {
	return &InputHandler{
		pair:         pair,
		limit:        limit,
		showWeights:  showWeights,
		rankDistance: rankDistance,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to the handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("MorphServe CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a wordform and press Enter to see its analyses (':g lemma+TAGS' to generate, Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput processes a single line. Plain input is analysed; lines of the
// form ":g <analysis>" are passed to the generator.
func (h *InputHandler) handleInput(line string) {
	if rest, ok := strings.CutPrefix(line, ":g "); ok {
		h.handleGenerate(strings.TrimSpace(rest))
		return
	}

	if !utils.IsValidInput(line) {
		log.Warnf("No analyses found for: '%s' (filtered out)", line)
		return
	}

	var dist lookup.DistanceFunc
	if h.rankDistance {
		dist = distance.Levenshtein
	}

	start := time.Now()
	log.Debug("Processing request for", "wordform", line)

	candidates := h.pair.Analyse(line, dist)

	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for '%s'", elapsed, line)

	if len(candidates) == 0 {
		log.Warnf("No analyses found for: '%s'", line)
		return
	}
	if h.limit > 0 && len(candidates) > h.limit {
		candidates = candidates[:h.limit]
	}

	log.Printf("Found %d analyses for '%s':", len(candidates), line)
	for i, c := range candidates {
		clAnalysis := fmt.Sprintf("\033[38;5;75m%s\033[0m", c.Analysis.String())
		std := "-"
		if c.Standardized != nil {
			std = *c.Standardized
		}
		if h.showWeights {
			log.Printf("%2d. %-40s (std: %-16s w: %6.2f)", i+1, clAnalysis, std, c.Weight)
		} else {
			log.Printf("%2d. %-40s (std: %s)", i+1, clAnalysis, std)
		}
	}
}

func (h *InputHandler) handleGenerate(input string) {
	if input == "" || !utils.IsValidInput(input) {
		log.Errorf("Invalid analysis: '%s'", input)
		return
	}

	start := time.Now()
	forms := h.pair.Generate(input)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for '%s'", elapsed, input)

	if len(forms) == 0 {
		log.Warnf("No wordforms generated for: '%s'", input)
		return
	}
	if h.limit > 0 && len(forms) > h.limit {
		forms = forms[:h.limit]
	}

	log.Printf("Generated %d wordforms for '%s':", len(forms), input)
	for i, f := range forms {
		clForm := fmt.Sprintf("\033[38;5;75m%s\033[0m", f.Surface())
		if h.showWeights {
			log.Printf("%2d. %-40s (w: %6.2f)", i+1, clForm, f.Weight)
		} else {
			log.Printf("%2d. %s", i+1, clForm)
		}
	}
}
