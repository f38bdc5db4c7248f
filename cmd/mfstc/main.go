/*
Package main implements mfstc, a compiler from textual arc lists to the MFST
binary container used by morphserve.

The input is a tab-separated arc list in the style of AT&T text format, one
arc or final state per line:

	0	1	w	w	0.0
	1	2	alk	alk+V	1.0
	2	0.5

Four or five fields describe an arc: source state, target state, input
symbol, output symbol, and an optional weight. One or two fields describe a
final state with an optional final weight. The token @0@ denotes the epsilon
symbol. State 0 is the start state; states are created on first mention.

Usage:

	mfstc -o analyser.mfst arcs.txt
	mfstc -optimize=false -o analyser.mfst arcs.txt
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/fstlab/morphserve/internal/logger"
	"github.com/fstlab/morphserve/pkg/fst"
)

const epsilonToken = "@0@"

func main() {
	output := flag.String("o", "", "Output container path (.mfst)")
	optimize := flag.Bool("optimize", true, "Write the optimized representation")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
	}
	log.SetDefault(logger.New("mfstc"))

	if *output == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mfstc -o out.mfst arcs.txt")
		flag.Usage()
		os.Exit(1)
	}

	t, err := compileFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to compile %s: %v", flag.Arg(0), err)
		os.Exit(1)
	}

	typ := fst.TypeGeneric
	if *optimize {
		typ = fst.TypeOptimized
	}
	if err := t.WriteFile(*output, typ); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
		os.Exit(1)
	}
	log.Debugf("Wrote %s: %d symbols", *output, t.AlphabetSize())
}

func compileFile(path string) (*fst.Transducer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := fst.NewBuilder()
	states := make(map[uint64]uint32)

	// state 0 always exists as the start state
	state := func(n uint64) uint32 {
		id, ok := states[n]
		if !ok {
			if n == 0 {
				id = 0
			} else {
				id = b.AddState()
			}
			states[n] = id
		}
		return id
	}
	state(0)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := compileLine(b, state, line); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.Transducer(), nil
}

// compileLine parses one arc or final-state line into the builder.
func compileLine(b *fst.Builder, state func(uint64) uint32, line string) error {
	fields := strings.Split(line, "\t")

	switch len(fields) {
	case 1, 2:
		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return fmt.Errorf("bad state number %q", fields[0])
		}
		weight := 0.0
		if len(fields) == 2 {
			weight, err = strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return fmt.Errorf("bad final weight %q", fields[1])
			}
		}
		b.SetFinal(state(id), weight)
		return nil

	case 4, 5:
		from, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return fmt.Errorf("bad source state %q", fields[0])
		}
		to, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return fmt.Errorf("bad target state %q", fields[1])
		}
		weight := 0.0
		if len(fields) == 5 {
			weight, err = strconv.ParseFloat(fields[4], 64)
			if err != nil {
				return fmt.Errorf("bad arc weight %q", fields[4])
			}
		}
		b.AddArc(state(from), symbol(fields[2]), symbol(fields[3]), state(to), weight)
		return nil

	default:
		return fmt.Errorf("expected 1-2 or 4-5 tab-separated fields, got %d", len(fields))
	}
}

func symbol(tok string) string {
	if tok == epsilonToken {
		return ""
	}
	return tok
}
