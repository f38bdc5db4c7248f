// Copyright 2026 The MorphServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the morphological analysis server and CLI [DBG]
application.

Note: This is a BETA release. APIs and functionality may rapidly change.

MorphServe provides morphological analysis and generation over weighted
finite-state transducers. It can operate as a MessagePack IPC server for
integration with dictionary apps and editors, or as a CLI application for
testing and debugging.

The server loads a paired analyser and generator transducer at startup. The
analyser maps surface wordforms to weighted analyses; the generator maps
analyses back to surface forms, which also backs the standardization of each
analysis against the orthography the generator encodes.

# Usage

Start the server with an analyser/generator pair:

	morphserve -analyser crk.anl.mfst -generator crk.gen.mfst

Enable debug mode:

	morphserve -analyser crk.anl.mfst -generator crk.gen.mfst -d

Run in CLI mode for interactive testing:

	morphserve -analyser crk.anl.mfst -generator crk.gen.mfst -c -limit 10

Transducer files use the MFST binary container, produced by the mfstc tool
from textual arc lists.

# Configuration

Runtime configuration is managed through a TOML file that supports lookup,
server, and CLI defaults:

	[lookup]
	search_cutoff = 60

	[server]
	max_batch = 256
	max_input = 256
	rank_by_distance = true

	[cli]
	default_limit = 10
	show_weights = true

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Requests are
processed synchronously with millisecond timing information included in
responses.

Send an analysis request:

	{"id": "req1", "op": "analyze", "in": "walks", "rank": true}

Receive weighted analyses with standardized forms:

	{"id": "req1", "a": [{"lemma": "walk", "suf": ["+V", "+3Sg"], "w": 0.5, "std": "walks"}], "c": 1, "t": 2}

Generation and bulk lookup follow the same envelope:

	{"id": "req2", "op": "generate", "in": "walk+V+3Sg"}
	{"id": "req3", "op": "lookup", "ins": ["walks", "ran"]}

# Server Mode

The default mode starts a MessagePack IPC server that processes requests from
stdin and writes responses to stdout. This design enables integration with
other applications through process communication.

	srv := server.NewServer(pair, appConfig)
	err := srv.Start()

The server handles request parsing, validation, and response formatting, with
batch and input-size limits from the configuration.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging the
lookup functionality. It reads wordforms from stdin and displays weighted
analyses; lines prefixed with ":g " run the generator instead.

	inputHandler := cli.NewInputHandler(pair, limit, showWeights, rank)
	err := inputHandler.Start()

This mode is primarily intended for development and inspecting new transducer
builds before deploying to server mode.

# Lookup Engine

The core functionality is provided by the lookup and fst packages, which
implement weighted transducer search with flag diacritics and epsilon arcs.

	pair, err := lookup.LoadPair(analyserPath, generatorPath)
	analyses := pair.Analyse("walks", distance.Levenshtein)

Transducers with input-epsilon cycles are rejected at load time since they
would admit infinitely many analyses for some inputs.

# Command Line Flags

The following flags control application behavior:

	-analyser string
	    Path to the analyser transducer (.mfst)
	-generator string
	    Path to the generator transducer (.mfst)
	-cutoff int
	    Search cutoff per lookup in seconds (default from config)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of analyses to display in CLI mode (default from config)
	-no-rank
	    Disable distance-based re-ranking of analyses
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/fstlab/morphserve/internal/cli"
	"github.com/fstlab/morphserve/internal/utils"
	"github.com/fstlab/morphserve/pkg/config"
	"github.com/fstlab/morphserve/pkg/lookup"
	"github.com/fstlab/morphserve/pkg/server"
)

const (
	Version = "0.3.0-beta"
	AppName = "morphserve"
	gh      = "https://github.com/fstlab/morphserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	analyserPath := flag.String("analyser", "", "Path to the analyser transducer (.mfst)")
	generatorPath := flag.String("generator", "", "Path to the generator transducer (.mfst)")
	cutoffSecs := flag.Int("cutoff", defaultConfig.Lookup.SearchCutoff, "Search cutoff per lookup in seconds")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of analyses to display in CLI mode")
	noRank := flag.Bool("no-rank", false, "Disable distance-based re-ranking of analyses")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["version"] = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ MorphServe ] Serves morphological analyses, fast!")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")
		logger.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *analyserPath == "" || *generatorPath == "" {
		log.Error("Both -analyser and -generator are required")
		flag.Usage()
		os.Exit(1)
	}

	configPath, err := config.GetDefaultConfigPath()
	if err != nil {
		log.Fatalf("Failed to determine config path: (%v)", err)
		os.Exit(1)
	}
	log.Debugf("Using config file: (%s)", utils.GetAbsolutePath(configPath))

	appConfig, err := config.InitConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}

	cutoff := appConfig.Cutoff()
	if *cutoffSecs != defaultConfig.Lookup.SearchCutoff {
		cutoff = time.Duration(*cutoffSecs) * time.Second
	}

	log.Debugf("Loading transducer pair: analyser=(%s) generator=(%s)", *analyserPath, *generatorPath)
	pair, err := lookup.LoadPair(*analyserPath, *generatorPath, lookup.WithCutoff(cutoff))
	if err != nil {
		log.Fatalf("Failed to load transducers: %v", err)
		os.Exit(1)
	}
	log.Debugf("Pair loaded: analyser symbols=[%d], generator symbols=[%d]",
		pair.Analyser.SymbolCount(), pair.Generator.SymbolCount())

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"limit", *limit,
			"showWeights", appConfig.CLI.ShowWeights,
			"rank", !*noRank)

		inputHandler := cli.NewInputHandler(pair, *limit, appConfig.CLI.ShowWeights, !*noRank)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(pair, appConfig)

	showStartupInfo(*analyserPath, *generatorPath)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(analyserPath, generatorPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("============")
	println(" MorphServe ")
	println("============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("analyser: ( %s )", analyserPath)
	log.Infof("generator: ( %s )", generatorPath)
	log.Info("status: ready")
	println("============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
