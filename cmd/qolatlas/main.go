package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/qolatlas/qolatlas/dataset"
	"github.com/qolatlas/qolatlas/quiz"
	"github.com/qolatlas/qolatlas/viz"
)

// ============================================================================
// QOLATLAS CLI — U.S. quality-of-life and unemployment explorer
// ============================================================================

const version = "0.1.0"

func main() {
	// .env is optional; flags and real env still win.
	_ = godotenv.Load()

	statePath := flag.String("state-data", envOr("QOLATLAS_STATE_DATA", "data/qualityoflifescores.csv"), "Path to the state quality-of-life CSV")
	countyPath := flag.String("county-data", envOr("QOLATLAS_COUNTY_DATA", "data/QOL_County_Level.csv"), "Path to the county-level CSV")
	answersPath := flag.String("answers", envOr("QOLATLAS_ANSWERS", ""), "Optional preset answers file (YAML/TOML/JSON)")
	chartDir := flag.String("charts", envOr("QOLATLAS_CHART_DIR", "charts"), "Directory for rendered HTML charts")
	logPath := flag.String("log", envOr("QOLATLAS_LOG", "qolatlas.log"), "Log file path")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `qolatlas — explore U.S. state quality-of-life and unemployment data

Usage:
  qolatlas
  qolatlas -answers presets.yaml
  qolatlas -state-data states.csv -county-data counties.csv -charts out/

Flags:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("qolatlas %s\n", version)
		os.Exit(0)
	}

	// ── Logging: human console + JSON audit file ─────────────────────────
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	log := zerolog.New(logFile).With().Timestamp().Logger()
	log.Info().Str("version", version).Msg("starting")

	// ── Load datasets ────────────────────────────────────────────────────
	loadStart := time.Now()
	ds, err := dataset.NewLoader(log).Load(*statePath, *countyPath)
	if err != nil {
		log.Error().Err(err).Msg("dataset load failed")
		fatalf("Failed to load datasets: %v", err)
	}
	fmt.Printf("Datasets loaded in %v (%d states)\n", time.Since(loadStart).Truncate(time.Millisecond), ds.Len())

	// ── Preset answers ───────────────────────────────────────────────────
	answers := quiz.NoAnswers()
	if *answersPath != "" {
		answers, err = quiz.LoadAnswers(*answersPath)
		if err != nil {
			log.Error().Err(err).Msg("answers load failed")
			fatalf("Failed to load preset answers: %v", err)
		}
		log.Info().Int("presets", answers.Len()).Str("path", *answersPath).Msg("preset answers loaded")
	}

	// ── Run the quiz ─────────────────────────────────────────────────────
	color.New(color.FgCyan, color.Bold).Println(
		"Welcome to qolatlas! Let's explore the United States' Quality of Life and Unemployment.")

	renderer := viz.NewRenderer(*chartDir, log)
	runner := quiz.NewRunner(ds, renderer, answers, os.Stdin, os.Stdout, log)

	if err := runner.Run(); err != nil {
		log.Error().Err(err).Msg("run aborted")
		fatalf("%v", err)
	}
	log.Info().Msg("run complete")
}

// envOr returns the environment value for key, or fallback if unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
