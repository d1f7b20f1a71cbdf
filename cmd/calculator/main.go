package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"CrestCast/internal/app"
	"CrestCast/internal/config"
	"CrestCast/internal/logger"
	"CrestCast/internal/model"
	"CrestCast/internal/recorder"
	"CrestCast/internal/report"
	"CrestCast/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Environment and config first so flags default to configured values
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		return 1
	}
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	sc := cfg.Scenario

	fs := flag.NewFlagSet("calculator", flag.ContinueOnError)
	totalAUM := fs.Float64("aum", sc.TotalAUM, "total platform AUM in dollars")
	allocation := fs.Float64("allocation", sc.AllocationPct, "percent of AUM allocated to the strategy")
	baseFee := fs.Float64("base-fee", sc.BaseFeeBps, "base platform fee in bps")
	overlayFee := fs.Float64("overlay-fee", sc.OverlayFeeBps, "strategy overlay fee in bps")
	licensingFee := fs.Float64("licensing-fee", sc.LicensingFeeBps, "licensing fee paid out in bps")
	retention := fs.Float64("retention", sc.RetentionLiftPct, "annual retention lift in percent")
	organic := fs.Float64("organic", sc.OrganicGrowthPct, "annual organic AUM growth in percent")
	tlh := fs.Bool("tlh", sc.TLHEnabled, "enable tax-loss harvesting uplift on the benchmark")
	tlhBps := fs.Float64("tlh-bps", sc.TLHUpliftBps, "tax-loss harvesting uplift in bps")
	benchmark := fs.String("benchmark", sc.Benchmark, "benchmark: MSCI_MULTIFACTOR or SP500")
	mode := fs.String("mode", sc.Mode, "simulation mode: DETERMINISTIC or MONTE_CARLO")
	seed := fs.Int64("seed", cfg.Engine.Seed, "Monte Carlo seed, 0 for a fresh seed")
	format := fs.String("format", "markdown", "output format: markdown, csv or json")
	record := fs.Bool("record", false, "persist the run to the configured SQLite database")
	verbose := fs.Bool("v", false, "log at debug level")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Logs go to stderr so stdout carries only the report
	level := cfg.Log.Level
	if *verbose {
		level = "debug"
	}
	logger.InitializeWithWriter(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	log := logger.GetForComponent("calculator")

	in := model.ProjectionInputs{
		TotalAUM:         *totalAUM,
		AllocationPct:    *allocation,
		BaseFeeBps:       *baseFee,
		OverlayFeeBps:    *overlayFee,
		LicensingFeeBps:  *licensingFee,
		RetentionLiftPct: *retention,
		OrganicGrowthPct: *organic,
		Benchmark:        model.BenchmarkChoice(strings.ToUpper(*benchmark)),
		Mode:             model.SimulationMode(strings.ToUpper(*mode)),
	}
	if *tlh {
		in.TLHUpliftBps = *tlhBps
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, app.Options{Record: *record})
	if err != nil {
		log.Error().Err(err).Msg("init")
		return 1
	}
	defer a.Close()

	resp, err := a.Service.Run(ctx, service.Request{Inputs: in, Seed: *seed, Source: recorder.SourceCLI})
	if err != nil {
		log.Error().Err(err).Msg("projection failed")
		return 1
	}

	switch *format {
	case "markdown", "md":
		fmt.Print(report.RenderMarkdown(in, resp.Result, time.Now()))
	case "csv":
		fmt.Print(report.RenderCSV(resp.Result))
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			log.Error().Err(err).Msg("encode result")
			return 1
		}
	default:
		log.Error().Str("format", *format).Msg("unknown output format")
		return 2
	}
	return 0
}
