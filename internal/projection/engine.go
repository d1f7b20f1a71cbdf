// Package projection turns a set of fee, allocation and return inputs into
// per-year AUM, client-index and revenue series for the strategy and
// benchmark tracks.
package projection

import (
	"fmt"
	"maps"
	"math"

	"CrestCast/internal/calculator"
	"CrestCast/internal/model"
)

// Engine runs projections against a fixed Config. It holds no per-run state
// and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an engine bound to a private copy of it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Benchmarks = maps.Clone(cfg.Benchmarks)
	return &Engine{cfg: cfg}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	c := e.cfg
	c.Benchmarks = maps.Clone(e.cfg.Benchmarks)
	return c
}

// Project computes the projection for in.
//
// src is consumed only in Monte Carlo mode. When it is nil a private source
// seeded from crypto/rand is used, so results are not reproducible; pass a
// seeded source (see NewSeededSource) for repeatable output. The strategy
// matrix is drawn before the benchmark matrix.
//
// Revenue is computed from the median platform AUM of each year, never from
// the client index. When the final year's benchmark revenue is zero the
// summary's TerminalUpliftPct is NaN.
func (e *Engine) Project(in model.ProjectionInputs, src RandSource) (*model.ProjectionResult, error) {
	if err := ValidateInputs(in); err != nil {
		return nil, err
	}
	benchAssumption, err := e.cfg.Benchmark(in.Benchmark)
	if err != nil {
		return nil, err
	}

	// Step a: fees
	strategyFeeBps := calculator.StrategyNetFeeBps(in.BaseFeeBps, in.OverlayFeeBps, in.LicensingFeeBps)
	benchmarkFeeBps := calculator.BenchmarkNetFeeBps(in.BaseFeeBps, in.TLHUpliftBps)
	strategyFee := calculator.BpsToDecimal(strategyFeeBps)
	benchmarkFee := calculator.BpsToDecimal(benchmarkFeeBps)

	// Step b: raw returns
	gen, trials, err := e.generator(in.Mode, src)
	if err != nil {
		return nil, err
	}
	horizon := e.cfg.HorizonYears
	strategyReturns := gen.Generate(e.cfg.Strategy, horizon)
	benchmarkReturns := gen.Generate(benchAssumption, horizon)

	// Step c: compounding, median across paths
	allocated := in.AllocatedAUM()
	organic := calculator.PctToDecimal(in.OrganicGrowthPct)
	retention := calculator.PctToDecimal(in.RetentionLiftPct)

	strategyAUM, err := calculator.MedianByColumn(calculator.CompoundPaths(allocated, strategyReturns, organic+retention))
	if err != nil {
		return nil, fmt.Errorf("aggregate strategy aum: %w", err)
	}
	benchmarkAUM, err := calculator.MedianByColumn(calculator.CompoundPaths(allocated, benchmarkReturns, organic))
	if err != nil {
		return nil, fmt.Errorf("aggregate benchmark aum: %w", err)
	}
	strategyIndex, err := calculator.MedianByColumn(calculator.CompoundPaths(e.cfg.ClientIndexBase, strategyReturns, -strategyFee))
	if err != nil {
		return nil, fmt.Errorf("aggregate strategy index: %w", err)
	}
	benchmarkIndex, err := calculator.MedianByColumn(calculator.CompoundPaths(e.cfg.ClientIndexBase, benchmarkReturns, -benchmarkFee))
	if err != nil {
		return nil, fmt.Errorf("aggregate benchmark index: %w", err)
	}

	// Step d: revenue
	strategyRevenue := calculator.ScaleSeries(strategyAUM, strategyFee)
	benchmarkRevenue := calculator.ScaleSeries(benchmarkAUM, benchmarkFee)
	strategyCum := calculator.CumulativeSum(strategyRevenue)
	benchmarkCum := calculator.CumulativeSum(benchmarkRevenue)

	years := make([]model.YearRecord, horizon)
	for i := range years {
		years[i] = model.YearRecord{
			Year:                       i + 1,
			StrategyAUM:                strategyAUM[i],
			BenchmarkAUM:               benchmarkAUM[i],
			StrategyClientValue:        strategyIndex[i],
			BenchmarkClientValue:       benchmarkIndex[i],
			StrategyRevenue:            strategyRevenue[i],
			BenchmarkRevenue:           benchmarkRevenue[i],
			CumulativeStrategyRevenue:  strategyCum[i],
			CumulativeBenchmarkRevenue: benchmarkCum[i],
		}
	}

	// Step e: summary
	totalLift, err := calculator.DiffSum(strategyRevenue, benchmarkRevenue)
	if err != nil {
		return nil, fmt.Errorf("total lift: %w", err)
	}

	summary := model.Summary{
		TotalLift:           totalLift,
		TerminalUpliftPct:   terminalUplift(strategyRevenue[horizon-1], benchmarkRevenue[horizon-1]),
		MarginUpliftBps:     strategyFeeBps - benchmarkFeeBps,
		AllocatedAUM:        allocated,
		StrategyNetFeeBps:   strategyFeeBps,
		BenchmarkNetFeeBps:  benchmarkFeeBps,
		StrategyAssumption:  e.cfg.Strategy,
		BenchmarkAssumption: benchAssumption,
		Benchmark:           in.Benchmark,
		Mode:                in.Mode,
		Trials:              trials,
		NegativeStrategyFee: strategyFeeBps < 0,
	}

	return &model.ProjectionResult{Years: years, Summary: summary}, nil
}

func (e *Engine) generator(mode model.SimulationMode, src RandSource) (ReturnGenerator, int, error) {
	switch mode {
	case model.ModeDeterministic:
		return DeterministicReturns{}, 1, nil
	case model.ModeMonteCarlo:
		if src == nil {
			s, err := newUnseededSource()
			if err != nil {
				return nil, 0, err
			}
			src = s
		}
		return MonteCarloReturns{Trials: e.cfg.Trials, Src: src}, e.cfg.Trials, nil
	default:
		return nil, 0, fmt.Errorf("%w: unknown simulation_mode %q", ErrInvalidInput, mode)
	}
}

// terminalUplift returns the final-year revenue uplift in percent, or NaN
// when the benchmark revenue is zero.
func terminalUplift(strategy, benchmark float64) float64 {
	if benchmark == 0 {
		return math.NaN()
	}
	return (strategy - benchmark) / benchmark * 100
}
