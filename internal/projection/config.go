package projection

import (
	"fmt"

	"CrestCast/internal/model"
)

// Default run shape.
const (
	DefaultHorizonYears    = 10
	DefaultTrials          = 100
	DefaultClientIndexBase = 100.0
)

// Config holds the engine's fixed parameters. It is never mutated by a run.
type Config struct {
	HorizonYears    int                                              `json:"horizon_years"`
	Trials          int                                              `json:"trials"`
	ClientIndexBase float64                                          `json:"client_index_base"`
	Strategy        model.ReturnAssumption                           `json:"strategy"`
	Benchmarks      map[model.BenchmarkChoice]model.ReturnAssumption `json:"benchmarks"`
}

// DefaultConfig returns the published horizon, trial count and return assumptions.
func DefaultConfig() Config {
	return Config{
		HorizonYears:    DefaultHorizonYears,
		Trials:          DefaultTrials,
		ClientIndexBase: DefaultClientIndexBase,
		Strategy:        model.StrategyAssumption,
		Benchmarks: map[model.BenchmarkChoice]model.ReturnAssumption{
			model.BenchmarkMSCIMultiFactor: model.MSCIMultiFactorAssumption,
			model.BenchmarkSP500:           model.SP500Assumption,
		},
	}
}

// Validate rejects tampered run parameters.
func (c Config) Validate() error {
	if c.HorizonYears <= 0 {
		return fmt.Errorf("%w: horizon_years must be positive, got %d", ErrInvalidInput, c.HorizonYears)
	}
	if c.Trials <= 0 {
		return fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidInput, c.Trials)
	}
	if !finite(c.ClientIndexBase) || c.ClientIndexBase <= 0 {
		return fmt.Errorf("%w: client_index_base must be positive, got %v", ErrInvalidInput, c.ClientIndexBase)
	}
	if err := validateAssumption("strategy", c.Strategy); err != nil {
		return err
	}
	for _, b := range []model.BenchmarkChoice{model.BenchmarkMSCIMultiFactor, model.BenchmarkSP500} {
		a, ok := c.Benchmarks[b]
		if !ok {
			return fmt.Errorf("%w: missing return assumption for benchmark %s", ErrInvalidInput, b)
		}
		if err := validateAssumption(string(b), a); err != nil {
			return err
		}
	}
	return nil
}

// Benchmark returns the assumption for choice.
func (c Config) Benchmark(choice model.BenchmarkChoice) (model.ReturnAssumption, error) {
	a, ok := c.Benchmarks[choice]
	if !ok {
		return model.ReturnAssumption{}, fmt.Errorf("%w: unknown benchmark %q", ErrInvalidInput, choice)
	}
	return a, nil
}

func validateAssumption(name string, a model.ReturnAssumption) error {
	if !finite(a.Mean) {
		return fmt.Errorf("%w: %s mean must be finite", ErrInvalidInput, name)
	}
	if !finite(a.StdDev) || a.StdDev < 0 {
		return fmt.Errorf("%w: %s std_dev must be non-negative, got %v", ErrInvalidInput, name, a.StdDev)
	}
	return nil
}
