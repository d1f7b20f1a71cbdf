package model

// BenchmarkChoice selects the benchmark return/volatility pair.
type BenchmarkChoice string

const (
	BenchmarkMSCIMultiFactor BenchmarkChoice = "MSCI_MULTIFACTOR"
	BenchmarkSP500           BenchmarkChoice = "SP500"
)

// Label returns the display name used in reports.
func (b BenchmarkChoice) Label() string {
	switch b {
	case BenchmarkMSCIMultiFactor:
		return "MSCI USA Multi-Factor"
	case BenchmarkSP500:
		return "S&P 500"
	default:
		return string(b)
	}
}

// Valid reports whether b is a known benchmark.
func (b BenchmarkChoice) Valid() bool {
	return b == BenchmarkMSCIMultiFactor || b == BenchmarkSP500
}

// SimulationMode selects how per-year returns are produced.
type SimulationMode string

const (
	ModeDeterministic SimulationMode = "DETERMINISTIC"
	ModeMonteCarlo    SimulationMode = "MONTE_CARLO"
)

// Valid reports whether m is a known mode.
func (m SimulationMode) Valid() bool {
	return m == ModeDeterministic || m == ModeMonteCarlo
}

// Minimum platform AUM accepted by the engine.
const MinTotalAUM = 1_000_000

// Upper bounds enforced on bounded inputs.
const (
	MaxAllocationPct    = 100
	MaxOrganicGrowthPct = 50
	MaxTLHUpliftBps     = 10
)

// ProjectionInputs is the full scalar input set for one projection run.
// TLHUpliftBps is 0 when tax-loss harvesting is disabled.
type ProjectionInputs struct {
	TotalAUM         float64         `json:"total_aum" yaml:"total_aum"`
	AllocationPct    float64         `json:"allocation_pct" yaml:"allocation_pct"`
	BaseFeeBps       float64         `json:"base_fee_bps" yaml:"base_fee_bps"`
	OverlayFeeBps    float64         `json:"overlay_fee_bps" yaml:"overlay_fee_bps"`
	LicensingFeeBps  float64         `json:"licensing_fee_bps" yaml:"licensing_fee_bps"`
	RetentionLiftPct float64         `json:"retention_lift_pct" yaml:"retention_lift_pct"`
	OrganicGrowthPct float64         `json:"organic_growth_pct" yaml:"organic_growth_pct"`
	TLHUpliftBps     float64         `json:"tlh_uplift_bps" yaml:"tlh_uplift_bps"`
	Benchmark        BenchmarkChoice `json:"benchmark_choice" yaml:"benchmark_choice"`
	Mode             SimulationMode  `json:"simulation_mode" yaml:"simulation_mode"`
}

// AllocatedAUM is the share of platform AUM placed in the strategy.
func (in ProjectionInputs) AllocatedAUM() float64 {
	return in.TotalAUM * in.AllocationPct / 100
}
