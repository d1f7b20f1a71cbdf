package model

import (
	"encoding/json"
	"math"
)

// YearRecord holds the median projection for a single year.
type YearRecord struct {
	Year                       int     `json:"year"`
	StrategyAUM                float64 `json:"strategy_aum"`
	BenchmarkAUM               float64 `json:"benchmark_aum"`
	StrategyClientValue        float64 `json:"strategy_client_value"`
	BenchmarkClientValue       float64 `json:"benchmark_client_value"`
	StrategyRevenue            float64 `json:"strategy_revenue"`
	BenchmarkRevenue           float64 `json:"benchmark_revenue"`
	CumulativeStrategyRevenue  float64 `json:"cumulative_strategy_revenue"`
	CumulativeBenchmarkRevenue float64 `json:"cumulative_benchmark_revenue"`
}

// RevenueDelta is the strategy revenue advantage for the year.
func (r YearRecord) RevenueDelta() float64 {
	return r.StrategyRevenue - r.BenchmarkRevenue
}

// Summary holds the horizon-level comparison figures.
type Summary struct {
	TotalLift         float64 `json:"total_lift"`
	TerminalUpliftPct float64 `json:"terminal_uplift_pct"` // NaN when final benchmark revenue is zero
	MarginUpliftBps   float64 `json:"margin_uplift_bps"`

	AllocatedAUM        float64          `json:"allocated_aum"`
	StrategyNetFeeBps   float64          `json:"strategy_net_fee_bps"`
	BenchmarkNetFeeBps  float64          `json:"benchmark_net_fee_bps"`
	StrategyAssumption  ReturnAssumption `json:"strategy_assumption"`
	BenchmarkAssumption ReturnAssumption `json:"benchmark_assumption"`
	Benchmark           BenchmarkChoice  `json:"benchmark_choice"`
	Mode                SimulationMode   `json:"simulation_mode"`
	Trials              int              `json:"trials"`
	NegativeStrategyFee bool             `json:"negative_strategy_fee"`
}

// UpliftDefined reports whether TerminalUpliftPct holds a real value.
func (s Summary) UpliftDefined() bool {
	return !math.IsNaN(s.TerminalUpliftPct)
}

type summaryJSON Summary

// MarshalJSON encodes an undefined uplift as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	out := struct {
		summaryJSON
		TerminalUpliftPct *float64 `json:"terminal_uplift_pct"`
	}{summaryJSON: summaryJSON(s)}
	if s.UpliftDefined() {
		v := s.TerminalUpliftPct
		out.TerminalUpliftPct = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the NaN sentinel from null.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var in struct {
		summaryJSON
		TerminalUpliftPct *float64 `json:"terminal_uplift_pct"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Summary(in.summaryJSON)
	if in.TerminalUpliftPct == nil {
		s.TerminalUpliftPct = math.NaN()
	} else {
		s.TerminalUpliftPct = *in.TerminalUpliftPct
	}
	return nil
}

// ProjectionResult is the full output of one engine run.
type ProjectionResult struct {
	Years   []YearRecord `json:"years"`
	Summary Summary      `json:"summary"`
}

// Terminal returns the last year's record.
func (r *ProjectionResult) Terminal() YearRecord {
	if len(r.Years) == 0 {
		return YearRecord{}
	}
	return r.Years[len(r.Years)-1]
}
