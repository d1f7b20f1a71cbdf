package model

// Track identifies one of the two modeled investment approaches.
type Track string

const (
	TrackStrategy  Track = "strategy"
	TrackBenchmark Track = "benchmark"
)

// ReturnAssumption is the annual return distribution of a track.
type ReturnAssumption struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
}

// Published return assumptions.
var (
	StrategyAssumption        = ReturnAssumption{Mean: 0.1285, StdDev: 0.1325}
	MSCIMultiFactorAssumption = ReturnAssumption{Mean: 0.0968, StdDev: 0.1632}
	SP500Assumption           = ReturnAssumption{Mean: 0.1153, StdDev: 0.1582}
)
