package recorder

import (
	"time"

	"CrestCast/internal/model"
)

// Run sources.
const (
	SourceCLI    = "CLI"
	SourceHTTP   = "HTTP"
	SourceBot    = "BOT"
	SourceDigest = "DIGEST"
)

// ProjectionRun holds everything persisted for one engine invocation.
type ProjectionRun struct {
	ID     string
	Source string
	Seed   int64 // 0 when unseeded or deterministic
	Inputs model.ProjectionInputs
	Result *model.ProjectionResult
}

// RunSummary is a stored run as listed by Recent.
type RunSummary struct {
	ID                string                `json:"id"`
	Timestamp         time.Time             `json:"timestamp"`
	Source            string                `json:"source"`
	Mode              model.SimulationMode  `json:"simulation_mode"`
	Benchmark         model.BenchmarkChoice `json:"benchmark_choice"`
	TotalLift         float64               `json:"total_lift"`
	TerminalUpliftPct *float64              `json:"terminal_uplift_pct"` // nil when undefined
	MarginUpliftBps   float64               `json:"margin_uplift_bps"`
}

// Recorder persists projection history for analysis.
type Recorder interface {
	RecordProjection(run *ProjectionRun) error
	Recent(limit int) ([]RunSummary, error)
	Close() error
}
