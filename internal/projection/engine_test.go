package projection

import (
	"errors"
	"math"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CrestCast/internal/model"
)

// scenarioInputs matches the reference case: $100M platform, half allocated,
// 10/35/15 bps fees, no growth or retention, MSCI benchmark.
func scenarioInputs() model.ProjectionInputs {
	return model.ProjectionInputs{
		TotalAUM:        100_000_000,
		AllocationPct:   50,
		BaseFeeBps:      10,
		OverlayFeeBps:   35,
		LicensingFeeBps: 15,
		Benchmark:       model.BenchmarkMSCIMultiFactor,
		Mode:            model.ModeDeterministic,
	}
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	require.NoError(t, err)
	return e
}

// sequenceSource replays a fixed list of standard normal draws.
type sequenceSource struct {
	values []float64
	next   int
}

func (s *sequenceSource) NormFloat64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func TestProject_Scenario(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	res, err := e.Project(scenarioInputs(), nil)
	require.NoError(t, err)
	require.Len(t, res.Years, 10)

	s := res.Summary
	assert.InDelta(t, 50_000_000, s.AllocatedAUM, 1e-6)
	assert.Equal(t, 30.0, s.StrategyNetFeeBps)
	assert.Equal(t, 10.0, s.BenchmarkNetFeeBps)
	assert.Equal(t, 20.0, s.MarginUpliftBps)
	assert.Equal(t, 1, s.Trials)

	y1 := res.Years[0]
	assert.Equal(t, 1, y1.Year)
	assert.InDelta(t, 56_425_000, y1.StrategyAUM, 1e-4)
	assert.InDelta(t, 169_275, y1.StrategyRevenue, 1e-6)
	assert.InDelta(t, 54_840_000, y1.BenchmarkAUM, 1e-4)
	assert.InDelta(t, 54_840, y1.BenchmarkRevenue, 1e-6)

	wantLift := 0.0
	for y := 1; y <= 10; y++ {
		fy := float64(y)
		wantLift += 50_000_000*math.Pow(1.1285, fy)*0.003 - 50_000_000*math.Pow(1.0968, fy)*0.001
	}
	assert.InEpsilon(t, wantLift, s.TotalLift, 1e-9)

	last := res.Terminal()
	wantUplift := (last.StrategyRevenue - last.BenchmarkRevenue) / last.BenchmarkRevenue * 100
	require.True(t, s.UpliftDefined())
	assert.InDelta(t, wantUplift, s.TerminalUpliftPct, 1e-9)
	assert.InDelta(t, last.CumulativeStrategyRevenue-last.CumulativeBenchmarkRevenue, s.TotalLift, 1e-6)
}

func TestProject_DeterministicIsRepeatable(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	in := scenarioInputs()
	in.OrganicGrowthPct = 25
	in.RetentionLiftPct = 10
	in.TLHUpliftBps = 5

	first, err := e.Project(in, nil)
	require.NoError(t, err)
	second, err := e.Project(in, &sequenceSource{values: []float64{3}})
	require.NoError(t, err)

	assert.Equal(t, first.Years, second.Years)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestProject_CompoundingIdentity(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	in := scenarioInputs()
	in.Benchmark = model.BenchmarkSP500

	res, err := e.Project(in, nil)
	require.NoError(t, err)

	for _, yr := range res.Years {
		n := float64(yr.Year)
		assert.InEpsilon(t, 50_000_000*math.Pow(1+model.StrategyAssumption.Mean, n), yr.StrategyAUM, 1e-12, "year %d", yr.Year)
		assert.InEpsilon(t, 50_000_000*math.Pow(1+model.SP500Assumption.Mean, n), yr.BenchmarkAUM, 1e-12, "year %d", yr.Year)
	}
}

func TestProject_ClientIndexIsNetOfFeeWithoutGrowth(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	in := scenarioInputs()
	in.OrganicGrowthPct = 25
	in.RetentionLiftPct = 10

	res, err := e.Project(in, nil)
	require.NoError(t, err)

	y1 := res.Years[0]
	assert.InDelta(t, 100*(1+0.1285-0.003), y1.StrategyClientValue, 1e-9)
	assert.InDelta(t, 100*(1+0.0968-0.001), y1.BenchmarkClientValue, 1e-9)

	// organic growth reaches both platform tracks, retention only the strategy
	assert.InDelta(t, 50_000_000*(1+0.1285+0.25+0.10), y1.StrategyAUM, 1e-4)
	assert.InDelta(t, 50_000_000*(1+0.0968+0.25), y1.BenchmarkAUM, 1e-4)
}

func TestProject_RetentionLiftCompounds(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	in := scenarioInputs()
	in.RetentionLiftPct = 10

	res, err := e.Project(in, nil)
	require.NoError(t, err)

	for _, yr := range res.Years {
		want := 50_000_000 * math.Pow(1+0.1285+0.10, float64(yr.Year))
		assert.InEpsilon(t, want, yr.StrategyAUM, 1e-12)
	}
}

func TestProject_TLHRaisesBenchmarkFee(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	in := scenarioInputs()
	in.TLHUpliftBps = 5

	res, err := e.Project(in, nil)
	require.NoError(t, err)
	assert.Equal(t, 15.0, res.Summary.BenchmarkNetFeeBps)
	assert.Equal(t, 15.0, res.Summary.MarginUpliftBps)
	assert.InDelta(t, 54_840_000*0.0015, res.Years[0].BenchmarkRevenue, 1e-6)
}

func TestProject_OverlayFeeMonotonic(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	low := scenarioInputs()
	high := scenarioInputs()
	high.OverlayFeeBps = low.OverlayFeeBps + 1

	lowRes, err := e.Project(low, nil)
	require.NoError(t, err)
	highRes, err := e.Project(high, nil)
	require.NoError(t, err)

	assert.Greater(t, highRes.Summary.StrategyNetFeeBps, lowRes.Summary.StrategyNetFeeBps)
	for i := range lowRes.Years {
		assert.Equal(t, lowRes.Years[i].StrategyAUM, highRes.Years[i].StrategyAUM)
		assert.Greater(t, highRes.Years[i].StrategyRevenue, lowRes.Years[i].StrategyRevenue, "year %d", i+1)
	}
}

func TestProject_NegativeNetFeeIsFlaggedNotRejected(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	in := scenarioInputs()
	in.OverlayFeeBps = 0
	in.LicensingFeeBps = 25

	res, err := e.Project(in, nil)
	require.NoError(t, err)
	assert.Equal(t, -15.0, res.Summary.StrategyNetFeeBps)
	assert.True(t, res.Summary.NegativeStrategyFee)
	assert.Less(t, res.Years[0].StrategyRevenue, 0.0)
}

func TestProject_ZeroAllocation(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	for _, mode := range []model.SimulationMode{model.ModeDeterministic, model.ModeMonteCarlo} {
		in := scenarioInputs()
		in.AllocationPct = 0
		in.Mode = mode

		res, err := e.Project(in, NewSeededSource(7))
		require.NoError(t, err, mode)

		for _, yr := range res.Years {
			assert.Zero(t, yr.StrategyAUM)
			assert.Zero(t, yr.BenchmarkAUM)
			assert.Zero(t, yr.StrategyRevenue)
			assert.Zero(t, yr.BenchmarkRevenue)
		}
		assert.Zero(t, res.Summary.TotalLift)
		assert.False(t, res.Summary.UpliftDefined())
		assert.True(t, math.IsNaN(res.Summary.TerminalUpliftPct))
	}
}

func TestProject_MonteCarloSeededIsReproducible(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	in := scenarioInputs()
	in.Mode = model.ModeMonteCarlo

	a, err := e.Project(in, NewSeededSource(42))
	require.NoError(t, err)
	b, err := e.Project(in, NewSeededSource(42))
	require.NoError(t, err)
	c, err := e.Project(in, NewSeededSource(43))
	require.NoError(t, err)

	assert.Equal(t, a.Years, b.Years)
	assert.NotEqual(t, a.Years, c.Years)
	assert.Equal(t, DefaultTrials, a.Summary.Trials)
}

func TestProject_MonteCarloUnseeded(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	in := scenarioInputs()
	in.Mode = model.ModeMonteCarlo

	res, err := e.Project(in, nil)
	require.NoError(t, err)
	require.Len(t, res.Years, DefaultHorizonYears)
	for _, yr := range res.Years {
		assert.Greater(t, yr.StrategyAUM, 0.0)
	}
}

func TestProject_MedianIsExactOrderStatistic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trials = 5
	cfg.HorizonYears = 3
	e := newTestEngine(t, cfg)

	draws := []float64{
		// strategy: 5 trials x 3 years
		0.3, -1.2, 0.8,
		-0.4, 2.1, -0.9,
		1.5, 0.2, -2.2,
		-1.1, -0.3, 0.6,
		0.0, 1.0, -0.5,
		// benchmark: 5 trials x 3 years
		-0.7, 0.4, 1.9,
		1.2, -1.6, 0.1,
		0.5, 0.9, -0.2,
		-2.0, 1.3, 0.7,
		0.8, -0.1, -1.4,
	}
	in := scenarioInputs()
	in.Mode = model.ModeMonteCarlo
	in.OrganicGrowthPct = 5

	res, err := e.Project(in, &sequenceSource{values: draws})
	require.NoError(t, err)
	require.Len(t, res.Years, 3)
	assert.Equal(t, 5, res.Summary.Trials)

	expected := func(offset int, a model.ReturnAssumption, start, adj float64) []float64 {
		cols := make([][]float64, 3)
		for trial := 0; trial < 5; trial++ {
			v := start
			for y := 0; y < 3; y++ {
				r := a.Mean + a.StdDev*draws[offset+trial*3+y]
				v *= 1 + r + adj
				cols[y] = append(cols[y], v)
			}
		}
		out := make([]float64, 3)
		for y, c := range cols {
			sort.Float64s(c)
			out[y] = c[2]
		}
		return out
	}

	strategyAUM := expected(0, model.StrategyAssumption, 50_000_000, 0.05)
	benchmarkAUM := expected(15, model.MSCIMultiFactorAssumption, 50_000_000, 0.05)
	strategyIndex := expected(0, model.StrategyAssumption, 100, -0.003)
	benchmarkIndex := expected(15, model.MSCIMultiFactorAssumption, 100, -0.001)
	for y := 0; y < 3; y++ {
		assert.Equal(t, strategyAUM[y], res.Years[y].StrategyAUM, "year %d", y+1)
		assert.Equal(t, benchmarkAUM[y], res.Years[y].BenchmarkAUM, "year %d", y+1)
		assert.Equal(t, strategyIndex[y], res.Years[y].StrategyClientValue, "year %d", y+1)
		assert.Equal(t, benchmarkIndex[y], res.Years[y].BenchmarkClientValue, "year %d", y+1)
		assert.Equal(t, strategyAUM[y]*0.003, res.Years[y].StrategyRevenue)
		assert.Equal(t, benchmarkAUM[y]*0.001, res.Years[y].BenchmarkRevenue)
	}
}

func TestProject_ConcurrentRunsShareNothing(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	in := scenarioInputs()
	in.Mode = model.ModeMonteCarlo

	want, err := e.Project(in, NewSeededSource(99))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*model.ProjectionResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := e.Project(in, NewSeededSource(99))
			if err == nil {
				results[i] = r
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, want.Years, r.Years)
	}
}

func TestProject_RejectsInvalidInput(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	tests := []struct {
		name   string
		mutate func(*model.ProjectionInputs)
	}{
		{"aum below minimum", func(in *model.ProjectionInputs) { in.TotalAUM = 999_999 }},
		{"allocation above 100", func(in *model.ProjectionInputs) { in.AllocationPct = 100.5 }},
		{"allocation negative", func(in *model.ProjectionInputs) { in.AllocationPct = -1 }},
		{"negative base fee", func(in *model.ProjectionInputs) { in.BaseFeeBps = -1 }},
		{"negative overlay fee", func(in *model.ProjectionInputs) { in.OverlayFeeBps = -0.1 }},
		{"negative licensing fee", func(in *model.ProjectionInputs) { in.LicensingFeeBps = -5 }},
		{"negative retention", func(in *model.ProjectionInputs) { in.RetentionLiftPct = -2 }},
		{"organic growth above 50", func(in *model.ProjectionInputs) { in.OrganicGrowthPct = 51 }},
		{"tlh above 10", func(in *model.ProjectionInputs) { in.TLHUpliftBps = 11 }},
		{"nan aum", func(in *model.ProjectionInputs) { in.TotalAUM = math.NaN() }},
		{"infinite overlay", func(in *model.ProjectionInputs) { in.OverlayFeeBps = math.Inf(1) }},
		{"unknown benchmark", func(in *model.ProjectionInputs) { in.Benchmark = "NASDAQ" }},
		{"unknown mode", func(in *model.ProjectionInputs) { in.Mode = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := scenarioInputs()
			tt.mutate(&in)
			_, err := e.Project(in, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestProject_AcceptsBoundaryValues(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	in := scenarioInputs()
	in.TotalAUM = model.MinTotalAUM
	in.AllocationPct = 100
	in.OrganicGrowthPct = 50
	in.TLHUpliftBps = 10

	_, err := e.Project(in, nil)
	require.NoError(t, err)
}

func TestNewEngine_RejectsTamperedConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero horizon", func(c *Config) { c.HorizonYears = 0 }},
		{"negative trials", func(c *Config) { c.Trials = -1 }},
		{"zero index base", func(c *Config) { c.ClientIndexBase = 0 }},
		{"negative volatility", func(c *Config) { c.Strategy.StdDev = -0.1 }},
		{"missing benchmark", func(c *Config) { delete(c.Benchmarks, model.BenchmarkSP500) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewEngine(cfg)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestEngine_ConfigIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(t, cfg)
	cfg.Benchmarks[model.BenchmarkSP500] = model.ReturnAssumption{Mean: 1}

	got := e.Config()
	assert.Equal(t, model.SP500Assumption, got.Benchmarks[model.BenchmarkSP500])

	got.Benchmarks[model.BenchmarkSP500] = model.ReturnAssumption{Mean: 2}
	assert.Equal(t, model.SP500Assumption, e.Config().Benchmarks[model.BenchmarkSP500])
}

func TestProject_AlternateHorizon(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HorizonYears = 3
	e := newTestEngine(t, cfg)

	res, err := e.Project(scenarioInputs(), nil)
	require.NoError(t, err)
	require.Len(t, res.Years, 3)
	assert.Equal(t, 3, res.Terminal().Year)
}

func TestNewUnseededSource_Varies(t *testing.T) {
	seen := make(map[float64]bool)
	for i := 0; i < 8; i++ {
		src, err := newUnseededSource()
		require.NoError(t, err)
		seen[src.NormFloat64()] = true
	}
	assert.Greater(t, len(seen), 1)
}
