package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CrestCast/internal/model"
	"CrestCast/internal/projection"
	"CrestCast/internal/recorder"
	"CrestCast/internal/service"
)

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return f.err
}

type listRecorder struct {
	mu   sync.Mutex
	runs []*recorder.ProjectionRun
}

func (l *listRecorder) RecordProjection(run *recorder.ProjectionRun) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runs = append(l.runs, run)
	return nil
}

func (l *listRecorder) Recent(limit int) ([]recorder.RunSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []recorder.RunSummary
	for i := len(l.runs) - 1; i >= 0 && len(out) < limit; i-- {
		r := l.runs[i]
		out = append(out, recorder.RunSummary{
			ID: r.ID, Timestamp: time.Now(), Source: r.Source,
			Mode: r.Inputs.Mode, Benchmark: r.Inputs.Benchmark, TotalLift: r.Result.Summary.TotalLift,
		})
	}
	return out, nil
}

func (l *listRecorder) Close() error { return nil }

func scenario() model.ProjectionInputs {
	return model.ProjectionInputs{
		TotalAUM:         100_000_000,
		AllocationPct:    50,
		BaseFeeBps:       10,
		OverlayFeeBps:    35,
		LicensingFeeBps:  15,
		OrganicGrowthPct: 25,
		TLHUpliftBps:     5,
		Benchmark:        model.BenchmarkMSCIMultiFactor,
		Mode:             model.ModeMonteCarlo,
	}
}

func newTestScheduler(t *testing.T) (*Scheduler, *fakeNotifier, *listRecorder) {
	t.Helper()
	engine, err := projection.NewEngine(projection.DefaultConfig())
	require.NoError(t, err)
	rec := &listRecorder{}
	svc := service.NewProjectionService(engine, nil, rec, nil, 0)
	n := &fakeNotifier{}
	s := NewScheduler(context.Background(), svc, n, scenario(), 7)
	s.now = func() time.Time { return time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC) }
	return s, n, rec
}

func TestRegister(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	require.NoError(t, s.Register("0 0 8 * * 1"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("not a cron"))
}

func TestDigestSendsReportAndRecords(t *testing.T) {
	s, n, rec := newTestScheduler(t)
	s.RunDigestNow()

	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "CrestCast Projection Digest</b> | 2026-05-04")
	assert.Contains(t, n.msgs[0], "Monte Carlo, 100 trials")
	require.Len(t, rec.runs, 1)
	assert.Equal(t, recorder.SourceDigest, rec.runs[0].Source)
	assert.Equal(t, int64(7), rec.runs[0].Seed)
}

func TestDigestReportsFailure(t *testing.T) {
	s, n, rec := newTestScheduler(t)
	s.Scenario.TotalAUM = 10
	s.Notifier.(*fakeNotifier).err = errors.New("offline")

	s.RunDigestNow()
	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "Projection digest failed")
	assert.Empty(t, rec.runs)
}

func TestHandleCommand_ROI(t *testing.T) {
	s, _, rec := newTestScheduler(t)

	reply := s.HandleCommand("/roi sp500")
	assert.Contains(t, reply, "CrestCast ROI Projection")
	assert.Contains(t, reply, "Deterministic")
	assert.Contains(t, reply, "S&amp;P 500")

	reply = s.HandleCommand("/roi_mc@CrestCastBot 123")
	assert.Contains(t, reply, "Monte Carlo, 100 trials")
	assert.Contains(t, reply, "MSCI USA Multi-Factor")

	require.Len(t, rec.runs, 2)
	assert.Equal(t, model.ModeDeterministic, rec.runs[0].Inputs.Mode)
	assert.Equal(t, model.BenchmarkSP500, rec.runs[0].Inputs.Benchmark)
	assert.Equal(t, int64(123), rec.runs[1].Seed)
	assert.Equal(t, recorder.SourceBot, rec.runs[1].Source)
	assert.Equal(t, model.BenchmarkMSCIMultiFactor, s.Scenario.Benchmark)
}

func TestHandleCommand_BadArgument(t *testing.T) {
	s, _, rec := newTestScheduler(t)
	assert.Contains(t, s.HandleCommand("/roi 42"), `Unknown argument "42"`)
	assert.Contains(t, s.HandleCommand("/roi_mc nasdaq"), `Unknown argument "nasdaq"`)
	assert.Empty(t, rec.runs)
}

func TestHandleCommand_InvalidScenario(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	s.Scenario.AllocationPct = 150
	assert.Contains(t, s.HandleCommand("/roi"), "Invalid scenario")
}

func TestHandleCommand_InfoCommands(t *testing.T) {
	s, n, _ := newTestScheduler(t)

	assert.Contains(t, s.HandleCommand("/assumptions"), "Return Assumptions")
	assert.Equal(t, "No projections recorded yet.", s.HandleCommand("/history"))

	s.HandleCommand("/roi")
	assert.Contains(t, s.HandleCommand("/history"), "BOT | DETERMINISTIC")

	assert.Empty(t, s.HandleCommand("/digest"))
	assert.Len(t, n.msgs, 1)

	assert.Contains(t, s.HandleCommand("hello"), "Available commands")
	assert.Contains(t, s.HandleCommand("   "), "Available commands")
}
