// Package scheduler runs the recurring projection digest and answers bot commands.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"CrestCast/internal/logger"
	"CrestCast/internal/model"
	"CrestCast/internal/projection"
	"CrestCast/internal/recorder"
	"CrestCast/internal/report"
	"CrestCast/internal/service"
)

const historyLimit = 5

// Notifier delivers a formatted message.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Runner runs and lists projections.
type Runner interface {
	Run(ctx context.Context, req service.Request) (*service.Response, error)
	Config() projection.Config
	History(limit int) ([]recorder.RunSummary, error)
}

// Scheduler manages the digest cron task and the command handler.
type Scheduler struct {
	Cron     *cron.Cron
	Service  Runner
	Notifier Notifier
	Scenario model.ProjectionInputs
	Seed     int64
	Ctx      context.Context

	log zerolog.Logger
	now func() time.Time
}

// NewScheduler creates a new Scheduler for the given default scenario.
func NewScheduler(ctx context.Context, svc Runner, n Notifier, scenario model.ProjectionInputs, seed int64) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Service:  svc,
		Notifier: n,
		Scenario: scenario,
		Seed:     seed,
		Ctx:      ctx,
		log:      logger.GetForComponent("scheduler"),
		now:      time.Now,
	}
}

// Register adds the digest task on digestCron (six fields, seconds first).
func (s *Scheduler) Register(digestCron string) error {
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunDigestNow executes the digest immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

func (s *Scheduler) digestTask() {
	s.log.Info().Msg("running projection digest")
	resp, err := s.Service.Run(s.Ctx, service.Request{
		Inputs: s.Scenario,
		Seed:   s.Seed,
		Source: recorder.SourceDigest,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("digest projection")
		s.trySend(fmt.Sprintf("❌ Projection digest failed: %v", err))
		return
	}
	s.trySend(report.FormatProjection("CrestCast Projection Digest", s.Scenario, resp.Result, s.now()))
}

// HandleCommand processes a user command and returns a reply.
//
//	/roi [msci|sp500]           deterministic projection of the default scenario
//	/roi_mc [msci|sp500] [seed] Monte Carlo projection
//	/assumptions                return assumptions and engine settings
//	/history                    recent recorded runs
//	/digest                     send the digest now
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name, _, _ := strings.Cut(fields[0], "@")
	args := fields[1:]

	switch name {
	case "/roi":
		return s.projectCommand(model.ModeDeterministic, args)
	case "/roi_mc":
		return s.projectCommand(model.ModeMonteCarlo, args)
	case "/assumptions":
		return report.FormatAssumptions(s.Service.Config())
	case "/history":
		runs, err := s.Service.History(historyLimit)
		if err != nil {
			s.log.Error().Err(err).Msg("load history")
			return fmt.Sprintf("❌ Could not load history: %v", err)
		}
		return report.FormatHistory(runs, s.now())
	case "/digest":
		s.digestTask()
		return ""
	default:
		return helpText
	}
}

const helpText = "Available commands:\n" +
	"• /roi [msci|sp500]\n" +
	"• /roi_mc [msci|sp500] [seed]\n" +
	"• /assumptions\n" +
	"• /history\n" +
	"• /digest"

func (s *Scheduler) projectCommand(mode model.SimulationMode, args []string) string {
	in := s.Scenario
	in.Mode = mode
	seed := s.Seed

	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "msci":
			in.Benchmark = model.BenchmarkMSCIMultiFactor
		case "sp500":
			in.Benchmark = model.BenchmarkSP500
		default:
			v, err := strconv.ParseInt(arg, 10, 64)
			if err != nil || mode != model.ModeMonteCarlo {
				return fmt.Sprintf("❌ Unknown argument %q\n\n%s", arg, helpText)
			}
			seed = v
		}
	}

	resp, err := s.Service.Run(s.Ctx, service.Request{Inputs: in, Seed: seed, Source: recorder.SourceBot})
	if err != nil {
		if errors.Is(err, projection.ErrInvalidInput) {
			return fmt.Sprintf("❌ Invalid scenario: %v", err)
		}
		s.log.Error().Err(err).Msg("bot projection")
		return fmt.Sprintf("❌ Projection failed: %v", err)
	}
	return report.FormatProjection("CrestCast ROI Projection", in, resp.Result, s.now())
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
