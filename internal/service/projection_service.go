// Package service runs projections on behalf of the CLI, HTTP API and bot,
// layering caching, persistence and metrics around the engine.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"CrestCast/internal/cache"
	"CrestCast/internal/logger"
	"CrestCast/internal/model"
	"CrestCast/internal/observability"
	"CrestCast/internal/projection"
	"CrestCast/internal/recorder"
)

// Request is one projection request.
type Request struct {
	Inputs model.ProjectionInputs
	Seed   int64 // 0 draws a fresh seed in Monte Carlo mode
	Source string
}

// Response carries the result together with its run metadata.
type Response struct {
	RunID  string                  `json:"run_id"`
	Cached bool                    `json:"cached"`
	Seed   int64                   `json:"seed,omitempty"`
	Result *model.ProjectionResult `json:"result"`
}

// ProjectionService validates, caches, runs and records projections.
// The cache and metrics are optional.
type ProjectionService struct {
	engine  *projection.Engine
	cache   cache.Cache
	rec     recorder.Recorder
	metrics *observability.Metrics
	ttl     time.Duration
	log     zerolog.Logger
	newID   func() string
}

func NewProjectionService(engine *projection.Engine, c cache.Cache, rec recorder.Recorder, m *observability.Metrics, ttl time.Duration) *ProjectionService {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &ProjectionService{
		engine:  engine,
		cache:   c,
		rec:     rec,
		metrics: m,
		ttl:     ttl,
		log:     logger.GetForComponent("service"),
		newID:   uuid.NewString,
	}
}

// Config returns the engine configuration the service runs against.
func (s *ProjectionService) Config() projection.Config {
	return s.engine.Config()
}

// Run executes req. Validation failures wrap projection.ErrInvalidInput.
// Cache and recorder failures are logged and never fail the run.
func (s *ProjectionService) Run(ctx context.Context, req Request) (*Response, error) {
	in := req.Inputs
	if err := projection.ValidateInputs(in); err != nil {
		if s.metrics != nil {
			s.metrics.InvalidInputs.Inc()
		}
		return nil, err
	}

	seed := req.Seed
	if in.Mode == model.ModeDeterministic {
		seed = 0
	}

	key := s.cacheKey(in, seed)
	if key != "" {
		if res, ok := s.lookup(ctx, key); ok {
			resp := &Response{RunID: s.newID(), Cached: true, Seed: seed, Result: res}
			s.record(req.Source, seed, in, res, resp.RunID)
			s.countRun(in)
			return resp, nil
		}
	}

	var src projection.RandSource
	if seed != 0 {
		src = projection.NewSeededSource(seed)
	}

	start := time.Now()
	res, err := s.engine.Project(in, src)
	if err != nil {
		if s.metrics != nil && errors.Is(err, projection.ErrInvalidInput) {
			s.metrics.InvalidInputs.Inc()
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ProjectionDuration.WithLabelValues(string(in.Mode)).Observe(time.Since(start).Seconds())
	}

	if res.Summary.NegativeStrategyFee {
		s.log.Warn().
			Float64("strategy_net_fee_bps", res.Summary.StrategyNetFeeBps).
			Msg("licensing fee exceeds base and overlay fees")
	}

	if key != "" {
		s.store(ctx, key, res)
	}

	resp := &Response{RunID: s.newID(), Seed: seed, Result: res}
	s.record(req.Source, seed, in, res, resp.RunID)
	s.countRun(in)

	s.log.Debug().
		Str("run_id", resp.RunID).
		Str("mode", string(in.Mode)).
		Str("benchmark", string(in.Benchmark)).
		Float64("total_lift", res.Summary.TotalLift).
		Msg("projection complete")
	return resp, nil
}

// cacheKey returns "" for runs that cannot be cached.
func (s *ProjectionService) cacheKey(in model.ProjectionInputs, seed int64) string {
	if s.cache == nil {
		return ""
	}
	if in.Mode == model.ModeMonteCarlo && seed == 0 {
		return ""
	}
	key, err := cache.Key(in, s.engine.Config(), seed)
	if err != nil {
		s.log.Warn().Err(err).Msg("derive cache key")
		return ""
	}
	return key
}

func (s *ProjectionService) lookup(ctx context.Context, key string) (*model.ProjectionResult, bool) {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
		return nil, false
	}
	var res model.ProjectionResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
		return nil, false
	}
	if s.metrics != nil {
		s.metrics.CacheHits.Inc()
	}
	return &res, true
}

func (s *ProjectionService) store(ctx context.Context, key string, res *model.ProjectionResult) {
	b, err := json.Marshal(res)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode result for cache")
		return
	}
	if err := s.cache.Set(ctx, key, string(b), s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (s *ProjectionService) record(source string, seed int64, in model.ProjectionInputs, res *model.ProjectionResult, id string) {
	err := s.rec.RecordProjection(&recorder.ProjectionRun{
		ID:     id,
		Source: source,
		Seed:   seed,
		Inputs: in,
		Result: res,
	})
	if err != nil {
		s.log.Error().Err(err).Str("run_id", id).Msg("record projection")
		if s.metrics != nil {
			s.metrics.RecorderErrors.Inc()
		}
	}
}

func (s *ProjectionService) countRun(in model.ProjectionInputs) {
	if s.metrics != nil {
		s.metrics.ProjectionsTotal.WithLabelValues(string(in.Mode), string(in.Benchmark)).Inc()
	}
}

// History lists the most recent recorded runs.
func (s *ProjectionService) History(limit int) ([]recorder.RunSummary, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: history limit must be positive", projection.ErrInvalidInput)
	}
	return s.rec.Recent(limit)
}
