// Package app wires the projection service and its backing stores from config.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"CrestCast/internal/cache"
	"CrestCast/internal/config"
	"CrestCast/internal/logger"
	"CrestCast/internal/observability"
	"CrestCast/internal/projection"
	"CrestCast/internal/recorder"
	"CrestCast/internal/service"
)

// App holds the long-lived components shared by the binaries.
type App struct {
	Config   *config.Config
	Service  *service.ProjectionService
	Recorder recorder.Recorder
	Metrics  *observability.Metrics

	closers []func() error
}

// Options selects optional components.
type Options struct {
	// Record persists runs to SQLite when a path is configured.
	Record bool
	// RuntimeMetrics adds Go runtime and process collectors to the registry.
	RuntimeMetrics bool
}

// New builds the engine, cache, recorder and metrics. Failing optional
// stores fall back to in-memory or no-op implementations.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log := logger.GetForComponent("app")

	engine, err := projection.NewEngine(cfg.EngineConfig())
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}

	reg := prometheus.NewRegistry()
	if opts.RuntimeMetrics {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	a := &App{Config: cfg, Metrics: observability.NewMetrics("crestcast", reg)}

	var c cache.Cache = cache.NewMemoryCache()
	if cfg.Cache.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.Cache.RedisAddr)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("redis unavailable, using in-memory cache")
			rc.Close()
		} else {
			log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("redis cache connected")
			c = rc
			a.closers = append(a.closers, rc.Close)
		}
	}

	a.Recorder = recorder.NewNoopRecorder()
	if opts.Record && cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			a.Recorder = sr
			a.closers = append(a.closers, sr.Close)
		}
	}

	a.Service = service.NewProjectionService(engine, c, a.Recorder, a.Metrics, cfg.Cache.TTL)
	return a, nil
}

// Close releases the stores in reverse order of opening.
func (a *App) Close() {
	log := logger.GetForComponent("app")
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("close")
		}
	}
}
