package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CrestCast/internal/app"
	"CrestCast/internal/config"
	"CrestCast/internal/httpapi"
	"CrestCast/internal/logger"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("load .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("load config")
	}
	logger.Initialize(cfg.Log.Level)
	log := logger.GetForComponent("server")
	log.Info().Msg("CrestCast API starting...")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.Options{Record: true, RuntimeMetrics: true})
	if err != nil {
		log.Fatal().Err(err).Msg("init")
	}
	defer a.Close()

	srv := httpapi.NewServer(a.Service, a.Metrics).NewHTTPServer(cfg.HTTP.Addr)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, stopping...")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	log.Info().Msg("CrestCast API stopped")
}
