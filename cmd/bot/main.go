package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CrestCast/internal/app"
	"CrestCast/internal/config"
	"CrestCast/internal/logger"
	"CrestCast/internal/notifier"
	"CrestCast/internal/scheduler"
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
	log := logger.GetForComponent("bot")
	log.Info().Msg("CrestCast bot starting...")

	if err := cfg.ValidateBot(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, app.Options{Record: true})
	if err != nil {
		log.Fatal().Err(err).Msg("init")
	}
	defer a.Close()

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy).WithMetrics(a.Metrics)

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, a.Service, tn, cfg.Scenario.Inputs(), cfg.Engine.Seed)
	if err := sched.Register(cfg.Schedule.DigestCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, sending digest now")
		go sched.RunDigestNow()
	}

	log.Info().Msg("CrestCast bot is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
}
