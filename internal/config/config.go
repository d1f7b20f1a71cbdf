package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"CrestCast/internal/model"
	"CrestCast/internal/projection"
)

// Config holds all application configuration.
type Config struct {
	Engine struct {
		HorizonYears    int     `yaml:"horizon_years" env:"ENGINE_HORIZON_YEARS"`
		Trials          int     `yaml:"trials" env:"ENGINE_TRIALS"`
		ClientIndexBase float64 `yaml:"client_index_base" env:"ENGINE_CLIENT_INDEX_BASE"`
		Seed            int64   `yaml:"seed" env:"ENGINE_SEED"` // 0 draws a fresh seed per run
	} `yaml:"engine"`
	Assumptions struct {
		Strategy        model.ReturnAssumption `yaml:"strategy"`
		MSCIMultiFactor model.ReturnAssumption `yaml:"msci_multifactor"`
		SP500           model.ReturnAssumption `yaml:"sp500"`
	} `yaml:"assumptions"`
	Scenario Scenario `yaml:"scenario"`
	Telegram struct {
		BotToken string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
	} `yaml:"telegram"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron" env:"CRON_DIGEST"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	} `yaml:"database"`
	Cache struct {
		RedisAddr string        `yaml:"redis_addr" env:"REDIS_ADDR"`
		TTL       time.Duration `yaml:"ttl" env:"CACHE_TTL"`
	} `yaml:"cache"`
	HTTP struct {
		Addr string `yaml:"addr" env:"HTTP_ADDR"`
	} `yaml:"http"`
	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy" env:"HTTPS_PROXY"`
}

// Scenario is the default input set used by the CLI, the digest and bot commands.
type Scenario struct {
	TotalAUM         float64 `yaml:"total_aum" env:"SCENARIO_TOTAL_AUM"`
	AllocationPct    float64 `yaml:"allocation_pct" env:"SCENARIO_ALLOCATION_PCT"`
	BaseFeeBps       float64 `yaml:"base_fee_bps" env:"SCENARIO_BASE_FEE_BPS"`
	OverlayFeeBps    float64 `yaml:"overlay_fee_bps" env:"SCENARIO_OVERLAY_FEE_BPS"`
	LicensingFeeBps  float64 `yaml:"licensing_fee_bps" env:"SCENARIO_LICENSING_FEE_BPS"`
	RetentionLiftPct float64 `yaml:"retention_lift_pct" env:"SCENARIO_RETENTION_LIFT_PCT"`
	OrganicGrowthPct float64 `yaml:"organic_growth_pct" env:"SCENARIO_ORGANIC_GROWTH_PCT"`
	TLHEnabled       bool    `yaml:"tlh_enabled" env:"SCENARIO_TLH_ENABLED"`
	TLHUpliftBps     float64 `yaml:"tlh_uplift_bps" env:"SCENARIO_TLH_UPLIFT_BPS"`
	Benchmark        string  `yaml:"benchmark" env:"SCENARIO_BENCHMARK"`
	Mode             string  `yaml:"mode" env:"SCENARIO_MODE"`
}

// Inputs converts the scenario to engine inputs. The TLH uplift only applies when enabled.
func (s Scenario) Inputs() model.ProjectionInputs {
	in := model.ProjectionInputs{
		TotalAUM:         s.TotalAUM,
		AllocationPct:    s.AllocationPct,
		BaseFeeBps:       s.BaseFeeBps,
		OverlayFeeBps:    s.OverlayFeeBps,
		LicensingFeeBps:  s.LicensingFeeBps,
		RetentionLiftPct: s.RetentionLiftPct,
		OrganicGrowthPct: s.OrganicGrowthPct,
		Benchmark:        model.BenchmarkChoice(s.Benchmark),
		Mode:             model.SimulationMode(s.Mode),
	}
	if s.TLHEnabled {
		in.TLHUpliftBps = s.TLHUpliftBps
	}
	return in
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	cfg := &Config{}

	cfg.Engine.HorizonYears = projection.DefaultHorizonYears
	cfg.Engine.Trials = projection.DefaultTrials
	cfg.Engine.ClientIndexBase = projection.DefaultClientIndexBase

	cfg.Assumptions.Strategy = model.StrategyAssumption
	cfg.Assumptions.MSCIMultiFactor = model.MSCIMultiFactorAssumption
	cfg.Assumptions.SP500 = model.SP500Assumption

	cfg.Scenario = Scenario{
		TotalAUM:         100_000_000,
		AllocationPct:    50,
		BaseFeeBps:       10,
		OverlayFeeBps:    35,
		LicensingFeeBps:  15,
		RetentionLiftPct: 10,
		OrganicGrowthPct: 25,
		TLHUpliftBps:     5,
		Benchmark:        string(model.BenchmarkMSCIMultiFactor),
		Mode:             string(model.ModeMonteCarlo),
	}

	cfg.Schedule.DigestCron = "0 0 8 * * 1"
	cfg.Database.SQLitePath = "data/crestcast.db"
	cfg.Cache.TTL = 24 * time.Hour
	cfg.HTTP.Addr = ":8080"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads config from a YAML file on top of Default, then applies
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// EngineConfig builds the projection engine configuration.
func (c *Config) EngineConfig() projection.Config {
	return projection.Config{
		HorizonYears:    c.Engine.HorizonYears,
		Trials:          c.Engine.Trials,
		ClientIndexBase: c.Engine.ClientIndexBase,
		Strategy:        c.Assumptions.Strategy,
		Benchmarks: map[model.BenchmarkChoice]model.ReturnAssumption{
			model.BenchmarkMSCIMultiFactor: c.Assumptions.MSCIMultiFactor,
			model.BenchmarkSP500:           c.Assumptions.SP500,
		},
	}
}

// Validate checks the engine parameters and the default scenario.
func (c *Config) Validate() error {
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := projection.ValidateInputs(c.Scenario.Inputs()); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}

// ValidateBot checks the fields the Telegram bot needs on top of Validate.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Schedule.DigestCron == "" {
		return fmt.Errorf("schedule.digest_cron is required")
	}
	return nil
}
