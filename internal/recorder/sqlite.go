package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"CrestCast/internal/logger"
	"CrestCast/internal/model"
)

// SQLiteRecorder persists projection runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logger.GetForComponent("recorder"), now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS projection_runs (
			id                    TEXT PRIMARY KEY,
			timestamp             INTEGER NOT NULL,
			source                TEXT,
			mode                  TEXT,
			benchmark             TEXT,
			seed                  INTEGER,
			trials                INTEGER,
			total_aum             REAL,
			allocation_pct        REAL,
			base_fee_bps          REAL,
			overlay_fee_bps       REAL,
			licensing_fee_bps     REAL,
			retention_lift_pct    REAL,
			organic_growth_pct    REAL,
			tlh_uplift_bps        REAL,
			allocated_aum         REAL,
			strategy_net_fee_bps  REAL,
			benchmark_net_fee_bps REAL,
			total_lift            REAL,
			terminal_uplift_pct   REAL,
			margin_uplift_bps     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON projection_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS projection_years (
			run_id                 TEXT NOT NULL REFERENCES projection_runs(id),
			year                   INTEGER NOT NULL,
			strategy_aum           REAL,
			benchmark_aum          REAL,
			strategy_client_value  REAL,
			benchmark_client_value REAL,
			strategy_revenue       REAL,
			benchmark_revenue      REAL,
			PRIMARY KEY (run_id, year)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordProjection stores the run header and every year row in one transaction.
func (r *SQLiteRecorder) RecordProjection(run *ProjectionRun) error {
	if run == nil || run.Result == nil {
		return fmt.Errorf("record projection: missing result")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	in := run.Inputs
	s := run.Result.Summary

	var uplift any
	if s.UpliftDefined() {
		uplift = s.TerminalUpliftPct
	}

	_, err = tx.Exec(`INSERT INTO projection_runs
		(id, timestamp, source, mode, benchmark, seed, trials,
		 total_aum, allocation_pct, base_fee_bps, overlay_fee_bps, licensing_fee_bps,
		 retention_lift_pct, organic_growth_pct, tlh_uplift_bps,
		 allocated_aum, strategy_net_fee_bps, benchmark_net_fee_bps,
		 total_lift, terminal_uplift_pct, margin_uplift_bps)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, r.now().Unix(), run.Source, string(in.Mode), string(in.Benchmark), run.Seed, s.Trials,
		in.TotalAUM, in.AllocationPct, in.BaseFeeBps, in.OverlayFeeBps, in.LicensingFeeBps,
		in.RetentionLiftPct, in.OrganicGrowthPct, in.TLHUpliftBps,
		s.AllocatedAUM, s.StrategyNetFeeBps, s.BenchmarkNetFeeBps,
		s.TotalLift, uplift, s.MarginUpliftBps,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, y := range run.Result.Years {
		if _, err := tx.Exec(`INSERT INTO projection_years
			(run_id, year, strategy_aum, benchmark_aum, strategy_client_value, benchmark_client_value,
			 strategy_revenue, benchmark_revenue)
			VALUES (?,?,?,?,?,?,?,?)`,
			run.ID, y.Year, y.StrategyAUM, y.BenchmarkAUM, y.StrategyClientValue, y.BenchmarkClientValue,
			y.StrategyRevenue, y.BenchmarkRevenue,
		); err != nil {
			return fmt.Errorf("insert year %d: %w", y.Year, err)
		}
	}

	return tx.Commit()
}

// Recent returns the latest runs, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, source, mode, benchmark,
		total_lift, terminal_uplift_pct, margin_uplift_bps
		FROM projection_runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs     RunSummary
			ts     int64
			mode   string
			bench  string
			uplift sql.NullFloat64
		)
		if err := rows.Scan(&rs.ID, &ts, &rs.Source, &mode, &bench,
			&rs.TotalLift, &uplift, &rs.MarginUpliftBps); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rs.Timestamp = time.Unix(ts, 0)
		rs.Mode = model.SimulationMode(mode)
		rs.Benchmark = model.BenchmarkChoice(bench)
		if uplift.Valid {
			v := uplift.Float64
			rs.TerminalUpliftPct = &v
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
