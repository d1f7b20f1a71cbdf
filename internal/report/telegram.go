package report

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"CrestCast/internal/model"
	"CrestCast/internal/projection"
	"CrestCast/internal/recorder"
)

// FormatProjection formats a projection as a Telegram HTML message.
func FormatProjection(title string, in model.ProjectionInputs, res *model.ProjectionResult, now time.Time) string {
	var b strings.Builder
	s := res.Summary
	last := res.Terminal()

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(title), now.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("AUM: %s | Allocation: %s\n", Money(in.TotalAUM), Percent(in.AllocationPct, 1)))
	b.WriteString(fmt.Sprintf("Benchmark: %s | %s\n", html.EscapeString(s.Benchmark.Label()), modeText(s)))
	b.WriteString(fmt.Sprintf("Net fees: %s vs %s\n\n", Bps(s.StrategyNetFeeBps), Bps(s.BenchmarkNetFeeBps)))

	b.WriteString("📈 <b>Executive Summary</b>\n")
	for _, l := range ExecutiveSummary(res) {
		icon := "✅"
		if l.Label == "Warning" {
			icon = "⚠️"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", icon, html.EscapeString(l.Label), html.EscapeString(l.Value)))
	}

	b.WriteString(fmt.Sprintf("\n💰 <b>Year %d</b>\n", last.Year))
	b.WriteString(fmt.Sprintf("  Revenue: %s vs %s\n", Money(last.StrategyRevenue), Money(last.BenchmarkRevenue)))
	b.WriteString(fmt.Sprintf("  Cumulative: %s vs %s\n", Money(last.CumulativeStrategyRevenue), Money(last.CumulativeBenchmarkRevenue)))
	b.WriteString(fmt.Sprintf("  Client index: %.1f vs %.1f\n", last.StrategyClientValue, last.BenchmarkClientValue))

	return b.String()
}

// FormatAssumptions lists the engine parameters and return assumptions.
func FormatAssumptions(cfg projection.Config) string {
	var b strings.Builder
	b.WriteString("📦 <b>Return Assumptions</b>\n\n")
	b.WriteString(fmt.Sprintf("%s: %s\n", StrategyLabel, assumptionText(cfg.Strategy)))
	for _, choice := range []model.BenchmarkChoice{model.BenchmarkMSCIMultiFactor, model.BenchmarkSP500} {
		if a, ok := cfg.Benchmarks[choice]; ok {
			b.WriteString(fmt.Sprintf("%s: %s\n", html.EscapeString(choice.Label()), assumptionText(a)))
		}
	}
	b.WriteString(fmt.Sprintf("\nHorizon: %d years | Trials: %s | Index base: %.0f\n",
		cfg.HorizonYears, humanize.Comma(int64(cfg.Trials)), cfg.ClientIndexBase))
	return b.String()
}

// FormatHistory lists recorded runs, newest first.
func FormatHistory(runs []recorder.RunSummary, now time.Time) string {
	if len(runs) == 0 {
		return "No projections recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent Projections</b>\n\n")
	for _, r := range runs {
		uplift := notAvailable
		if r.TerminalUpliftPct != nil {
			uplift = Percent(*r.TerminalUpliftPct, 1)
		}
		b.WriteString(fmt.Sprintf("• %s %s | %s | %s\n  lift %s | uplift %s | margin %s\n",
			humanize.RelTime(r.Timestamp, now, "ago", "from now"),
			r.Source,
			r.Mode,
			html.EscapeString(r.Benchmark.Label()),
			Money(r.TotalLift),
			uplift,
			Bps(r.MarginUpliftBps),
		))
	}
	return b.String()
}
