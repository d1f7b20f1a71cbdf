package report

import (
	"fmt"
	"strings"
	"time"

	"CrestCast/internal/model"
)

// RenderMarkdown renders the inputs, executive summary and yearly table.
func RenderMarkdown(in model.ProjectionInputs, res *model.ProjectionResult, generatedAt time.Time) string {
	var sb strings.Builder
	s := res.Summary

	sb.WriteString("# CrestCast ROI Projection\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Benchmark: %s | Mode: %s\n\n", s.Benchmark.Label(), modeText(s)))

	// Inputs
	sb.WriteString("## Inputs\n\n")
	sb.WriteString("| Input | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total AUM | %s |\n", Money(in.TotalAUM)))
	sb.WriteString(fmt.Sprintf("| Allocation | %s |\n", Percent(in.AllocationPct, 1)))
	sb.WriteString(fmt.Sprintf("| Allocated AUM | %s |\n", Money(s.AllocatedAUM)))
	sb.WriteString(fmt.Sprintf("| Base Fee | %s |\n", Bps(in.BaseFeeBps)))
	sb.WriteString(fmt.Sprintf("| Overlay Fee | %s |\n", Bps(in.OverlayFeeBps)))
	sb.WriteString(fmt.Sprintf("| Licensing Fee | %s |\n", Bps(in.LicensingFeeBps)))
	sb.WriteString(fmt.Sprintf("| Retention Lift | %s |\n", Percent(in.RetentionLiftPct, 1)))
	sb.WriteString(fmt.Sprintf("| Organic Growth | %s |\n", Percent(in.OrganicGrowthPct, 1)))
	sb.WriteString(fmt.Sprintf("| TLH Uplift | %s |\n", Bps(in.TLHUpliftBps)))
	sb.WriteString(fmt.Sprintf("| %s Net Fee | %s |\n", StrategyLabel, Bps(s.StrategyNetFeeBps)))
	sb.WriteString(fmt.Sprintf("| %s Net Fee | %s |\n", s.Benchmark.Label(), Bps(s.BenchmarkNetFeeBps)))
	sb.WriteString("\n")

	// Executive summary
	sb.WriteString("## Executive Summary\n\n")
	for _, l := range ExecutiveSummary(res) {
		sb.WriteString(fmt.Sprintf("- **%s:** %s\n", l.Label, l.Value))
	}
	sb.WriteString("\n")

	// Yearly projection
	sb.WriteString("## Yearly Projection\n\n")
	sb.WriteString("| Year | Strategy AUM | Benchmark AUM | Strategy Index | Benchmark Index | Strategy Revenue | Benchmark Revenue | Cumulative Strategy | Cumulative Benchmark |\n")
	sb.WriteString("|------|--------------|---------------|----------------|-----------------|------------------|-------------------|---------------------|----------------------|\n")
	for _, y := range res.Years {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %.2f | %.2f | %s | %s | %s | %s |\n",
			y.Year,
			Money(y.StrategyAUM),
			Money(y.BenchmarkAUM),
			y.StrategyClientValue,
			y.BenchmarkClientValue,
			Money(y.StrategyRevenue),
			Money(y.BenchmarkRevenue),
			Money(y.CumulativeStrategyRevenue),
			Money(y.CumulativeBenchmarkRevenue),
		))
	}

	return sb.String()
}
