// Package report renders projection results as Markdown, CSV and Telegram HTML.
package report

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"CrestCast/internal/model"
)

// StrategyLabel is the display name of the strategy track.
const StrategyLabel = "CrestCast"

const notAvailable = "N/A"

var hundred = decimal.NewFromInt(100)

// Money formats v as whole dollars with thousands separators.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	d := decimal.NewFromFloat(v).Round(0)
	s := "$" + humanize.BigComma(d.Abs().BigInt())
	if d.IsNegative() {
		return "-" + s
	}
	return s
}

// Percent formats a value already expressed in percent.
func Percent(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	return decimal.NewFromFloat(v).StringFixed(places) + "%"
}

// Rate formats a decimal rate (0.1285) as a percentage (12.85%).
func Rate(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	return decimal.NewFromFloat(v).Mul(hundred).StringFixed(2) + "%"
}

// Bps formats basis points with one decimal.
func Bps(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + " bps"
}

// Line is one labelled figure of the executive summary.
type Line struct {
	Label string
	Value string
}

// ExecutiveSummary lists the headline figures of res. A negative strategy
// fee adds a trailing warning line.
func ExecutiveSummary(res *model.ProjectionResult) []Line {
	s := res.Summary
	years := len(res.Years)

	uplift := notAvailable
	if s.UpliftDefined() {
		uplift = Percent(s.TerminalUpliftPct, 1)
	}

	lines := []Line{
		{Label: "Net Revenue Advantage over " + humanize.Comma(int64(years)) + " years", Value: Money(s.TotalLift)},
		{Label: "Year " + humanize.Comma(int64(years)) + " Revenue Uplift", Value: uplift},
		{Label: StrategyLabel + " Expected Return", Value: assumptionText(s.StrategyAssumption)},
		{Label: s.Benchmark.Label() + " Expected Return", Value: assumptionText(s.BenchmarkAssumption)},
		{Label: "Net Margin Uplift", Value: Bps(s.MarginUpliftBps) + " on allocated AUM"},
	}
	if s.NegativeStrategyFee {
		lines = append(lines, Line{
			Label: "Warning",
			Value: "licensing fee exceeds base and overlay fees, strategy net fee is " + Bps(s.StrategyNetFeeBps),
		})
	}
	return lines
}

func assumptionText(a model.ReturnAssumption) string {
	return Rate(a.Mean) + " (Vol: " + Rate(a.StdDev) + ")"
}

func modeText(s model.Summary) string {
	if s.Mode == model.ModeMonteCarlo {
		return "Monte Carlo, " + humanize.Comma(int64(s.Trials)) + " trials"
	}
	return "Deterministic"
}
