package report

import (
	"fmt"
	"strings"

	"CrestCast/internal/model"
)

// RenderCSV renders the yearly projection as CSV.
func RenderCSV(res *model.ProjectionResult) string {
	var sb strings.Builder

	// Header
	sb.WriteString("year,strategy_aum,benchmark_aum,strategy_client_value,benchmark_client_value,")
	sb.WriteString("strategy_revenue,benchmark_revenue,cumulative_strategy_revenue,cumulative_benchmark_revenue\n")

	// Rows
	for _, y := range res.Years {
		sb.WriteString(fmt.Sprintf("%d,%.2f,%.2f,%.4f,%.4f,%.2f,%.2f,%.2f,%.2f\n",
			y.Year,
			y.StrategyAUM,
			y.BenchmarkAUM,
			y.StrategyClientValue,
			y.BenchmarkClientValue,
			y.StrategyRevenue,
			y.BenchmarkRevenue,
			y.CumulativeStrategyRevenue,
			y.CumulativeBenchmarkRevenue,
		))
	}

	return sb.String()
}
