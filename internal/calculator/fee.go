package calculator

// BpsPerUnit converts basis points to a decimal fraction.
const BpsPerUnit = 10000.0

// StrategyNetFeeBps is the client fee retained by the platform on the strategy track.
// The result may be negative when licensing exceeds base plus overlay.
func StrategyNetFeeBps(baseBps, overlayBps, licensingBps float64) float64 {
	return baseBps + overlayBps - licensingBps
}

// BenchmarkNetFeeBps is the platform fee on the benchmark track.
// tlhUpliftBps is 0 when tax-loss harvesting is disabled.
func BenchmarkNetFeeBps(baseBps, tlhUpliftBps float64) float64 {
	return baseBps + tlhUpliftBps
}

// BpsToDecimal converts basis points to a decimal rate.
func BpsToDecimal(bps float64) float64 {
	return bps / BpsPerUnit
}

// PctToDecimal converts a percentage to a decimal rate.
func PctToDecimal(pct float64) float64 {
	return pct / 100
}
