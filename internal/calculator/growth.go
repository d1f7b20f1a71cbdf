package calculator

import "errors"

// CompoundSeries returns start multiplied by the running product of (1 + r + adj)
// over returns. Element i is the value at the end of year i+1.
func CompoundSeries(start float64, returns []float64, adj float64) []float64 {
	out := make([]float64, len(returns))
	value := start
	for i, r := range returns {
		value *= 1 + r + adj
		out[i] = value
	}
	return out
}

// CompoundPaths applies CompoundSeries to every path.
func CompoundPaths(start float64, paths [][]float64, adj float64) [][]float64 {
	out := make([][]float64, len(paths))
	for i, p := range paths {
		out[i] = CompoundSeries(start, p, adj)
	}
	return out
}

// ScaleSeries multiplies every element by factor.
func ScaleSeries(values []float64, factor float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * factor
	}
	return out
}

// CumulativeSum returns the running total of values.
func CumulativeSum(values []float64) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		out[i] = sum
	}
	return out
}

// DiffSum returns the sum of a[i]-b[i]. Both slices must have equal length.
func DiffSum(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.New("series length mismatch")
	}
	sum := 0.0
	for i := range a {
		sum += a[i] - b[i]
	}
	return sum, nil
}
