package calculator

import (
	"errors"
	"sort"
)

// Median returns the middle value of values. For an even count it returns the
// mean of the two middle values. The input is not modified.
func Median(values []float64) (float64, error) {
	n := len(values)
	if n == 0 {
		return 0, errors.New("median of empty set")
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

// MedianByColumn returns the per-column median of a rectangular matrix.
// Rows are trials, columns are years.
func MedianByColumn(rows [][]float64) ([]float64, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows to aggregate")
	}
	cols := len(rows[0])
	for _, r := range rows {
		if len(r) != cols {
			return nil, errors.New("ragged matrix")
		}
	}

	out := make([]float64, cols)
	column := make([]float64, len(rows))
	for c := 0; c < cols; c++ {
		for r := range rows {
			column[r] = rows[r][c]
		}
		m, err := Median(column)
		if err != nil {
			return nil, err
		}
		out[c] = m
	}
	return out, nil
}
