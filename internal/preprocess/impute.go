package preprocess

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNotFitted is returned when a step is used before Fit.
var ErrNotFitted = errors.New("not fitted")

// MedianImputer replaces NaN with the per-column median learned at fit time.
type MedianImputer struct {
	Medians []float64 `json:"medians"`
}

// Fit learns the median of the observed values of every column.
func (m *MedianImputer) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("no rows to fit")
	}
	cols := len(X[0])
	medians := make([]float64, cols)
	for j := 0; j < cols; j++ {
		observed := make([]float64, 0, len(X))
		for i := range X {
			if v := X[i][j]; !math.IsNaN(v) {
				observed = append(observed, v)
			}
		}
		if len(observed) == 0 {
			return fmt.Errorf("column %d has no observed values", j)
		}
		medians[j] = median(observed)
	}
	m.Medians = medians
	return nil
}

// Transform returns a copy of X with missing values filled.
func (m *MedianImputer) Transform(X [][]float64) ([][]float64, error) {
	if m.Medians == nil {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.Medians) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), len(m.Medians))
		}
		filled := make([]float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				v = m.Medians[j]
			}
			filled[j] = v
		}
		out[i] = filled
	}
	return out, nil
}

// median sorts x in place. Even-length input averages the two middle values.
func median(x []float64) float64 {
	sort.Float64s(x)
	n := len(x)
	if n%2 == 1 {
		return x[n/2]
	}
	return (x[n/2-1] + x[n/2]) / 2
}

// MostFrequentImputer replaces empty categorical values with the mode learned at fit time.
type MostFrequentImputer struct {
	Values []string `json:"values"`
}

// Fit learns the most frequent non-empty value per column.
// Ties resolve to the lexicographically smallest value.
func (m *MostFrequentImputer) Fit(X [][]string) error {
	if len(X) == 0 {
		return fmt.Errorf("no rows to fit")
	}
	cols := len(X[0])
	values := make([]string, cols)
	for j := 0; j < cols; j++ {
		counts := make(map[string]int)
		for i := range X {
			if v := X[i][j]; v != "" {
				counts[v]++
			}
		}
		if len(counts) == 0 {
			return fmt.Errorf("column %d has no observed values", j)
		}
		var best string
		bestCount := 0
		for v, c := range counts {
			if c > bestCount || (c == bestCount && v < best) {
				best, bestCount = v, c
			}
		}
		values[j] = best
	}
	m.Values = values
	return nil
}

// Transform returns a copy of X with empty values filled.
func (m *MostFrequentImputer) Transform(X [][]string) ([][]string, error) {
	if m.Values == nil {
		return nil, ErrNotFitted
	}
	out := make([][]string, len(X))
	for i, row := range X {
		if len(row) != len(m.Values) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), len(m.Values))
		}
		filled := make([]string, len(row))
		for j, v := range row {
			if v == "" {
				v = m.Values[j]
			}
			filled[j] = v
		}
		out[i] = filled
	}
	return out, nil
}
