package preprocess

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes columns with the population standard deviation.
// With WithMean false values are only divided by the scale, which keeps
// zero entries of one-hot columns at zero.
type StandardScaler struct {
	WithMean bool      `json:"with_mean"`
	WithStd  bool      `json:"with_std"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
}

// NewStandardScaler creates a scaler.
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{WithMean: withMean, WithStd: withStd}
}

// Fit learns per-column mean and scale. Constant columns get scale 1.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("no rows to fit")
	}
	cols := len(X[0])
	s.Mean = make([]float64, cols)
	s.Scale = make([]float64, cols)

	col := make([]float64, len(X))
	for j := 0; j < cols; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		s.Mean[j] = mean
		s.Scale[j] = 1
		if s.WithStd && std > 0 {
			s.Scale[j] = std
		}
	}
	return nil
}

// Transform applies the learned parameters.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.Scale == nil {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.Scale) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), len(s.Scale))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			if s.WithMean {
				v -= s.Mean[j]
			}
			scaled[j] = v / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}
