package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics summarizes prediction quality on a labelled set.
type Metrics struct {
	R2   float64 `json:"r2"`
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	N    int     `json:"n"`
}

// String formats the metrics for logs and CLI output.
func (m Metrics) String() string {
	return fmt.Sprintf("n=%d r2=%.4f mae=%.3f rmse=%.3f", m.N, m.R2, m.MAE, m.RMSE)
}

// Evaluate predicts every row of X and scores the estimates against y.
// A constant target scores R2 1 when predicted exactly and 0 otherwise.
func Evaluate(m Regressor, X [][]float64, y []float64) (Metrics, error) {
	if len(X) == 0 {
		return Metrics{}, fmt.Errorf("no rows to evaluate")
	}
	if len(X) != len(y) {
		return Metrics{}, fmt.Errorf("%d rows but %d targets", len(X), len(y))
	}

	pred := make([]float64, len(X))
	for i, x := range X {
		p, err := m.Predict(x)
		if err != nil {
			return Metrics{}, fmt.Errorf("predict row %d: %w", i, err)
		}
		pred[i] = p
	}

	resid := make([]float64, len(y))
	floats.SubTo(resid, y, pred)

	var absSum, sqSum float64
	for _, r := range resid {
		absSum += math.Abs(r)
		sqSum += r * r
	}
	n := float64(len(y))

	mean := stat.Mean(y, nil)
	var total float64
	for _, v := range y {
		total += (v - mean) * (v - mean)
	}

	r2 := 0.0
	switch {
	case total > 0:
		r2 = 1 - sqSum/total
	case sqSum == 0:
		r2 = 1
	}

	return Metrics{
		R2:   r2,
		MAE:  absSum / n,
		RMSE: math.Sqrt(sqSum / n),
		N:    len(y),
	}, nil
}
