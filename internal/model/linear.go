package model

import (
	"fmt"
	"io"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// rcond is the relative cutoff below which singular values are treated as zero.
const rcond = 1e-10

// linearPredictor holds the state shared by every linear model.
type linearPredictor struct {
	mu        sync.RWMutex
	weights   []float64
	intercept float64
	names     []string
	fitted    bool
}

func (p *linearPredictor) Predict(x []float64) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.fitted {
		return 0, ErrNotFitted
	}
	if len(x) != len(p.weights) {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrWidthMismatch, len(x), len(p.weights))
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("feature %d is not finite", i)
		}
	}
	return p.intercept + floats.Dot(p.weights, x), nil
}

func (p *linearPredictor) InputWidth() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.fitted {
		return 0
	}
	return len(p.weights)
}

func (p *linearPredictor) Fitted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fitted
}

func (p *linearPredictor) SetFeatureNames(names []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.fitted {
		return ErrNotFitted
	}
	if len(names) != len(p.weights) {
		return fmt.Errorf("%w: %d names for %d features", ErrWidthMismatch, len(names), len(p.weights))
	}
	p.names = append([]string(nil), names...)
	return nil
}

func (p *linearPredictor) FeatureNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.names...)
}

func (p *linearPredictor) Coefficients() Coefficients {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Coefficients{
		Intercept: p.intercept,
		Weights:   append([]float64(nil), p.weights...),
		Names:     append([]string(nil), p.names...),
	}
}

func (p *linearPredictor) set(weights []float64, intercept float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.weights = weights
	p.intercept = intercept
	p.names = nil
	p.fitted = true
}

// LinearModel is ordinary least squares with an intercept.
// Rank-deficient designs (e.g. a full one-hot block) get the minimum-norm solution.
type LinearModel struct {
	linearPredictor
}

// NewLinearModel creates an unfitted OLS model.
func NewLinearModel() *LinearModel {
	return &LinearModel{}
}

// Name returns the model name.
func (m *LinearModel) Name() string {
	return string(ModelTypeLinear)
}

// Fit solves the centred least-squares problem through a thin SVD.
func (m *LinearModel) Fit(X [][]float64, y []float64) error {
	c, err := center(X, y)
	if err != nil {
		return err
	}

	var svd mat.SVD
	if ok := svd.Factorize(c.x, mat.SVDThin); !ok {
		return fmt.Errorf("svd factorization failed")
	}
	rank := svd.Rank(rcond)
	if rank == 0 {
		// every feature is constant, predict the mean
		m.set(make([]float64, c.cols), c.yMean)
		return nil
	}

	var beta mat.Dense
	svd.SolveTo(&beta, c.y, rank)

	weights := make([]float64, c.cols)
	for j := range weights {
		weights[j] = beta.At(j, 0)
	}
	m.set(weights, c.yMean-floats.Dot(weights, c.xMean))
	return nil
}

// Save serializes the model state to a writer.
func (m *LinearModel) Save(w io.Writer) error {
	return save(w, ModelTypeLinear, 0, &m.linearPredictor)
}

// Load deserializes the model state from a reader.
func (m *LinearModel) Load(r io.Reader) error {
	state, err := decodeState(r, ModelTypeLinear)
	if err != nil {
		return err
	}
	return state.restore(&m.linearPredictor)
}

// centered is a design matrix and target with column means removed.
type centered struct {
	x     *mat.Dense
	y     *mat.Dense
	xMean []float64
	yMean float64
	rows  int
	cols  int
}

func center(X [][]float64, y []float64) (*centered, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("no training rows")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("%d rows but %d targets", len(X), len(y))
	}
	rows, cols := len(X), len(X[0])
	if cols == 0 {
		return nil, fmt.Errorf("rows have no features")
	}

	xMean := make([]float64, cols)
	for i, row := range X {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d features, expected %d", ErrWidthMismatch, i, len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("row %d feature %d is not finite", i, j)
			}
			xMean[j] += v
		}
	}
	floats.Scale(1/float64(rows), xMean)

	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("target %d is not finite", i)
		}
	}
	yMean := floats.Sum(y) / float64(rows)

	xc := mat.NewDense(rows, cols, nil)
	yc := mat.NewDense(rows, 1, nil)
	for i, row := range X {
		for j, v := range row {
			xc.Set(i, j, v-xMean[j])
		}
		yc.Set(i, 0, y[i]-yMean)
	}

	return &centered{x: xc, y: yc, xMean: xMean, yMean: yMean, rows: rows, cols: cols}, nil
}
