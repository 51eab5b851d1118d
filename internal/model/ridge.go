package model

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RidgeModel is L2-regularized least squares. The intercept is not penalized.
type RidgeModel struct {
	linearPredictor
	alpha float64
}

// NewRidgeModel creates an unfitted ridge model. Non-positive alpha defaults to 1.
func NewRidgeModel(alpha float64) *RidgeModel {
	if alpha <= 0 {
		alpha = 1.0
	}
	return &RidgeModel{alpha: alpha}
}

// Name returns the model name.
func (m *RidgeModel) Name() string {
	return string(ModelTypeRidge)
}

// Alpha returns the regularization strength.
func (m *RidgeModel) Alpha() float64 {
	return m.alpha
}

// Fit solves (XcᵀXc + αI)β = Xcᵀyc by Cholesky decomposition.
func (m *RidgeModel) Fit(X [][]float64, y []float64) error {
	c, err := center(X, y)
	if err != nil {
		return err
	}

	gram := mat.NewSymDense(c.cols, nil)
	gram.SymOuterK(1, c.x.T())
	for j := 0; j < c.cols; j++ {
		gram.SetSym(j, j, gram.At(j, j)+m.alpha)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return fmt.Errorf("normal equations are not positive definite")
	}

	rhs := mat.NewVecDense(c.cols, nil)
	rhs.MulVec(c.x.T(), c.y.ColView(0))

	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, rhs); err != nil {
		return fmt.Errorf("solve normal equations: %w", err)
	}

	weights := make([]float64, c.cols)
	for j := range weights {
		weights[j] = beta.AtVec(j)
	}
	m.set(weights, c.yMean-floats.Dot(weights, c.xMean))
	return nil
}

// Save serializes the model state to a writer.
func (m *RidgeModel) Save(w io.Writer) error {
	return save(w, ModelTypeRidge, m.alpha, &m.linearPredictor)
}

// Load deserializes the model state from a reader.
func (m *RidgeModel) Load(r io.Reader) error {
	state, err := decodeState(r, ModelTypeRidge)
	if err != nil {
		return err
	}
	if err := state.restore(&m.linearPredictor); err != nil {
		return err
	}
	if state.Alpha > 0 {
		m.alpha = state.Alpha
	}
	return nil
}
