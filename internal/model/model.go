// Package model provides the regression models that map a transformed
// feature vector to a calorie estimate.
package model

import (
	"errors"
	"io"
)

// ModelType represents the type of regression model.
type ModelType string

const (
	ModelTypeLinear ModelType = "linear"
	ModelTypeRidge  ModelType = "ridge"
)

// IsValid checks if the model type is valid.
func (m ModelType) IsValid() bool {
	switch m {
	case ModelTypeLinear, ModelTypeRidge:
		return true
	}
	return false
}

// String returns string representation.
func (m ModelType) String() string {
	return string(m)
}

var (
	// ErrNotFitted is returned by Predict and Save before Fit or Load.
	ErrNotFitted = errors.New("model is not fitted")
	// ErrWidthMismatch is returned when a vector has the wrong number of features.
	ErrWidthMismatch = errors.New("feature width mismatch")
)

// Regressor defines the interface for calorie regression models.
type Regressor interface {
	// Name returns the model name.
	Name() string

	// Fit learns parameters from a design matrix and its targets.
	Fit(X [][]float64, y []float64) error

	// Predict returns the estimate for one transformed vector.
	Predict(x []float64) (float64, error)

	// InputWidth is the number of features the model expects. Zero before fit.
	InputWidth() int

	// Fitted reports whether the model can predict.
	Fitted() bool

	// SetFeatureNames attaches column names for reporting.
	SetFeatureNames(names []string) error
	FeatureNames() []string

	// Coefficients returns the fitted parameters.
	Coefficients() Coefficients

	// Persistence
	Save(w io.Writer) error
	Load(r io.Reader) error
}

// Coefficients holds the parameters of a linear predictor:
// estimate = Intercept + sum(Weights[i] * x[i]).
type Coefficients struct {
	Intercept float64   `json:"intercept"`
	Weights   []float64 `json:"weights"`
	Names     []string  `json:"names,omitempty"`
}
