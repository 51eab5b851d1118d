// Package predictor turns a validated feature record into a calorie estimate
// using a fitted preprocessor and model.
package predictor

import (
	"errors"
	"fmt"

	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/model"
	"github.com/haskel/calburn/internal/preprocess"
	"github.com/haskel/calburn/internal/stage"
)

// ErrSchemaMismatch means the preprocessor output does not fit the model input.
var ErrSchemaMismatch = errors.New("preprocessor output does not match model input")

// Predictor is read-only after construction and safe for concurrent use.
type Predictor struct {
	pre   *preprocess.ColumnTransformer
	model model.Regressor
}

// New pairs a fitted preprocessor with a fitted model.
func New(pre *preprocess.ColumnTransformer, m model.Regressor) (*Predictor, error) {
	if pre == nil || !pre.Fitted() {
		return nil, fmt.Errorf("preprocessor is not loaded")
	}
	if m == nil || !m.Fitted() {
		return nil, fmt.Errorf("model is not loaded")
	}
	if pre.OutputWidth() != m.InputWidth() {
		return nil, fmt.Errorf("%w: preprocessor emits %d features, %s model expects %d",
			ErrSchemaMismatch, pre.OutputWidth(), m.Name(), m.InputWidth())
	}
	return &Predictor{pre: pre, model: m}, nil
}

// Predict returns the estimated kilocalories for one record.
func (p *Predictor) Predict(rec features.FeatureRecord) (float64, error) {
	// The transformer reads only the columns its schema was fitted with,
	// so BMI is ignored unless the artifacts expect it.
	x, err := p.pre.TransformRow(rec.Row())
	if err != nil {
		return 0, stage.Wrap("preprocess", err)
	}
	y, err := p.model.Predict(x)
	if err != nil {
		return 0, stage.Wrap("predict", err)
	}
	return y, nil
}

// Schema returns the input contract of the loaded artifacts.
func (p *Predictor) Schema() features.Schema {
	return p.pre.Schema()
}

// IncludesBMI reports whether the artifacts were fitted with a BMI input.
func (p *Predictor) IncludesBMI() bool {
	return p.pre.Schema().IncludesBMI()
}

// ModelName returns the loaded model's type.
func (p *Predictor) ModelName() string {
	return p.model.Name()
}

// FeatureNames returns the transformed column names.
func (p *Predictor) FeatureNames() []string {
	return p.pre.FeatureNames()
}

// Coefficients returns the fitted model parameters.
func (p *Predictor) Coefficients() model.Coefficients {
	return p.model.Coefficients()
}
