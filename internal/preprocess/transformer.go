// Package preprocess implements the fitted column transformer that turns
// feature rows into model input vectors.
//
// Numeric columns are median-imputed and standardized. Categorical columns
// are imputed with the most frequent value, one-hot encoded and scaled
// without centering. Outputs are concatenated numeric block first.
package preprocess

import (
	"fmt"

	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/stage"
)

const (
	numPipelineName = "num_pipeline"
	catPipelineName = "cat_pipeline"
)

// NumericPipeline is imputer -> scaler.
type NumericPipeline struct {
	Imputer *MedianImputer  `json:"imputer"`
	Scaler  *StandardScaler `json:"scaler"`
}

func newNumericPipeline() *NumericPipeline {
	return &NumericPipeline{
		Imputer: &MedianImputer{},
		Scaler:  NewStandardScaler(true, true),
	}
}

func (p *NumericPipeline) fitTransform(X [][]float64) ([][]float64, error) {
	if err := p.Imputer.Fit(X); err != nil {
		return nil, stage.Wrap(numPipelineName+".imputer", err)
	}
	imputed, err := p.Imputer.Transform(X)
	if err != nil {
		return nil, stage.Wrap(numPipelineName+".imputer", err)
	}
	if err := p.Scaler.Fit(imputed); err != nil {
		return nil, stage.Wrap(numPipelineName+".scaler", err)
	}
	out, err := p.Scaler.Transform(imputed)
	return out, stage.Wrap(numPipelineName+".scaler", err)
}

func (p *NumericPipeline) transform(X [][]float64) ([][]float64, error) {
	imputed, err := p.Imputer.Transform(X)
	if err != nil {
		return nil, stage.Wrap(numPipelineName+".imputer", err)
	}
	out, err := p.Scaler.Transform(imputed)
	return out, stage.Wrap(numPipelineName+".scaler", err)
}

// CategoricalPipeline is imputer -> one-hot encoder -> scaler (no centering).
type CategoricalPipeline struct {
	Imputer *MostFrequentImputer `json:"imputer"`
	Encoder *OneHotEncoder       `json:"one_hot_encoder"`
	Scaler  *StandardScaler      `json:"scaler"`
}

func newCategoricalPipeline() *CategoricalPipeline {
	return &CategoricalPipeline{
		Imputer: &MostFrequentImputer{},
		Encoder: &OneHotEncoder{},
		Scaler:  NewStandardScaler(false, true),
	}
}

func (p *CategoricalPipeline) fitTransform(X [][]string) ([][]float64, error) {
	if err := p.Imputer.Fit(X); err != nil {
		return nil, stage.Wrap(catPipelineName+".imputer", err)
	}
	imputed, err := p.Imputer.Transform(X)
	if err != nil {
		return nil, stage.Wrap(catPipelineName+".imputer", err)
	}
	if err := p.Encoder.Fit(imputed); err != nil {
		return nil, stage.Wrap(catPipelineName+".one_hot_encoder", err)
	}
	encoded, err := p.Encoder.Transform(imputed)
	if err != nil {
		return nil, stage.Wrap(catPipelineName+".one_hot_encoder", err)
	}
	if err := p.Scaler.Fit(encoded); err != nil {
		return nil, stage.Wrap(catPipelineName+".scaler", err)
	}
	out, err := p.Scaler.Transform(encoded)
	return out, stage.Wrap(catPipelineName+".scaler", err)
}

func (p *CategoricalPipeline) transform(X [][]string) ([][]float64, error) {
	imputed, err := p.Imputer.Transform(X)
	if err != nil {
		return nil, stage.Wrap(catPipelineName+".imputer", err)
	}
	encoded, err := p.Encoder.Transform(imputed)
	if err != nil {
		return nil, stage.Wrap(catPipelineName+".one_hot_encoder", err)
	}
	out, err := p.Scaler.Transform(encoded)
	return out, stage.Wrap(catPipelineName+".scaler", err)
}

// ColumnTransformer routes schema columns through the numeric and
// categorical pipelines and concatenates the results.
type ColumnTransformer struct {
	schema features.Schema
	num    *NumericPipeline
	cat    *CategoricalPipeline
	fitted bool
}

// NewColumnTransformer creates an unfitted transformer for a schema.
func NewColumnTransformer(schema features.Schema) (*ColumnTransformer, error) {
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	ct := &ColumnTransformer{schema: schema}
	if len(schema.Numeric) > 0 {
		ct.num = newNumericPipeline()
	}
	if len(schema.Categorical) > 0 {
		ct.cat = newCategoricalPipeline()
	}
	return ct, nil
}

// Schema returns the input schema.
func (ct *ColumnTransformer) Schema() features.Schema {
	return ct.schema
}

// Fitted reports whether FitTransform has completed.
func (ct *ColumnTransformer) Fitted() bool {
	return ct.fitted
}

// FitTransform learns every step's parameters from rows and returns the
// transformed matrix.
func (ct *ColumnTransformer) FitTransform(rows []features.Row) ([][]float64, error) {
	if len(rows) == 0 {
		return nil, stage.Wrap("fit", fmt.Errorf("no rows to fit"))
	}
	numX, catX, err := ct.split(rows)
	if err != nil {
		return nil, stage.Wrap("fit", err)
	}

	var numOut, catOut [][]float64
	if ct.num != nil {
		if numOut, err = ct.num.fitTransform(numX); err != nil {
			return nil, stage.Wrap("fit", err)
		}
	}
	if ct.cat != nil {
		if catOut, err = ct.cat.fitTransform(catX); err != nil {
			return nil, stage.Wrap("fit", err)
		}
	}

	ct.fitted = true
	return concat(len(rows), numOut, catOut), nil
}

// Transform applies parameters learned by FitTransform.
func (ct *ColumnTransformer) Transform(rows []features.Row) ([][]float64, error) {
	if !ct.fitted {
		return nil, stage.Wrap("transform", ErrNotFitted)
	}
	numX, catX, err := ct.split(rows)
	if err != nil {
		return nil, stage.Wrap("transform", err)
	}

	var numOut, catOut [][]float64
	if ct.num != nil {
		if numOut, err = ct.num.transform(numX); err != nil {
			return nil, stage.Wrap("transform", err)
		}
	}
	if ct.cat != nil {
		if catOut, err = ct.cat.transform(catX); err != nil {
			return nil, stage.Wrap("transform", err)
		}
	}
	return concat(len(rows), numOut, catOut), nil
}

// TransformRow transforms a single row.
func (ct *ColumnTransformer) TransformRow(row features.Row) ([]float64, error) {
	out, err := ct.Transform([]features.Row{row})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// OutputWidth returns the length of transformed vectors. Zero before fit.
func (ct *ColumnTransformer) OutputWidth() int {
	if !ct.fitted {
		return 0
	}
	return len(ct.FeatureNames())
}

// FeatureNames returns output column names, e.g. num_pipeline__Age or
// cat_pipeline__Gender_female.
func (ct *ColumnTransformer) FeatureNames() []string {
	if !ct.fitted {
		return nil
	}
	var names []string
	for _, c := range ct.schema.Numeric {
		names = append(names, fmt.Sprintf("%s__%s", numPipelineName, c))
	}
	if ct.cat != nil {
		for j, c := range ct.schema.Categorical {
			for _, v := range ct.cat.Encoder.Categories[j] {
				names = append(names, fmt.Sprintf("%s__%s_%s", catPipelineName, c, v))
			}
		}
	}
	return names
}

func (ct *ColumnTransformer) split(rows []features.Row) ([][]float64, [][]string, error) {
	numX := make([][]float64, len(rows))
	catX := make([][]string, len(rows))
	for i, row := range rows {
		num := make([]float64, len(ct.schema.Numeric))
		for j, c := range ct.schema.Numeric {
			v, err := row.Numeric(c)
			if err != nil {
				return nil, nil, err
			}
			num[j] = v
		}
		cat := make([]string, len(ct.schema.Categorical))
		for j, c := range ct.schema.Categorical {
			v, err := row.Categorical(c)
			if err != nil {
				return nil, nil, err
			}
			cat[j] = v
		}
		numX[i] = num
		catX[i] = cat
	}
	return numX, catX, nil
}

func concat(n int, blocks ...[][]float64) [][]float64 {
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		var row []float64
		for _, b := range blocks {
			if b != nil {
				row = append(row, b[i]...)
			}
		}
		out[i] = row
	}
	return out
}
