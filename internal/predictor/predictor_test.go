package predictor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/model"
	"github.com/haskel/calburn/internal/preprocess"
)

func trainingRecords(t *testing.T) ([]features.Row, []float64) {
	t.Helper()

	var rows []features.Row
	var y []float64
	for i := 0; i < 30; i++ {
		g := features.GenderMale
		if i%3 == 0 {
			g = features.GenderFemale
		}
		rec, err := features.NewFeatureRecord(g, 20+i, 155+float64(i), 50+float64(i%20)*2, 5+i%25, 85+i, 37+float64(i%20)/10)
		require.NoError(t, err)
		rows = append(rows, rec.Row())
		y = append(y, 6*float64(rec.DurationMin())+0.3*float64(rec.HeartRateBPM())-20)
	}
	return rows, y
}

func fit(t *testing.T, schema features.Schema) (*preprocess.ColumnTransformer, model.Regressor) {
	t.Helper()

	rows, y := trainingRecords(t)
	pre, err := preprocess.NewColumnTransformer(schema)
	require.NoError(t, err)
	X, err := pre.FitTransform(rows)
	require.NoError(t, err)

	m := model.NewLinearModel()
	require.NoError(t, m.Fit(X, y))
	return pre, m
}

func TestPredictor_SevenInputs(t *testing.T) {
	pre, m := fit(t, features.BaseSchema)
	p, err := New(pre, m)
	require.NoError(t, err)

	assert.False(t, p.IncludesBMI())
	assert.Equal(t, "linear", p.ModelName())
	assert.Len(t, p.Schema().InputColumns(), 7)

	rec, err := features.NewFeatureRecord(features.GenderMale, 30, 175, 72, 20, 110, 39.0)
	require.NoError(t, err)

	got, err := p.Predict(rec)
	require.NoError(t, err)
	assert.InDelta(t, 6*20+0.3*110-20, got, 1e-6)
}

func TestPredictor_EightInputs(t *testing.T) {
	pre, m := fit(t, features.BaseSchema.WithBMI())
	p, err := New(pre, m)
	require.NoError(t, err)

	assert.True(t, p.IncludesBMI())
	assert.Len(t, p.Schema().InputColumns(), 8)
	assert.Len(t, p.FeatureNames(), 9)
	assert.Len(t, p.Coefficients().Weights, 9)

	rec := features.Defaults()
	x, err := pre.TransformRow(rec.Row())
	require.NoError(t, err)
	want, err := m.Predict(x)
	require.NoError(t, err)

	got, err := p.Predict(rec)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPredictor_SchemaMismatch(t *testing.T) {
	preBMI, _ := fit(t, features.BaseSchema.WithBMI())
	_, m := fit(t, features.BaseSchema)

	_, err := New(preBMI, m)
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "9 features")
}

func TestPredictor_RequiresFittedArtifacts(t *testing.T) {
	pre, m := fit(t, features.BaseSchema)

	_, err := New(nil, m)
	assert.Error(t, err)
	_, err = New(pre, nil)
	assert.Error(t, err)

	unfitted, err := preprocess.NewColumnTransformer(features.BaseSchema)
	require.NoError(t, err)
	_, err = New(unfitted, m)
	assert.Error(t, err)

	_, err = New(pre, model.NewRidgeModel(1))
	assert.Error(t, err)
}

func TestPredictor_Concurrent(t *testing.T) {
	pre, m := fit(t, features.BaseSchema)
	p, err := New(pre, m)
	require.NoError(t, err)

	rec := features.Defaults()
	want, err := p.Predict(rec)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]float64, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = p.Predict(rec)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}
