// Package training fits the preprocessor and regression model offline and
// writes them as artifacts.
package training

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/haskel/calburn/internal/dataset"
	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/model"
	"github.com/haskel/calburn/internal/preprocess"
	"github.com/haskel/calburn/internal/stage"
	"github.com/haskel/calburn/internal/storage"
)

// Input selects the training data. Without TestPath the train file is split
// with SplitFraction and Seed.
type Input struct {
	TrainPath     string
	TestPath      string
	SplitFraction float64
	Seed          int64
}

// Result summarizes a finished run.
type Result struct {
	Model            string          `json:"model"`
	InputColumns     []string        `json:"input_columns"`
	FeatureNames     []string        `json:"feature_names"`
	TrainRows        int             `json:"train_rows"`
	TestRows         int             `json:"test_rows"`
	TrainMetrics     model.Metrics   `json:"train_metrics"`
	TestMetrics      model.Metrics   `json:"test_metrics"`
	PreprocessorPath string          `json:"preprocessor_path"`
	ModelPath        string          `json:"model_path"`
	Duration         time.Duration   `json:"duration"`
	Schema           features.Schema `json:"schema"`
}

// Trainer runs the offline fit path.
type Trainer struct {
	schema  features.Schema
	factory *model.Factory
	store   *storage.ArtifactStore
	logger  *slog.Logger
}

// New creates a Trainer.
func New(schema features.Schema, factory *model.Factory, store *storage.ArtifactStore, logger *slog.Logger) *Trainer {
	return &Trainer{
		schema:  schema,
		factory: factory,
		store:   store,
		logger:  logger,
	}
}

// Run reads the data, fits the preprocessor on the train set only, fits and
// evaluates the model, and saves both artifacts. Each failure is tagged with
// the step that produced it.
func (t *Trainer) Run(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()

	train, test, err := t.read(in)
	if err != nil {
		return nil, err
	}
	t.logger.Info("loaded training data", "train_rows", train.Len(), "test_rows", test.Len())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pre, err := preprocess.NewColumnTransformer(t.schema)
	if err != nil {
		return nil, stage.Wrap("build preprocessor", err)
	}
	trainX, err := pre.FitTransform(train.Rows)
	if err != nil {
		return nil, stage.Wrap("fit preprocessor", err)
	}
	testX, err := pre.Transform(test.Rows)
	if err != nil {
		return nil, stage.Wrap("transform test set", err)
	}
	t.logger.Debug("fitted preprocessor", "features", pre.OutputWidth())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := t.factory.Create()
	if err != nil {
		return nil, stage.Wrap("build model", err)
	}
	if err := m.Fit(trainX, train.Targets); err != nil {
		return nil, stage.Wrap("fit model", err)
	}
	if err := m.SetFeatureNames(pre.FeatureNames()); err != nil {
		return nil, stage.Wrap("fit model", err)
	}

	trainMetrics, err := model.Evaluate(m, trainX, train.Targets)
	if err != nil {
		return nil, stage.Wrap("evaluate train set", err)
	}
	testMetrics, err := model.Evaluate(m, testX, test.Targets)
	if err != nil {
		return nil, stage.Wrap("evaluate test set", err)
	}
	t.logger.Info("evaluated model",
		"model", m.Name(),
		"train", trainMetrics.String(),
		"test", testMetrics.String(),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := t.store.SavePreprocessor(pre); err != nil {
		return nil, err
	}
	if err := t.store.SaveModel(m); err != nil {
		return nil, err
	}

	cols := make([]string, 0)
	for _, c := range t.schema.InputColumns() {
		cols = append(cols, string(c))
	}

	return &Result{
		Model:            m.Name(),
		InputColumns:     cols,
		FeatureNames:     pre.FeatureNames(),
		TrainRows:        train.Len(),
		TestRows:         test.Len(),
		TrainMetrics:     trainMetrics,
		TestMetrics:      testMetrics,
		PreprocessorPath: t.store.PreprocessorPath(),
		ModelPath:        t.store.ModelPath(),
		Duration:         time.Since(start),
		Schema:           t.schema,
	}, nil
}

func (t *Trainer) read(in Input) (train, test *dataset.Table, err error) {
	if in.TrainPath == "" {
		return nil, nil, stage.Wrap("read train data", fmt.Errorf("train path is required"))
	}
	train, err = dataset.LoadFile(in.TrainPath)
	if err != nil {
		return nil, nil, stage.Wrap("read train data", err)
	}

	if in.TestPath != "" {
		test, err = dataset.LoadFile(in.TestPath)
		if err != nil {
			return nil, nil, stage.Wrap("read test data", err)
		}
		return train, test, nil
	}

	train, test, err = dataset.Split(train, in.SplitFraction, in.Seed)
	if err != nil {
		return nil, nil, stage.Wrap("split data", err)
	}
	return train, test, nil
}
