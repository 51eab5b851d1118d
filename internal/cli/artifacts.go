package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/haskel/calburn/internal/config"
	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/predictor"
	"github.com/haskel/calburn/internal/report"
	"github.com/haskel/calburn/internal/storage"
)

// loadPredictor fetches the artifacts from S3 when configured, then loads
// them from disk. Any failure is fatal for the caller: there is no
// fallback model.
func loadPredictor(ctx context.Context, cfg *config.Config, log *slog.Logger) (*predictor.Predictor, *storage.ArtifactStore, error) {
	store := storage.NewArtifactStore(cfg.ArtifactPaths(), log)

	if s3cfg, ok := cfg.S3(); ok {
		src, err := storage.NewS3Source(ctx, s3cfg, log)
		if err != nil {
			return nil, nil, err
		}
		if err := src.Fetch(ctx, store); err != nil {
			return nil, nil, fmt.Errorf("fetch artifacts: %w", err)
		}
	}

	pre, err := store.LoadPreprocessor()
	if err != nil {
		return nil, nil, err
	}
	m, err := store.LoadModel()
	if err != nil {
		return nil, nil, err
	}

	pred, err := predictor.New(pre, m)
	if err != nil {
		return nil, nil, fmt.Errorf("artifacts in %s do not fit together: %w", store.Dir(), err)
	}

	log.Debug("artifacts loaded",
		"model", pred.ModelName(),
		"include_bmi", pred.IncludesBMI(),
		"features", len(pred.FeatureNames()),
	)
	return pred, store, nil
}

// localAssessor runs the interactive form against loaded artifacts.
type localAssessor struct {
	pred *predictor.Predictor
}

func (a localAssessor) Assess(rec features.FeatureRecord) (*report.Assessment, error) {
	return report.Assess(a.pred, rec)
}
