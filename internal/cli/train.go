package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haskel/calburn/internal/model"
	"github.com/haskel/calburn/internal/stage"
	"github.com/haskel/calburn/internal/storage"
	"github.com/haskel/calburn/internal/training"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit the preprocessor and model from CSV data",
	Long: `Fit the column transformer on the training data, fit the regression
model, report R², MAE and RMSE, and write both artifacts.

The CSV needs the columns Gender, Age, Height, Weight, Duration, Heart_Rate,
Body_Temp and Calories. BMI is derived when the column is absent.`,
	Example: `  calburn train --train data/train.csv --test data/test.csv
  calburn train --train data/all.csv --split 0.25 --seed 7
  calburn train --train data/train.csv --include-bmi=false --model ridge --alpha 0.5
  calburn train --train data/train.csv --push`,
	RunE: runTrain,
}

var (
	trainPath     string
	testPath      string
	splitFraction float64
	splitSeed     int64
	includeBMI    bool
	modelType     string
	ridgeAlpha    float64
	artifactsDir  string
	pushArtifacts bool
)

func init() {
	trainCmd.Flags().StringVar(&trainPath, "train", "", "training CSV (required)")
	trainCmd.Flags().StringVar(&testPath, "test", "", "test CSV; when empty the training CSV is split")
	trainCmd.Flags().Float64Var(&splitFraction, "split", 0, "held-out fraction when --test is empty (default from config)")
	trainCmd.Flags().Int64Var(&splitSeed, "seed", 0, "shuffle seed for the split (default from config)")
	trainCmd.Flags().BoolVar(&includeBMI, "include-bmi", true, "add the derived BMI column to the model inputs")
	trainCmd.Flags().StringVar(&modelType, "model", "", "model type: linear, ridge (default from config)")
	trainCmd.Flags().Float64Var(&ridgeAlpha, "alpha", 0, "ridge regularization strength (default from config)")
	trainCmd.Flags().StringVar(&artifactsDir, "out", "", "artifact directory (default from config)")
	trainCmd.Flags().BoolVar(&pushArtifacts, "push", false, "upload the artifacts to the configured S3 bucket")
	_ = trainCmd.MarkFlagRequired("train")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("split") {
		cfg.Training.SplitFraction = splitFraction
	}
	if flags.Changed("seed") {
		cfg.Training.Seed = splitSeed
	}
	if flags.Changed("include-bmi") {
		cfg.Training.IncludeBMI = includeBMI
	}
	if flags.Changed("model") {
		cfg.Training.Model = strings.ToLower(modelType)
	}
	if flags.Changed("alpha") {
		cfg.Training.Alpha = ridgeAlpha
	}
	if flags.Changed("out") {
		cfg.Artifacts.Dir = artifactsDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := storage.NewArtifactStore(cfg.ArtifactPaths(), log)
	trainer := training.New(cfg.Schema(), model.NewFactory(cfg.ModelConfig()), store, log)

	result, err := trainer.Run(ctx, training.Input{
		TrainPath:     trainPath,
		TestPath:      testPath,
		SplitFraction: cfg.Training.SplitFraction,
		Seed:          cfg.Training.Seed,
	})
	if err != nil {
		log.Error("training failed", "stage", stage.Of(err), "error", err)
		return fmt.Errorf("training failed: %w", err)
	}

	if pushArtifacts {
		s3cfg, ok := cfg.S3()
		if !ok {
			return fmt.Errorf("--push requires artifacts.s3.bucket in the config")
		}
		src, err := storage.NewS3Source(ctx, s3cfg, log)
		if err != nil {
			return err
		}
		if err := src.Push(ctx, store); err != nil {
			return fmt.Errorf("push artifacts: %w", err)
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Model:        %s\n", result.Model)
	fmt.Printf("Inputs:       %s\n", strings.Join(result.InputColumns, ", "))
	fmt.Printf("Features:     %d\n", len(result.FeatureNames))
	fmt.Printf("Rows:         %d train / %d test\n", result.TrainRows, result.TestRows)
	fmt.Printf("Train:        %s\n", result.TrainMetrics)
	fmt.Printf("Test:         %s\n", result.TestMetrics)
	fmt.Printf("Preprocessor: %s\n", result.PreprocessorPath)
	fmt.Printf("Model file:   %s\n", result.ModelPath)
	if pushArtifacts {
		fmt.Println("Artifacts pushed to S3")
	}

	return nil
}
