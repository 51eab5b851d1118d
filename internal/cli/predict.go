package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haskel/calburn/internal/config"
	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/report"
	"github.com/haskel/calburn/internal/server"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict calories burned for one workout",
	Long: `Predict the calories burned for one workout and compare it with the
athlete benchmark for your BMI category.

Inputs are validated against the same bounds as the web form; values out
of range are rejected. Unset flags use the form defaults.`,
	Example: `  calburn predict --gender female --age 31 --height 165 --weight 60 --duration 45 --heart-rate 130 --body-temp 39.5
  calburn predict --duration 60 --chart burn.png
  calburn predict --remote --host 10.0.0.5 --json`,
	RunE: runPredict,
}

var (
	predGender    string
	predAge       int
	predHeight    float64
	predWeight    float64
	predDuration  int
	predHeartRate int
	predBodyTemp  float64
	chartPath     string
	remote        bool
)

func init() {
	d := features.Defaults()
	predictCmd.Flags().StringVar(&predGender, "gender", d.Gender().String(), "gender: male, female")
	predictCmd.Flags().IntVar(&predAge, "age", d.Age(), "age in years")
	predictCmd.Flags().Float64Var(&predHeight, "height", d.HeightCM(), "height in cm")
	predictCmd.Flags().Float64Var(&predWeight, "weight", d.WeightKG(), "weight in kg")
	predictCmd.Flags().IntVar(&predDuration, "duration", d.DurationMin(), "workout duration in minutes")
	predictCmd.Flags().IntVar(&predHeartRate, "heart-rate", d.HeartRateBPM(), "average heart rate in bpm")
	predictCmd.Flags().Float64Var(&predBodyTemp, "body-temp", d.BodyTempC(), "body temperature in °C")
	predictCmd.Flags().StringVar(&chartPath, "chart", "", "write the comparison chart to this .png or .svg file")
	predictCmd.Flags().BoolVar(&remote, "remote", false, "predict through a running server instead of local artifacts")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	gender, err := features.ParseGender(predGender)
	if err != nil {
		return err
	}
	rec, err := features.NewFeatureRecord(gender, predAge, predHeight, predWeight, predDuration, predHeartRate, predBodyTemp)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var resp *server.PredictResponse
	if remote {
		resp, err = NewClient().Predict(rec)
	} else {
		resp, err = predictLocal(cmd.Context(), cfg, rec)
	}
	if err != nil {
		return err
	}

	if chartPath != "" {
		if err := writeChart(chartPath, resp.Assessment, cfg); err != nil {
			return err
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	for _, line := range resp.Lines {
		fmt.Println(line)
	}
	if chartPath != "" {
		fmt.Printf("Chart written to %s\n", chartPath)
	}
	return nil
}

func predictLocal(ctx context.Context, cfg *config.Config, rec features.FeatureRecord) (*server.PredictResponse, error) {
	pred, _, err := loadPredictor(ctx, cfg, newLogger(cfg))
	if err != nil {
		return nil, err
	}

	a, err := report.Assess(pred, rec)
	if err != nil {
		return nil, err
	}
	return &server.PredictResponse{Assessment: a, Model: pred.ModelName(), Lines: a.Lines()}, nil
}

// writeChart picks the image format from the file extension.
func writeChart(path string, a *report.Assessment, cfg *config.Config) error {
	opts := cfg.ChartOptions()
	opts.Format = report.ChartFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if !opts.Format.IsValid() {
		return fmt.Errorf("chart file must end in .png or .svg: %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := report.RenderChart(f, a, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
