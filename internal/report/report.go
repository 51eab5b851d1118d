// Package report assembles the prediction, benchmark comparison and
// suggestion shown to the user.
package report

import (
	"fmt"
	"math"

	"github.com/haskel/calburn/internal/benchmark"
	"github.com/haskel/calburn/internal/features"
)

// Estimator predicts kilocalories for a record.
type Estimator interface {
	Predict(rec features.FeatureRecord) (float64, error)
}

// Input echoes the submitted record.
type Input struct {
	Gender       string  `json:"gender"`
	Age          int     `json:"age"`
	HeightCM     float64 `json:"height_cm"`
	WeightKG     float64 `json:"weight_kg"`
	DurationMin  int     `json:"duration_min"`
	HeartRateBPM int     `json:"heart_rate_bpm"`
	BodyTempC    float64 `json:"body_temp_c"`
}

// Assessment is everything the presentation layer renders for one record.
type Assessment struct {
	Input         Input                `json:"input"`
	BMI           float64              `json:"bmi"`
	Category      benchmark.Category   `json:"category"`
	PredictedKcal float64              `json:"predicted_kcal"`
	Comparison    benchmark.Comparison `json:"comparison"`
	Message       string               `json:"message"`
	Suggestion    string               `json:"suggestion"`
}

// Assess predicts the burn for rec and compares it with the athlete
// benchmark of the record's BMI category.
func Assess(est Estimator, rec features.FeatureRecord) (*Assessment, error) {
	kcal, err := est.Predict(rec)
	if err != nil {
		return nil, err
	}
	return Build(rec.BMI(), kcal, InputOf(rec)), nil
}

// Build assembles an assessment from an already computed prediction.
// The category comes from the unrounded bmi.
func Build(bmi, kcal float64, in Input) *Assessment {
	a := ForCategory(benchmark.Classify(bmi), kcal)
	a.Input = in
	a.BMI = round2(bmi)
	return a
}

// ForCategory assembles an assessment when only the category is known,
// as for a chart requested by a result page.
func ForCategory(category benchmark.Category, kcal float64) *Assessment {
	cmp := benchmark.Compare(category, kcal)
	return &Assessment{
		Category:      category,
		PredictedKcal: kcal,
		Comparison:    cmp,
		Message:       cmp.Message(),
		Suggestion:    benchmark.Suggest(category, kcal),
	}
}

// InputOf copies the record's values for display.
func InputOf(rec features.FeatureRecord) Input {
	return Input{
		Gender:       rec.Gender().String(),
		Age:          rec.Age(),
		HeightCM:     rec.HeightCM(),
		WeightKG:     rec.WeightKG(),
		DurationMin:  rec.DurationMin(),
		HeartRateBPM: rec.HeartRateBPM(),
		BodyTempC:    rec.BodyTempC(),
	}
}

// Lines renders the assessment as plain text, one statement per line.
func (a *Assessment) Lines() []string {
	return []string{
		fmt.Sprintf("Estimated Calories Burned: %.2f kcal", a.PredictedKcal),
		fmt.Sprintf("Your BMI: %.2f (%s)", a.BMI, a.Category),
		a.Message,
		fmt.Sprintf("Suggestion: %s", a.Suggestion),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
