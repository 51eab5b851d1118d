// Package benchmark classifies BMI and compares a predicted burn against
// athlete reference values.
package benchmark

import (
	"fmt"
	"math"
	"strings"
)

// Category is a BMI class.
type Category string

const (
	Underweight Category = "underweight"
	Normal      Category = "normal"
	Overweight  Category = "overweight"
)

// Categories lists every category in ascending BMI order.
var Categories = []Category{Underweight, Normal, Overweight}

// String returns string representation.
func (c Category) String() string {
	return string(c)
}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := table[c]; !ok {
		return "", fmt.Errorf("invalid category %q (valid: underweight, normal, overweight)", s)
	}
	return c, nil
}

// Classify maps a BMI value to its category.
// bmi < 18.5 is underweight, 18.5 <= bmi < 25 is normal, anything else overweight.
func Classify(bmi float64) Category {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return Normal
	default:
		return Overweight
	}
}

// entry pairs the athlete reference burn with the suggestion threshold.
type entry struct {
	referenceKcal float64
	threshold     float64
	low           string
	high          string
}

var table = map[Category]entry{
	Underweight: {
		referenceKcal: 180.0,
		threshold:     200,
		low:           "Focus on light strength training and calorie surplus with high protein.",
		high:          "Good! Maintain strength training and ensure proper nutrition.",
	},
	Normal: {
		referenceKcal: 250.0,
		threshold:     220,
		low:           "Increase workout intensity: Try HIIT or cardio + strength combo.",
		high:          "You're in great shape! Maintain this workout with core and flexibility.",
	},
	Overweight: {
		referenceKcal: 320.0,
		threshold:     250,
		low:           "Aim for longer cardio sessions (45-60 mins) and track food intake.",
		high:          "Great burn! Add strength training to boost metabolism and reduce fat.",
	},
}

// lookup falls back to the overweight row so every category resolves.
func lookup(c Category) entry {
	if e, ok := table[c]; ok {
		return e
	}
	return table[Overweight]
}

// Reference returns the athlete benchmark burn in kcal.
func Reference(c Category) float64 {
	return lookup(c).referenceKcal
}

// Threshold returns the kcal cut-off separating the two suggestions of a category.
func Threshold(c Category) float64 {
	return lookup(c).threshold
}

// Suggest picks the canned fitness suggestion for a category and predicted burn.
func Suggest(c Category, kcal float64) string {
	e := lookup(c)
	if kcal < e.threshold {
		return e.low
	}
	return e.high
}

// Comparison is a predicted burn set against the category benchmark.
type Comparison struct {
	Category  Category `json:"category"`
	Predicted float64  `json:"predicted_kcal"`
	Reference float64  `json:"reference_kcal"`
	Percent   float64  `json:"percent_diff"`
	Above     bool     `json:"above_benchmark"`
	Threshold float64  `json:"suggestion_threshold_kcal"`
}

// Compare computes (predicted - reference) / reference * 100.
func Compare(c Category, predicted float64) Comparison {
	ref := Reference(c)
	pct := (predicted - ref) / ref * 100
	return Comparison{
		Category:  c,
		Predicted: predicted,
		Reference: ref,
		Percent:   pct,
		Above:     pct > 0,
		Threshold: Threshold(c),
	}
}

// Message renders the comparison sentence shown under the prediction.
func (c Comparison) Message() string {
	if c.Above {
		return fmt.Sprintf("You're burning %.1f%% more calories than the average %s athlete.", c.Percent, c.Category)
	}
	return fmt.Sprintf("You're burning %.1f%% less than the average %s athlete. Keep pushing!", math.Abs(c.Percent), c.Category)
}
