package features

import (
	"fmt"
	"math"
	"strings"
)

// Gender is the categorical input of a feature record.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// IsValid checks if the gender is one of the known values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	}
	return false
}

// String returns string representation.
func (g Gender) String() string {
	return string(g)
}

// Label returns the form label ("Male" / "Female").
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return string(g)
	}
}

// ParseGender accepts male/female/m/f in any case.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("invalid gender %q (valid: male, female)", s)
	}
}

// Bounds is an inclusive range for a numeric input.
type Bounds struct {
	Min float64
	Max float64
}

func (b Bounds) contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Clamp pulls v into the range.
func (b Bounds) Clamp(v float64) float64 {
	return math.Max(b.Min, math.Min(b.Max, v))
}

// Input bounds, identical to the form widget limits.
var (
	AgeBounds       = Bounds{Min: 1, Max: 100}
	HeightBounds    = Bounds{Min: 50, Max: 250}
	WeightBounds    = Bounds{Min: 10, Max: 200}
	DurationBounds  = Bounds{Min: 1, Max: 300}
	HeartRateBounds = Bounds{Min: 50, Max: 200}
	BodyTempBounds  = Bounds{Min: 30, Max: 45}
)

// RangeError reports an input outside its allowed bounds.
type RangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g, got %g", e.Field, e.Min, e.Max, e.Value)
}

// FeatureRecord holds the seven raw biometric inputs of one prediction.
// Values are fixed at construction.
type FeatureRecord struct {
	gender       Gender
	age          int
	heightCM     float64
	weightKG     float64
	durationMin  int
	heartRateBPM int
	bodyTempC    float64
}

// NewFeatureRecord validates every input against its bounds.
func NewFeatureRecord(gender Gender, age int, heightCM, weightKG float64, durationMin, heartRateBPM int, bodyTempC float64) (FeatureRecord, error) {
	if !gender.IsValid() {
		return FeatureRecord{}, fmt.Errorf("invalid gender %q (valid: male, female)", gender)
	}

	checks := []struct {
		field  string
		value  float64
		bounds Bounds
	}{
		{"age", float64(age), AgeBounds},
		{"height_cm", heightCM, HeightBounds},
		{"weight_kg", weightKG, WeightBounds},
		{"duration_min", float64(durationMin), DurationBounds},
		{"heart_rate_bpm", float64(heartRateBPM), HeartRateBounds},
		{"body_temp_c", bodyTempC, BodyTempBounds},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || !c.bounds.contains(c.value) {
			return FeatureRecord{}, &RangeError{Field: c.field, Value: c.value, Min: c.bounds.Min, Max: c.bounds.Max}
		}
	}

	return FeatureRecord{
		gender:       gender,
		age:          age,
		heightCM:     heightCM,
		weightKG:     weightKG,
		durationMin:  durationMin,
		heartRateBPM: heartRateBPM,
		bodyTempC:    bodyTempC,
	}, nil
}

// ClampedRecord builds a record the way the input widgets do: every value is
// pulled into its bounds instead of being rejected.
func ClampedRecord(gender Gender, age int, heightCM, weightKG float64, durationMin, heartRateBPM int, bodyTempC float64) (FeatureRecord, error) {
	return NewFeatureRecord(
		gender,
		int(AgeBounds.Clamp(float64(age))),
		HeightBounds.Clamp(heightCM),
		WeightBounds.Clamp(weightKG),
		int(DurationBounds.Clamp(float64(durationMin))),
		int(HeartRateBounds.Clamp(float64(heartRateBPM))),
		BodyTempBounds.Clamp(bodyTempC),
	)
}

// Defaults returns the initial form values.
func Defaults() FeatureRecord {
	return FeatureRecord{
		gender:       GenderMale,
		age:          25,
		heightCM:     170,
		weightKG:     70,
		durationMin:  30,
		heartRateBPM: 100,
		bodyTempC:    37.0,
	}
}

func (r FeatureRecord) Gender() Gender     { return r.gender }
func (r FeatureRecord) Age() int           { return r.age }
func (r FeatureRecord) HeightCM() float64  { return r.heightCM }
func (r FeatureRecord) WeightKG() float64  { return r.weightKG }
func (r FeatureRecord) DurationMin() int   { return r.durationMin }
func (r FeatureRecord) HeartRateBPM() int  { return r.heartRateBPM }
func (r FeatureRecord) BodyTempC() float64 { return r.bodyTempC }

// BMI returns weight_kg / (height_cm/100)^2.
func (r FeatureRecord) BMI() float64 {
	return BMI(r.weightKG, r.heightCM)
}

// RoundedBMI returns the BMI rounded to two decimals, as displayed.
func (r FeatureRecord) RoundedBMI() float64 {
	return math.Round(r.BMI()*100) / 100
}

// Row converts the record into a complete fixed-schema row, BMI included.
func (r FeatureRecord) Row() Row {
	return Row{
		Gender:    string(r.gender),
		Age:       float64(r.age),
		Height:    r.heightCM,
		Weight:    r.weightKG,
		Duration:  float64(r.durationMin),
		HeartRate: float64(r.heartRateBPM),
		BodyTemp:  r.bodyTempC,
		BMI:       r.BMI(),
	}
}

// BMI computes body mass index from kilograms and centimetres.
// Returns NaN when height is not positive or either input is missing.
func BMI(weightKG, heightCM float64) float64 {
	if math.IsNaN(weightKG) || math.IsNaN(heightCM) || heightCM <= 0 {
		return math.NaN()
	}
	m := heightCM / 100
	return weightKG / (m * m)
}
