package tui

import (
	"math"

	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/report"
)

// Assessor produces an assessment for a record, either from local
// artifacts or through a running server.
type Assessor interface {
	Assess(rec features.FeatureRecord) (*report.Assessment, error)
}

// Config holds TUI configuration
type Config struct {
	Assessor Assessor
	// Source is shown in the title bar ("local artifacts" or a server URL)
	Source string
}

// field is one numeric input widget.
type field struct {
	label    string
	bounds   features.Bounds
	step     float64
	bigStep  float64
	decimals int
	value    float64
}

func (f *field) set(v float64) {
	p := math.Pow(10, float64(f.decimals))
	f.value = f.bounds.Clamp(math.Round(v*p) / p)
}

const (
	fieldAge = iota
	fieldHeight
	fieldWeight
	fieldDuration
	fieldHeartRate
	fieldBodyTemp
)

// Model represents the TUI state. Cursor 0 is the gender selector, the
// numeric fields follow.
type Model struct {
	config Config

	gender features.Gender
	fields []field
	cursor int
	input  string

	result  *report.Assessment
	err     error
	loading bool

	width  int
	height int
}

// NewModel creates a form filled with the default values.
func NewModel(cfg Config) Model {
	d := features.Defaults()
	return Model{
		config: cfg,
		gender: d.Gender(),
		fields: []field{
			fieldAge:       {label: "Age", bounds: features.AgeBounds, step: 1, bigStep: 10, value: float64(d.Age())},
			fieldHeight:    {label: "Height (cm)", bounds: features.HeightBounds, step: 1, bigStep: 10, decimals: 1, value: d.HeightCM()},
			fieldWeight:    {label: "Weight (kg)", bounds: features.WeightBounds, step: 1, bigStep: 10, decimals: 1, value: d.WeightKG()},
			fieldDuration:  {label: "Duration (min)", bounds: features.DurationBounds, step: 1, bigStep: 10, value: float64(d.DurationMin())},
			fieldHeartRate: {label: "Heart Rate (bpm)", bounds: features.HeartRateBounds, step: 1, bigStep: 10, value: float64(d.HeartRateBPM())},
			fieldBodyTemp:  {label: "Body Temp (°C)", bounds: features.BodyTempBounds, step: 0.1, bigStep: 1, decimals: 1, value: d.BodyTempC()},
		},
	}
}

func (m Model) numFocus() int {
	return len(m.fields) + 1
}

// focusedField returns the numeric field under the cursor, or nil on the
// gender selector.
func (m *Model) focusedField() *field {
	if m.cursor == 0 {
		return nil
	}
	return &m.fields[m.cursor-1]
}

// record builds the feature record the widgets currently describe.
func (m Model) record() (features.FeatureRecord, error) {
	v := func(i int) float64 { return m.fields[i].value }
	return features.ClampedRecord(m.gender,
		int(v(fieldAge)), v(fieldHeight), v(fieldWeight),
		int(v(fieldDuration)), int(v(fieldHeartRate)), v(fieldBodyTemp))
}

// liveBMI is recomputed from the current height and weight on every render.
func (m Model) liveBMI() float64 {
	return features.BMI(m.fields[fieldWeight].value, m.fields[fieldHeight].value)
}
