package features

import (
	"fmt"
	"math"
)

// Column names a model input. Names match the training CSV header.
type Column string

const (
	ColGender    Column = "Gender"
	ColAge       Column = "Age"
	ColHeight    Column = "Height"
	ColWeight    Column = "Weight"
	ColDuration  Column = "Duration"
	ColHeartRate Column = "Heart_Rate"
	ColBodyTemp  Column = "Body_Temp"
	ColBMI       Column = "BMI"

	// ColCalories is the training target.
	ColCalories Column = "Calories"
)

// Row is a fixed-schema input row. Missing numeric values are NaN,
// a missing gender is the empty string.
type Row struct {
	Gender    string
	Age       float64
	Height    float64
	Weight    float64
	Duration  float64
	HeartRate float64
	BodyTemp  float64
	BMI       float64
}

// MissingRow returns a row with every value missing.
func MissingRow() Row {
	nan := math.NaN()
	return Row{Age: nan, Height: nan, Weight: nan, Duration: nan, HeartRate: nan, BodyTemp: nan, BMI: nan}
}

// Numeric returns the value of a numeric column.
func (r Row) Numeric(col Column) (float64, error) {
	switch col {
	case ColAge:
		return r.Age, nil
	case ColHeight:
		return r.Height, nil
	case ColWeight:
		return r.Weight, nil
	case ColDuration:
		return r.Duration, nil
	case ColHeartRate:
		return r.HeartRate, nil
	case ColBodyTemp:
		return r.BodyTemp, nil
	case ColBMI:
		return r.BMI, nil
	default:
		return 0, fmt.Errorf("column %s is not numeric", col)
	}
}

// Categorical returns the value of a categorical column.
func (r Row) Categorical(col Column) (string, error) {
	if col == ColGender {
		return r.Gender, nil
	}
	return "", fmt.Errorf("column %s is not categorical", col)
}

// Set assigns a numeric column.
func (r *Row) Set(col Column, v float64) error {
	switch col {
	case ColAge:
		r.Age = v
	case ColHeight:
		r.Height = v
	case ColWeight:
		r.Weight = v
	case ColDuration:
		r.Duration = v
	case ColHeartRate:
		r.HeartRate = v
	case ColBodyTemp:
		r.BodyTemp = v
	case ColBMI:
		r.BMI = v
	default:
		return fmt.Errorf("column %s is not numeric", col)
	}
	return nil
}

// Schema lists the columns routed to the numeric and categorical paths.
type Schema struct {
	Numeric     []Column `json:"numeric"`
	Categorical []Column `json:"categorical"`
}

// BaseSchema is the seven-column input contract used by the offline fit path.
var BaseSchema = Schema{
	Numeric:     []Column{ColAge, ColHeight, ColWeight, ColDuration, ColHeartRate, ColBodyTemp},
	Categorical: []Column{ColGender},
}

// WithBMI returns a copy of the schema with BMI appended to the numeric path.
func (s Schema) WithBMI() Schema {
	if s.IncludesBMI() {
		return s.clone()
	}
	out := s.clone()
	out.Numeric = append(out.Numeric, ColBMI)
	return out
}

// IncludesBMI reports whether BMI is one of the inputs.
func (s Schema) IncludesBMI() bool {
	for _, c := range s.Numeric {
		if c == ColBMI {
			return true
		}
	}
	return false
}

// InputColumns returns the order-sensitive input column list:
// Gender, Age, Height, Weight, Duration, Heart_Rate, Body_Temp[, BMI].
func (s Schema) InputColumns() []Column {
	cols := make([]Column, 0, len(s.Numeric)+len(s.Categorical))
	cols = append(cols, s.Categorical...)
	cols = append(cols, s.Numeric...)
	return cols
}

// Validate checks that every column is known and routed to the right path.
func (s Schema) Validate() error {
	if len(s.Numeric)+len(s.Categorical) == 0 {
		return fmt.Errorf("schema has no columns")
	}
	seen := make(map[Column]bool)
	var probe Row
	for _, c := range s.Numeric {
		if _, err := probe.Numeric(c); err != nil {
			return err
		}
		if seen[c] {
			return fmt.Errorf("duplicate column %s", c)
		}
		seen[c] = true
	}
	for _, c := range s.Categorical {
		if _, err := probe.Categorical(c); err != nil {
			return err
		}
		if seen[c] {
			return fmt.Errorf("duplicate column %s", c)
		}
		seen[c] = true
	}
	return nil
}

// Equal compares column lists in order.
func (s Schema) Equal(o Schema) bool {
	return equalColumns(s.Numeric, o.Numeric) && equalColumns(s.Categorical, o.Categorical)
}

func (s Schema) clone() Schema {
	return Schema{
		Numeric:     append([]Column(nil), s.Numeric...),
		Categorical: append([]Column(nil), s.Categorical...),
	}
}

func equalColumns(a, b []Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
