// Package dataset reads labelled training data for the calorie model.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/haskel/calburn/internal/features"
)

// Table is a labelled set of feature rows.
type Table struct {
	Rows    []features.Row
	Targets []float64
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// requiredColumns must appear in the header. BMI is optional.
var requiredColumns = []features.Column{
	features.ColGender,
	features.ColAge,
	features.ColHeight,
	features.ColWeight,
	features.ColDuration,
	features.ColHeartRate,
	features.ColBodyTemp,
	features.ColCalories,
}

// ErrEmpty is returned for input without data rows.
var ErrEmpty = errors.New("dataset has no rows")

// LoadFile reads a CSV file from disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses a header-driven CSV. Unknown columns are ignored, empty,
// NA and NaN cells are missing, and BMI is derived when the column is absent.
// Every row must carry a target.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[features.Column]int, len(header))
	for i, name := range header {
		index[features.Column(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, string(c))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	bmiCol, hasBMI := index[features.ColBMI]

	t := &Table{}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		row := features.MissingRow()

		gender, err := parseGender(rec[index[features.ColGender]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row.Gender = gender

		for _, c := range features.BaseSchema.Numeric {
			v, err := parseCell(rec[index[c]])
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, c, err)
			}
			if err := row.Set(c, v); err != nil {
				return nil, err
			}
		}

		if hasBMI {
			v, err := parseCell(rec[bmiCol])
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, features.ColBMI, err)
			}
			row.BMI = v
		}
		if math.IsNaN(row.BMI) {
			row.BMI = features.BMI(row.Weight, row.Height)
		}

		target, err := parseCell(rec[index[features.ColCalories]])
		if err != nil {
			return nil, fmt.Errorf("line %d column %s: %w", line, features.ColCalories, err)
		}
		if math.IsNaN(target) {
			return nil, fmt.Errorf("line %d: missing %s target", line, features.ColCalories)
		}

		t.Rows = append(t.Rows, row)
		t.Targets = append(t.Targets, target)
	}

	if t.Len() == 0 {
		return nil, ErrEmpty
	}
	return t, nil
}

func isMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "nan", "null":
		return true
	}
	return false
}

func parseCell(s string) (float64, error) {
	if isMissing(s) {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func parseGender(s string) (string, error) {
	if isMissing(s) {
		return "", nil
	}
	g, err := features.ParseGender(s)
	if err != nil {
		return "", err
	}
	return string(g), nil
}
