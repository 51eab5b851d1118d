package preprocess

import (
	"fmt"
	"sort"
)

// OneHotEncoder expands each categorical column into one indicator per
// category seen at fit time. Categories are kept sorted.
type OneHotEncoder struct {
	Categories [][]string `json:"categories"`
}

// Fit collects the sorted set of categories per column.
func (e *OneHotEncoder) Fit(X [][]string) error {
	if len(X) == 0 {
		return fmt.Errorf("no rows to fit")
	}
	cols := len(X[0])
	cats := make([][]string, cols)
	for j := 0; j < cols; j++ {
		seen := make(map[string]struct{})
		for i := range X {
			seen[X[i][j]] = struct{}{}
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		cats[j] = values
	}
	e.Categories = cats
	return nil
}

// Width returns the number of output columns.
func (e *OneHotEncoder) Width() int {
	n := 0
	for _, c := range e.Categories {
		n += len(c)
	}
	return n
}

// Transform encodes X. A category not seen at fit time is an error.
func (e *OneHotEncoder) Transform(X [][]string) ([][]float64, error) {
	if e.Categories == nil {
		return nil, ErrNotFitted
	}
	width := e.Width()
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(e.Categories) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), len(e.Categories))
		}
		vec := make([]float64, width)
		offset := 0
		for j, v := range row {
			idx := sort.SearchStrings(e.Categories[j], v)
			if idx >= len(e.Categories[j]) || e.Categories[j][idx] != v {
				return nil, fmt.Errorf("found unknown category %q in column %d during transform", v, j)
			}
			vec[offset+idx] = 1
			offset += len(e.Categories[j])
		}
		out[i] = vec
	}
	return out, nil
}
