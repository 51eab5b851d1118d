package preprocess

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/haskel/calburn/internal/features"
)

// FormatVersion is bumped whenever the serialized layout changes.
const FormatVersion = 1

type transformerState struct {
	Version     int                  `json:"version"`
	Kind        string               `json:"kind"`
	Schema      features.Schema      `json:"schema"`
	Numeric     *NumericPipeline     `json:"num_pipeline,omitempty"`
	Categorical *CategoricalPipeline `json:"cat_pipeline,omitempty"`
}

const transformerKind = "column_transformer"

// Save serializes the fitted transformer to a writer.
func (ct *ColumnTransformer) Save(w io.Writer) error {
	if !ct.fitted {
		return ErrNotFitted
	}
	state := transformerState{
		Version:     FormatVersion,
		Kind:        transformerKind,
		Schema:      ct.schema,
		Numeric:     ct.num,
		Categorical: ct.cat,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

// Load replaces the transformer's state with one read from r.
func (ct *ColumnTransformer) Load(r io.Reader) error {
	var state transformerState
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return fmt.Errorf("decode preprocessor: %w", err)
	}
	if state.Kind != transformerKind {
		return fmt.Errorf("unexpected artifact kind %q", state.Kind)
	}
	if state.Version != FormatVersion {
		return fmt.Errorf("unsupported preprocessor version %d", state.Version)
	}
	if err := state.Schema.Validate(); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	if err := state.check(); err != nil {
		return err
	}

	ct.schema = state.Schema
	ct.num = state.Numeric
	ct.cat = state.Categorical
	ct.fitted = true
	return nil
}

// LoadTransformer reads a fitted transformer from r.
func LoadTransformer(r io.Reader) (*ColumnTransformer, error) {
	ct := &ColumnTransformer{}
	if err := ct.Load(r); err != nil {
		return nil, err
	}
	return ct, nil
}

// check verifies that every fitted parameter matches the schema widths.
func (s *transformerState) check() error {
	nNum, nCat := len(s.Schema.Numeric), len(s.Schema.Categorical)

	if nNum > 0 {
		p := s.Numeric
		if p == nil || p.Imputer == nil || p.Scaler == nil {
			return fmt.Errorf("missing numeric pipeline")
		}
		if len(p.Imputer.Medians) != nNum {
			return fmt.Errorf("numeric imputer has %d columns, schema has %d", len(p.Imputer.Medians), nNum)
		}
		if len(p.Scaler.Scale) != nNum || len(p.Scaler.Mean) != nNum {
			return fmt.Errorf("numeric scaler has %d columns, schema has %d", len(p.Scaler.Scale), nNum)
		}
	}

	if nCat > 0 {
		p := s.Categorical
		if p == nil || p.Imputer == nil || p.Encoder == nil || p.Scaler == nil {
			return fmt.Errorf("missing categorical pipeline")
		}
		if len(p.Imputer.Values) != nCat {
			return fmt.Errorf("categorical imputer has %d columns, schema has %d", len(p.Imputer.Values), nCat)
		}
		if len(p.Encoder.Categories) != nCat {
			return fmt.Errorf("encoder has %d columns, schema has %d", len(p.Encoder.Categories), nCat)
		}
		if len(p.Scaler.Scale) != p.Encoder.Width() {
			return fmt.Errorf("categorical scaler has %d columns, encoder emits %d", len(p.Scaler.Scale), p.Encoder.Width())
		}
	}
	return nil
}
