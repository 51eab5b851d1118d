package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// FormatVersion is bumped whenever the serialized layout changes.
const FormatVersion = 1

type modelState struct {
	Version      int       `json:"version"`
	Type         ModelType `json:"type"`
	Alpha        float64   `json:"alpha,omitempty"`
	InputWidth   int       `json:"input_width"`
	FeatureNames []string  `json:"feature_names,omitempty"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func save(w io.Writer, typ ModelType, alpha float64, p *linearPredictor) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.fitted {
		return ErrNotFitted
	}
	state := modelState{
		Version:      FormatVersion,
		Type:         typ,
		Alpha:        alpha,
		InputWidth:   len(p.weights),
		FeatureNames: p.names,
		Coefficients: p.weights,
		Intercept:    p.intercept,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

func decodeState(r io.Reader, want ModelType) (*modelState, error) {
	var state modelState
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if state.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported model version %d", state.Version)
	}
	if want != "" && state.Type != want {
		return nil, fmt.Errorf("artifact holds a %s model, not %s", state.Type, want)
	}
	return &state, nil
}

func (s *modelState) restore(p *linearPredictor) error {
	if s.InputWidth <= 0 || len(s.Coefficients) != s.InputWidth {
		return fmt.Errorf("%w: input_width %d with %d coefficients", ErrWidthMismatch, s.InputWidth, len(s.Coefficients))
	}
	if len(s.FeatureNames) != 0 && len(s.FeatureNames) != s.InputWidth {
		return fmt.Errorf("%w: %d feature names for %d features", ErrWidthMismatch, len(s.FeatureNames), s.InputWidth)
	}
	if math.IsNaN(s.Intercept) || math.IsInf(s.Intercept, 0) {
		return fmt.Errorf("intercept is not finite")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.weights = append([]float64(nil), s.Coefficients...)
	p.intercept = s.Intercept
	p.names = append([]string(nil), s.FeatureNames...)
	p.fitted = true
	return nil
}

// LoadAny reads a saved model of any known type.
func LoadAny(r io.Reader) (Regressor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	state, err := decodeState(bytes.NewReader(data), "")
	if err != nil {
		return nil, err
	}

	var m Regressor
	switch state.Type {
	case ModelTypeLinear:
		m = NewLinearModel()
	case ModelTypeRidge:
		m = NewRidgeModel(state.Alpha)
	default:
		return nil, fmt.Errorf("unknown model type: %s", state.Type)
	}
	if err := m.Load(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return m, nil
}
