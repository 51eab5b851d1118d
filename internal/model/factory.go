package model

import "fmt"

// Config holds model configuration.
type Config struct {
	Type ModelType

	// Ridge params
	Alpha float64
}

// DefaultConfig returns default model configuration.
func DefaultConfig() Config {
	return Config{
		Type:  ModelTypeLinear,
		Alpha: 1.0,
	}
}

// Factory creates regression models.
type Factory struct {
	config Config
}

// NewFactory creates a new model factory.
func NewFactory(cfg Config) *Factory {
	return &Factory{config: cfg}
}

// Create creates a model based on configuration.
func (f *Factory) Create() (Regressor, error) {
	return f.CreateByType(f.config.Type)
}

// CreateByType creates a model of the specified type.
func (f *Factory) CreateByType(modelType ModelType) (Regressor, error) {
	switch modelType {
	case ModelTypeLinear:
		return NewLinearModel(), nil

	case ModelTypeRidge:
		return NewRidgeModel(f.config.Alpha), nil

	default:
		return nil, fmt.Errorf("unknown model type: %s", modelType)
	}
}
