package config

import (
	"errors"
	"fmt"

	"github.com/haskel/calburn/internal/model"
	"github.com/haskel/calburn/internal/report"
)

func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Artifacts.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("artifacts: %w", err))
	}

	if err := c.Training.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("training: %w", err))
	}

	if err := c.Chart.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("chart: %w", err))
	}

	if err := c.Auth.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	return errors.Join(errs...)
}

func (s *ServerConfig) Validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", s.Port))
	}
	if s.MaxBodyBytes < 1 {
		errs = append(errs, fmt.Errorf("max_body_bytes must be positive"))
	}
	if s.ShutdownTimeoutSec < 1 {
		errs = append(errs, fmt.Errorf("shutdown_timeout_sec must be at least 1"))
	}
	if s.MonitorIntervalSec < 1 {
		errs = append(errs, fmt.Errorf("monitor_interval_sec must be at least 1"))
	}
	if s.RateLimit.Enabled {
		if s.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, fmt.Errorf("rate_limit.requests_per_second must be positive"))
		}
		if s.RateLimit.Burst < 1 {
			errs = append(errs, fmt.Errorf("rate_limit.burst must be at least 1"))
		}
	}

	return errors.Join(errs...)
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", l.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[l.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text)", l.Format)
	}

	return nil
}

func (a *ArtifactsConfig) Validate() error {
	var errs []error

	if a.Dir == "" {
		errs = append(errs, fmt.Errorf("dir cannot be empty"))
	}
	if a.PreprocessorFile == "" {
		errs = append(errs, fmt.Errorf("preprocessor_file cannot be empty"))
	}
	if a.ModelFile == "" {
		errs = append(errs, fmt.Errorf("model_file cannot be empty"))
	}
	if a.PreprocessorFile != "" && a.PreprocessorFile == a.ModelFile {
		errs = append(errs, fmt.Errorf("preprocessor_file and model_file must differ"))
	}

	return errors.Join(errs...)
}

func (t *TrainingConfig) Validate() error {
	var errs []error

	if !model.ModelType(t.Model).IsValid() {
		errs = append(errs, fmt.Errorf("invalid model: %s (valid: linear, ridge)", t.Model))
	}
	if t.Model == string(model.ModelTypeRidge) && t.Alpha <= 0 {
		errs = append(errs, fmt.Errorf("alpha must be positive for ridge"))
	}
	if t.SplitFraction <= 0 || t.SplitFraction >= 1 {
		errs = append(errs, fmt.Errorf("split_fraction must be between 0 and 1 exclusive, got %v", t.SplitFraction))
	}

	return errors.Join(errs...)
}

func (c *ChartConfig) Validate() error {
	if !report.ChartFormat(c.Format).IsValid() {
		return fmt.Errorf("invalid format: %s (valid: png, svg)", c.Format)
	}
	if c.WidthIn <= 0 || c.HeightIn <= 0 {
		return fmt.Errorf("width_in and height_in must be positive")
	}
	return nil
}

func (a *AuthConfig) Validate() error {
	if a.Enabled {
		if a.User == "" {
			return fmt.Errorf("user cannot be empty when auth is enabled")
		}
		if a.Password == "" {
			return fmt.Errorf("password cannot be empty when auth is enabled")
		}
	}
	return nil
}
