package config

import (
	"time"

	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/model"
	"github.com/haskel/calburn/internal/report"
	"github.com/haskel/calburn/internal/storage"
)

type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server"`
	Auth      AuthConfig      `yaml:"auth" json:"auth"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Artifacts ArtifactsConfig `yaml:"artifacts" json:"artifacts"`
	Training  TrainingConfig  `yaml:"training" json:"training"`
	Chart     ChartConfig     `yaml:"chart" json:"chart"`
}

type ServerConfig struct {
	Host               string          `yaml:"host" json:"host"`
	Port               int             `yaml:"port" json:"port"`
	MaxBodyBytes       int64           `yaml:"max_body_bytes" json:"max_body_bytes"`
	ShutdownTimeoutSec int             `yaml:"shutdown_timeout_sec" json:"shutdown_timeout_sec"`
	MonitorIntervalSec int             `yaml:"monitor_interval_sec" json:"monitor_interval_sec"`
	RateLimit          RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig limits requests per client IP. TrustProxy reads the
// client IP from X-Forwarded-For; enable it only behind a proxy that sets
// that header.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" json:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
	TrustProxy        bool    `yaml:"trust_proxy" json:"trust_proxy"`
}

// AuthConfig protects the JSON API and status endpoints with Basic Auth.
// The HTML form stays public.
type AuthConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"-"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type ArtifactsConfig struct {
	Dir              string   `yaml:"dir" json:"dir"`
	PreprocessorFile string   `yaml:"preprocessor_file" json:"preprocessor_file"`
	ModelFile        string   `yaml:"model_file" json:"model_file"`
	S3               S3Config `yaml:"s3" json:"s3"`
}

// S3Config enables fetching artifacts from a bucket when Bucket is set.
type S3Config struct {
	Bucket string `yaml:"bucket" json:"bucket"`
	Prefix string `yaml:"prefix" json:"prefix"`
	Region string `yaml:"region" json:"region"`
}

// TrainingConfig holds offline fit parameters.
type TrainingConfig struct {
	// Model type: linear, ridge
	Model string `yaml:"model" json:"model"`

	// Ridge regularization strength
	Alpha float64 `yaml:"alpha" json:"alpha"`

	// IncludeBMI adds the derived BMI column to the model inputs
	IncludeBMI bool `yaml:"include_bmi" json:"include_bmi"`

	// Held-out fraction when no test file is given
	SplitFraction float64 `yaml:"split_fraction" json:"split_fraction"`
	Seed          int64   `yaml:"seed" json:"seed"`
}

type ChartConfig struct {
	Format   string  `yaml:"format" json:"format"`
	WidthIn  float64 `yaml:"width_in" json:"width_in"`
	HeightIn float64 `yaml:"height_in" json:"height_in"`
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSec) * time.Second
}

func (c *Config) MonitorInterval() time.Duration {
	return time.Duration(c.Server.MonitorIntervalSec) * time.Second
}

// ArtifactPaths locates the artifact files.
func (c *Config) ArtifactPaths() storage.Paths {
	return storage.Paths{
		Dir:              c.Artifacts.Dir,
		PreprocessorFile: c.Artifacts.PreprocessorFile,
		ModelFile:        c.Artifacts.ModelFile,
	}
}

// S3 returns the remote artifact location and whether it is configured.
func (c *Config) S3() (storage.S3Config, bool) {
	s := c.Artifacts.S3
	return storage.S3Config{Bucket: s.Bucket, Prefix: s.Prefix, Region: s.Region}, s.Bucket != ""
}

// ModelConfig converts the training section into a model factory config.
func (c *Config) ModelConfig() model.Config {
	return model.Config{
		Type:  model.ModelType(c.Training.Model),
		Alpha: c.Training.Alpha,
	}
}

// Schema returns the input schema used for training.
func (c *Config) Schema() features.Schema {
	if c.Training.IncludeBMI {
		return features.BaseSchema.WithBMI()
	}
	return features.BaseSchema
}

// ChartOptions converts the chart section.
func (c *Config) ChartOptions() report.ChartOptions {
	return report.ChartOptions{
		Format:   report.ChartFormat(c.Chart.Format),
		WidthIn:  c.Chart.WidthIn,
		HeightIn: c.Chart.HeightIn,
	}
}
