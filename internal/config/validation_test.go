package config

import (
	"strings"
	"testing"
)

func TestValidateDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidateServerPort(t *testing.T) {
	tests := []struct {
		port    int
		wantErr bool
	}{
		{0, true},
		{-1, true},
		{65536, true},
		{1, false},
		{8080, false},
		{65535, false},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Server.Port = tt.port
		err := cfg.Server.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("port %d: wantErr=%v, got %v", tt.port, tt.wantErr, err)
		}
	}
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(s *ServerConfig)
		wantErr bool
	}{
		{"valid defaults", func(s *ServerConfig) {}, false},
		{"zero body limit", func(s *ServerConfig) { s.MaxBodyBytes = 0 }, true},
		{"zero shutdown timeout", func(s *ServerConfig) { s.ShutdownTimeoutSec = 0 }, true},
		{"zero monitor interval", func(s *ServerConfig) { s.MonitorIntervalSec = 0 }, true},
		{"rate limit disabled ignores values", func(s *ServerConfig) { s.RateLimit.RequestsPerSecond = 0 }, false},
		{"rate limit zero rps", func(s *ServerConfig) {
			s.RateLimit.Enabled = true
			s.RateLimit.RequestsPerSecond = 0
		}, true},
		{"rate limit zero burst", func(s *ServerConfig) {
			s.RateLimit.Enabled = true
			s.RateLimit.Burst = 0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg.Server)
			err := cfg.Server.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateArtifacts(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(a *ArtifactsConfig)
		wantErr bool
	}{
		{"valid defaults", func(a *ArtifactsConfig) {}, false},
		{"empty dir", func(a *ArtifactsConfig) { a.Dir = "" }, true},
		{"empty model file", func(a *ArtifactsConfig) { a.ModelFile = "" }, true},
		{"same file", func(a *ArtifactsConfig) { a.ModelFile = a.PreprocessorFile }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg.Artifacts)
			err := cfg.Artifacts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateTraining(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(tc *TrainingConfig)
		wantErr bool
	}{
		{"valid defaults", func(tc *TrainingConfig) {}, false},
		{"ridge", func(tc *TrainingConfig) { tc.Model = "ridge" }, false},
		{"unknown model", func(tc *TrainingConfig) { tc.Model = "forest" }, true},
		{"ridge without alpha", func(tc *TrainingConfig) {
			tc.Model = "ridge"
			tc.Alpha = 0
		}, true},
		{"split zero", func(tc *TrainingConfig) { tc.SplitFraction = 0 }, true},
		{"split one", func(tc *TrainingConfig) { tc.SplitFraction = 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg.Training)
			err := cfg.Training.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateChart(t *testing.T) {
	tests := []struct {
		format  string
		width   float64
		wantErr bool
	}{
		{"png", 4, false},
		{"svg", 6, false},
		{"gif", 4, true},
		{"png", 0, true},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Chart.Format = tt.format
		cfg.Chart.WidthIn = tt.width
		err := cfg.Chart.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("format=%s width=%v: wantErr=%v, got %v", tt.format, tt.width, tt.wantErr, err)
		}
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "server:") || !strings.Contains(msg, "logging:") {
		t.Errorf("expected both sections in %q", msg)
	}
}

func TestValidateLogging(t *testing.T) {
	tests := []struct {
		level   string
		format  string
		wantErr bool
	}{
		{"debug", "json", false},
		{"info", "json", false},
		{"warn", "json", false},
		{"error", "json", false},
		{"info", "text", false},
		{"invalid", "json", true},
		{"info", "invalid", true},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Logging.Level = tt.level
		cfg.Logging.Format = tt.format
		err := cfg.Logging.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("level=%s format=%s: wantErr=%v, got %v", tt.level, tt.format, tt.wantErr, err)
		}
	}
}

func TestValidateAuth(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		user     string
		password string
		wantErr  bool
	}{
		{"disabled no creds", false, "", "", false},
		{"enabled with creds", true, "admin", "secret", false},
		{"enabled no user", true, "", "secret", true},
		{"enabled no password", true, "admin", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.Enabled = tt.enabled
			cfg.Auth.User = tt.user
			cfg.Auth.Password = tt.password
			err := cfg.Auth.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
