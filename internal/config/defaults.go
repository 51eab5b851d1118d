package config

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			MaxBodyBytes:       64 * 1024,
			ShutdownTimeoutSec: 10,
			MonitorIntervalSec: 5,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 20,
				Burst:             40,
			},
		},
		Auth: AuthConfig{
			Enabled:  false,
			User:     "",
			Password: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Artifacts: ArtifactsConfig{
			Dir:              "artifacts",
			PreprocessorFile: "preprocessor.json",
			ModelFile:        "model.json",
		},
		Training: TrainingConfig{
			Model:         "linear",
			Alpha:         1.0,
			IncludeBMI:    true,
			SplitFraction: 0.2,
			Seed:          42,
		},
		Chart: ChartConfig{
			Format:   "png",
			WidthIn:  4,
			HeightIn: 3,
		},
	}
}
