package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env         string                   `yaml:"env"`
	Log         LogConfig                `yaml:"log"`
	MetricsAddr string                   `yaml:"metricsAddr"`
	Products    map[string]ProductConfig `yaml:"products"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// ProductConfig describes one traded product: its position limit and the
// estimator variant feeding its policy.
type ProductConfig struct {
	Limit     int             `yaml:"limit"`
	Estimator EstimatorConfig `yaml:"estimator"`
}

type EstimatorConfig struct {
	Kind  string  `yaml:"kind"`  // constant or recency
	Value float64 `yaml:"value"` // fixed fair price (constant)
	Bias  float64 `yaml:"bias"`  // additive correction (recency)
}

// Load reads and validates a YAML config file.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads the file then applies environment overrides,
// so deployments can retarget logging/metrics without editing the file.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("ENGINE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ENGINE_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	return cfg, nil
}
