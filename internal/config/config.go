// Package config loads the urlrisk service configuration from a YAML file
// with environment variable overrides.
package config

import (
	"time"
)

// Default configuration values.
const (
	defaultServiceName    = "urlrisk"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8090
	defaultBackendURL     = "http://localhost:5000"
	defaultBackendTimeout = 5 * time.Second
	defaultScanRPS        = 25
	defaultScanBurst      = 50
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
)

// Config holds all configuration for the urlrisk service.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Backend   BackendConfig   `yaml:"backend"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"URLRISK_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"    yaml:"debug"`
}

// BackendConfig holds configuration for the external prediction service.
type BackendConfig struct {
	// BaseURL is the prediction service root; /predict and /api/predict are
	// appended by the client.
	BaseURL string        `env:"PREDICT_API_URL"     yaml:"base_url"`
	Timeout time.Duration `env:"PREDICT_API_TIMEOUT" yaml:"timeout"`
}

// RateLimitConfig holds token-bucket settings for the scan endpoints.
type RateLimitConfig struct {
	RPS   int `env:"SCAN_RATE_RPS"   yaml:"rps"`
	Burst int `env:"SCAN_RATE_BURST" yaml:"burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path, applies defaults, then
// re-applies environment overrides so the environment always wins.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := loadFile(path, &cfg); err != nil {
		return nil, err
	}
	setDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = defaultServiceVersion
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultServicePort
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = defaultBackendURL
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = defaultBackendTimeout
	}
	if cfg.RateLimit.RPS == 0 {
		cfg.RateLimit.RPS = defaultScanRPS
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = defaultScanBurst
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLogFormat
	}
}
