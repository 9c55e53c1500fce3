package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}
	if cfg.Cache.DefaultTTL == 0 {
		cfg.Cache.DefaultTTL = 15 * time.Minute
	}
	if cfg.Cache.SweepInterval == 0 {
		cfg.Cache.SweepInterval = 5 * time.Minute
	}
	if cfg.Providers.OpenAI.Model == "" {
		cfg.Providers.OpenAI.Model = "gpt-4o-mini"
	}

	fillRetry(&cfg.Resilience.Captions, 3, 500*time.Millisecond, 30*time.Second)
	fillRetry(&cfg.Resilience.Images, 2, 1*time.Second, 120*time.Second)
	fillRetry(&cfg.Resilience.Licensing, 3, 250*time.Millisecond, 5*time.Second)

	if cfg.RateLimits.Costs.Default == 0 {
		cfg.RateLimits.Costs.Default = 1
	}
	if cfg.RateLimits.Costs.Captions == 0 {
		cfg.RateLimits.Costs.Captions = 1
	}
	if cfg.RateLimits.Costs.Images == 0 {
		cfg.RateLimits.Costs.Images = 5
	}
	if cfg.RateLimits.Costs.Verify == 0 {
		cfg.RateLimits.Costs.Verify = 2
	}
}

func fillRetry(r *RetryConfig, retries int, delay, timeout time.Duration) {
	if r.MaxRetries == 0 && r.InitialDelay == 0 && r.Timeout == 0 {
		r.MaxRetries = retries
	}
	if r.InitialDelay == 0 {
		r.InitialDelay = delay
	}
	if r.Timeout == 0 {
		r.Timeout = timeout
	}
	if r.BackoffMultiple == 0 {
		r.BackoffMultiple = 1.0
	}
}
