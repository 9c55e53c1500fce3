package config

import (
	"time"

	redisclient "github.com/craftly/craftd/internal/infra/redis"
	"github.com/craftly/craftd/internal/infra/storage/postgres"
	"github.com/craftly/craftd/internal/resilience/admission"
	"github.com/craftly/craftd/internal/resilience/executor"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server      ServerConfig       `yaml:"server"`
	Environment string             `yaml:"environment"` // development, production
	Logging     LoggingConfig      `yaml:"logging"`
	Database    postgres.Config    `yaml:"database"`
	Redis       redisclient.Config `yaml:"redis"`
	Cache       CacheConfig        `yaml:"cache"`
	Providers   ProvidersConfig    `yaml:"providers"`
	Resilience  ResilienceConfig   `yaml:"resilience"`
	RateLimits  RateLimitConfig    `yaml:"rate_limits"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	DefaultTTL    time.Duration `yaml:"default_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// ProvidersConfig holds settings for the external generation and
// licensing services.
type ProvidersConfig struct {
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Render    RenderConfig    `yaml:"render"`
	Licensing LicensingConfig `yaml:"licensing"`
}

// OpenAIConfig configures the caption generation provider.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// RenderConfig configures the image rendering provider.
type RenderConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// LicensingConfig configures the gRPC license verification service.
type LicensingConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// RetryConfig is the YAML shape of one call site's retry policy.
type RetryConfig struct {
	MaxRetries      int           `yaml:"max_retries"`
	InitialDelay    time.Duration `yaml:"initial_delay"`
	Timeout         time.Duration `yaml:"timeout"`
	BackoffMultiple float64       `yaml:"backoff_multiple"`
	MaxDelay        time.Duration `yaml:"max_delay"`
}

// Policy converts the YAML shape into an executor policy.
func (r RetryConfig) Policy() executor.Policy {
	return executor.Policy{
		MaxRetries:      r.MaxRetries,
		InitialDelay:    r.InitialDelay,
		Timeout:         r.Timeout,
		BackoffMultiple: r.BackoffMultiple,
		MaxDelay:        r.MaxDelay,
	}
}

// ResilienceConfig holds per-call-site retry policies.
type ResilienceConfig struct {
	Captions  RetryConfig `yaml:"captions"`
	Images    RetryConfig `yaml:"images"`
	Licensing RetryConfig `yaml:"licensing"`
}

// TierLimit is the YAML shape of one admission tier's budget.
type TierLimit struct {
	Window    time.Duration `yaml:"window"`
	MaxPoints int           `yaml:"max_points"`
}

// RateLimitConfig holds the admission tier table and per-endpoint costs.
type RateLimitConfig struct {
	Tiers map[string]TierLimit `yaml:"tiers"`
	Costs CostConfig           `yaml:"costs"`
}

// CostConfig weights endpoints by how much admission budget one request
// consumes. AI-heavy endpoints cost more.
type CostConfig struct {
	Default  int `yaml:"default"`
	Captions int `yaml:"captions"`
	Images   int `yaml:"images"`
	Verify   int `yaml:"verify"`
}

// Limits converts the tier table into the admission controller's shape.
func (r RateLimitConfig) Limits() map[admission.Tier]admission.Limit {
	if len(r.Tiers) == 0 {
		return nil
	}
	out := make(map[admission.Tier]admission.Limit, len(r.Tiers))
	for name, l := range r.Tiers {
		out[admission.Tier(name)] = admission.Limit{Window: l.Window, MaxPoints: l.MaxPoints}
	}
	return out
}

// IsProduction reports whether diagnostic fields must be stripped from
// error responses.
func (c *AppConfig) IsProduction() bool {
	return c.Environment != "development"
}
