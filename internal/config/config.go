package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the tool server configuration. It is loaded once at startup
// and never mutated afterwards.
type Config struct {
	// Server
	Port             int `env:"MCP_PORT" envDefault:"8080" validate:"min=1,max=65535"`
	RequestTimeoutMS int `env:"REQUEST_TIMEOUT_MS" envDefault:"35000" validate:"min=1"`

	// Upstream data API
	APIBaseURL        string `env:"API_BASE_URL" validate:"required,url"`
	APIToken          string `env:"API_TOKEN" validate:"required"`
	APIDisplayName    string `env:"API_DISPLAY_NAME" envDefault:"Guest" validate:"required"`
	UpstreamTimeoutMS int    `env:"UPSTREAM_TIMEOUT_MS" envDefault:"30000" validate:"min=1"`
	EndpointsFile     string `env:"ENDPOINTS_FILE"`

	// Invocation journal (disabled when RedisURL is empty)
	RedisURL         string `env:"REDIS_URL"`
	RedisPassword    string `env:"REDIS_PASSWORD"`
	JournalStream    string `env:"JOURNAL_STREAM" envDefault:"trendmcp:invocations"`
	JournalMaxLength int64  `env:"JOURNAL_MAX_LENGTH" envDefault:"10000" validate:"min=0"`

	// Observability
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// RequestTimeout bounds one inbound HTTP request.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// UpstreamTimeout bounds one outbound request to the data API.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// JournalEnabled reports whether invocations are written to Redis.
func (c *Config) JournalEnabled() bool {
	return c.RedisURL != ""
}

// LoadFromEnv loads configuration from environment variables, after merging
// an optional .env file from the working directory.
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	opts := env.Options{
		Prefix: "",
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: failed %q check", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.RequestTimeoutMS < c.UpstreamTimeoutMS {
		return fmt.Errorf("request timeout (%dms) must not be shorter than upstream timeout (%dms)",
			c.RequestTimeoutMS, c.UpstreamTimeoutMS)
	}

	return nil
}
