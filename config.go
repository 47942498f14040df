package youtrack

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/randalmurphal/youtrack/auth"
	ythttp "github.com/randalmurphal/youtrack/http"
)

// Config holds the configuration for the YouTrack client.
type Config struct {
	// URL is the service root, e.g. https://example.youtrack.cloud.
	// A trailing slash is ignored.
	URL string `yaml:"url" validate:"required,http_url"`

	// Token is a permanent token or an OAuth access token.
	Token string `yaml:"token" validate:"required"`

	// HTTP contains HTTP client configuration.
	HTTP HTTPConfig `yaml:"http"`

	// Retry configures automatic retries of idempotent calls.
	Retry RetryConfig `yaml:"retry"`
}

// HTTPConfig holds HTTP client configuration.
type HTTPConfig struct {
	// Timeout bounds each HTTP round trip.
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int `yaml:"max_idle_conns" validate:"gte=0"`

	// IdleConnTimeout is how long to keep idle connections open.
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout" validate:"gte=0"`

	// UserAgent is sent with every request when set.
	UserAgent string `yaml:"user_agent"`
}

// RetryConfig holds retry configuration.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `yaml:"max_retries" validate:"gte=0,lte=10"`

	// WaitMin is the first backoff interval.
	WaitMin time.Duration `yaml:"wait_min" validate:"gte=0"`

	// WaitMax caps every backoff interval.
	WaitMax time.Duration `yaml:"wait_max" validate:"omitempty,gtefield=WaitMin"`

	// Jitter randomizes backoff intervals.
	Jitter bool `yaml:"jitter"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:         ythttp.DefaultTimeout,
			MaxIdleConns:    10,
			IdleConnTimeout: 90 * time.Second,
		},
		Retry: RetryConfig{
			MaxRetries: ythttp.DefaultMaxRetries,
			WaitMin:    ythttp.DefaultRetryWait,
			WaitMax:    ythttp.DefaultRetryWaitMax,
		},
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return ErrConfigURLRequired
	}
	if strings.TrimSpace(c.Token) == "" {
		return ErrConfigTokenRequired
	}
	if err := validateStruct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}
	if _, err := auth.Inspect(c.Token); err != nil {
		return fmt.Errorf("%w: token: %w", ErrConfigInvalid, err)
	}
	return nil
}

// LogValue implements slog.LogValuer so the token is never logged.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", c.URL),
		slog.String("token", auth.Redact(c.Token)),
		slog.String("token_fingerprint", auth.Fingerprint(c.Token)),
		slog.Duration("timeout", c.HTTP.Timeout),
		slog.Int("max_retries", c.Retry.MaxRetries),
	)
}

// retryPolicy converts the retry settings for the transport.
func (c Config) retryPolicy() ythttp.RetryPolicy {
	return ythttp.RetryPolicy{
		MaxRetries: c.Retry.MaxRetries,
		WaitMin:    c.Retry.WaitMin,
		WaitMax:    c.Retry.WaitMax,
		Multiplier: 2,
		Jitter:     c.Retry.Jitter,
	}
}
