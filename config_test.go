package youtrack

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/youtrack/auth"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.Retry.WaitMin)
	assert.Equal(t, 5*time.Second, cfg.Retry.WaitMax)
	assert.False(t, cfg.Retry.Jitter)

	assert.ErrorIs(t, cfg.Validate(), ErrConfigURLRequired)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.URL = "https://example.youtrack.cloud"
		cfg.Token = testToken
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   error
		wantField string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero durations use defaults", mutate: func(c *Config) { c.HTTP = HTTPConfig{}; c.Retry = RetryConfig{} }},
		{name: "missing url", mutate: func(c *Config) { c.URL = "" }, wantErr: ErrConfigURLRequired},
		{name: "missing token", mutate: func(c *Config) { c.Token = " " }, wantErr: ErrConfigTokenRequired},
		{name: "bad url", mutate: func(c *Config) { c.URL = "not a url" }, wantErr: ErrConfigInvalid, wantField: "url"},
		{name: "negative timeout", mutate: func(c *Config) { c.HTTP.Timeout = -time.Second }, wantErr: ErrConfigInvalid, wantField: "http.timeout"},
		{name: "too many retries", mutate: func(c *Config) { c.Retry.MaxRetries = 11 }, wantErr: ErrConfigInvalid, wantField: "retry.max_retries"},
		{
			name: "wait max below wait min",
			mutate: func(c *Config) {
				c.Retry.WaitMin = time.Second
				c.Retry.WaitMax = time.Millisecond
			},
			wantErr:   ErrConfigInvalid,
			wantField: "retry.wait_max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)

			if tt.wantField != "" {
				var fe FieldErrors
				require.True(t, errors.As(err, &fe), "expected FieldErrors in %v", err)
				assert.Contains(t, fe.Fields(), tt.wantField)
			}
		})
	}
}

func TestConfig_LogValueRedactsToken(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg := DefaultConfig()
	cfg.URL = "https://example.youtrack.cloud"
	cfg.Token = testToken
	logger.Info("configured", "config", cfg)

	out := buf.String()
	assert.NotContains(t, out, testToken)
	assert.Contains(t, out, "config.token=perm:****bHVl")
	assert.Contains(t, out, "config.url=https://example.youtrack.cloud")
	assert.Contains(t, out, "config.token_fingerprint="+auth.Fingerprint(testToken))
}
