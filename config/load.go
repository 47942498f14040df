package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/randalmurphal/youtrack"
)

// ErrInvalidValue is returned by Load when a value cannot be parsed.
var ErrInvalidValue = errors.New("invalid config value")

func defaultValues() map[string]string {
	def := youtrack.DefaultConfig()
	return map[string]string{
		KeyTimeout:      def.HTTP.Timeout.String(),
		KeyMaxRetries:   strconv.Itoa(def.Retry.MaxRetries),
		KeyRetryWaitMin: def.Retry.WaitMin.String(),
		KeyRetryWaitMax: def.Retry.WaitMax.String(),
		KeyRetryJitter:  strconv.FormatBool(def.Retry.Jitter),
	}
}

// Load builds a validated client configuration from resolved values.
// Unset keys keep the values of youtrack.DefaultConfig.
func Load(resolved *Resolved) (youtrack.Config, error) {
	cfg := youtrack.DefaultConfig()
	cfg.URL = resolved.Get(KeyURL)
	cfg.Token = resolved.Get(KeyToken)
	cfg.HTTP.UserAgent = resolved.Get(KeyUserAgent)

	var errs []error
	parse := func(key string, fn func(string) error) {
		v, src := resolved.GetWithSource(key)
		if v == "" {
			return
		}
		if err := fn(v); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q (from %s): %w", ErrInvalidValue, key, v, src, err))
		}
	}

	parse(KeyTimeout, durationInto(&cfg.HTTP.Timeout))
	parse(KeyRetryWaitMin, durationInto(&cfg.Retry.WaitMin))
	parse(KeyRetryWaitMax, durationInto(&cfg.Retry.WaitMax))
	parse(KeyMaxRetries, func(s string) (err error) {
		cfg.Retry.MaxRetries, err = strconv.Atoi(s)
		return err
	})
	parse(KeyRetryJitter, func(s string) (err error) {
		cfg.Retry.Jitter, err = strconv.ParseBool(s)
		return err
	})

	if err := errors.Join(errs...); err != nil {
		return youtrack.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return youtrack.Config{}, err
	}
	return cfg, nil
}

func durationInto(dst *time.Duration) func(string) error {
	return func(s string) (err error) {
		*dst, err = time.ParseDuration(s)
		return err
	}
}
