package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy describes the transport's backoff schedule.
type RetryPolicy struct {
	// MaxRetries bounds the number of retries after the first attempt.
	MaxRetries int

	// WaitMin is the first backoff interval.
	WaitMin time.Duration

	// WaitMax caps every interval, including server-requested ones.
	WaitMax time.Duration

	// Multiplier grows the interval between retries.
	Multiplier float64

	// Jitter randomizes intervals by +/-30%.
	Jitter bool
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: DefaultMaxRetries,
		WaitMin:    DefaultRetryWait,
		WaitMax:    DefaultRetryWaitMax,
		Multiplier: 2,
	}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.WaitMin <= 0 {
		p.WaitMin = def.WaitMin
	}
	if p.WaitMax <= 0 {
		p.WaitMax = def.WaitMax
	}
	if p.WaitMax < p.WaitMin {
		p.WaitMax = p.WaitMin
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	return p
}

// Schedule returns the intervals the policy waits before each retry.
func (p RetryPolicy) Schedule() []time.Duration {
	p = p.withDefaults()
	p.Jitter = false
	bo := p.newBackOff()
	waits := make([]time.Duration, 0, p.MaxRetries)
	for {
		next := bo.NextBackOff()
		if next == backoff.Stop {
			return waits
		}
		waits = append(waits, next)
	}
}

// newBackOff builds a fresh, stateful backoff for one logical call.
func (p RetryPolicy) newBackOff() *serverAwareBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.WaitMin
	exp.MaxInterval = p.WaitMax
	exp.Multiplier = p.Multiplier
	exp.MaxElapsedTime = 0
	exp.RandomizationFactor = 0
	if p.Jitter {
		exp.RandomizationFactor = 0.3
	}
	exp.Reset()

	return &serverAwareBackOff{
		BackOff: backoff.WithMaxRetries(exp, uint64(p.MaxRetries)),
		maxWait: p.WaitMax,
	}
}

// serverAwareBackOff stretches the next interval to honour Retry-After.
type serverAwareBackOff struct {
	backoff.BackOff
	maxWait    time.Duration
	retryAfter time.Duration
}

func (b *serverAwareBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.retryAfter > next {
		next = min(b.retryAfter, b.maxWait)
	}
	b.retryAfter = 0
	return next
}

func (b *serverAwareBackOff) Reset() {
	b.retryAfter = 0
	b.BackOff.Reset()
}

// parseRetryAfter reads a Retry-After header in seconds or HTTP-date form.
func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if wait := at.Sub(now); wait > 0 {
			return wait
		}
	}
	return 0
}
