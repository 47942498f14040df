package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_Schedule(t *testing.T) {
	tests := []struct {
		name   string
		policy RetryPolicy
		want   []time.Duration
	}{
		{
			name:   "defaults",
			policy: DefaultRetryPolicy(),
			want:   []time.Duration{200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond},
		},
		{
			name:   "capped",
			policy: RetryPolicy{MaxRetries: 5, WaitMin: time.Second, WaitMax: 3 * time.Second, Multiplier: 2},
			want:   []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second, 3 * time.Second},
		},
		{
			name:   "no retries",
			policy: RetryPolicy{MaxRetries: 0, WaitMin: time.Second},
			want:   []time.Duration{},
		},
		{
			name:   "jitter ignored for schedule",
			policy: RetryPolicy{MaxRetries: 2, WaitMin: 10 * time.Millisecond, Jitter: true},
			want:   []time.Duration{10 * time.Millisecond, 20 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Schedule())
		})
	}
}

func TestServerAwareBackOff_StretchesToRetryAfter(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3, WaitMin: 10 * time.Millisecond, WaitMax: time.Second}.withDefaults()
	bo := policy.newBackOff()

	bo.retryAfter = 300 * time.Millisecond
	assert.Equal(t, 300*time.Millisecond, bo.NextBackOff())

	// The hint applies once; the exponential schedule continues.
	assert.Equal(t, 20*time.Millisecond, bo.NextBackOff())

	bo.retryAfter = time.Hour
	assert.Equal(t, time.Second, bo.NextBackOff())
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "7", 7 * time.Second},
		{"negative", "-3", 0},
		{"http date", now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{"past date", now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"garbage", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRetryAfter(tt.value, now))
		})
	}
}
