package youtrack

import (
	"context"
	"time"

	ythttp "github.com/randalmurphal/youtrack/http"
)

// HealthState summarizes a health probe.
type HealthState string

// Health states.
const (
	HealthOK          HealthState = "ok"
	HealthDegraded    HealthState = "degraded"
	HealthUnreachable HealthState = "unreachable"
)

// HealthStatus is the outcome of a health probe.
type HealthStatus struct {
	State   HealthState
	BaseURL string
	Version string
	Build   string

	// CheckedAt is when the probe was sent.
	CheckedAt time.Time
	Latency   time.Duration

	// Err is the probe failure, if any.
	Err error

	// TokenExpiresAt is set for tokens that carry an expiry.
	TokenExpiresAt time.Time
}

// OK reports whether the probe succeeded.
func (h HealthStatus) OK() bool {
	return h.State == HealthOK
}

// Health probes the service with a cheap authenticated read. It never
// returns an error; failures are reported in the status. Authentication and
// server failures are degraded, network failures are unreachable.
func (c *Client) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		BaseURL:        c.BaseURL(),
		TokenExpiresAt: c.token.ExpiresAt,
	}

	var info struct {
		Version string `json:"version"`
		Build   string `json:"build"`
	}

	status.CheckedAt = c.now()
	err := c.get(ctx, "/api/config", ythttp.Params{"fields": healthFields}, &info)
	status.Latency = c.now().Sub(status.CheckedAt)

	switch {
	case err == nil:
		status.State = HealthOK
		status.Version = info.Version
		status.Build = info.Build
	case KindOf(err) == KindUnreachable:
		status.State = HealthUnreachable
		status.Err = err
	default:
		status.State = HealthDegraded
		status.Err = err
	}
	return status
}
