package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTestTimeout bounds TestContext so a stub that never answers fails
// the test instead of hanging it.
const DefaultTestTimeout = 10 * time.Second

// TestContext returns a context that ends with the test or after DefaultTestTimeout.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	return TestContextWithTimeout(t, DefaultTestTimeout)
}

// TestContextWithTimeout returns a context derived from t.Context with the given timeout.
func TestContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), timeout)
	t.Cleanup(cancel)

	return ctx
}
