package http

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationScope = "github.com/randalmurphal/youtrack/http"

// instruments records per-call metrics. Providers come from the otel globals,
// which are no-ops unless the caller installs an SDK.
type instruments struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	retries  metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments() *instruments {
	m := otel.Meter(instrumentationScope)

	requests, _ := m.Int64Counter("youtrack.client.requests",
		metric.WithDescription("HTTP round trips made by the YouTrack client"),
		metric.WithUnit("{request}"),
	)
	retries, _ := m.Int64Counter("youtrack.client.retries",
		metric.WithDescription("Automatic retries of idempotent calls"),
		metric.WithUnit("{retry}"),
	)
	failures, _ := m.Int64Counter("youtrack.client.failures",
		metric.WithDescription("Calls that ended in an APIError"),
		metric.WithUnit("{call}"),
	)
	duration, _ := m.Float64Histogram("youtrack.client.call.duration",
		metric.WithDescription("Duration of logical calls including retries"),
		metric.WithUnit("ms"),
	)

	return &instruments{
		tracer:   otel.Tracer(instrumentationScope),
		requests: requests,
		retries:  retries,
		failures: failures,
		duration: duration,
	}
}

func (i *instruments) roundTrip(ctx context.Context, method string, status int) {
	i.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.response.status_code", strconv.Itoa(status)),
	))
}

func (i *instruments) retry(ctx context.Context, method string) {
	i.retries.Add(ctx, 1, metric.WithAttributes(attribute.String("http.request.method", method)))
}

func (i *instruments) finish(ctx context.Context, method string, start time.Time, err error) {
	attrs := []attribute.KeyValue{attribute.String("http.request.method", method)}
	if err != nil {
		kind := KindOf(err)
		attrs = append(attrs, attribute.String("error.type", kind.String()))
		i.failures.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	i.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, metric.WithAttributes(attrs...))
}
