package dispatch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/kbukum/clientkit/dispatch"

// callMetrics records per-call counters and latencies.
type callMetrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

func newCallMetrics() (*callMetrics, error) {
	meter := otel.Meter(meterName)

	calls, err := meter.Int64Counter(
		"clientkit.calls",
		metric.WithDescription("Number of dispatched client calls"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		"clientkit.call.duration",
		metric.WithDescription("Client call duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	return &callMetrics{calls: calls, duration: duration}, nil
}

func (m *callMetrics) record(ctx context.Context, target Target, method Method, outcome string, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("client.iface", target.Iface),
		attribute.String("client.name", target.Name),
		attribute.String("client.method", method.Key()),
		attribute.String("client.outcome", outcome),
	)
	m.calls.Add(ctx, 1, attrs)
	m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
}
