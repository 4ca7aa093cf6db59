package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	instrumentsMu   sync.Mutex
	actionCounter   metric.Int64Counter
	requestDuration metric.Float64Histogram
)

func initInstruments(serviceName string) {
	instrumentsMu.Lock()
	defer instrumentsMu.Unlock()

	meter := otel.Meter(serviceName)
	actionCounter, _ = meter.Int64Counter(
		"picfeed.social.actions",
		metric.WithDescription("Social graph and engagement mutations"),
	)
	requestDuration, _ = meter.Float64Histogram(
		"picfeed.http.request.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
	)
}

// RecordAction counts a mutation such as post_liked or user_followed.
// No-op until Init has run.
func RecordAction(ctx context.Context, action string) {
	instrumentsMu.Lock()
	c := actionCounter
	instrumentsMu.Unlock()
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

// RecordRequest observes the latency of one HTTP request
func RecordRequest(ctx context.Context, route, method string, status int, elapsed time.Duration) {
	instrumentsMu.Lock()
	h := requestDuration
	instrumentsMu.Unlock()
	if h == nil {
		return
	}
	h.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("http.route", route),
		attribute.String("http.method", method),
		attribute.Int("http.status_code", status),
	))
}
