package cache

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the instrumentation scope of the cache metrics.
const MeterName = "github.com/leapstack-labs/leapdplyr/internal/cache"

type metrics struct {
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	evictions metric.Int64Counter
	duration  metric.Float64Histogram
}

func newMetrics(mp metric.MeterProvider) *metrics {
	meter := mp.Meter(MeterName)
	m := &metrics{}

	// Instrument creation only fails on invalid parameters; fall back to
	// the bare instrument so recording never hits a nil.
	var err error

	m.hits, err = meter.Int64Counter(
		"leapdplyr.cache.hits",
		metric.WithDescription("Transpile cache hits"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		m.hits, _ = meter.Int64Counter("leapdplyr.cache.hits")
	}

	m.misses, err = meter.Int64Counter(
		"leapdplyr.cache.misses",
		metric.WithDescription("Transpile cache misses"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		m.misses, _ = meter.Int64Counter("leapdplyr.cache.misses")
	}

	m.evictions, err = meter.Int64Counter(
		"leapdplyr.cache.evictions",
		metric.WithDescription("Entries dropped to stay within capacity"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		m.evictions, _ = meter.Int64Counter("leapdplyr.cache.evictions")
	}

	m.duration, err = meter.Float64Histogram(
		"leapdplyr.transpile.duration",
		metric.WithDescription("Duration of uncached transpilations in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.duration, _ = meter.Float64Histogram("leapdplyr.transpile.duration")
	}

	return m
}

func newNoopMetrics() *metrics {
	return newMetrics(noop.NewMeterProvider())
}
