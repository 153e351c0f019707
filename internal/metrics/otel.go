package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "rinkcast"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

type otelInstruments struct {
	ctx               context.Context
	meter             metric.Meter
	requests          metric.Int64Counter
	requestLatencyMs  metric.Float64Histogram
	eventsApplied     metric.Int64Counter
	dedupSkips        metric.Int64Counter
	eventWarnings     metric.Int64Counter
	goalsRecorded     metric.Int64Counter
	penaltiesRecorded metric.Int64Counter
	allocations       metric.Int64Counter
	rotations         metric.Int64Counter
	rotationFailures  metric.Int64Counter
	rotationLatencyMs metric.Float64Histogram
	feedAttempts      metric.Int64Counter
	feedErrors        metric.Int64Counter
	feedLatencyMs     metric.Float64Histogram
	pollerCycles      metric.Int64Counter
	pollerErrors      metric.Int64Counter
	pollerLatencyMs   metric.Float64Histogram
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("rinkcast")
	ctx := context.Background()

	requests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	requestLatency, err := meter.Float64Histogram("http_request_duration_ms")
	if err != nil {
		return nil, err
	}
	eventsApplied, err := meter.Int64Counter("tracker_events_applied_total")
	if err != nil {
		return nil, err
	}
	dedupSkips, err := meter.Int64Counter("tracker_dedup_skips_total")
	if err != nil {
		return nil, err
	}
	eventWarnings, err := meter.Int64Counter("tracker_event_warnings_total")
	if err != nil {
		return nil, err
	}
	goalsRecorded, err := meter.Int64Counter("tracker_goals_total")
	if err != nil {
		return nil, err
	}
	penaltiesRecorded, err := meter.Int64Counter("tracker_penalties_total")
	if err != nil {
		return nil, err
	}
	allocations, err := meter.Int64Counter("namer_allocations_total")
	if err != nil {
		return nil, err
	}
	rotations, err := meter.Int64Counter("session_rotations_total")
	if err != nil {
		return nil, err
	}
	rotationFailures, err := meter.Int64Counter("session_rotation_failures_total")
	if err != nil {
		return nil, err
	}
	rotationLatency, err := meter.Float64Histogram("session_rotation_duration_ms")
	if err != nil {
		return nil, err
	}
	feedAttempts, err := meter.Int64Counter("feed_attempts_total")
	if err != nil {
		return nil, err
	}
	feedErrors, err := meter.Int64Counter("feed_errors_total")
	if err != nil {
		return nil, err
	}
	feedLatency, err := meter.Float64Histogram("feed_duration_ms")
	if err != nil {
		return nil, err
	}
	pollerCycles, err := meter.Int64Counter("poller_cycles_total")
	if err != nil {
		return nil, err
	}
	pollerErrors, err := meter.Int64Counter("poller_errors_total")
	if err != nil {
		return nil, err
	}
	pollerLatency, err := meter.Float64Histogram("poller_cycle_duration_ms")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:               ctx,
		meter:             meter,
		requests:          requests,
		requestLatencyMs:  requestLatency,
		eventsApplied:     eventsApplied,
		dedupSkips:        dedupSkips,
		eventWarnings:     eventWarnings,
		goalsRecorded:     goalsRecorded,
		penaltiesRecorded: penaltiesRecorded,
		allocations:       allocations,
		rotations:         rotations,
		rotationFailures:  rotationFailures,
		rotationLatencyMs: rotationLatency,
		feedAttempts:      feedAttempts,
		feedErrors:        feedErrors,
		feedLatencyMs:     feedLatency,
		pollerCycles:      pollerCycles,
		pollerErrors:      pollerErrors,
		pollerLatencyMs:   pollerLatency,
	}, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordBatchApplied(gameID string, applied, skipped, warnings, goals, penalties int) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrGameID, gameID)}
	o.recordCounter(o.eventsApplied, int64(applied), attrs...)
	o.recordCounter(o.dedupSkips, int64(skipped), attrs...)
	o.recordCounter(o.eventWarnings, int64(warnings), attrs...)
	o.recordCounter(o.goalsRecorded, int64(goals), attrs...)
	o.recordCounter(o.penaltiesRecorded, int64(penalties), attrs...)
}

func (o *otelInstruments) recordAllocation(gameID string) {
	if o == nil {
		return
	}
	o.recordCounter(o.allocations, 1, attribute.String(AttrGameID, gameID))
}

func (o *otelInstruments) recordRotation(duration time.Duration, err error) {
	if o == nil {
		return
	}
	if err != nil {
		o.recordCounter(o.rotationFailures, 1)
		return
	}
	o.recordCounter(o.rotations, 1)
	o.recordHistogram(o.rotationLatencyMs, float64(duration.Milliseconds()))
}

func (o *otelInstruments) recordFeedAttempt(feed string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrFeed, feed)}
	o.recordCounter(o.feedAttempts, 1, attrs...)
	o.recordHistogram(o.feedLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.feedErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordPoller(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.pollerCycles, 1)
	o.recordHistogram(o.pollerLatencyMs, float64(duration.Milliseconds()))
	if err != nil {
		o.recordCounter(o.pollerErrors, 1)
	}
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil || value == 0 {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
