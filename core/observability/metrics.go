package observability

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

type metrics struct {
	questionsTotal      metric.Int64Counter
	attemptsTotal       metric.Int64Counter
	questionDuration    metric.Float64Histogram
	storeExecutions     metric.Int64Counter
	storeDuration       metric.Float64Histogram
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
}

var (
	metricsOnce sync.Once
	m           metrics
)

func buildMeterProvider(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	if !cfg.Enabled || !cfg.MetricsEnabled {
		return sdkmetric.NewMeterProvider(), nil
	}

	exporter, err := otlpmetricgrpc.New(
		ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	), nil
}

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	return resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentName(cfg.Environment),
		),
	)
}

func initInstruments() {
	metricsOnce.Do(func() {
		meter := otel.Meter("diavgeia/agent")
		m.questionsTotal, _ = meter.Int64Counter("diavgeia.agent.questions_total")
		m.attemptsTotal, _ = meter.Int64Counter("diavgeia.agent.attempts_total")
		m.questionDuration, _ = meter.Float64Histogram("diavgeia.agent.question_duration_ms")
		m.storeExecutions, _ = meter.Int64Counter("diavgeia.store.executions_total")
		m.storeDuration, _ = meter.Float64Histogram("diavgeia.store.execution_duration_ms")
		m.httpRequestsTotal, _ = meter.Int64Counter("diavgeia.http.server.requests_total")
		m.httpRequestDuration, _ = meter.Float64Histogram("diavgeia.http.server.request_duration_ms")
	})
}

// RecordQuestion counts one finished question.
func RecordQuestion(ctx context.Context, success bool, attempts int, durationMS float64) {
	initInstruments()
	attrs := metric.WithAttributes(
		attribute.Bool("success", success),
		attribute.Int(AttrAttempt, attempts),
	)
	m.questionsTotal.Add(ctx, 1, attrs)
	m.questionDuration.Record(ctx, durationMS, attrs)
}

// RecordAttempt counts one generation attempt by outcome.
func RecordAttempt(ctx context.Context, outcome string) {
	initInstruments()
	m.attemptsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOutcome, outcome)))
}

// RecordStoreExecution counts one statement run against the store.
func RecordStoreExecution(ctx context.Context, success bool, durationMS float64) {
	initInstruments()
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.storeExecutions.Add(ctx, 1, attrs)
	m.storeDuration.Record(ctx, durationMS, attrs)
}

// RecordHTTPRequest counts one served HTTP request.
func RecordHTTPRequest(ctx context.Context, method, route string, status int, durationMS float64) {
	initInstruments()
	attrs := metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPRoute, route),
		attribute.Int(AttrHTTPStatusCode, status),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, durationMS, attrs)
}
