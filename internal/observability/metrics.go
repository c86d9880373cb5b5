package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/healthpredict/healthpredict-backend/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/exemplar"
	"go.opentelemetry.io/otel/sdk/resource"
)

type AppMetrics struct {
	signupCounter             metric.Int64Counter
	loginCounter              metric.Int64Counter
	passcodeVerifyCounter     metric.Int64Counter
	passcodeDeliveryCounter   metric.Int64Counter
	sessionValidationCounter  metric.Int64Counter
	predictionRequestCounter  metric.Int64Counter
	predictionCacheCounter    metric.Int64Counter
	authReqDuration           metric.Float64Histogram
	healthCheckResultCounter  metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithExemplarFilter(exemplar.TraceBasedFilter),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "auth.request.duration"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
				},
			},
		)),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter("healthpredict-backend")
	signupCounter, err := meter.Int64Counter("auth.signup.attempts")
	if err != nil {
		return nil, err
	}
	loginCounter, err := meter.Int64Counter("auth.login.attempts")
	if err != nil {
		return nil, err
	}
	passcodeVerifyCounter, err := meter.Int64Counter("auth.passcode.verifications")
	if err != nil {
		return nil, err
	}
	passcodeDeliveryCounter, err := meter.Int64Counter("auth.passcode.deliveries")
	if err != nil {
		return nil, err
	}
	sessionValidationCounter, err := meter.Int64Counter("auth.session.validations")
	if err != nil {
		return nil, err
	}
	predictionRequestCounter, err := meter.Int64Counter("prediction.requests")
	if err != nil {
		return nil, err
	}
	predictionCacheCounter, err := meter.Int64Counter("prediction.cache.events")
	if err != nil {
		return nil, err
	}
	authReqDuration, err := meter.Float64Histogram("auth.request.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of auth endpoint requests in seconds"))
	if err != nil {
		return nil, err
	}
	healthCheckResultCounter, err := meter.Int64Counter("health.check.results")
	if err != nil {
		return nil, err
	}

	metricsMu.Lock()
	appMetrics = &AppMetrics{
		signupCounter:            signupCounter,
		loginCounter:             loginCounter,
		passcodeVerifyCounter:    passcodeVerifyCounter,
		passcodeDeliveryCounter:  passcodeDeliveryCounter,
		sessionValidationCounter: sessionValidationCounter,
		predictionRequestCounter: predictionRequestCounter,
		predictionCacheCounter:   predictionCacheCounter,
		authReqDuration:          authReqDuration,
		healthCheckResultCounter: healthCheckResultCounter,
	}
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func current() *AppMetrics {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	return m
}

func RecordSignup(ctx context.Context, status string) {
	if m := current(); m != nil {
		m.signupCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func RecordLogin(ctx context.Context, status string) {
	if m := current(); m != nil {
		m.loginCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func RecordPasscodeVerification(ctx context.Context, status string) {
	if m := current(); m != nil {
		m.passcodeVerifyCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func RecordPasscodeDelivery(ctx context.Context, status string) {
	if m := current(); m != nil {
		m.passcodeDeliveryCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func RecordSessionValidation(ctx context.Context, status string) {
	if m := current(); m != nil {
		m.sessionValidationCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func RecordPredictionRequest(ctx context.Context, category, status string) {
	if m := current(); m != nil {
		m.predictionRequestCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("category", category),
			attribute.String("status", status),
		))
	}
}

func RecordPredictionCacheEvent(ctx context.Context, outcome string) {
	if m := current(); m != nil {
		m.predictionCacheCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func RecordAuthRequestDuration(ctx context.Context, endpoint, status string, duration time.Duration) {
	if m := current(); m != nil {
		m.authReqDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
			attribute.String("endpoint", endpoint),
			attribute.String("status", status),
		))
	}
}

func RecordHealthCheckResult(ctx context.Context, name string, healthy bool) {
	if m := current(); m != nil {
		m.healthCheckResultCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("check", name),
			attribute.Bool("healthy", healthy),
		))
	}
}
