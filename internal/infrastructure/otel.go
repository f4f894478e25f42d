package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"

	"stationrecon/pkg/contracts"
)

const (
	// ServiceName identifies this service in telemetry.
	ServiceName = "stationrecon"
	// MeterName is the instrumentation scope for application metrics.
	MeterName = "stationrecon"
)

// OTelConfig holds OpenTelemetry configuration.
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	MetricExporter string // "prometheus", "none"
	EnableMetrics  bool
}

// OTelProviders holds the initialized OpenTelemetry pieces.
type OTelProviders struct {
	MeterProvider  *sdkmetric.MeterProvider
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// DefaultOTelConfig returns the default OpenTelemetry configuration.
func DefaultOTelConfig() *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: contracts.Version,
		Environment:    env,
		MetricExporter: "prometheus",
		EnableMetrics:  true,
	}
}

// InitializeOTel sets up the metrics pipeline. Tracing is not configured;
// request correlation runs on the trace-id logging handler instead.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	ctx := context.Background()

	providers := &OTelProviders{Logger: logger}
	if !cfg.EnableMetrics || cfg.MetricExporter == "none" {
		return providers, nil
	}
	if cfg.MetricExporter != "prometheus" {
		return nil, fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentName(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
	providers.PrometheusHTTP = promhttp.Handler()
	otel.SetMeterProvider(mp)

	logger.InfoContext(ctx, "metrics initialized",
		slog.String("exporter", cfg.MetricExporter),
		slog.String("service", cfg.ServiceName))

	return providers, nil
}

// BusinessMetrics holds the application-specific instruments.
type BusinessMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	UploadsTotal     metric.Int64Counter
	ParseDuration    metric.Float64Histogram
	StationsParsed   metric.Int64Counter
	RowsSkippedTotal metric.Int64Counter
	ComparisonsTotal metric.Int64Counter
	ExportsTotal     metric.Int64Counter
}

// CreateBusinessMetrics registers the application metrics on the meter.
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.UploadsTotal, err = meter.Int64Counter(
		"inventory_uploads_total",
		metric.WithDescription("Inventory uploads by source and outcome"),
	); err != nil {
		return nil, err
	}
	if m.ParseDuration, err = meter.Float64Histogram(
		"inventory_parse_duration_seconds",
		metric.WithDescription("Spreadsheet parse duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.StationsParsed, err = meter.Int64Counter(
		"inventory_stations_parsed_total",
		metric.WithDescription("Stations produced by parse passes"),
	); err != nil {
		return nil, err
	}
	if m.RowsSkippedTotal, err = meter.Int64Counter(
		"inventory_rows_skipped_total",
		metric.WithDescription("Rows dropped for missing station ids"),
	); err != nil {
		return nil, err
	}
	if m.ComparisonsTotal, err = meter.Int64Counter(
		"inventory_comparisons_total",
		metric.WithDescription("Comparison runs"),
	); err != nil {
		return nil, err
	}
	if m.ExportsTotal, err = meter.Int64Counter(
		"missing_stations_exports_total",
		metric.WithDescription("Missing-stations exports"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// SourceAttr labels a metric point with the inventory source.
func SourceAttr(source string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("source", source))
}

// OutcomeAttr labels a metric point with a success/failure outcome.
func OutcomeAttr(source, outcome string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	)
}

// Shutdown gracefully shuts down the OpenTelemetry providers.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	if p.MeterProvider == nil {
		return nil
	}
	if err := p.MeterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}
	if p.Logger != nil {
		p.Logger.InfoContext(ctx, "telemetry shutdown complete")
	}
	return nil
}
