package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Providers bundles the initialized observability components for one run.
type Providers struct {
	// Meter creates OTel instruments scoped to the service name.
	Meter metric.Meter

	meterProvider *sdkmetric.MeterProvider
	registry      *prometheus.Registry
}

// Init creates a MeterProvider backed by a Prometheus exporter with its
// own registry, so repeated Init calls never collide on collector names.
func Init(cfg Config) (*Providers, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	name := cfg.ServiceName
	if name == "" {
		name = defaultServiceName
	}

	return &Providers{
		Meter:         meterProvider.Meter(name),
		meterProvider: meterProvider,
		registry:      registry,
	}, nil
}

// MetricsHandler returns the /metrics scrape handler for this run's registry.
func (p *Providers) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the meter provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	err := p.meterProvider.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown meter provider: %w", err)
	}

	return nil
}
