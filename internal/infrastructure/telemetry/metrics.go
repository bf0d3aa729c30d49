package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// DefaultExportInterval applies when MetricsConfig.ExportInterval is unset
const DefaultExportInterval = time.Minute

// MetricsConfig enables periodic metric export
type MetricsConfig struct {
	Collector
	Enabled        bool
	ExportInterval time.Duration
}

// MeterProvider owns the metric pipeline. Without export, meters come from
// the global provider and record nothing.
type MeterProvider struct {
	sdk *sdkmetric.MeterProvider
}

func NewMeterProvider(ctx context.Context, cfg MetricsConfig, log *zap.Logger) (*MeterProvider, error) {
	if !cfg.Enabled {
		log.Info("Metric export disabled")
		return &MeterProvider{}, nil
	}

	every := cfg.ExportInterval
	if every <= 0 {
		every = DefaultExportInterval
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}
	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}

	sdk := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(every))),
	)
	otel.SetMeterProvider(sdk)

	log.Info("Metric export enabled", zap.String("collector", cfg.Endpoint), zap.Duration("interval", every))
	return &MeterProvider{sdk: sdk}, nil
}

func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.sdk == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.sdk.Meter(name, opts...)
}

func (mp *MeterProvider) IsEnabled() bool { return mp.sdk != nil }

// Shutdown pushes a final collection before stopping the reader
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.sdk == nil {
		return nil
	}
	return flush(ctx, "metric", mp.sdk)
}
