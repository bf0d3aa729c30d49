// Package telemetry wires OpenTelemetry tracing, metrics and log export,
// Pyroscope profiling and the GORM instrumentation used by the server.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

const shutdownTimeout = 10 * time.Second

// Collector is the OTLP endpoint and the service identity shared by the
// trace, metric and log pipelines.
type Collector struct {
	Endpoint       string
	Insecure       bool
	ServiceName    string
	ServiceVersion string
}

func (c Collector) resource() (*resource.Resource, error) {
	version := c.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(c.ServiceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("describe service %s: %w", c.ServiceName, err)
	}
	return res, nil
}

type flusher interface {
	Shutdown(ctx context.Context) error
}

// flush gives a pipeline shutdownTimeout to drain its batches.
func flush(ctx context.Context, signal string, f flusher) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := f.Shutdown(ctx); err != nil {
		return fmt.Errorf("flush %s pipeline: %w", signal, err)
	}
	return nil
}
