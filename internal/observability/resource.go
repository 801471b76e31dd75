package observability

import (
	"context"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// DefaultServiceName is reported when the configuration leaves
// otel.service_name empty.
const DefaultServiceName = "calc-engine"

func serviceName(name string) string {
	if name == "" {
		return DefaultServiceName
	}
	return name
}

// newResource describes this process to every OTLP exporter. OTEL_RESOURCE_ATTRIBUTES
// is honoured, but the configured service name wins.
func newResource(ctx context.Context, name string) (*resource.Resource, error) {
	return resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName(name)),
		),
	)
}
