package main

import (
	"context"

	"go.uber.org/zap"

	"calc-engine/internal/calculator"
	"calc-engine/internal/config"
	"calc-engine/internal/observability"
)

func noopShutdown(context.Context) error { return nil }

// initTelemetry starts OTLP export when otel.enabled is set and registers
// the calculation instruments either way; without export they record into
// the no-op global provider.
func initTelemetry(ctx context.Context, cfg config.OTelConfig) (func(context.Context) error, error) {
	shutdown := noopShutdown

	if cfg.Enabled {
		var err error
		shutdown, err = observability.Setup(ctx, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
	} else {
		observability.Logger.Info("otel export disabled")
	}

	if err := calculator.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	observability.Logger.Debug("telemetry initialised",
		zap.Bool("otel_enabled", cfg.Enabled),
		zap.String("service_name", cfg.ServiceName),
	)
	return shutdown, nil
}
