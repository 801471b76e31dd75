package observability

import (
	"context"
	"errors"
	"fmt"
)

// Setup starts trace, metric and log export for the named service and
// returns one function that flushes and stops all three.
func Setup(ctx context.Context, name string) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	steps := []struct {
		name string
		init func(context.Context, string) (func(context.Context) error, error)
	}{
		{"tracing", InitTracing},
		{"metrics", InitMetrics},
		{"logging", InitLogging},
	}

	for _, step := range steps {
		stop, err := step.init(ctx, name)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("init %s: %w", step.name, err), shutdown(ctx))
		}
		shutdowns = append(shutdowns, stop)
	}

	return shutdown, nil
}
