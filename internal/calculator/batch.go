package calculator

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"calc-engine/internal/engine"
	"calc-engine/internal/handlers"
	"calc-engine/internal/observability"
)

const maxBatchRequests = 100

// Batch handles POST /calculate/batch. Requests are evaluated concurrently
// and independently; a failing request becomes an error item and does not
// affect its neighbours.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.batch",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req BatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "batch",
			string(engine.KindInvalidRequest), "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Requests) == 0 || len(req.Requests) > maxBatchRequests {
		err := fmt.Errorf("batch needs between 1 and %d requests, got %d", maxBatchRequests, len(req.Requests))
		observability.RecordError(ctx, span, logger, errorCounter, "batch",
			string(engine.KindInvalidRequest), err.Error(), err, http.StatusBadRequest, w)
		return
	}

	batchSize.Record(ctx, int64(len(req.Requests)))
	span.SetAttributes(attribute.Int("batch.size", len(req.Requests)))

	items := make([]BatchItem, len(req.Requests))
	failures := make([]bool, len(req.Requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, raw := range req.Requests {
		g.Go(func() error {
			// Items still queued when the client goes away are skipped.
			if err := gctx.Err(); err != nil {
				return err
			}
			l := labelFor(raw)

			start := time.Now()
			res, err := h.engine.DispatchJSON(raw)
			elapsed := float64(time.Since(start).Microseconds()) / 1000.0

			if err != nil {
				kind, _ := errorKind(err)
				errorCounter.Add(ctx, 1, metric.WithAttributes(
					attribute.String("operation", l.operation),
					attribute.String("kind", kind),
				))
				items[i] = BatchItem{Error: err.Error(), Kind: kind}
				failures[i] = true
				return nil
			}

			attrs := opAttrs(l)
			opsCounter.Add(ctx, 1, attrs)
			opsHistogram.Record(ctx, elapsed, attrs)
			items[i] = BatchItem{Result: res}
			return nil
		})
	}
	// Only cancellation fails the group; calculation errors travel inside
	// the items.
	if err := g.Wait(); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "batch",
			kindCanceled, "batch canceled", err, http.StatusServiceUnavailable, w)
		return
	}

	failed := 0
	for _, f := range failures {
		if f {
			failed++
		}
	}

	span.AddEvent("batch.complete", trace.WithAttributes(
		attribute.Int("succeeded", len(items)-failed),
		attribute.Int("failed", failed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("batch completed",
		zap.Int("requests", len(items)),
		zap.Int("failed", failed),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, BatchResponse{Results: items})
}
