package calculator

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"calc-engine/internal/engine"
	"calc-engine/internal/handlers"
	"calc-engine/internal/observability"
)

const maxChainSteps = 100

// Chain handles POST /calculator/chain. It folds the steps over a running
// total with the basic operations, one child span per step, so the running
// total is rounded to the engine precision after every step.
func (h *Handler) Chain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// Parent span for the entire chain
	ctx, span := tracer.Start(ctx, "calculator.chain",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req ChainRequest
	if err := decodeBody(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chain",
			string(engine.KindInvalidRequest), "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Steps) == 0 || len(req.Steps) > maxChainSteps {
		err := fmt.Errorf("chain needs between 1 and %d steps, got %d", maxChainSteps, len(req.Steps))
		observability.RecordError(ctx, span, logger, errorCounter, "chain",
			string(engine.KindInvalidRequest), err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.Float64("chain.initial", req.Initial),
		attribute.Int("chain.steps_count", len(req.Steps)),
	)

	logger.Info("starting chained calculation",
		zap.Float64("initial", req.Initial),
		zap.Int("steps", len(req.Steps)),
		zap.String("request_id", requestID),
	)

	running := req.Initial
	results := make([]ChainResult, 0, len(req.Steps))

	for i, step := range req.Steps {
		op, err := engine.ParseOperation(step.Op)
		opName := unknownLabel
		if err == nil {
			opName = op.String()
		}

		_, stepSpan := tracer.Start(ctx, stepSpanName(i, opName),
			trace.WithAttributes(
				attribute.Int("chain.step.index", i),
				attribute.String("chain.step.operation", opName),
				attribute.Float64("chain.step.input", running),
				attribute.Float64("chain.step.value", step.Value),
			),
		)

		stepStart := time.Now()
		var res *engine.Result
		if err == nil {
			res, err = h.engine.Basic(running, step.Value, op)
		}
		stepElapsed := float64(time.Since(stepStart).Microseconds()) / 1000.0

		if err != nil {
			err = fmt.Errorf("step %d: %w", i, err)

			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			stepSpan.End()

			span.SetAttributes(attribute.Int("chain.failed_step", i))
			failCalculation(ctx, span, logger, opName, err, w)
			return
		}

		prev := running
		running, _ = res.Number()

		attrs := opAttrs(label{domain: engine.DomainBasic, operation: opName})
		opsCounter.Add(ctx, 1, attrs)
		opsHistogram.Record(ctx, stepElapsed, attrs)

		stepSpan.AddEvent("step.complete", trace.WithAttributes(
			attribute.Float64("input", prev),
			attribute.Float64("result", running),
		))
		stepSpan.SetAttributes(attribute.Float64("chain.step.result", running))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		logger.Debug("chain step completed",
			zap.Int("step", i),
			zap.String("operation", opName),
			zap.Float64("input", prev),
			zap.Float64("value", step.Value),
			zap.Float64("result", running),
			zap.Float64("duration_ms", stepElapsed),
		)

		results = append(results, ChainResult{
			Op:      opName,
			Value:   step.Value,
			Result:  running,
			Formula: res.Formula,
		})
	}

	resultGauge.Record(ctx, running, metric.WithAttributes(
		attribute.String("domain", engine.DomainBasic),
		attribute.String("operation", "chain"),
	))

	span.AddEvent("chain.complete", trace.WithAttributes(
		attribute.Float64("final_result", running),
		attribute.Int("total_steps", len(req.Steps)),
	))
	span.SetAttributes(attribute.Float64("chain.result", running))
	span.SetStatus(codes.Ok, "")

	logger.Info("chained calculation completed",
		zap.Float64("initial", req.Initial),
		zap.Float64("result", running),
		zap.Int("steps", len(req.Steps)),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ChainResponse{
		Initial: req.Initial,
		Steps:   results,
		Result:  running,
	})
}
