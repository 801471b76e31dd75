package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"calc-engine/internal/engine"
	"calc-engine/internal/handlers"
	"calc-engine/internal/observability"
)

const (
	maxBodyBytes = 1 << 20

	kindCanceled = "CANCELED"

	unknownLabel = "unknown"
	summaryLabel = "summary"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves calculations from one shared engine.
type Handler struct {
	engine *engine.Engine
}

func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{engine: eng}
}

// label names a calculation on spans, metrics and logs. Both parts come
// from closed sets so user input never becomes a metric attribute.
type label struct {
	domain    string
	operation string
}

func (l label) String() string {
	return l.domain + "." + l.operation
}

// Calculate handles POST /calculate with a structured request of any domain.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	l := label{domain: "dispatch", operation: "calculate"}
	h.handle(w, r, &l, &raw, func() (*engine.Result, error) {
		l = labelFor(raw)
		return h.engine.DispatchJSON(raw)
	})
}

// Binary handles POST /calculator/{operation}.
func (h *Handler) Binary(w http.ResponseWriter, r *http.Request) {
	op, parseErr := engine.ParseOperation(chi.URLParam(r, "operation"))
	l := label{domain: engine.DomainBasic, operation: unknownLabel}
	if parseErr == nil {
		l.operation = op.String()
	}

	var req BinaryRequest
	h.handle(w, r, &l, &req, func() (*engine.Result, error) {
		if parseErr != nil {
			return nil, parseErr
		}
		return h.engine.Basic(req.A, req.B, op)
	})
}

// Scientific handles POST /calculator/scientific/{function}.
func (h *Handler) Scientific(w http.ResponseWriter, r *http.Request) {
	fn, parseErr := engine.ParseFunction(chi.URLParam(r, "function"))
	l := label{domain: engine.DomainScientific, operation: unknownLabel}
	if parseErr == nil {
		l.operation = fn.String()
	}

	var req ScientificRequest
	h.handle(w, r, &l, &req, func() (*engine.Result, error) {
		if parseErr != nil {
			return nil, parseErr
		}
		return h.engine.Scientific(req.Value, fn)
	})
}

// CompoundInterest handles POST /calculator/financial/compound.
func (h *Handler) CompoundInterest(w http.ResponseWriter, r *http.Request) {
	l := label{domain: engine.DomainFinancial, operation: engine.CalcCompoundInterest}

	var req CompoundRequest
	h.handle(w, r, &l, &req, func() (*engine.Result, error) {
		n := engine.DefaultCompoundsPerYear
		if req.CompoundsPerYear != nil {
			n = int(*req.CompoundsPerYear)
		}
		return h.engine.CompoundInterest(req.Principal, req.Rate, req.Time, n)
	})
}

// LoanPayment handles POST /calculator/financial/loan.
func (h *Handler) LoanPayment(w http.ResponseWriter, r *http.Request) {
	l := label{domain: engine.DomainFinancial, operation: engine.CalcLoanPayment}

	var req LoanRequest
	h.handle(w, r, &l, &req, func() (*engine.Result, error) {
		return h.engine.LoanPayment(req.Principal, req.Rate, req.Years)
	})
}

// Statistics handles POST /calculator/statistics.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	l := label{domain: engine.DomainStatistical, operation: summaryLabel}

	var req StatisticsRequest
	h.handle(w, r, &l, &req, func() (*engine.Result, error) {
		return h.engine.Statistics(req.Data)
	})
}

// handle is the shared implementation for every single-calculation endpoint:
// it opens a child span, decodes the body into req, times compute, records
// metrics and a trace-correlated log, and writes the result record. compute
// may refine *l once the body is known.
func (h *Handler) handle(w http.ResponseWriter, r *http.Request, l *label, req any, compute func() (*engine.Result, error)) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator."+l.String(),
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	if err := decodeBody(w, r, req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, l.operation,
			string(engine.KindInvalidRequest), "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	start := time.Now()
	res, err := compute()
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	span.SetAttributes(
		attribute.String("calculator.domain", l.domain),
		attribute.String("calculator.operation", l.operation),
	)

	if err != nil {
		failCalculation(ctx, span, logger, l.operation, err, w)
		return
	}

	recordSuccess(ctx, span, *l, res, elapsed)

	logger.Info("calculation completed",
		zap.String("domain", l.domain),
		zap.String("operation", l.operation),
		zap.String("formula", res.Formula),
		zap.Any("result", res.Value),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, res)
}

func recordSuccess(ctx context.Context, span trace.Span, l label, res *engine.Result, elapsed float64) {
	attrs := opAttrs(l)
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)

	event := []attribute.KeyValue{
		attribute.Float64("duration_ms", elapsed),
		attribute.Int("steps", len(res.Steps)),
	}
	if v, ok := res.Number(); ok {
		resultGauge.Record(ctx, v, attrs)
		span.SetAttributes(attribute.Float64("calculator.result", v))
		event = append(event, attribute.Float64("result", v))
	}
	span.AddEvent("computation.complete", trace.WithAttributes(event...))
	span.SetStatus(codes.Ok, "")
}

// failCalculation answers 400 with the engine's kind, or 500 when err
// carries none.
func failCalculation(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, err error, w http.ResponseWriter) {
	kind, status := errorKind(err)
	observability.RecordError(ctx, span, logger, errorCounter, opName, kind, err.Error(), err, status, w)
}

func errorKind(err error) (string, int) {
	if kind, ok := engine.KindOf(err); ok {
		return string(kind), http.StatusBadRequest
	}
	return handlers.KindInternal, http.StatusInternalServerError
}

// decodeBody reads exactly one JSON value of at most maxBodyBytes into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must hold a single JSON value")
	}
	return nil
}

// labelFor names a /calculate request without trusting its free-form
// fields: anything unrecognised is reported as "unknown".
func labelFor(raw []byte) label {
	var peek struct {
		Type        string `json:"type"`
		Operation   string `json:"operation"`
		Function    string `json:"function"`
		Calculation string `json:"calculation"`
	}
	// Mistyped fields are left empty; the engine reports the real error.
	_ = json.Unmarshal(raw, &peek)

	l := label{domain: unknownLabel, operation: unknownLabel}
	switch peek.Type {
	case engine.DomainBasic:
		l.domain = peek.Type
		if op, err := engine.ParseOperation(peek.Operation); err == nil {
			l.operation = op.String()
		}
	case engine.DomainScientific:
		l.domain = peek.Type
		if fn, err := engine.ParseFunction(peek.Function); err == nil {
			l.operation = fn.String()
		}
	case engine.DomainFinancial:
		l.domain = peek.Type
		if peek.Calculation == engine.CalcCompoundInterest || peek.Calculation == engine.CalcLoanPayment {
			l.operation = peek.Calculation
		}
	case engine.DomainStatistical:
		l.domain = peek.Type
		l.operation = summaryLabel
	}
	return l
}

func stepSpanName(i int, op string) string {
	return fmt.Sprintf("calculator.chain.step.%d.%s", i, op)
}
