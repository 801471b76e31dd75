// Package engine evaluates a closed set of named formulas across four
// domains (basic arithmetic, scientific functions, financial formulas and
// descriptive statistics) and returns rounded results together with a
// step-by-step trace.
//
// An *Engine is immutable once built and safe for concurrent use.
package engine

import (
	"fmt"
	"strings"
)

const (
	// DefaultPrecision is the number of fractional digits kept in generic
	// results.
	DefaultPrecision = 4

	// MaxPrecision bounds the precision accepted by WithPrecision.
	MaxPrecision = 15

	// financialPrecision follows currency convention and does not depend on
	// the engine precision.
	financialPrecision = 2
)

// Domain tags, as used in metadata and structured calls.
const (
	DomainBasic       = "basic"
	DomainScientific  = "scientific"
	DomainFinancial   = "financial"
	DomainStatistical = "statistical"
)

// RateUnit tells CompoundInterest how to read its rate argument.
type RateUnit int

const (
	// RateAuto treats a rate above 1 as a percentage and anything else as a
	// decimal fraction.
	RateAuto RateUnit = iota
	// RatePercent always divides the rate by 100.
	RatePercent
	// RateDecimal uses the rate as given.
	RateDecimal
)

func (u RateUnit) String() string {
	switch u {
	case RateAuto:
		return "auto"
	case RatePercent:
		return "percent"
	case RateDecimal:
		return "decimal"
	}
	return fmt.Sprintf("RateUnit(%d)", int(u))
}

// ParseRateUnit maps "auto", "percent" or "decimal" to a RateUnit.
func ParseRateUnit(s string) (RateUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return RateAuto, nil
	case "percent", "percentage":
		return RatePercent, nil
	case "decimal":
		return RateDecimal, nil
	}
	return RateAuto, fmt.Errorf("unknown rate unit %q", s)
}

// Engine holds the configuration shared by every entry point.
type Engine struct {
	precision int
	rateUnit  RateUnit
	strict    bool
	history   *History
}

// Option configures an Engine.
type Option func(*Engine)

// WithPrecision sets the fractional digits of generic results. Values
// are clamped to [0, MaxPrecision].
func WithPrecision(digits int) Option {
	return func(e *Engine) {
		switch {
		case digits < 0:
			e.precision = 0
		case digits > MaxPrecision:
			e.precision = MaxPrecision
		default:
			e.precision = digits
		}
	}
}

// WithRateUnit selects how compound interest rates are interpreted.
func WithRateUnit(u RateUnit) Option {
	return func(e *Engine) {
		e.rateUnit = u
	}
}

// WithStrictFinancialInputs rejects non-positive principals and terms and
// negative rates instead of letting them flow through the formulas.
func WithStrictFinancialInputs() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// WithHistory records every successful calculation in h.
func WithHistory(h *History) Option {
	return func(e *Engine) {
		e.history = h
	}
}

// New returns an Engine using DefaultPrecision unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		precision: DefaultPrecision,
		rateUnit:  RateAuto,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Precision returns the fractional digits kept in generic results.
func (e *Engine) Precision() int {
	return e.precision
}

// RateUnit returns how compound interest rates are interpreted.
func (e *Engine) RateUnit() RateUnit {
	return e.rateUnit
}

func (e *Engine) finish(res *Result, operation string) *Result {
	if e.history != nil {
		domain, _ := res.Metadata["type"].(string)
		e.history.Append(domain, operation, res)
	}
	return res
}
