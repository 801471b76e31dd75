package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Function is a single-argument scientific function. Trigonometric
// functions take their argument in radians.
type Function int

// Functions are numbered from one so the zero Function is invalid.
const (
	FnSin       Function = iota + 1 // sine
	FnCos                           // cosine
	FnTan                           // tangent
	FnLog                           // base-10 logarithm, value > 0
	FnLn                            // natural logarithm, value > 0
	FnSqrt                          // square root, value >= 0
	FnFactorial                     // n!, non-negative integers
)

const (
	// maxIntegerFactorial is the largest n whose factorial fits in an int64.
	maxIntegerFactorial = 20
	// maxFactorial is the largest n whose factorial is a finite float64.
	maxFactorial = 170
)

var functionNames = map[Function]struct{ name, label string }{
	FnSin:       {"sin", "sine"},
	FnCos:       {"cos", "cosine"},
	FnTan:       {"tan", "tangent"},
	FnLog:       {"log", "log base 10"},
	FnLn:        {"ln", "natural log"},
	FnSqrt:      {"sqrt", "square root"},
	FnFactorial: {"factorial", "factorial"},
}

// Functions lists every supported function in declaration order.
func Functions() []Function {
	return []Function{FnSin, FnCos, FnTan, FnLog, FnLn, FnSqrt, FnFactorial}
}

func (fn Function) String() string {
	if f, ok := functionNames[fn]; ok {
		return f.name
	}
	return fmt.Sprintf("Function(%d)", int(fn))
}

// ParseFunction resolves a function name such as "sqrt".
func ParseFunction(name string) (Function, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, fn := range Functions() {
		if functionNames[fn].name == key {
			return fn, nil
		}
	}
	return 0, newError(KindInvalidOperation, DomainScientific, "unknown function %q", name)
}

// Scientific evaluates fn at value. Real results are rounded to the
// engine precision; factorial results are exact integers.
func (e *Engine) Scientific(value float64, fn Function) (*Result, error) {
	op := fn.String()

	var out Value
	var raw string

	switch fn {
	case FnSin, FnCos, FnTan:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, newError(KindInvalidArgument, op, "%s requires a finite argument", op)
		}
		var r float64
		switch fn {
		case FnSin:
			r = math.Sin(value)
		case FnCos:
			r = math.Cos(value)
		default:
			r = math.Tan(value)
		}
		raw = num(r)
		out = Number(round(r, e.precision))
	case FnLog, FnLn:
		if !(value > 0) {
			return nil, newError(KindInvalidArgument, op, "%s is undefined for %s", op, num(value))
		}
		r := math.Log(value)
		if fn == FnLog {
			r = math.Log10(value)
		}
		raw = num(r)
		out = Number(round(r, e.precision))
	case FnSqrt:
		if value < 0 || math.IsNaN(value) {
			return nil, newError(KindInvalidArgument, op, "square root of negative number %s", num(value))
		}
		r := math.Sqrt(value)
		raw = num(r)
		out = Number(round(r, e.precision))
	case FnFactorial:
		n, err := factorial(value)
		if err != nil {
			return nil, err
		}
		raw = n.String()
		out = n
	default:
		return nil, newError(KindInvalidOperation, DomainScientific, "unknown function %s", fn)
	}

	if n, ok := out.(Number); ok && math.IsInf(float64(n), 0) {
		return nil, newError(KindInvalidArgument, op, "%s(%s) overflows", op, num(value))
	}

	label := functionNames[fn].label
	steps := []string{
		fmt.Sprintf("Calculating %s of %s", label, num(value)),
		fmt.Sprintf("Using mathematical function: %s", op),
		fmt.Sprintf("Result: %s", raw),
	}

	return e.finish(&Result{
		Value:   out,
		Formula: fmt.Sprintf("%s(%s) = %s", op, num(value), raw),
		Steps:   steps,
		Metadata: map[string]any{
			"type":     DomainScientific,
			"function": op,
		},
	}, op), nil
}

// factorial is exact: an Integer up to 20!, a BigInteger above.
func factorial(value float64) (exactInteger, error) {
	if value < 0 || math.IsNaN(value) || math.Trunc(value) != value {
		return nil, newError(KindInvalidArgument, "factorial", "factorial requires a non-negative integer, got %s", num(value))
	}
	if value > maxFactorial {
		return nil, newError(KindInvalidArgument, "factorial", "factorial of %s overflows, the largest supported is %d!", num(value), maxFactorial)
	}

	limit := int64(value)
	if limit <= maxIntegerFactorial {
		n := int64(1)
		for i := int64(2); i <= limit; i++ {
			n *= i
		}
		return Integer(n), nil
	}

	n := decimal.NewFromInt(1)
	for i := int64(2); i <= limit; i++ {
		n = n.Mul(decimal.NewFromInt(i))
	}
	return BigInteger{n}, nil
}
