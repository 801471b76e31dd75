package engine

import (
	"fmt"
	"math"
	"strings"
)

// Operation is a binary arithmetic operation.
type Operation int

// Operations are numbered from one so the zero Operation is invalid.
const (
	OpAdd      Operation = iota + 1 // a + b
	OpSubtract                      // a - b
	OpMultiply                      // a × b
	OpDivide                        // a ÷ b, b != 0
	OpPower                         // a ^ b, real results only
)

var operationNames = map[Operation]string{
	OpAdd:      "add",
	OpSubtract: "subtract",
	OpMultiply: "multiply",
	OpDivide:   "divide",
	OpPower:    "power",
}

// Operations lists every supported operation in declaration order.
func Operations() []Operation {
	return []Operation{OpAdd, OpSubtract, OpMultiply, OpDivide, OpPower}
}

func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(op))
}

// ParseOperation resolves an operation name such as "divide".
func ParseOperation(name string) (Operation, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, op := range Operations() {
		if operationNames[op] == key {
			return op, nil
		}
	}
	return 0, newError(KindInvalidOperation, DomainBasic, "unknown operation %q", name)
}

// Basic applies op to a and b and rounds the outcome to the engine
// precision.
func (e *Engine) Basic(a, b float64, op Operation) (*Result, error) {
	var (
		result  float64
		formula string
		steps   []string
	)

	switch op {
	case OpAdd:
		result = a + b
		formula = fmt.Sprintf("%s + %s = %s", num(a), num(b), num(result))
		steps = []string{fmt.Sprintf("Adding %s and %s", num(a), num(b))}
	case OpSubtract:
		result = a - b
		formula = fmt.Sprintf("%s - %s = %s", num(a), num(b), num(result))
		steps = []string{fmt.Sprintf("Subtracting %s from %s", num(b), num(a))}
	case OpMultiply:
		result = a * b
		formula = fmt.Sprintf("%s × %s = %s", num(a), num(b), num(result))
		steps = []string{fmt.Sprintf("Multiplying %s by %s", num(a), num(b))}
	case OpDivide:
		if b == 0 {
			return nil, newError(KindDivisionByZero, op.String(), "cannot divide %s by zero", num(a))
		}
		result = a / b
		formula = fmt.Sprintf("%s ÷ %s = %s", num(a), num(b), num(result))
		steps = []string{fmt.Sprintf("Dividing %s by %s", num(a), num(b))}
	case OpPower:
		if a == 0 && b < 0 {
			return nil, newError(KindDivisionByZero, op.String(), "0 cannot be raised to the negative power %s", num(b))
		}
		result = math.Pow(a, b)
		if math.IsNaN(result) {
			return nil, newError(KindInvalidArgument, op.String(), "%s^%s is not a real number", num(a), num(b))
		}
		formula = fmt.Sprintf("%s^%s = %s", num(a), num(b), num(result))
		steps = []string{fmt.Sprintf("Raising %s to the power of %s", num(a), num(b))}
	default:
		return nil, newError(KindInvalidOperation, DomainBasic, "unknown operation %s", op)
	}

	if math.IsNaN(result) {
		return nil, newError(KindInvalidArgument, op.String(), "%s of %s and %s is not a number", op, num(a), num(b))
	}
	if math.IsInf(result, 0) {
		return nil, newError(KindInvalidArgument, op.String(), "%s of %s and %s overflows", op, num(a), num(b))
	}

	rounded := round(result, e.precision)
	steps = append(steps, fmt.Sprintf("Result: %s", num(rounded)))

	return e.finish(&Result{
		Value:   Number(rounded),
		Formula: formula,
		Steps:   steps,
		Metadata: map[string]any{
			"type":      DomainBasic,
			"operation": op.String(),
		},
	}, op.String()), nil
}
