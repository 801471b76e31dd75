package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMultiply(t *testing.T) {
	res, err := New().Basic(10, 5, OpMultiply)
	require.NoError(t, err)

	got, ok := res.Number()
	require.True(t, ok)
	assert.Equal(t, 50.0, got)
	assert.Contains(t, res.Formula, "10")
	assert.Contains(t, res.Formula, "5")
	assert.Contains(t, res.Formula, "50")
	assert.Equal(t, map[string]any{"type": "basic", "operation": "multiply"}, res.Metadata)
	assert.Equal(t, []string{"Multiplying 10 by 5", "Result: 50"}, res.Steps)
}

func TestBasicOperations(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		op   Operation
		want float64
	}{
		{name: "add", a: 2, b: 3, op: OpAdd, want: 5},
		{name: "add fractions", a: 0.1, b: 0.2, op: OpAdd, want: 0.3},
		{name: "subtract", a: 2, b: 3, op: OpSubtract, want: -1},
		{name: "multiply negative", a: -4, b: 2.5, op: OpMultiply, want: -10},
		{name: "power", a: 2, b: 10, op: OpPower, want: 1024},
		{name: "fractional power", a: 2, b: 0.5, op: OpPower, want: 1.4142},
		{name: "negative exponent", a: 2, b: -2, op: OpPower, want: 0.25},
	}

	eng := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := eng.Basic(tc.a, tc.b, tc.op)
			require.NoError(t, err)
			got, _ := res.Number()
			assert.Equal(t, tc.want, got)
			assert.NotEmpty(t, res.Steps)
		})
	}
}

func TestBasicDivideRoundsToPrecision(t *testing.T) {
	tests := []struct {
		a, b float64
		want float64
	}{
		{a: 1, b: 3, want: 0.3333},
		{a: 2, b: 3, want: 0.6667},
		{a: -7, b: 2, want: -3.5},
		{a: 22, b: 7, want: 3.1429},
		{a: 0, b: 5, want: 0},
	}

	eng := New()
	for _, tc := range tests {
		res, err := eng.Basic(tc.a, tc.b, OpDivide)
		require.NoError(t, err)
		got, _ := res.Number()
		assert.Equal(t, tc.want, got, "%g / %g", tc.a, tc.b)
	}

	res, err := New(WithPrecision(2)).Basic(1, 3, OpDivide)
	require.NoError(t, err)
	got, _ := res.Number()
	assert.Equal(t, 0.33, got)
}

func TestBasicRoundsExactBinaryValueTiesToEven(t *testing.T) {
	res, err := New().Basic(1, 32, OpDivide)
	require.NoError(t, err)
	got, _ := res.Number()
	assert.Equal(t, 0.0312, got)
	assert.Contains(t, res.Steps, "Result: 0.0312")

	res, err = New(WithPrecision(2)).Basic(1, 8, OpDivide)
	require.NoError(t, err)
	got, _ = res.Number()
	assert.Equal(t, 0.12, got)

	res, err = New(WithPrecision(2)).Basic(3, 8, OpDivide)
	require.NoError(t, err)
	got, _ = res.Number()
	assert.Equal(t, 0.38, got)
}

func TestBasicOverflow(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		op   Operation
	}{
		{name: "divide", a: 1e308, b: 1e-10, op: OpDivide},
		{name: "add", a: 1e308, b: 1e308, op: OpAdd},
		{name: "subtract", a: -1e308, b: 1e308, op: OpSubtract},
		{name: "multiply", a: 1e200, b: 1e200, op: OpMultiply},
		{name: "power", a: 10, b: 400, op: OpPower},
	}

	eng := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := eng.Basic(tc.a, tc.b, tc.op)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Contains(t, err.Error(), "overflows")
		})
	}

	_, err := eng.Basic(math.Inf(1), math.Inf(-1), OpAdd)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBasicDivideByZero(t *testing.T) {
	eng := New()
	for _, a := range []float64{0, 1, -5, 1e300} {
		res, err := eng.Basic(a, 0, OpDivide)
		require.Error(t, err)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrDivisionByZero)

		kind, ok := KindOf(err)
		assert.True(t, ok)
		assert.Equal(t, KindDivisionByZero, kind)
	}
}

func TestBasicPowerDomainErrors(t *testing.T) {
	eng := New()

	_, err := eng.Basic(-8, 1.0/3, OpPower)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = eng.Basic(0, -1, OpPower)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = eng.Basic(10, 400, OpPower)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBasicUnknownOperation(t *testing.T) {
	_, err := ParseOperation("modulo")
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = New().Basic(1, 2, Operation(99))
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestParseOperation(t *testing.T) {
	for _, op := range Operations() {
		got, err := ParseOperation(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}

	got, err := ParseOperation("  Divide ")
	require.NoError(t, err)
	assert.Equal(t, OpDivide, got)
}

func TestBasicIsIdempotent(t *testing.T) {
	eng := New()
	first, err := eng.Basic(22, 7, OpDivide)
	require.NoError(t, err)
	second, err := eng.Basic(22, 7, OpDivide)
	require.NoError(t, err)

	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, first.Metadata, second.Metadata)
}
