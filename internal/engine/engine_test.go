package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	eng := New()
	assert.Equal(t, DefaultPrecision, eng.Precision())
	assert.Equal(t, RateAuto, eng.RateUnit())
}

func TestWithPrecisionClamps(t *testing.T) {
	assert.Equal(t, 0, New(WithPrecision(-3)).Precision())
	assert.Equal(t, MaxPrecision, New(WithPrecision(99)).Precision())
	assert.Equal(t, 6, New(WithPrecision(6)).Precision())
}

func TestParseRateUnit(t *testing.T) {
	for in, want := range map[string]RateUnit{
		"":        RateAuto,
		"auto":    RateAuto,
		"Percent": RatePercent,
		"decimal": RateDecimal,
	} {
		got, err := ParseRateUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRateUnit("basis-points")
	assert.Error(t, err)
}

func TestHistoryRecordsSuccessfulCalls(t *testing.T) {
	h := NewHistory(0)
	eng := New(WithHistory(h))

	_, err := eng.Basic(1, 2, OpAdd)
	require.NoError(t, err)
	_, err = eng.Basic(1, 0, OpDivide)
	require.Error(t, err)
	_, err = eng.LoanPayment(1000, 5, 1)
	require.NoError(t, err)

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "basic", entries[0].Domain)
	assert.Equal(t, "add", entries[0].Operation)
	assert.Equal(t, "financial", entries[1].Domain)
	assert.Equal(t, "loan_payment", entries[1].Operation)
}

func TestHistoryKeepsMostRecent(t *testing.T) {
	h := NewHistory(2)
	h.now = func() time.Time { return time.Unix(0, 0) }
	eng := New(WithHistory(h))

	for _, op := range []Operation{OpAdd, OpSubtract, OpMultiply} {
		_, err := eng.Basic(4, 2, op)
		require.NoError(t, err)
	}

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "subtract", entries[0].Operation)
	assert.Equal(t, "multiply", entries[1].Operation)
	assert.Equal(t, time.Unix(0, 0), entries[1].At)
}

func TestEngineConcurrentUse(t *testing.T) {
	h := NewHistory(0)
	eng := New(WithHistory(h))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := eng.Basic(float64(i), 2, OpMultiply)
			if assert.NoError(t, err) {
				got, _ := res.Number()
				assert.Equal(t, float64(i*2), got)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, h.Len())
}

func TestErrorMessageIncludesOperation(t *testing.T) {
	_, err := New().Basic(3, 0, OpDivide)
	require.Error(t, err)
	assert.Equal(t, "divide: cannot divide 3 by zero", err.Error())
}
