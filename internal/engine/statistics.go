package engine

import (
	"fmt"
	"math"
	"slices"
)

// Statistics summarises data with population statistics. Every field but
// count is rounded to the engine precision. data is not modified.
func (e *Engine) Statistics(data []float64) (*Result, error) {
	const op = "summary"

	n := len(data)
	if n == 0 {
		return nil, newError(KindEmptyDataset, op, "data list cannot be empty")
	}
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, newError(KindInvalidArgument, op, "data point %d is not a finite number", i)
		}
	}

	var sum float64
	lo, hi := data[0], data[0]
	for _, v := range data {
		sum += v
		lo = min(lo, v)
		hi = max(hi, v)
	}
	mean := sum / float64(n)

	var squares float64
	for _, v := range data {
		d := v - mean
		squares += d * d
	}
	variance := squares / float64(n)
	stdDev := math.Sqrt(variance)
	if err := checkFinite(op, mean, variance, stdDev, hi-lo); err != nil {
		return nil, err
	}

	p := e.precision
	med := median(data)
	mode, hasMode := modeOf(data)

	// Taken from the rounded extremes so range == max - min holds on the
	// returned values.
	lo, hi = round(lo, p), round(hi, p)
	spread := round(hi-lo, p)

	var modeValue Value
	modeStep := "Mode: No unique mode"
	if hasMode {
		modeValue = Number(round(mode, p))
		modeStep = fmt.Sprintf("Mode: %s", fixed(mode, p))
	}

	steps := []string{
		fmt.Sprintf("Data points: %d", n),
		fmt.Sprintf("Mean: %s", fixed(mean, p)),
		fmt.Sprintf("Median: %s", fixed(med, p)),
		modeStep,
		fmt.Sprintf("Standard Deviation: %s", fixed(stdDev, p)),
		fmt.Sprintf("Variance: %s", fixed(variance, p)),
		fmt.Sprintf("Range: %s", fixed(spread, p)),
		fmt.Sprintf("Min: %s", fixed(lo, p)),
		fmt.Sprintf("Max: %s", fixed(hi, p)),
	}

	return e.finish(&Result{
		Value: Fields{
			{Name: "mean", Value: Number(round(mean, p))},
			{Name: "median", Value: Number(round(med, p))},
			{Name: "mode", Value: modeValue},
			{Name: "std_dev", Value: Number(round(stdDev, p))},
			{Name: "variance", Value: Number(round(variance, p))},
			{Name: "range", Value: Number(round(spread, p))},
			{Name: "min", Value: Number(round(lo, p))},
			{Name: "max", Value: Number(round(hi, p))},
			{Name: "count", Value: Integer(n)},
		},
		Formula: "Statistical Analysis",
		Steps:   steps,
		Metadata: map[string]any{
			"type":        DomainStatistical,
			"data_points": n,
		},
	}, op), nil
}

// median works on a sorted copy and averages the middle pair for even
// lengths.
func median(data []float64) float64 {
	sorted := slices.Clone(data)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// modeOf returns the most frequent value; among values sharing the top
// count, the one seen first in data wins. It reports false when every value
// occurs once.
func modeOf(data []float64) (float64, bool) {
	counts := make(map[float64]int, len(data))
	best := 0
	for _, v := range data {
		counts[v]++
		best = max(best, counts[v])
	}
	if best < 2 {
		return 0, false
	}
	for _, v := range data {
		if counts[v] == best {
			return v, true
		}
	}
	return 0, false
}
