package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// round rounds the exact binary value of v to places decimals, ties to
// even: 1/32 -> 0.0312 and 2.675 -> 2.67 at two places.
func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if f == 0 {
		return 0 // drop negative zero
	}
	return f
}

// num renders v without trailing zeros: 10, 2.5, 0.3333333333333333.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fixed renders v with exactly places fractional digits, agreeing with
// round on every tie.
func fixed(v float64, places int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return num(v)
	}
	return decimal.NewFromFloat(round(v, places)).StringFixed(int32(places))
}

// money renders an already rounded amount as $1,234.56.
func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// percent renders a decimal fraction as a percentage: 0.05 -> 5.0000%.
func percent(v float64, places int) string {
	return fmt.Sprintf("%s%%", fixed(v*100, places))
}
