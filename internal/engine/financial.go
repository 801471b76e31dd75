package engine

import (
	"fmt"
	"math"
)

// Financial calculation names, as used by structured requests.
const (
	CalcCompoundInterest = "compound_interest"
	CalcLoanPayment      = "loan_payment"

	// DefaultCompoundsPerYear is monthly compounding.
	DefaultCompoundsPerYear = 12
)

// CompoundInterest computes A = P(1 + r/n)^(nt) and the interest earned.
// How rate is read depends on the engine RateUnit. Amounts are rounded to
// cents.
func (e *Engine) CompoundInterest(principal, rate, years float64, compoundsPerYear int) (*Result, error) {
	const op = CalcCompoundInterest

	if e.strict {
		if err := checkPositive(op, "principal", principal); err != nil {
			return nil, err
		}
		if err := checkPositive(op, "time", years); err != nil {
			return nil, err
		}
		if rate < 0 {
			return nil, newError(KindInvalidArgument, op, "rate must not be negative, got %s", num(rate))
		}
		if compoundsPerYear <= 0 {
			return nil, newError(KindInvalidArgument, op, "compounds per year must be positive, got %d", compoundsPerYear)
		}
	}
	if compoundsPerYear == 0 {
		return nil, newError(KindDivisionByZero, op, "compounds per year must not be zero")
	}

	r := e.normalizeRate(rate)
	n := float64(compoundsPerYear)

	amount := principal * math.Pow(1+r/n, n*years)
	interest := amount - principal
	effective := math.Pow(1+r/n, n) - 1
	if err := checkFinite(op, amount, effective); err != nil {
		return nil, err
	}

	amount = round(amount, financialPrecision)
	interest = round(interest, financialPrecision)

	steps := []string{
		fmt.Sprintf("Principal (P): %s", money(round(principal, financialPrecision))),
		fmt.Sprintf("Annual Rate (r): %s", percent(r, 4)),
		fmt.Sprintf("Time (t): %s years", num(years)),
		fmt.Sprintf("Compounds per year (n): %d", compoundsPerYear),
		fmt.Sprintf("Calculation: %s × (1 + %s/%d)^(%d×%s)", num(principal), num(r), compoundsPerYear, compoundsPerYear, num(years)),
		fmt.Sprintf("Final Amount: %s", money(amount)),
		fmt.Sprintf("Interest Earned: %s", money(interest)),
	}

	return e.finish(&Result{
		Value: Fields{
			{Name: "amount", Value: Number(amount)},
			{Name: "interest", Value: Number(interest)},
		},
		Formula: "A = P(1 + r/n)^(nt)",
		Steps:   steps,
		Metadata: map[string]any{
			"type":           DomainFinancial,
			"calculation":    CalcCompoundInterest,
			"effective_rate": effective,
		},
	}, op), nil
}

// LoanPayment computes the fixed monthly payment that retires principal
// over years at annualRatePercent, using M = P[r(1+r)^n]/[(1+r)^n-1]. The
// rate is always a percentage.
func (e *Engine) LoanPayment(principal, annualRatePercent, years float64) (*Result, error) {
	const op = CalcLoanPayment

	if e.strict {
		if err := checkPositive(op, "principal", principal); err != nil {
			return nil, err
		}
		if err := checkPositive(op, "years", years); err != nil {
			return nil, err
		}
		if annualRatePercent < 0 {
			return nil, newError(KindInvalidArgument, op, "rate must not be negative, got %s", num(annualRatePercent))
		}
	}

	monthlyRate := annualRatePercent / 100 / 12
	payments := years * 12

	// A rate too small to move (1+r)^n off 1 amortizes like a zero rate.
	growth := math.Pow(1+monthlyRate, payments)

	var payment float64
	if monthlyRate == 0 || growth == 1 {
		if payments == 0 {
			return nil, newError(KindDivisionByZero, op, "loan term of zero months")
		}
		payment = principal / payments
	} else {
		payment = principal * (monthlyRate * growth) / (growth - 1)
	}

	totalPaid := payment * payments
	totalInterest := totalPaid - principal
	if err := checkFinite(op, payment, totalPaid); err != nil {
		return nil, err
	}

	payment = round(payment, financialPrecision)
	totalPaid = round(totalPaid, financialPrecision)
	totalInterest = round(totalInterest, financialPrecision)

	steps := []string{
		fmt.Sprintf("Loan Amount: %s", money(round(principal, financialPrecision))),
		fmt.Sprintf("Annual Rate: %s%%", num(annualRatePercent)),
		fmt.Sprintf("Monthly Rate (r): %s", percent(monthlyRate, 6)),
		fmt.Sprintf("Loan Term: %s years (%s months)", num(years), num(payments)),
		fmt.Sprintf("Monthly Payment: %s", money(payment)),
		fmt.Sprintf("Total Amount Paid: %s", money(totalPaid)),
		fmt.Sprintf("Total Interest: %s", money(totalInterest)),
	}

	return e.finish(&Result{
		Value: Fields{
			{Name: "monthly_payment", Value: Number(payment)},
			{Name: "total_paid", Value: Number(totalPaid)},
			{Name: "total_interest", Value: Number(totalInterest)},
		},
		Formula: "M = P[r(1+r)^n]/[(1+r)^n-1]",
		Steps:   steps,
		Metadata: map[string]any{
			"type":        DomainFinancial,
			"calculation": CalcLoanPayment,
		},
	}, op), nil
}

func (e *Engine) normalizeRate(rate float64) float64 {
	switch e.rateUnit {
	case RatePercent:
		return rate / 100
	case RateDecimal:
		return rate
	}
	if rate > 1 {
		return rate / 100
	}
	return rate
}

func checkPositive(op, name string, v float64) error {
	if !(v > 0) {
		return newError(KindInvalidArgument, op, "%s must be positive, got %s", name, num(v))
	}
	return nil
}

func checkFinite(op string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return newError(KindInvalidArgument, op, "inputs produce a non-finite result")
		}
	}
	return nil
}
