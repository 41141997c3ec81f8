// Package amortization holds the fixed-installment (Price / French system)
// loan math shared by every negotiation and simulation view.
//
// Rates are monthly fractions (0.015 for 1.5%). Nothing here rounds; use Round2
// when a figure leaves for display.
package amortization

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var ErrInvalidLoanParameters = errors.New("invalid loan parameters")

type InvalidLoanParametersError struct {
	Field string
	Value float64
}

func (e *InvalidLoanParametersError) Error() string {
	return fmt.Sprintf("invalid loan parameters: %s=%v", e.Field, e.Value)
}

func (e *InvalidLoanParametersError) Is(target error) bool { return target == ErrInvalidLoanParameters }

// DefaultFeePercent is the platform's intermediation cut, in percent of principal.
const DefaultFeePercent = 1.5

func validate(principal, rate float64, months int) error {
	switch {
	case principal <= 0 || !finite(principal):
		return &InvalidLoanParametersError{Field: "principal", Value: principal}
	case months < 1:
		return &InvalidLoanParametersError{Field: "term_months", Value: float64(months)}
	case rate < 0 || !finite(rate):
		return &InvalidLoanParametersError{Field: "rate", Value: rate}
	}
	return nil
}

// MonthlyPayment is P*i*(1+i)^n / ((1+i)^n - 1), or exactly P/n when i == 0.
func MonthlyPayment(principal, rate float64, months int) (float64, error) {
	if err := validate(principal, rate, months); err != nil {
		return 0, err
	}
	if rate == 0 {
		return principal / float64(months), nil
	}
	f := math.Pow(1+rate, float64(months))
	if !finite(f) {
		return 0, &InvalidLoanParametersError{Field: "rate", Value: rate}
	}
	p := principal * rate * f / (f - 1)
	if !finite(p) || !finite(p*float64(months)) {
		return 0, &InvalidLoanParametersError{Field: "principal", Value: principal}
	}
	return p, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func TotalAmount(payment float64, months int) float64 { return payment * float64(months) }

func InterestAmount(total, principal float64) float64 { return total - principal }

// IntermediationFee is feePercent of principal, charged to the receiving side.
func IntermediationFee(principal, feePercent float64) float64 {
	return principal * feePercent / 100
}

// EstimatedProfit is the investor's interest income net of the platform fee.
func EstimatedProfit(principal, rate float64, months int, feePercent float64) (float64, error) {
	p, err := MonthlyPayment(principal, rate, months)
	if err != nil {
		return 0, err
	}
	return InterestAmount(TotalAmount(p, months), principal) - IntermediationFee(principal, feePercent), nil
}

// Savings is what the borrower stops paying by moving from oldRate to newRate
// on the same principal and term. Negative when the new rate is higher.
func Savings(principal, oldRate, newRate float64, months int) (float64, error) {
	before, err := MonthlyPayment(principal, oldRate, months)
	if err != nil {
		return 0, err
	}
	after, err := MonthlyPayment(principal, newRate, months)
	if err != nil {
		return 0, err
	}
	return TotalAmount(before, months) - TotalAmount(after, months), nil
}

// Round2 rounds a currency figure half away from zero to cents. Non-finite
// values are returned unchanged.
func Round2(v float64) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
