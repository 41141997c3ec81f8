package simulation

import (
	"math"
	"testing"

	"p2plend-backend/internal/domain/amortization"
	"p2plend-backend/internal/domain/rate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestSimulate_NumericRate(t *testing.T) {
	uc := NewUsecase(amortization.DefaultFeePercent)

	res, err := uc.Simulate(Input{Amount: 8000, TermMonths: 25, Rate: f64(2)})
	require.NoError(t, err)

	assert.Nil(t, res.RateRange)
	assert.InDelta(t, 409.76, res.Figures.MonthlyPayment, 1e-9)
	assert.InDelta(t, 10244.09, res.Figures.TotalAmount, 1e-9)
	assert.InDelta(t, 120, res.Figures.IntermediationFee, 1e-9)
	assert.InDelta(t, res.Figures.InterestAmount-120, res.Figures.EstimatedProfit, 0.011)
	assert.Nil(t, res.Savings)
	assert.Empty(t, res.Schedule)
}

func TestSimulate_RawRangeUsesAverage(t *testing.T) {
	uc := NewUsecase(amortization.DefaultFeePercent)

	res, err := uc.Simulate(Input{Amount: 8000, TermMonths: 25, RateRaw: "1,6-1,9%"})
	require.NoError(t, err)
	require.NotNil(t, res.RateRange)
	assert.Equal(t, 1.6, res.RateRange.Min)
	assert.Equal(t, 1.9, res.RateRange.Max)
	assert.InDelta(t, 1.75, res.Rate, 1e-9)
}

func TestSimulate_SavingsAndSchedule(t *testing.T) {
	uc := NewUsecase(amortization.DefaultFeePercent)

	res, err := uc.Simulate(Input{Amount: 8000, TermMonths: 25, Rate: f64(1.5), CompareRate: f64(2), WithSchedule: true})
	require.NoError(t, err)

	require.NotNil(t, res.Savings)
	assert.InDelta(t, 591.40, *res.Savings, 0.01)
	require.Len(t, res.Schedule, 25)
	assert.Equal(t, 0.0, res.Schedule[24].Balance)
}

func TestSimulate_ZeroRateIsExact(t *testing.T) {
	uc := NewUsecase(0)
	res, err := uc.Simulate(Input{Amount: 1200, TermMonths: 12, Rate: f64(0)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Figures.MonthlyPayment)
	assert.Equal(t, 0.0, res.Figures.InterestAmount)
}

func TestSimulate_Errors(t *testing.T) {
	uc := NewUsecase(amortization.DefaultFeePercent)

	_, err := uc.Simulate(Input{Amount: 8000, TermMonths: 25, RateRaw: "n/a"})
	assert.ErrorIs(t, err, rate.ErrMalformedRate)

	_, err = uc.Simulate(Input{Amount: 8000, TermMonths: 25})
	assert.ErrorIs(t, err, amortization.ErrInvalidLoanParameters)

	_, err = uc.Simulate(Input{Amount: 0, TermMonths: 25, Rate: f64(2)})
	assert.ErrorIs(t, err, amortization.ErrInvalidLoanParameters)

	_, err = uc.Simulate(Input{Amount: 8000, TermMonths: 0, Rate: f64(2)})
	assert.ErrorIs(t, err, amortization.ErrInvalidLoanParameters)

	_, err = uc.Simulate(Input{Amount: 8000, TermMonths: 25, Rate: f64(math.NaN())})
	assert.ErrorIs(t, err, amortization.ErrInvalidLoanParameters)
}

func TestSimulate_OutOfRangeInputsAreErrors(t *testing.T) {
	uc := NewUsecase(amortization.DefaultFeePercent)

	_, err := uc.Simulate(Input{Amount: 8000, TermMonths: 360, RateRaw: "99999"})
	assert.ErrorIs(t, err, rate.ErrMalformedRate)

	_, err = uc.Simulate(Input{Amount: 8000, TermMonths: 25, Rate: f64(100)})
	assert.ErrorIs(t, err, amortization.ErrInvalidLoanParameters)

	_, err = uc.Simulate(Input{Amount: 8000, TermMonths: 25, Rate: f64(2), CompareRate: f64(250)})
	assert.ErrorIs(t, err, amortization.ErrInvalidLoanParameters)

	_, err = uc.Simulate(Input{Amount: math.MaxFloat64, TermMonths: 25, Rate: f64(2)})
	assert.ErrorIs(t, err, amortization.ErrInvalidLoanParameters)
}
