package simulation

import (
	"p2plend-backend/internal/domain/amortization"
	"p2plend-backend/internal/domain/rate"
)

// Usecase answers "what would these terms cost" for either side of a loan.
type Usecase struct{ feePercent float64 }

func NewUsecase(feePercent float64) *Usecase { return &Usecase{feePercent: feePercent} }

// Input takes the rate either as a number or as the raw text a user typed
// ("1,6 - 1,9"); the range average is used for the latter.
type Input struct {
	Amount       float64
	TermMonths   int
	Rate         *float64
	RateRaw      string
	CompareRate  *float64
	WithSchedule bool
}

type Result struct {
	Amount      float64                    `json:"amount"`
	TermMonths  int                        `json:"term_months"`
	Rate        float64                    `json:"rate"`
	RateRange   *rate.Range                `json:"rate_range,omitempty"`
	Figures     amortization.Figures       `json:"figures"`
	CompareRate *float64                   `json:"compare_rate,omitempty"`
	Savings     *float64                   `json:"savings,omitempty"`
	Schedule    []amortization.Installment `json:"schedule,omitempty"`
}

func (u *Usecase) Simulate(in Input) (*Result, error) {
	res := &Result{Amount: in.Amount, TermMonths: in.TermMonths}
	switch {
	case in.Rate != nil:
		res.Rate = *in.Rate
	case in.RateRaw != "":
		r, err := rate.Parse(in.RateRaw)
		if err != nil {
			return nil, err
		}
		res.Rate = r.Average
		res.RateRange = &r
	default:
		return nil, &amortization.InvalidLoanParametersError{Field: "rate"}
	}

	if res.Rate >= rate.MaxPercent {
		return nil, &amortization.InvalidLoanParametersError{Field: "rate", Value: res.Rate}
	}
	if in.CompareRate != nil && *in.CompareRate >= rate.MaxPercent {
		return nil, &amortization.InvalidLoanParametersError{Field: "compare_rate", Value: *in.CompareRate}
	}

	i := rate.Fraction(res.Rate)
	f, err := amortization.Compute(in.Amount, i, in.TermMonths, u.feePercent)
	if err != nil {
		return nil, err
	}
	res.Figures = f.Rounded()

	if in.CompareRate != nil {
		saved, err := amortization.Savings(in.Amount, rate.Fraction(*in.CompareRate), i, in.TermMonths)
		if err != nil {
			return nil, err
		}
		saved = amortization.Round2(saved)
		res.CompareRate = in.CompareRate
		res.Savings = &saved
	}

	if in.WithSchedule {
		s, err := amortization.Schedule(in.Amount, i, in.TermMonths)
		if err != nil {
			return nil, err
		}
		for k := range s {
			s[k].Payment = amortization.Round2(s[k].Payment)
			s[k].Interest = amortization.Round2(s[k].Interest)
			s[k].Principal = amortization.Round2(s[k].Principal)
			s[k].Balance = amortization.Round2(s[k].Balance)
		}
		res.Schedule = s
	}
	return res, nil
}
