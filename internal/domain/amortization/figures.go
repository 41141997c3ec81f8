package amortization

// Figures is the full set of numbers a proposal screen shows for one set of terms.
type Figures struct {
	MonthlyPayment    float64 `json:"monthly_payment"`
	TotalAmount       float64 `json:"total_amount"`
	InterestAmount    float64 `json:"interest_amount"`
	IntermediationFee float64 `json:"intermediation_fee"`
	EstimatedProfit   float64 `json:"estimated_profit"`
}

// Compute derives Figures at full precision.
func Compute(principal, rate float64, months int, feePercent float64) (Figures, error) {
	p, err := MonthlyPayment(principal, rate, months)
	if err != nil {
		return Figures{}, err
	}
	total := TotalAmount(p, months)
	interest := InterestAmount(total, principal)
	fee := IntermediationFee(principal, feePercent)
	return Figures{
		MonthlyPayment:    p,
		TotalAmount:       total,
		InterestAmount:    interest,
		IntermediationFee: fee,
		EstimatedProfit:   interest - fee,
	}, nil
}

// Rounded returns a copy of f ready for display.
func (f Figures) Rounded() Figures {
	return Figures{
		MonthlyPayment:    Round2(f.MonthlyPayment),
		TotalAmount:       Round2(f.TotalAmount),
		InterestAmount:    Round2(f.InterestAmount),
		IntermediationFee: Round2(f.IntermediationFee),
		EstimatedProfit:   Round2(f.EstimatedProfit),
	}
}

type Installment struct {
	Number    int     `json:"number"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// Schedule lays out the Price-system installments. The last period absorbs the
// floating residue so the closing balance is exactly zero.
func Schedule(principal, rate float64, months int) ([]Installment, error) {
	payment, err := MonthlyPayment(principal, rate, months)
	if err != nil {
		return nil, err
	}
	out := make([]Installment, 0, months)
	balance := principal
	for k := 1; k <= months; k++ {
		interest := balance * rate
		amort := payment - interest
		if k == months {
			amort = balance
		}
		balance -= amort
		out = append(out, Installment{
			Number:    k,
			Payment:   amort + interest,
			Interest:  interest,
			Principal: amort,
			Balance:   balance,
		})
	}
	return out, nil
}
