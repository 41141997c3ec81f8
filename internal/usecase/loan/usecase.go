package loan

import (
	"context"
	"time"

	"p2plend-backend/internal/domain/amortization"
	"p2plend-backend/internal/domain/loan"
	"p2plend-backend/internal/domain/rate"
)

type Usecase struct{ repo loan.Repository }

func NewUsecase(r loan.Repository) *Usecase { return &Usecase{repo: r} }

type LoanDTO struct {
	LoanID         string                     `json:"loan_id"`
	NegotiationID  string                     `json:"negotiation_id"`
	ProposalID     string                     `json:"proposal_id"`
	BorrowerID     string                     `json:"borrower_id"`
	InvestorID     string                     `json:"investor_id"`
	Principal      float64                    `json:"principal"`
	Rate           float64                    `json:"rate"`
	TermMonths     int                        `json:"term_months"`
	Installment    float64                    `json:"installment"`
	TotalAmount    float64                    `json:"total_amount"`
	InterestAmount float64                    `json:"interest_amount"`
	Status         string                     `json:"status"`
	SignedAt       time.Time                  `json:"signed_at"`
	CreatedAt      time.Time                  `json:"created_at"`
	Schedule       []amortization.Installment `json:"schedule"`
}

// ToDTO renders l with its installment schedule, rounded for display.
func ToDTO(l *loan.Loan) (*LoanDTO, error) {
	i := rate.Fraction(l.Rate)
	payment, err := amortization.MonthlyPayment(l.Principal, i, l.TermMonths)
	if err != nil {
		return nil, err
	}
	schedule, err := amortization.Schedule(l.Principal, i, l.TermMonths)
	if err != nil {
		return nil, err
	}
	for k := range schedule {
		s := &schedule[k]
		s.Payment = amortization.Round2(s.Payment)
		s.Interest = amortization.Round2(s.Interest)
		s.Principal = amortization.Round2(s.Principal)
		s.Balance = amortization.Round2(s.Balance)
	}
	total := amortization.TotalAmount(payment, l.TermMonths)

	return &LoanDTO{
		LoanID:         l.LoanID,
		NegotiationID:  l.NegotiationID,
		ProposalID:     l.ProposalID,
		BorrowerID:     l.BorrowerID,
		InvestorID:     l.InvestorID,
		Principal:      l.Principal,
		Rate:           l.Rate,
		TermMonths:     l.TermMonths,
		Installment:    amortization.Round2(payment),
		TotalAmount:    amortization.Round2(total),
		InterestAmount: amortization.Round2(amortization.InterestAmount(total, l.Principal)),
		Status:         string(l.Status),
		SignedAt:       l.SignedAt,
		CreatedAt:      l.CreatedAt,
		Schedule:       schedule,
	}, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return ToDTO(l)
}

// GetByNegotiation returns the loan a finalized negotiation produced.
func (u *Usecase) GetByNegotiation(ctx context.Context, negotiationID string) (*LoanDTO, error) {
	l, err := u.repo.GetByNegotiationID(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	return ToDTO(l)
}
