package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByNegotiationID(ctx context.Context, negotiationID string) (*Loan, error)
}
