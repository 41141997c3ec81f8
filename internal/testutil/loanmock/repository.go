package loanmock

import (
	"context"

	domain "p2plend-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn        func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByNegotiationIDFn func(ctx context.Context, negotiationID string) (*domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByNegotiationID(ctx context.Context, negotiationID string) (*domain.Loan, error) {
	if m.GetByNegotiationIDFn != nil {
		return m.GetByNegotiationIDFn(ctx, negotiationID)
	}
	return nil, context.Canceled
}
