package uow

import (
	"context"

	"p2plend-backend/internal/domain/loan"
	"p2plend-backend/internal/domain/negotiation"
)

// Repos are bound to one transaction.
type Repos struct {
	Negotiations negotiation.Repository
	Proposals    negotiation.ProposalRepository
	Loans        loan.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the negotiation row first, then pass it in
	WithinNegotiationTx(ctx context.Context, negotiationID string, fn func(r Repos, n *negotiation.Negotiation) error) error
}
