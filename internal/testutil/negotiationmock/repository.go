package negotiationmock

import (
	"context"
	"time"

	domain "p2plend-backend/internal/domain/negotiation"
)

var (
	_ domain.Repository         = (*Repo)(nil)
	_ domain.ProposalRepository = (*ProposalRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn                      func(ctx context.Context, n *domain.Negotiation) error
	SaveFn                        func(ctx context.Context, n *domain.Negotiation) error
	GetByNegotiationIDFn          func(ctx context.Context, negotiationID string) (*domain.Negotiation, error)
	GetByNegotiationIDForUpdateFn func(ctx context.Context, negotiationID string) (*domain.Negotiation, error)
	ListOpenCreatedBeforeFn       func(ctx context.Context, cutoff time.Time, limit int) ([]domain.Negotiation, error)
}

func (m *Repo) Create(ctx context.Context, n *domain.Negotiation) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, n *domain.Negotiation) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, n)
	}
	return nil
}

func (m *Repo) GetByNegotiationID(ctx context.Context, negotiationID string) (*domain.Negotiation, error) {
	if m.GetByNegotiationIDFn != nil {
		return m.GetByNegotiationIDFn(ctx, negotiationID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByNegotiationIDForUpdate(ctx context.Context, negotiationID string) (*domain.Negotiation, error) {
	if m.GetByNegotiationIDForUpdateFn != nil {
		return m.GetByNegotiationIDForUpdateFn(ctx, negotiationID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListOpenCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.Negotiation, error) {
	if m.ListOpenCreatedBeforeFn != nil {
		return m.ListOpenCreatedBeforeFn(ctx, cutoff, limit)
	}
	return nil, context.Canceled
}

// ProposalRepo is a function-backed mock that satisfies domain.ProposalRepository.
type ProposalRepo struct {
	CreateFn                   func(ctx context.Context, p *domain.Proposal) error
	SaveFn                     func(ctx context.Context, p *domain.Proposal) error
	GetByProposalIDFn          func(ctx context.Context, proposalID string) (*domain.Proposal, error)
	GetByProposalIDForUpdateFn func(ctx context.Context, proposalID string) (*domain.Proposal, error)
	ListByNegotiationIDFn      func(ctx context.Context, negotiationID string) ([]domain.Proposal, error)
}

func (m *ProposalRepo) Create(ctx context.Context, p *domain.Proposal) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *ProposalRepo) Save(ctx context.Context, p *domain.Proposal) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *ProposalRepo) GetByProposalID(ctx context.Context, proposalID string) (*domain.Proposal, error) {
	if m.GetByProposalIDFn != nil {
		return m.GetByProposalIDFn(ctx, proposalID)
	}
	return nil, context.Canceled
}

func (m *ProposalRepo) GetByProposalIDForUpdate(ctx context.Context, proposalID string) (*domain.Proposal, error) {
	if m.GetByProposalIDForUpdateFn != nil {
		return m.GetByProposalIDForUpdateFn(ctx, proposalID)
	}
	return nil, context.Canceled
}

func (m *ProposalRepo) ListByNegotiationID(ctx context.Context, negotiationID string) ([]domain.Proposal, error) {
	if m.ListByNegotiationIDFn != nil {
		return m.ListByNegotiationIDFn(ctx, negotiationID)
	}
	return nil, context.Canceled
}
