package negotiation

import (
	"context"
	"time"
)

// Repository is the store of record for negotiations. Not-found lookups return
// ErrNotFound; driver failures return a store.UnavailableError.
type Repository interface {
	Create(ctx context.Context, n *Negotiation) error
	Save(ctx context.Context, n *Negotiation) error
	GetByNegotiationID(ctx context.Context, negotiationID string) (*Negotiation, error)
	// Row-locks the negotiation for the rest of the transaction.
	GetByNegotiationIDForUpdate(ctx context.Context, negotiationID string) (*Negotiation, error)
	// Open negotiations created at or before cutoff, oldest first.
	ListOpenCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]Negotiation, error)
}

// ProposalRepository stores proposals and freestanding offers. Save links an
// offer to at most one negotiation; relinking it returns ErrOfferUnavailable.
type ProposalRepository interface {
	Create(ctx context.Context, p *Proposal) error
	Save(ctx context.Context, p *Proposal) error
	GetByProposalID(ctx context.Context, proposalID string) (*Proposal, error)
	// Row-locks the proposal for the rest of the transaction.
	GetByProposalIDForUpdate(ctx context.Context, proposalID string) (*Proposal, error)
	// Ordered by store-assigned creation time.
	ListByNegotiationID(ctx context.Context, negotiationID string) ([]Proposal, error)
}
