package mysql

import (
	"context"

	"p2plend-backend/internal/domain/negotiation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProposalRepository struct{ db *gorm.DB }

func NewProposalRepository(db *gorm.DB) *ProposalRepository { return &ProposalRepository{db: db} }

func (r *ProposalRepository) Create(ctx context.Context, p *negotiation.Proposal) error {
	return translate("create proposal", r.db.WithContext(ctx).Create(p).Error, nil)
}

// Save only writes the mutable columns; terms are never rewritten. A proposal
// already linked to another negotiation is left alone.
func (r *ProposalRepository) Save(ctx context.Context, p *negotiation.Proposal) error {
	q := r.db.WithContext(ctx).
		Model(&negotiation.Proposal{}).
		Where("proposal_id = ?", p.ProposalID)
	if p.NegotiationID != nil {
		q = q.Where("(negotiation_id IS NULL OR negotiation_id = ?)", *p.NegotiationID)
	}
	res := q.Updates(map[string]any{
		"status":         p.Status,
		"negotiation_id": p.NegotiationID,
	})
	if err := translate("save proposal", res.Error, nil); err != nil {
		return err
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if p.NegotiationID != nil {
		if _, err := r.GetByProposalID(ctx, p.ProposalID); err == nil {
			return negotiation.ErrOfferUnavailable
		}
	}
	return negotiation.ErrProposalNotFound
}

func (r *ProposalRepository) GetByProposalID(ctx context.Context, proposalID string) (*negotiation.Proposal, error) {
	var out negotiation.Proposal
	res := r.db.WithContext(ctx).Where("proposal_id = ?", proposalID).First(&out)
	if err := translate("get proposal", res.Error, negotiation.ErrProposalNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ProposalRepository) GetByProposalIDForUpdate(ctx context.Context, proposalID string) (*negotiation.Proposal, error) {
	var out negotiation.Proposal
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("proposal_id = ?", proposalID).
		First(&out)
	if err := translate("lock proposal", res.Error, negotiation.ErrProposalNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ProposalRepository) ListByNegotiationID(ctx context.Context, negotiationID string) ([]negotiation.Proposal, error) {
	var out []negotiation.Proposal
	res := r.db.WithContext(ctx).
		Where("negotiation_id = ?", negotiationID).
		Order("created_at ASC, id ASC").
		Find(&out)
	if err := translate("list proposals", res.Error, nil); err != nil {
		return nil, err
	}
	return out, nil
}
