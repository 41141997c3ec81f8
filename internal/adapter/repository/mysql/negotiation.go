package mysql

import (
	"context"
	"time"

	"p2plend-backend/internal/domain/negotiation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var openStatuses = []negotiation.Status{
	negotiation.StatusAwaitingCounterparty,
	negotiation.StatusInNegotiation,
	negotiation.StatusPending,
}

type NegotiationRepository struct{ db *gorm.DB }

func NewNegotiationRepository(db *gorm.DB) *NegotiationRepository {
	return &NegotiationRepository{db: db}
}

func (r *NegotiationRepository) Create(ctx context.Context, n *negotiation.Negotiation) error {
	return translate("create negotiation", r.db.WithContext(ctx).Create(n).Error, nil)
}

func (r *NegotiationRepository) Save(ctx context.Context, n *negotiation.Negotiation) error {
	return translate("save negotiation", r.db.WithContext(ctx).Save(n).Error, nil)
}

func (r *NegotiationRepository) GetByNegotiationID(ctx context.Context, negotiationID string) (*negotiation.Negotiation, error) {
	var out negotiation.Negotiation
	res := r.db.WithContext(ctx).Where("negotiation_id = ?", negotiationID).First(&out)
	if err := translate("get negotiation", res.Error, negotiation.ErrNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *NegotiationRepository) GetByNegotiationIDForUpdate(ctx context.Context, negotiationID string) (*negotiation.Negotiation, error) {
	var out negotiation.Negotiation
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("negotiation_id = ?", negotiationID).
		First(&out)
	if err := translate("lock negotiation", res.Error, negotiation.ErrNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *NegotiationRepository) ListOpenCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]negotiation.Negotiation, error) {
	var out []negotiation.Negotiation
	res := r.db.WithContext(ctx).
		Where("status IN ? AND created_at <= ?", openStatuses, cutoff).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&out)
	if err := translate("list open negotiations", res.Error, nil); err != nil {
		return nil, err
	}
	return out, nil
}
