package mysql

import (
	"context"

	"p2plend-backend/internal/domain/negotiation"
	"p2plend-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Negotiations: &NegotiationRepository{db: tx},
		Proposals:    &ProposalRepository{db: tx},
		Loans:        &LoanRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinNegotiationTx(ctx context.Context, negotiationID string, fn func(r uow.Repos, n *negotiation.Negotiation) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the negotiation row up-front so concurrent proposals serialize
		n, err := r.Negotiations.GetByNegotiationIDForUpdate(ctx, negotiationID)
		if err != nil {
			return err
		}
		return fn(r, n)
	})
}
