package mysql

import (
	"context"

	loanDomain "p2plend-backend/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return translate("create loan", r.db.WithContext(ctx).Create(l).Error, nil)
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if err := translate("get loan", res.Error, loanDomain.ErrNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) GetByNegotiationID(ctx context.Context, negotiationID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("negotiation_id = ?", negotiationID).First(&out)
	if err := translate("get loan by negotiation", res.Error, loanDomain.ErrNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}
