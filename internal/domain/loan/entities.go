package loan

import (
	"errors"
	"time"

	"p2plend-backend/internal/domain/negotiation"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("loan not found")

type Status string

const (
	StatusActive    Status = "active"
	StatusConcluded Status = "concluded"
	StatusCancelled Status = "cancelled"
)

// Loan is the artifact a finalized negotiation produces.
type Loan struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID        string         `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	NegotiationID string         `gorm:"size:32;uniqueIndex:ux_loans_negotiation_id" json:"negotiation_id"`
	ProposalID    string         `gorm:"size:32" json:"proposal_id"`
	BorrowerID    string         `gorm:"size:32;index:idx_loans_borrower" json:"borrower_id"`
	InvestorID    string         `gorm:"size:32;index:idx_loans_investor" json:"investor_id"`
	Principal     float64        `gorm:"type:decimal(18,2)" json:"principal"`
	Rate          float64        `gorm:"type:decimal(6,4)" json:"rate"`
	TermMonths    int            `json:"term_months"`
	Installment   float64        `gorm:"type:decimal(18,2)" json:"installment"`
	Status        Status         `gorm:"size:16;default:'active'" json:"status"`
	SignedAt      time.Time      `json:"signed_at"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// FromAcceptance builds the active loan for a finalized negotiation and the
// proposal that was accepted in it.
func FromAcceptance(loanID string, n negotiation.Negotiation, accepted negotiation.Proposal) (*Loan, error) {
	if n.Status != negotiation.StatusFinalized || n.SignedAt == nil {
		return nil, &negotiation.InvalidTransitionError{Action: "issue a loan for", From: n.Status}
	}
	if accepted.Status != negotiation.ProposalAccepted {
		return nil, &negotiation.InvalidTransitionError{Action: "issue a loan for", From: n.Status, Reason: "proposal not accepted"}
	}
	return &Loan{
		LoanID:        loanID,
		NegotiationID: n.NegotiationID,
		ProposalID:    accepted.ProposalID,
		BorrowerID:    n.BorrowerID,
		InvestorID:    n.PartyID(negotiation.RoleInvestor),
		Principal:     accepted.Amount,
		Rate:          accepted.AnalyzedRate,
		TermMonths:    accepted.TermMonths,
		Installment:   n.InstallmentAmount,
		Status:        StatusActive,
		SignedAt:      *n.SignedAt,
	}, nil
}
