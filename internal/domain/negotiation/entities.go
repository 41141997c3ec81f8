package negotiation

import (
	"sort"
	"time"
)

type Role string

const (
	RoleBorrower Role = "borrower"
	RoleInvestor Role = "investor"
)

func (r Role) Valid() bool { return r == RoleBorrower || r == RoleInvestor }

func (r Role) Other() Role {
	if r == RoleBorrower {
		return RoleInvestor
	}
	return RoleBorrower
}

type ProposalStatus string

const (
	ProposalPending         ProposalStatus = "pending"
	ProposalAwaitingCounter ProposalStatus = "awaiting_counter"
	ProposalAccepted        ProposalStatus = "accepted"
	ProposalRejected        ProposalStatus = "rejected"
	ProposalExpired         ProposalStatus = "expired"
)

type Status string

const (
	StatusAwaitingCounterparty Status = "awaiting_counterparty"
	StatusInNegotiation        Status = "in_negotiation"
	StatusPending              Status = "pending"
	StatusAccepted             Status = "accepted"
	StatusFinalized            Status = "finalized"
	StatusCancelled            Status = "cancelled"
	StatusExpired              Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAwaitingCounterparty, StatusInNegotiation, StatusPending,
		StatusAccepted, StatusFinalized, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Terminal statuses accept no further proposals.
func (s Status) Terminal() bool {
	return s == StatusFinalized || s == StatusCancelled || s == StatusExpired
}

// Open statuses are the ones a proposal, accept, reject or cancel may act on.
// accepted is only ever a step on the way to finalized.
func (s Status) Open() bool {
	return s == StatusAwaitingCounterparty || s == StatusInNegotiation || s == StatusPending
}

// Proposal is one immutable offer of terms. Only Status and the negotiation
// link are ever written after creation.
type Proposal struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"-"`
	ProposalID    string         `gorm:"size:32;uniqueIndex:ux_proposals_proposal_id" json:"proposal_id"`
	NegotiationID *string        `gorm:"size:32;index:idx_proposals_negotiation" json:"negotiation_id,omitempty"`
	AuthorID      string         `gorm:"size:32;index:idx_proposals_author" json:"author_id"`
	AuthorRole    Role           `gorm:"size:16" json:"author_role"`
	Amount        float64        `gorm:"type:decimal(18,2)" json:"amount"`
	TermMonths    int            `json:"term_months"`
	SuggestedRate string         `gorm:"size:32" json:"suggested_rate"`
	AnalyzedRate  float64        `gorm:"type:decimal(6,4)" json:"analyzed_rate"`
	Negotiable    bool           `json:"negotiable"`
	Justification string         `gorm:"type:text" json:"justification,omitempty"`
	Status        ProposalStatus `gorm:"size:24;default:'pending'" json:"status"`
	CreatedAt     time.Time      `gorm:"autoCreateTime:false" json:"created_at"`
}

func (Proposal) TableName() string { return "proposals" }

func (p Proposal) Terms() Terms {
	return Terms{Amount: p.Amount, TermMonths: p.TermMonths, Rate: p.AnalyzedRate}
}

// Negotiation links every proposal exchanged by one borrower and one investor.
// Amount, Rate, TermMonths and InstallmentAmount mirror the latest proposal.
type Negotiation struct {
	ID                uint64     `gorm:"primaryKey;column:id" json:"-"`
	NegotiationID     string     `gorm:"size:32;uniqueIndex:ux_negotiations_negotiation_id" json:"negotiation_id"`
	BorrowerID        string     `gorm:"size:32;index:idx_negotiations_borrower" json:"borrower_id"`
	InvestorID        *string    `gorm:"size:32;index:idx_negotiations_investor" json:"investor_id,omitempty"`
	Amount            float64    `gorm:"type:decimal(18,2)" json:"amount"`
	Rate              float64    `gorm:"type:decimal(6,4)" json:"rate"`
	TermMonths        int        `json:"term_months"`
	InstallmentAmount float64    `gorm:"type:decimal(18,2)" json:"installment_amount"`
	Status            Status     `gorm:"size:32;index:idx_negotiations_status" json:"status"`
	ProposalCount     int        `json:"proposal_count"`
	CreatedAt         time.Time  `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime:false" json:"updated_at"`
	SignedAt          *time.Time `json:"signed_at,omitempty"`
}

func (Negotiation) TableName() string { return "negotiations" }

// PartyID returns the user acting for role, or "" when the investor is unbound.
func (n Negotiation) PartyID(role Role) string {
	if role == RoleBorrower {
		return n.BorrowerID
	}
	if n.InvestorID == nil {
		return ""
	}
	return *n.InvestorID
}

// Terms is the amount/term/rate triple every screen recomputes figures from.
// Rate is the monthly percent (1.5 for 1.5%).
type Terms struct {
	Amount     float64 `json:"amount"`
	TermMonths int     `json:"term_months"`
	Rate       float64 `json:"rate"`
}

// SortByCreation orders proposals by store-assigned creation time, ties by id.
func SortByCreation(ps []Proposal) {
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.Before(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
}
