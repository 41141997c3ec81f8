package negotiation

import (
	"context"
	"errors"
	"time"

	"p2plend-backend/internal/domain/amortization"
	domain "p2plend-backend/internal/domain/negotiation"
	"p2plend-backend/internal/domain/profile"
	"p2plend-backend/internal/domain/rate"
)

type PartyDTO struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	CreditScore int    `json:"credit_score,omitempty"`
}

type ProposalDTO struct {
	ProposalID    string                `json:"proposal_id"`
	NegotiationID string                `json:"negotiation_id,omitempty"`
	AuthorID      string                `json:"author_id"`
	AuthorRole    domain.Role           `json:"author_role"`
	Amount        float64               `json:"amount"`
	TermMonths    int                   `json:"term_months"`
	SuggestedRate string                `json:"suggested_rate"`
	SuggestedMin  float64               `json:"suggested_min"`
	SuggestedMax  float64               `json:"suggested_max"`
	Rate          float64               `json:"rate"`
	Negotiable    bool                  `json:"negotiable"`
	Justification string                `json:"justification,omitempty"`
	Status        domain.ProposalStatus `json:"status"`
	CreatedAt     time.Time             `json:"created_at"`
	Figures       amortization.Figures  `json:"figures"`
}

// View is a negotiation as a screen shows it: derived status, countdown,
// the current proposal of each side and the figures for the current terms.
type View struct {
	NegotiationID     string               `json:"negotiation_id"`
	Status            domain.Status        `json:"status"`
	Borrower          PartyDTO             `json:"borrower"`
	Investor          *PartyDTO            `json:"investor,omitempty"`
	Terms             domain.Terms         `json:"terms"`
	InstallmentAmount float64              `json:"installment_amount"`
	Figures           amortization.Figures `json:"figures"`
	ProposalCount     int                  `json:"proposal_count"`
	BorrowerProposal  *ProposalDTO         `json:"borrower_proposal,omitempty"`
	InvestorProposal  *ProposalDTO         `json:"investor_proposal,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	SignedAt          *time.Time           `json:"signed_at,omitempty"`
	Deadline          time.Time            `json:"deadline"`
	RemainingMs       int64                `json:"remaining_ms"`
	Countdown         string               `json:"countdown,omitempty"`
}

func (u *Usecase) view(ctx context.Context, t domain.Thread, now time.Time) *View {
	n := t.Negotiation
	status := t.Effective(now)
	v := &View{
		NegotiationID:     n.NegotiationID,
		Status:            status,
		Borrower:          u.party(ctx, n.BorrowerID),
		Terms:             domain.Terms{Amount: n.Amount, TermMonths: n.TermMonths, Rate: n.Rate},
		InstallmentAmount: amortization.Round2(n.InstallmentAmount),
		Figures:           u.figures(domain.Terms{Amount: n.Amount, TermMonths: n.TermMonths, Rate: n.Rate}),
		ProposalCount:     n.ProposalCount,
		CreatedAt:         n.CreatedAt,
		UpdatedAt:         n.UpdatedAt,
		SignedAt:          n.SignedAt,
		Deadline:          domain.Deadline(n.CreatedAt),
	}
	if inv := n.PartyID(domain.RoleInvestor); inv != "" {
		p := u.party(ctx, inv)
		v.Investor = &p
	}
	if p, ok := t.Current(domain.RoleBorrower); ok {
		dto := u.proposalDTO(t, p, now, true)
		v.BorrowerProposal = &dto
	}
	if p, ok := t.Current(domain.RoleInvestor); ok {
		dto := u.proposalDTO(t, p, now, true)
		v.InvestorProposal = &dto
	}

	switch {
	case status == domain.StatusExpired:
		v.Countdown = domain.DeadlinePassedLabel
	case status.Open():
		rem := max(domain.Remaining(n.CreatedAt, now), 0)
		v.RemainingMs = rem.Milliseconds()
		v.Countdown = domain.FormatRemaining(rem)
	}
	return v
}

// proposalDTO renders p. inThread selects the status derived from t over the
// stored one.
func (u *Usecase) proposalDTO(t domain.Thread, p domain.Proposal, now time.Time, inThread bool) ProposalDTO {
	dto := ProposalDTO{
		ProposalID:    p.ProposalID,
		AuthorID:      p.AuthorID,
		AuthorRole:    p.AuthorRole,
		Amount:        p.Amount,
		TermMonths:    p.TermMonths,
		SuggestedRate: p.SuggestedRate,
		Rate:          p.AnalyzedRate,
		Negotiable:    p.Negotiable,
		Justification: p.Justification,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		Figures:       u.figures(p.Terms()),
	}
	if p.NegotiationID != nil {
		dto.NegotiationID = *p.NegotiationID
	}
	// stored text that no longer parses still shows the analyzed rate
	r := rate.ParseOr(p.SuggestedRate, rate.Single(p.AnalyzedRate))
	dto.SuggestedMin, dto.SuggestedMax = r.Min, r.Max
	if inThread {
		dto.Status = t.ProposalStatus(p, now)
	}
	return dto
}

func (u *Usecase) figures(t domain.Terms) amortization.Figures {
	f, err := amortization.Compute(t.Amount, rate.Fraction(t.Rate), t.TermMonths, u.feePercent)
	if err != nil {
		return amortization.Figures{}
	}
	return f.Rounded()
}

// party never fails: a missing or unreachable profile leaves only the id.
func (u *Usecase) party(ctx context.Context, userID string) PartyDTO {
	out := PartyDTO{UserID: userID}
	if u.profiles == nil {
		return out
	}
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			u.log("", "profile").WithError(err).WithField("user_id", userID).Warn("profile lookup failed")
		}
		return out
	}
	out.DisplayName = p.DisplayName
	out.CreditScore = p.CreditScore
	return out
}
