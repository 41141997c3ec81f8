package negotiation

import (
	"time"

	"p2plend-backend/internal/domain/amortization"
	"p2plend-backend/internal/domain/rate"
)

// Draft is a proposal as submitted by an actor. The store assigns the id and
// the creation time.
type Draft struct {
	AuthorID      string
	Role          Role
	Amount        float64
	TermMonths    int
	SuggestedRate string
	AnalyzedRate  float64
	Negotiable    bool
	Justification string
}

func (d Draft) Validate() error {
	switch {
	case d.AuthorID == "":
		return &InvalidProposalError{Field: "author_id", Reason: "is required"}
	case !d.Role.Valid():
		return &InvalidProposalError{Field: "author_role", Reason: "must be borrower or investor"}
	case d.Amount <= 0:
		return &InvalidProposalError{Field: "amount", Reason: "must be positive"}
	case d.TermMonths < 1:
		return &InvalidProposalError{Field: "term_months", Reason: "must be at least 1"}
	case d.AnalyzedRate <= 0:
		return &InvalidProposalError{Field: "analyzed_rate", Reason: "must be positive"}
	case d.AnalyzedRate >= rate.MaxPercent:
		return &InvalidProposalError{Field: "analyzed_rate", Reason: "must be below 100"}
	}
	if _, err := amortization.MonthlyPayment(d.Amount, rate.Fraction(d.AnalyzedRate), d.TermMonths); err != nil {
		return &InvalidProposalError{Field: "amount", Reason: "is too large for this term and rate"}
	}
	return nil
}

func (d Draft) proposal(proposalID string, negotiationID *string, now time.Time) Proposal {
	return Proposal{
		ProposalID:    proposalID,
		NegotiationID: negotiationID,
		AuthorID:      d.AuthorID,
		AuthorRole:    d.Role,
		Amount:        d.Amount,
		TermMonths:    d.TermMonths,
		SuggestedRate: d.SuggestedRate,
		AnalyzedRate:  d.AnalyzedRate,
		Negotiable:    d.Negotiable,
		Justification: d.Justification,
		Status:        ProposalPending,
		CreatedAt:     now,
	}
}

func (d Draft) terms() Terms {
	return Terms{Amount: d.Amount, TermMonths: d.TermMonths, Rate: d.AnalyzedRate}
}

// NewOffer builds a freestanding proposal that no negotiation owns yet.
func NewOffer(proposalID string, d Draft, now time.Time) (Proposal, error) {
	if err := d.Validate(); err != nil {
		return Proposal{}, err
	}
	p := d.proposal(proposalID, nil, now)
	p.Status = ProposalAwaitingCounter
	return p, nil
}

// Thread is a negotiation snapshot together with its proposals in creation order.
// Every method derives from the snapshot; nothing is mutated in place.
type Thread struct {
	Negotiation Negotiation
	Proposals   []Proposal
}

// Outcome is what a transition asks the store to persist.
type Outcome struct {
	Thread  Thread
	Created *Proposal
	Changed []Proposal
	// Path lists the statuses the negotiation moved through, in order.
	Path []Status
}

func NewThread(n Negotiation, proposals []Proposal) Thread {
	ps := make([]Proposal, len(proposals))
	copy(ps, proposals)
	SortByCreation(ps)
	return Thread{Negotiation: n, Proposals: ps}
}

func (t Thread) clone() Thread {
	ps := make([]Proposal, len(t.Proposals), len(t.Proposals)+1)
	copy(ps, t.Proposals)
	return Thread{Negotiation: t.Negotiation, Proposals: ps}
}

// Current returns the latest proposal authored by role.
func (t Thread) Current(role Role) (Proposal, bool) {
	for i := len(t.Proposals) - 1; i >= 0; i-- {
		if t.Proposals[i].AuthorRole == role {
			return t.Proposals[i], true
		}
	}
	return Proposal{}, false
}

func (t Thread) TwoSided() bool {
	_, b := t.Current(RoleBorrower)
	_, i := t.Current(RoleInvestor)
	return b && i
}

func (t Thread) indexOf(proposalID string) int {
	for i := range t.Proposals {
		if t.Proposals[i].ProposalID == proposalID {
			return i
		}
	}
	return -1
}

// Derive is the effective status of n given its proposals at time now.
func Derive(n Negotiation, proposals []Proposal, now time.Time) Status {
	return NewThread(n, proposals).Effective(now)
}

// Effective applies, in order: a closed persisted status stands; a one-sided
// thread is awaiting_counterparty whatever else is stored; an open thread past
// its deadline is expired; otherwise the persisted status stands.
func (t Thread) Effective(now time.Time) Status {
	n := t.Negotiation
	if !n.Status.Open() {
		return n.Status
	}
	if !t.TwoSided() {
		return StatusAwaitingCounterparty
	}
	if IsExpired(n.CreatedAt, now, n.Status) {
		return StatusExpired
	}
	return n.Status
}

// ProposalStatus is the status to display for p within this thread.
func (t Thread) ProposalStatus(p Proposal, now time.Time) ProposalStatus {
	switch p.Status {
	case ProposalAccepted, ProposalRejected, ProposalExpired:
		return p.Status
	}
	if t.Effective(now) == StatusExpired {
		return ProposalExpired
	}
	if !t.TwoSided() {
		return ProposalAwaitingCounter
	}
	if p.Status == ProposalAwaitingCounter {
		return ProposalPending
	}
	return p.Status
}

func (t Thread) guard(action string, now time.Time) error {
	n := t.Negotiation
	if !n.Status.Open() {
		return &InvalidTransitionError{Action: action, From: n.Status}
	}
	if IsExpired(n.CreatedAt, now, n.Status) {
		return &InvalidTransitionError{Action: action, From: StatusExpired, Reason: "deadline passed"}
	}
	return nil
}

// checkParty verifies actorID speaks for role. An investor seat that is still
// unbound is only claimable by submitting a proposal.
func (t Thread) checkParty(actorID string, role Role, claim bool) error {
	if !role.Valid() {
		return &InvalidProposalError{Field: "role", Reason: "must be borrower or investor"}
	}
	id := t.Negotiation.PartyID(role)
	if id == "" && claim {
		if actorID == t.Negotiation.BorrowerID {
			return ErrNotParticipant
		}
		return nil
	}
	if id == "" || id != actorID {
		return ErrNotParticipant
	}
	return nil
}

// Open starts a negotiation with its first proposal. counterpartyID binds the
// other seat up front; it is required when an investor opens.
func Open(negotiationID, proposalID string, d Draft, counterpartyID string, now time.Time) (Outcome, error) {
	if err := d.Validate(); err != nil {
		return Outcome{}, err
	}
	n := Negotiation{
		NegotiationID: negotiationID,
		Status:        StatusAwaitingCounterparty,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	switch d.Role {
	case RoleBorrower:
		n.BorrowerID = d.AuthorID
		if counterpartyID != "" {
			if counterpartyID == d.AuthorID {
				return Outcome{}, ErrNotParticipant
			}
			n.InvestorID = &counterpartyID
		}
	case RoleInvestor:
		if counterpartyID == "" {
			return Outcome{}, &InvalidProposalError{Field: "counterparty_id", Reason: "is required when an investor opens"}
		}
		if counterpartyID == d.AuthorID {
			return Outcome{}, ErrNotParticipant
		}
		investor := d.AuthorID
		n.BorrowerID = counterpartyID
		n.InvestorID = &investor
	}
	return Thread{Negotiation: n}.Submit(proposalID, d, now)
}

// OpenFromOffer starts a negotiation on first contact with a freestanding
// offer. The offer becomes the first proposal and d is the counter.
func OpenFromOffer(negotiationID, proposalID string, offer Proposal, d Draft, now time.Time) (Outcome, error) {
	if err := d.Validate(); err != nil {
		return Outcome{}, err
	}
	if offer.NegotiationID != nil {
		return Outcome{}, ErrOfferUnavailable
	}
	if offer.Status != ProposalPending && offer.Status != ProposalAwaitingCounter {
		return Outcome{}, ErrOfferUnavailable
	}
	if offer.AuthorRole == d.Role {
		return Outcome{}, &InvalidProposalError{Field: "author_role", Reason: "must differ from the offer author"}
	}
	if offer.AuthorID == d.AuthorID {
		return Outcome{}, ErrNotParticipant
	}

	n := Negotiation{
		NegotiationID:     negotiationID,
		Amount:            offer.Amount,
		Rate:              offer.AnalyzedRate,
		TermMonths:        offer.TermMonths,
		Status:            StatusAwaitingCounterparty,
		ProposalCount:     1,
		CreatedAt:         now,
		UpdatedAt:         now,
		InstallmentAmount: installment(offer.Terms()),
	}
	borrower, investor := offer.AuthorID, d.AuthorID
	if offer.AuthorRole == RoleInvestor {
		borrower, investor = d.AuthorID, offer.AuthorID
	}
	n.BorrowerID = borrower
	n.InvestorID = &investor

	linked := offer
	nid := negotiationID
	linked.NegotiationID = &nid

	out, err := Thread{Negotiation: n, Proposals: []Proposal{linked}}.Submit(proposalID, d, now)
	if err != nil {
		return Outcome{}, err
	}
	// the offer's link is new even if its status did not change
	if len(out.Changed) == 0 {
		out.Changed = []Proposal{out.Thread.Proposals[0]}
	}
	return out, nil
}

// Submit adds a proposal from d.Role and makes its terms the current snapshot.
func (t Thread) Submit(proposalID string, d Draft, now time.Time) (Outcome, error) {
	if err := t.guard("submit a proposal to", now); err != nil {
		return Outcome{}, err
	}
	if err := d.Validate(); err != nil {
		return Outcome{}, err
	}
	if err := t.checkParty(d.AuthorID, d.Role, true); err != nil {
		return Outcome{}, err
	}
	// a non-negotiable proposal can only be matched, never countered
	if other, ok := t.Current(d.Role.Other()); ok && !other.Negotiable && other.Terms() != d.terms() {
		return Outcome{}, ErrNotNegotiable
	}

	out := t.clone()
	n := &out.Negotiation
	if d.Role == RoleInvestor && n.InvestorID == nil {
		investor := d.AuthorID
		n.InvestorID = &investor
	}

	nid := n.NegotiationID
	p := d.proposal(proposalID, &nid, now)
	out.Proposals = append(out.Proposals, p)

	var changed []Proposal
	last := len(out.Proposals) - 1
	if out.TwoSided() {
		n.Status = StatusInNegotiation
		for i := 0; i < last; i++ {
			if out.Proposals[i].Status == ProposalAwaitingCounter {
				out.Proposals[i].Status = ProposalPending
				changed = append(changed, out.Proposals[i])
			}
		}
	} else {
		n.Status = StatusAwaitingCounterparty
		out.Proposals[last].Status = ProposalAwaitingCounter
	}

	terms := p.Terms()
	n.Amount, n.Rate, n.TermMonths = terms.Amount, terms.Rate, terms.TermMonths
	n.InstallmentAmount = installment(terms)
	n.ProposalCount++
	n.UpdatedAt = now

	created := out.Proposals[last]
	return Outcome{Thread: out, Created: &created, Changed: changed, Path: []Status{n.Status}}, nil
}

// counterProposal resolves proposalID to role's counterparty's current proposal.
func (t Thread) counterProposal(action string, role Role, proposalID string) (int, error) {
	if !t.TwoSided() {
		return -1, &InvalidTransitionError{Action: action, From: StatusAwaitingCounterparty, Reason: "counterparty has not proposed yet"}
	}
	idx := t.indexOf(proposalID)
	if idx < 0 {
		return -1, ErrProposalNotFound
	}
	cur, _ := t.Current(role.Other())
	if cur.ProposalID != proposalID {
		return -1, &InvalidTransitionError{Action: action, From: t.Negotiation.Status, Reason: "proposal is not the counterparty's current proposal"}
	}
	if cur.Status == ProposalRejected || cur.Status == ProposalAccepted {
		return -1, &InvalidTransitionError{Action: action, From: t.Negotiation.Status, Reason: "proposal already " + string(cur.Status)}
	}
	return idx, nil
}

// Accept takes the counterparty's current proposal. The negotiation passes
// through accepted and lands on finalized with signedAt set.
func (t Thread) Accept(actorID string, role Role, proposalID string, now time.Time) (Outcome, error) {
	if err := t.guard("accept", now); err != nil {
		return Outcome{}, err
	}
	if err := t.checkParty(actorID, role, false); err != nil {
		return Outcome{}, err
	}
	idx, err := t.counterProposal("accept", role, proposalID)
	if err != nil {
		return Outcome{}, err
	}

	out := t.clone()
	out.Proposals[idx].Status = ProposalAccepted
	accepted := out.Proposals[idx]

	n := &out.Negotiation
	terms := accepted.Terms()
	n.Amount, n.Rate, n.TermMonths = terms.Amount, terms.Rate, terms.TermMonths
	n.InstallmentAmount = installment(terms)
	n.Status = StatusFinalized
	signed := now
	n.SignedAt = &signed
	n.UpdatedAt = now

	return Outcome{Thread: out, Changed: []Proposal{accepted}, Path: []Status{StatusAccepted, StatusFinalized}}, nil
}

// Reject turns down the counterparty's current proposal. The negotiation stays
// open so the rejecting side can counter.
func (t Thread) Reject(actorID string, role Role, proposalID string, now time.Time) (Outcome, error) {
	if err := t.guard("reject", now); err != nil {
		return Outcome{}, err
	}
	if err := t.checkParty(actorID, role, false); err != nil {
		return Outcome{}, err
	}
	idx, err := t.counterProposal("reject", role, proposalID)
	if err != nil {
		return Outcome{}, err
	}

	out := t.clone()
	out.Proposals[idx].Status = ProposalRejected
	out.Negotiation.Status = StatusInNegotiation
	out.Negotiation.UpdatedAt = now
	return Outcome{Thread: out, Changed: []Proposal{out.Proposals[idx]}, Path: []Status{StatusInNegotiation}}, nil
}

func (t Thread) Cancel(actorID string, role Role, now time.Time) (Outcome, error) {
	if err := t.guard("cancel", now); err != nil {
		return Outcome{}, err
	}
	if err := t.checkParty(actorID, role, false); err != nil {
		return Outcome{}, err
	}
	out := t.clone()
	out.Negotiation.Status = StatusCancelled
	out.Negotiation.UpdatedAt = now
	return Outcome{Thread: out, Path: []Status{StatusCancelled}}, nil
}

// Expire persists what the clock already implies: an open negotiation past its
// deadline becomes expired, along with its undecided proposals.
func (t Thread) Expire(now time.Time) (Outcome, error) {
	n := t.Negotiation
	if !n.Status.Open() {
		return Outcome{}, &InvalidTransitionError{Action: "expire", From: n.Status}
	}
	if !IsExpired(n.CreatedAt, now, n.Status) {
		return Outcome{}, &InvalidTransitionError{Action: "expire", From: n.Status, Reason: "deadline not reached"}
	}
	out := t.clone()
	var changed []Proposal
	for i := range out.Proposals {
		switch out.Proposals[i].Status {
		case ProposalPending, ProposalAwaitingCounter:
			out.Proposals[i].Status = ProposalExpired
			changed = append(changed, out.Proposals[i])
		}
	}
	out.Negotiation.Status = StatusExpired
	out.Negotiation.UpdatedAt = now
	return Outcome{Thread: out, Changed: changed, Path: []Status{StatusExpired}}, nil
}

// installment is only called with validated terms.
func installment(t Terms) float64 {
	p, err := amortization.MonthlyPayment(t.Amount, rate.Fraction(t.Rate), t.TermMonths)
	if err != nil {
		return 0
	}
	return p
}
