package negotiation

import (
	"context"
	"errors"
	"time"

	"p2plend-backend/internal/domain/amortization"
	loanDomain "p2plend-backend/internal/domain/loan"
	domain "p2plend-backend/internal/domain/negotiation"
	"p2plend-backend/internal/domain/profile"
	"p2plend-backend/internal/domain/rate"
	"p2plend-backend/internal/domain/uow"
	"p2plend-backend/internal/logger"
	loanuc "p2plend-backend/internal/usecase/loan"
	"p2plend-backend/pkg/id"

	"github.com/sirupsen/logrus"
)

// Usecase loads a negotiation thread, runs one state-machine transition on it
// and persists the outcome in the same transaction.
type Usecase struct {
	uow      uow.UnitOfWork
	negs     domain.Repository
	props    domain.ProposalRepository
	profiles profile.Repository

	feePercent float64
	now        func() time.Time
	newID      func() string
}

type Option func(*Usecase)

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func WithIDGenerator(gen func() string) Option { return func(u *Usecase) { u.newID = gen } }

func WithFeePercent(p float64) Option { return func(u *Usecase) { u.feePercent = p } }

func NewUsecase(w uow.UnitOfWork, negs domain.Repository, props domain.ProposalRepository, profiles profile.Repository, opts ...Option) *Usecase {
	u := &Usecase{
		uow:        w,
		negs:       negs,
		props:      props,
		profiles:   profiles,
		feePercent: amortization.DefaultFeePercent,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      id.NewID32,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// DraftInput carries the terms an actor proposes. Rate, when set, is the
// analyzed monthly rate; otherwise the average of SuggestedRate is used.
type DraftInput struct {
	AuthorID      string
	Role          string
	Amount        float64
	TermMonths    int
	SuggestedRate string
	Rate          *float64
	Negotiable    *bool
	Justification string
}

type OpenInput struct {
	Draft          DraftInput
	CounterpartyID string
	OfferID        string
}

type ActionInput struct {
	NegotiationID string
	ActorID       string
	Role          string
	ProposalID    string
}

type AcceptResult struct {
	Negotiation *View           `json:"negotiation"`
	Loan        *loanuc.LoanDTO `json:"loan"`
}

func (in DraftInput) draft() (domain.Draft, error) {
	d := domain.Draft{
		AuthorID:      in.AuthorID,
		Role:          domain.Role(in.Role),
		Amount:        in.Amount,
		TermMonths:    in.TermMonths,
		Negotiable:    true,
		Justification: in.Justification,
	}
	if in.Negotiable != nil {
		d.Negotiable = *in.Negotiable
	}

	var suggested rate.Range
	haveSuggested := in.SuggestedRate != ""
	if haveSuggested {
		r, err := rate.Parse(in.SuggestedRate)
		if err != nil {
			return domain.Draft{}, err
		}
		suggested = r
	}
	switch {
	case in.Rate != nil:
		d.AnalyzedRate = *in.Rate
		if !haveSuggested {
			suggested = rate.Single(*in.Rate)
		}
	case haveSuggested:
		d.AnalyzedRate = suggested.Average
	default:
		return domain.Draft{}, &domain.InvalidProposalError{Field: "rate", Reason: "rate or suggested_rate is required"}
	}
	d.SuggestedRate = rate.Format(suggested)
	return d, d.Validate()
}

// Publish stores a freestanding offer that any counterparty can open a
// negotiation from.
func (u *Usecase) Publish(ctx context.Context, in DraftInput) (*ProposalDTO, error) {
	d, err := in.draft()
	if err != nil {
		return nil, err
	}
	offer, err := domain.NewOffer(u.newID(), d, u.now())
	if err != nil {
		return nil, err
	}
	if err := u.props.Create(ctx, &offer); err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{
		"proposal_id": offer.ProposalID,
		"role":        offer.AuthorRole,
		"action":      "publish",
	}).Info("offer published")
	dto := u.proposalDTO(domain.Thread{}, offer, u.now(), false)
	return &dto, nil
}

// Open starts a negotiation, from scratch or on an existing offer.
func (u *Usecase) Open(ctx context.Context, in OpenInput) (*View, error) {
	d, err := in.Draft.draft()
	if err != nil {
		return nil, err
	}
	now := u.now()
	negotiationID, proposalID := u.newID(), u.newID()

	var out domain.Outcome
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		if in.OfferID == "" {
			out, err = domain.Open(negotiationID, proposalID, d, in.CounterpartyID, now)
		} else {
			var offer *domain.Proposal
			offer, err = r.Proposals.GetByProposalIDForUpdate(ctx, in.OfferID)
			if errors.Is(err, domain.ErrProposalNotFound) {
				return domain.ErrOfferUnavailable
			}
			if err != nil {
				return err
			}
			out, err = domain.OpenFromOffer(negotiationID, proposalID, *offer, d, now)
		}
		if err != nil {
			return err
		}
		return persist(ctx, r, out, true)
	})
	if err != nil {
		return nil, err
	}
	u.log(negotiationID, "open").WithFields(logrus.Fields{
		"role":     d.Role,
		"offer_id": in.OfferID,
		"status":   out.Thread.Negotiation.Status,
	}).Info("negotiation opened")
	return u.view(ctx, out.Thread, now), nil
}

// Submit appends a counter-proposal. The negotiation row stays locked while the
// thread is read and written so concurrent submits are applied one at a time.
func (u *Usecase) Submit(ctx context.Context, negotiationID string, in DraftInput) (*View, error) {
	d, err := in.draft()
	if err != nil {
		return nil, err
	}
	return u.transition(ctx, negotiationID, "submit", func(t domain.Thread, now time.Time) (domain.Outcome, error) {
		return t.Submit(u.newID(), d, now)
	}, nil)
}

func (u *Usecase) Reject(ctx context.Context, in ActionInput) (*View, error) {
	return u.transition(ctx, in.NegotiationID, "reject", func(t domain.Thread, now time.Time) (domain.Outcome, error) {
		return t.Reject(in.ActorID, domain.Role(in.Role), in.ProposalID, now)
	}, nil)
}

func (u *Usecase) Cancel(ctx context.Context, in ActionInput) (*View, error) {
	return u.transition(ctx, in.NegotiationID, "cancel", func(t domain.Thread, now time.Time) (domain.Outcome, error) {
		return t.Cancel(in.ActorID, domain.Role(in.Role), now)
	}, nil)
}

// Accept finalizes the negotiation and issues its loan in one transaction.
func (u *Usecase) Accept(ctx context.Context, in ActionInput) (*AcceptResult, error) {
	var issued *loanDomain.Loan
	v, err := u.transition(ctx, in.NegotiationID, "accept", func(t domain.Thread, now time.Time) (domain.Outcome, error) {
		return t.Accept(in.ActorID, domain.Role(in.Role), in.ProposalID, now)
	}, func(r uow.Repos, out domain.Outcome) error {
		l, err := loanDomain.FromAcceptance(u.newID(), out.Thread.Negotiation, out.Changed[0])
		if err != nil {
			return err
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		issued = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto, err := loanuc.ToDTO(issued)
	if err != nil {
		return nil, err
	}
	return &AcceptResult{Negotiation: v, Loan: dto}, nil
}

type step func(t domain.Thread, now time.Time) (domain.Outcome, error)

func (u *Usecase) transition(ctx context.Context, negotiationID, action string, run step, after func(r uow.Repos, out domain.Outcome) error) (*View, error) {
	now := u.now()
	var out domain.Outcome
	err := u.uow.WithinNegotiationTx(ctx, negotiationID, func(r uow.Repos, n *domain.Negotiation) error {
		ps, err := r.Proposals.ListByNegotiationID(ctx, negotiationID)
		if err != nil {
			return err
		}
		out, err = run(domain.NewThread(*n, ps), now)
		if err != nil {
			return err
		}
		if err := persist(ctx, r, out, false); err != nil {
			return err
		}
		if after != nil {
			return after(r, out)
		}
		return nil
	})
	if err != nil {
		u.log(negotiationID, action).WithError(err).Warn("transition refused")
		return nil, err
	}
	u.log(negotiationID, action).WithField("path", out.Path).Info("transition applied")
	return u.view(ctx, out.Thread, now), nil
}

// persist writes an outcome: the negotiation, status changes on existing
// proposals, then the new proposal.
func persist(ctx context.Context, r uow.Repos, out domain.Outcome, create bool) error {
	n := out.Thread.Negotiation
	if create {
		if err := r.Negotiations.Create(ctx, &n); err != nil {
			return err
		}
	} else if err := r.Negotiations.Save(ctx, &n); err != nil {
		return err
	}
	for i := range out.Changed {
		p := out.Changed[i]
		if err := r.Proposals.Save(ctx, &p); err != nil {
			return err
		}
	}
	if out.Created != nil {
		p := *out.Created
		if err := r.Proposals.Create(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}

func (u *Usecase) Get(ctx context.Context, negotiationID string) (*View, error) {
	t, err := u.load(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	return u.view(ctx, t, u.now()), nil
}

// ListProposals returns every proposal of the negotiation in creation order,
// with the status a reader should see now.
func (u *Usecase) ListProposals(ctx context.Context, negotiationID string) ([]ProposalDTO, error) {
	t, err := u.load(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	out := make([]ProposalDTO, 0, len(t.Proposals))
	for _, p := range t.Proposals {
		out = append(out, u.proposalDTO(t, p, now, true))
	}
	return out, nil
}

func (u *Usecase) load(ctx context.Context, negotiationID string) (domain.Thread, error) {
	n, err := u.negs.GetByNegotiationID(ctx, negotiationID)
	if err != nil {
		return domain.Thread{}, err
	}
	ps, err := u.props.ListByNegotiationID(ctx, negotiationID)
	if err != nil {
		return domain.Thread{}, err
	}
	return domain.NewThread(*n, ps), nil
}

// ExpireStale persists the expiry of up to limit open negotiations whose
// deadline has passed and returns how many were expired.
func (u *Usecase) ExpireStale(ctx context.Context, limit int) (int, error) {
	now := u.now()
	stale, err := u.negs.ListOpenCreatedBefore(ctx, now.Add(-domain.Window), limit)
	if err != nil {
		return 0, err
	}

	var errs []error
	expired := 0
	for _, s := range stale {
		err := u.uow.WithinNegotiationTx(ctx, s.NegotiationID, func(r uow.Repos, n *domain.Negotiation) error {
			ps, err := r.Proposals.ListByNegotiationID(ctx, n.NegotiationID)
			if err != nil {
				return err
			}
			out, err := domain.NewThread(*n, ps).Expire(now)
			if err != nil {
				return err
			}
			return persist(ctx, r, out, false)
		})
		switch {
		case err == nil:
			expired++
			u.log(s.NegotiationID, "expire").Info("negotiation expired")
		case errors.Is(err, domain.ErrInvalidTransition):
			// closed or renewed between the listing and the lock
		default:
			u.log(s.NegotiationID, "expire").WithError(err).Error("expire failed")
			errs = append(errs, err)
		}
	}
	return expired, errors.Join(errs...)
}

func (u *Usecase) log(negotiationID, action string) *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"negotiation_id": negotiationID,
		"action":         action,
	})
}
