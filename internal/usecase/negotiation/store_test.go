package negotiation

import (
	"context"
	"fmt"
	"sort"
	"time"

	loanDomain "p2plend-backend/internal/domain/loan"
	domain "p2plend-backend/internal/domain/negotiation"
	"p2plend-backend/internal/domain/uow"
	"p2plend-backend/internal/testutil/loanmock"
	"p2plend-backend/internal/testutil/negotiationmock"
	"p2plend-backend/internal/testutil/uowmock"
)

// memStore backs the function mocks with maps so use-case tests can run whole
// flows. It has no transactions; failing steps are injected through the hooks.
type memStore struct {
	negs   map[string]domain.Negotiation
	props  []domain.Proposal
	loans  map[string]loanDomain.Loan
	nextID uint64

	failSave error
}

func newMemStore() *memStore {
	return &memStore{negs: map[string]domain.Negotiation{}, loans: map[string]loanDomain.Loan{}}
}

func (s *memStore) negRepo() *negotiationmock.Repo {
	get := func(_ context.Context, id string) (*domain.Negotiation, error) {
		n, ok := s.negs[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return &n, nil
	}
	return &negotiationmock.Repo{
		CreateFn: func(_ context.Context, n *domain.Negotiation) error {
			s.nextID++
			n.ID = s.nextID
			s.negs[n.NegotiationID] = *n
			return nil
		},
		SaveFn: func(_ context.Context, n *domain.Negotiation) error {
			if s.failSave != nil {
				return s.failSave
			}
			if _, ok := s.negs[n.NegotiationID]; !ok {
				return domain.ErrNotFound
			}
			s.negs[n.NegotiationID] = *n
			return nil
		},
		GetByNegotiationIDFn:          get,
		GetByNegotiationIDForUpdateFn: get,
		ListOpenCreatedBeforeFn: func(_ context.Context, cutoff time.Time, limit int) ([]domain.Negotiation, error) {
			var out []domain.Negotiation
			for _, n := range s.negs {
				if n.Status.Open() && !n.CreatedAt.After(cutoff) {
					out = append(out, n)
				}
			}
			sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
			if len(out) > limit {
				out = out[:limit]
			}
			return out, nil
		},
	}
}

func (s *memStore) propRepo() *negotiationmock.ProposalRepo {
	get := func(_ context.Context, id string) (*domain.Proposal, error) {
		for _, p := range s.props {
			if p.ProposalID == id {
				return &p, nil
			}
		}
		return nil, domain.ErrProposalNotFound
	}
	return &negotiationmock.ProposalRepo{
		CreateFn: func(_ context.Context, p *domain.Proposal) error {
			s.nextID++
			p.ID = s.nextID
			s.props = append(s.props, *p)
			return nil
		},
		SaveFn: func(_ context.Context, p *domain.Proposal) error {
			for i := range s.props {
				if s.props[i].ProposalID == p.ProposalID {
					if cur := s.props[i].NegotiationID; cur != nil && p.NegotiationID != nil && *cur != *p.NegotiationID {
						return domain.ErrOfferUnavailable
					}
					s.props[i].Status = p.Status
					s.props[i].NegotiationID = p.NegotiationID
					return nil
				}
			}
			return domain.ErrProposalNotFound
		},
		GetByProposalIDFn:          get,
		GetByProposalIDForUpdateFn: get,
		ListByNegotiationIDFn: func(_ context.Context, id string) ([]domain.Proposal, error) {
			var out []domain.Proposal
			for _, p := range s.props {
				if p.NegotiationID != nil && *p.NegotiationID == id {
					out = append(out, p)
				}
			}
			return out, nil
		},
	}
}

func (s *memStore) loanRepo() *loanmock.Repo {
	return &loanmock.Repo{
		CreateFn: func(_ context.Context, l *loanDomain.Loan) error {
			if _, dup := s.loans[l.NegotiationID]; dup {
				return fmt.Errorf("duplicate loan for %s", l.NegotiationID)
			}
			s.loans[l.NegotiationID] = *l
			return nil
		},
	}
}

func (s *memStore) proposal(id string) domain.Proposal {
	for _, p := range s.props {
		if p.ProposalID == id {
			return p
		}
	}
	return domain.Proposal{}
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%02d", n)
	}
}

// newTestUsecase wires a Usecase over a fresh memStore.
func newTestUsecase(opts ...Option) (*Usecase, *memStore, *clock) {
	s := newMemStore()
	c := &clock{t: time.Date(2025, 9, 6, 12, 0, 0, 0, time.UTC)}
	negs, props := s.negRepo(), s.propRepo()
	w := uowmock.Over(uow.Repos{Negotiations: negs, Proposals: props, Loans: s.loanRepo()})
	all := append([]Option{WithClock(c.Now), WithIDGenerator(sequentialIDs())}, opts...)
	return NewUsecase(w, negs, props, nil, all...), s, c
}
