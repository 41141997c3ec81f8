package uowmock

import (
	"context"
	"errors"
	"testing"

	"p2plend-backend/internal/domain/negotiation"
	"p2plend-backend/internal/domain/uow"
	"p2plend-backend/internal/testutil/loanmock"
	"p2plend-backend/internal/testutil/negotiationmock"
)

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := New()
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	err := m.WithinNegotiationTx(ctx, "n", func(uow.Repos, *negotiation.Negotiation) error { return nil })
	if !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinNegotiationTx default: want errUnimplemented, got %v", err)
	}
}

func TestOver_ForwardsRepos(t *testing.T) {
	ctx := context.Background()
	negs := &negotiationmock.Repo{
		GetByNegotiationIDForUpdateFn: func(_ context.Context, id string) (*negotiation.Negotiation, error) {
			return &negotiation.Negotiation{NegotiationID: id}, nil
		},
	}
	repos := uow.Repos{Negotiations: negs, Proposals: &negotiationmock.ProposalRepo{}, Loans: &loanmock.Repo{}}
	m := Over(repos)

	called := false
	err := m.WithinTx(ctx, func(r uow.Repos) error {
		called = true
		if r.Negotiations != negs {
			t.Fatalf("WithinTx: repos not forwarded")
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("WithinTx: err=%v called=%v", err, called)
	}

	err = m.WithinNegotiationTx(ctx, "NG-1", func(r uow.Repos, n *negotiation.Negotiation) error {
		if n.NegotiationID != "NG-1" {
			t.Fatalf("WithinNegotiationTx: got %s", n.NegotiationID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinNegotiationTx: %v", err)
	}
}

func TestOver_LoadErrorSkipsCallback(t *testing.T) {
	negs := &negotiationmock.Repo{
		GetByNegotiationIDForUpdateFn: func(context.Context, string) (*negotiation.Negotiation, error) {
			return nil, negotiation.ErrNotFound
		},
	}
	m := Over(uow.Repos{Negotiations: negs})
	err := m.WithinNegotiationTx(context.Background(), "x", func(uow.Repos, *negotiation.Negotiation) error {
		t.Fatalf("callback must not run")
		return nil
	})
	if !errors.Is(err, negotiation.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
