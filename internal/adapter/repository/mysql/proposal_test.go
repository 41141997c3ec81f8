package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"p2plend-backend/internal/domain/negotiation"
)

func TestProposal_ListIsOrderedByCreation(t *testing.T) {
	db := openTestDB(t)
	repo := NewProposalRepository(db)
	ctx := context.Background()

	// inserted out of order on purpose
	for _, p := range []*negotiation.Proposal{
		makeProposal("p3", "n1", negotiation.RoleBorrower, t0.Add(2*time.Hour)),
		makeProposal("p1", "n1", negotiation.RoleBorrower, t0),
		makeProposal("p2", "n1", negotiation.RoleInvestor, t0.Add(time.Hour)),
		makeProposal("x1", "n2", negotiation.RoleInvestor, t0),
	} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create %s: %v", p.ProposalID, err)
		}
	}

	got, err := repo.ListByNegotiationID(ctx, "n1")
	if err != nil {
		t.Fatalf("ListByNegotiationID: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"p1", "p2", "p3"} {
		if got[i].ProposalID != want {
			t.Fatalf("position %d = %s, want %s", i, got[i].ProposalID, want)
		}
	}
}

func TestProposal_SaveOnlyTouchesStatusAndLink(t *testing.T) {
	db := openTestDB(t)
	repo := NewProposalRepository(db)
	ctx := context.Background()

	p := makeProposal("offer", "", negotiation.RoleBorrower, t0)
	p.NegotiationID = nil
	p.Status = negotiation.ProposalAwaitingCounter
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	linked := *p
	nid := "n9"
	linked.NegotiationID = &nid
	linked.Status = negotiation.ProposalPending
	linked.Amount = 1 // must not be persisted
	if err := repo.Save(ctx, &linked); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByProposalID(ctx, "offer")
	if err != nil {
		t.Fatalf("GetByProposalID: %v", err)
	}
	if got.NegotiationID == nil || *got.NegotiationID != "n9" || got.Status != negotiation.ProposalPending {
		t.Fatalf("link/status not saved: %+v", got)
	}
	if got.Amount != 8000 {
		t.Fatalf("amount rewritten: %v", got.Amount)
	}
}

func TestProposal_OfferLinksOnce(t *testing.T) {
	db := openTestDB(t)
	repo := NewProposalRepository(db)
	ctx := context.Background()

	offer := makeProposal("offer", "", negotiation.RoleBorrower, t0)
	offer.NegotiationID = nil
	if err := repo.Create(ctx, offer); err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, second := "n1", "n2"
	linked := *offer
	linked.NegotiationID = &first
	if err := repo.Save(ctx, &linked); err != nil {
		t.Fatalf("first link: %v", err)
	}

	// a racing open that read the offer before the first link committed
	late := *offer
	late.NegotiationID = &second
	if err := repo.Save(ctx, &late); !errors.Is(err, negotiation.ErrOfferUnavailable) {
		t.Fatalf("second link: want ErrOfferUnavailable, got %v", err)
	}

	// status changes within the owning negotiation still apply
	linked.Status = negotiation.ProposalRejected
	if err := repo.Save(ctx, &linked); err != nil {
		t.Fatalf("status update: %v", err)
	}

	got, err := repo.GetByProposalIDForUpdate(ctx, "offer")
	if err != nil {
		t.Fatalf("GetByProposalIDForUpdate: %v", err)
	}
	if got.NegotiationID == nil || *got.NegotiationID != first || got.Status != negotiation.ProposalRejected {
		t.Fatalf("unexpected offer: %+v", got)
	}
	if _, err := repo.GetByProposalIDForUpdate(ctx, "nope"); !errors.Is(err, negotiation.ErrProposalNotFound) {
		t.Fatalf("expected ErrProposalNotFound, got %v", err)
	}
}

func TestProposal_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewProposalRepository(db)
	ctx := context.Background()

	if _, err := repo.GetByProposalID(ctx, "nope"); !errors.Is(err, negotiation.ErrProposalNotFound) {
		t.Fatalf("expected ErrProposalNotFound, got %v", err)
	}
	p := makeProposal("ghost", "n1", negotiation.RoleBorrower, t0)
	if err := repo.Save(ctx, p); !errors.Is(err, negotiation.ErrProposalNotFound) {
		t.Fatalf("expected ErrProposalNotFound on save, got %v", err)
	}
}
