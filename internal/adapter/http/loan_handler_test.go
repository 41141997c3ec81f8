package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	domain "p2plend-backend/internal/domain/loan"
	"p2plend-backend/internal/testutil/loanmock"
	"p2plend-backend/internal/usecase/loan"
)

func TestGetLoan_WithSchedule(t *testing.T) {
	repo := &loanmock.Repo{GetByLoanIDFn: func(_ context.Context, id string) (*domain.Loan, error) {
		return &domain.Loan{
			LoanID: id, NegotiationID: negID, BorrowerID: borrowerID, InvestorID: investorID,
			Principal: 8000, Rate: 2, TermMonths: 25, Installment: 409.76,
			Status: domain.StatusActive, SignedAt: t0,
		}, nil
	}}
	h := NewLoanHandler(loan.NewUsecase(repo))

	rec := serve(t, h.GetLoan, http.MethodGet, "/loans/"+propID, "", "", "loan_id", propID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var dto loan.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if dto.LoanID != propID || dto.Status != "active" {
		t.Fatalf("unexpected loan: %+v", dto)
	}
	if len(dto.Schedule) != 25 || dto.Schedule[24].Balance != 0 {
		t.Fatalf("unexpected schedule: len=%d", len(dto.Schedule))
	}
}

func TestGetNegotiationLoan(t *testing.T) {
	repo := &loanmock.Repo{GetByNegotiationIDFn: func(_ context.Context, id string) (*domain.Loan, error) {
		if id != negID {
			return nil, domain.ErrNotFound
		}
		return &domain.Loan{
			LoanID: propID, NegotiationID: id, Principal: 1200, Rate: 0, TermMonths: 12,
			Status: domain.StatusActive, SignedAt: t0,
		}, nil
	}}
	h := NewLoanHandler(loan.NewUsecase(repo))

	rec := serve(t, h.GetNegotiationLoan, http.MethodGet, "/negotiations/"+negID+"/loan", "", "", "negotiation_id", negID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var dto loan.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if dto.NegotiationID != negID || dto.Installment != 100 {
		t.Fatalf("unexpected loan: %+v", dto)
	}

	// no loan until the negotiation is finalized
	rec = serve(t, h.GetNegotiationLoan, http.MethodGet, "/", "", "", "negotiation_id", "ffffffffffffffffffffffffffffffff")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetLoan_NotFound(t *testing.T) {
	h := NewLoanHandler(loan.NewUsecase(&loanmock.Repo{GetByLoanIDFn: func(context.Context, string) (*domain.Loan, error) {
		return nil, domain.ErrNotFound
	}}))

	rec := serve(t, h.GetLoan, http.MethodGet, "/loans/x", "", "", "loan_id", "x")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
