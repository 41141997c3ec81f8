package uowmock

import (
	"context"
	"errors"

	"p2plend-backend/internal/domain/negotiation"
	"p2plend-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn            func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinNegotiationTxFn func(ctx context.Context, negotiationID string, fn func(r uow.Repos, n *negotiation.Negotiation) error) error
}

func New() *UoW { return &UoW{} }

// Over runs both methods directly against repos with no transaction. The
// negotiation is loaded through repos.Negotiations.GetByNegotiationIDForUpdate.
func Over(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinNegotiationTxFn: func(ctx context.Context, id string, fn func(uow.Repos, *negotiation.Negotiation) error) error {
			n, err := repos.Negotiations.GetByNegotiationIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			return fn(repos, n)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinNegotiationTx(ctx context.Context, negotiationID string, fn func(r uow.Repos, n *negotiation.Negotiation) error) error {
	if m.WithinNegotiationTxFn != nil {
		return m.WithinNegotiationTxFn(ctx, negotiationID, fn)
	}
	return errUnimplemented
}
