package uowmock

import (
	"context"
	"errors"

	"impulso-backend/internal/domain/beneficiary"
	"impulso-backend/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork. Unfilled
// function fields return errUnimplemented.
type UoW struct {
	WithinTxFn            func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinBeneficiaryTxFn func(ctx context.Context, beneficiaryID string, fn func(r uow.Repos, b *beneficiary.Beneficiary) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough wires both methods to run fn directly against the given repos,
// with no transaction semantics. locked is handed to WithinBeneficiaryTx fns.
func Passthrough(r uow.Repos, locked *beneficiary.Beneficiary) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinBeneficiaryTxFn: func(ctx context.Context, beneficiaryID string, fn func(uow.Repos, *beneficiary.Beneficiary) error) error {
			if locked == nil || locked.BeneficiaryID != beneficiaryID {
				return beneficiary.ErrNotFound
			}
			return fn(r, locked)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinBeneficiaryTx(ctx context.Context, beneficiaryID string, fn func(r uow.Repos, b *beneficiary.Beneficiary) error) error {
	if m.WithinBeneficiaryTxFn != nil {
		return m.WithinBeneficiaryTxFn(ctx, beneficiaryID, fn)
	}
	return errUnimplemented
}
