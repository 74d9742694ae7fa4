package uow

import (
	"context"

	"impulso-backend/internal/domain/beneficiary"
	"impulso-backend/internal/domain/visit"
)

type Repos struct {
	Beneficiaries beneficiary.Repository
	Visits        visit.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the beneficiary row first, then pass it in
	WithinBeneficiaryTx(ctx context.Context, beneficiaryID string, fn func(r Repos, b *beneficiary.Beneficiary) error) error
}
