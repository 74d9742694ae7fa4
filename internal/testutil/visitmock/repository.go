package visitmock

import (
	"context"

	domain "impulso-backend/internal/domain/visit"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, v *domain.Visit) error
	ListByBeneficiaryFn  func(ctx context.Context, beneficiaryRef uint64) ([]domain.Visit, error)
	CountByBeneficiaryFn func(ctx context.Context, beneficiaryRef uint64) (int64, error)
}

func (m *Repo) Create(ctx context.Context, v *domain.Visit) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, v)
	}
	return nil
}

func (m *Repo) ListByBeneficiary(ctx context.Context, beneficiaryRef uint64) ([]domain.Visit, error) {
	if m.ListByBeneficiaryFn != nil {
		return m.ListByBeneficiaryFn(ctx, beneficiaryRef)
	}
	return nil, nil
}

func (m *Repo) CountByBeneficiary(ctx context.Context, beneficiaryRef uint64) (int64, error) {
	if m.CountByBeneficiaryFn != nil {
		return m.CountByBeneficiaryFn(ctx, beneficiaryRef)
	}
	return 0, nil
}
