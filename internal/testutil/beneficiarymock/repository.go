package beneficiarymock

import (
	"context"

	domain "impulso-backend/internal/domain/beneficiary"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Fill in only the function fields a test needs.
type Repo struct {
	CreateFn                 func(ctx context.Context, b *domain.Beneficiary) error
	GetByPublicIDFn          func(ctx context.Context, beneficiaryID string) (*domain.Beneficiary, error)
	GetByPublicIDForUpdateFn func(ctx context.Context, beneficiaryID string) (*domain.Beneficiary, error)
	ListFn                   func(ctx context.Context) ([]domain.Beneficiary, error)
	SaveFn                   func(ctx context.Context, b *domain.Beneficiary) error
}

func (m *Repo) Create(ctx context.Context, b *domain.Beneficiary) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetByPublicID(ctx context.Context, beneficiaryID string) (*domain.Beneficiary, error) {
	if m.GetByPublicIDFn != nil {
		return m.GetByPublicIDFn(ctx, beneficiaryID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByPublicIDForUpdate(ctx context.Context, beneficiaryID string) (*domain.Beneficiary, error) {
	if m.GetByPublicIDForUpdateFn != nil {
		return m.GetByPublicIDForUpdateFn(ctx, beneficiaryID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context) ([]domain.Beneficiary, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, b *domain.Beneficiary) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}
