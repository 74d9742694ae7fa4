package mysql

import (
	"context"

	"impulso-backend/internal/domain/beneficiary"
	"impulso-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := uow.Repos{
			Beneficiaries: &BeneficiaryRepository{db: tx},
			Visits:        &VisitRepository{db: tx},
		}
		return fn(r)
	})
}

func (u *GormUoW) WithinBeneficiaryTx(ctx context.Context, beneficiaryID string, fn func(r uow.Repos, b *beneficiary.Beneficiary) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := uow.Repos{
			Beneficiaries: &BeneficiaryRepository{db: tx},
			Visits:        &VisitRepository{db: tx},
		}
		// lock the beneficiary row up-front so visit seq assignment can't race
		b, err := r.Beneficiaries.GetByPublicIDForUpdate(ctx, beneficiaryID)
		if err != nil {
			return err
		}
		return fn(r, b)
	})
}
