package mysql

import (
	"context"
	"errors"

	beneficiaryDomain "impulso-backend/internal/domain/beneficiary"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BeneficiaryRepository struct{ db *gorm.DB }

func NewBeneficiaryRepository(db *gorm.DB) *BeneficiaryRepository {
	return &BeneficiaryRepository{db: db}
}

func (r *BeneficiaryRepository) Create(ctx context.Context, b *beneficiaryDomain.Beneficiary) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BeneficiaryRepository) Save(ctx context.Context, b *beneficiaryDomain.Beneficiary) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BeneficiaryRepository) GetByPublicID(ctx context.Context, beneficiaryID string) (*beneficiaryDomain.Beneficiary, error) {
	var out beneficiaryDomain.Beneficiary
	res := r.db.WithContext(ctx).Where("beneficiary_id = ?", beneficiaryID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, beneficiaryDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *BeneficiaryRepository) GetByPublicIDForUpdate(ctx context.Context, beneficiaryID string) (*beneficiaryDomain.Beneficiary, error) {
	var out beneficiaryDomain.Beneficiary
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("beneficiary_id = ?", beneficiaryID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, beneficiaryDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *BeneficiaryRepository) List(ctx context.Context) ([]beneficiaryDomain.Beneficiary, error) {
	var out []beneficiaryDomain.Beneficiary
	res := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}
