package mysql

import (
	"context"

	visitDomain "impulso-backend/internal/domain/visit"

	"gorm.io/gorm"
)

type VisitRepository struct{ db *gorm.DB }

func NewVisitRepository(db *gorm.DB) *VisitRepository { return &VisitRepository{db: db} }

func (r *VisitRepository) Create(ctx context.Context, v *visitDomain.Visit) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VisitRepository) ListByBeneficiary(ctx context.Context, beneficiaryRef uint64) ([]visitDomain.Visit, error) {
	var out []visitDomain.Visit
	res := r.db.WithContext(ctx).
		Where("beneficiary_id = ?", beneficiaryRef).
		Order("seq ASC").
		Find(&out)
	return out, res.Error
}

func (r *VisitRepository) CountByBeneficiary(ctx context.Context, beneficiaryRef uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&visitDomain.Visit{}).
		Where("beneficiary_id = ?", beneficiaryRef).
		Count(&n)
	return n, res.Error
}
