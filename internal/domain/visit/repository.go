package visit

import "context"

type Repository interface {
	Create(ctx context.Context, v *Visit) error
	ListByBeneficiary(ctx context.Context, beneficiaryRef uint64) ([]Visit, error)
	CountByBeneficiary(ctx context.Context, beneficiaryRef uint64) (int64, error)
}
