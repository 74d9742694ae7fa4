package beneficiary

import "context"

type Repository interface {
	Create(ctx context.Context, b *Beneficiary) error
	GetByPublicID(ctx context.Context, beneficiaryID string) (*Beneficiary, error)
	// GetByPublicIDForUpdate locks the row inside a transaction.
	GetByPublicIDForUpdate(ctx context.Context, beneficiaryID string) (*Beneficiary, error)
	List(ctx context.Context) ([]Beneficiary, error)
	Save(ctx context.Context, b *Beneficiary) error
}
