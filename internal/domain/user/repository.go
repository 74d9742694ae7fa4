package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByPublicID(ctx context.Context, userID string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Save(ctx context.Context, u *User) error
}
