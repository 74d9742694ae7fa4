package mysql

import (
	"context"
	"errors"

	userDomain "impulso-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) GetByPublicID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, userDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("username = ?", username).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, userDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *UserRepository) List(ctx context.Context) ([]userDomain.User, error) {
	var out []userDomain.User
	res := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}
