package repositories

import (
	"context"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/pkg/orm"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := orm.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := orm.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return orm.WithContext(ctx).Create(user)
}
