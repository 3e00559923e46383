package repositories

import (
	"context"

	"gorm.io/gorm"

	"friendgraph-api/models"
)

// UserRepository is the identity store as seen by the friendship core.
type UserRepository interface {
	UserExists(ctx context.Context, id string) (bool, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUsername(ctx context.Context, id string) (string, error)
	CountUsers(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) UserExists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *userRepository) GetUsername(ctx context.Context, id string) (string, error) {
	var usernames []string
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Limit(1).Pluck("username", &usernames).Error; err != nil {
		return "", err
	}
	if len(usernames) == 0 {
		return "", ErrNotFound
	}
	return usernames[0], nil
}

func (r *userRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}
