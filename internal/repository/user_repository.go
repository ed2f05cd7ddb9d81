package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"codearena/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id uint) error
	// ClaimSession atomically installs a session token for the account with
	// the given email, but only while no token is currently set. Returns
	// false when another session already holds the slot. This is the
	// conditional write that keeps two concurrent logins from both
	// succeeding.
	ClaimSession(ctx context.Context, email, token string, at time.Time) (bool, error)
	// ClearSession drops the session token and logged-in flag. Safe to call
	// when no session is active.
	ClearSession(ctx context.Context, email string) error
	UpdateLastLogin(ctx context.Context, email string, at time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}

func (r *userRepository) ClaimSession(ctx context.Context, email, token string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND current_session_token = ''", email).
		Updates(map[string]interface{}{
			"current_session_token": token,
			"logged_in":             true,
			"last_login":            at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepository) ClearSession(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"current_session_token": "",
			"logged_in":             false,
		}).Error
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, email string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Update("last_login", at).Error
}
