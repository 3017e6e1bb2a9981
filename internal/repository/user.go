package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"flicklist/internal/auth"
	"flicklist/internal/models"
)

// UserRepository owns the users table. Account teardown is not exposed
// here; it goes through account.Deleter so related rows and the avatar
// file are handled together.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ProfileUpdate is a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	Username *string
	Password *string
}

// CreateCredentialed registers a new user with a hashed password.
// Returns ErrConflict when the username is taken.
func (r *UserRepository) CreateCredentialed(ctx context.Context, username, password string) (*models.User, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if count > 0 {
		return nil, ErrConflict
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{Username: username, Password: hash}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		// A concurrent signup can win between the count and the insert;
		// the unique index turns that into a duplicate-key error.
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &user, nil
}

// CreateOrGetUncredentialed is the legacy guest-identity path: insert a
// passwordless user if absent, otherwise return the existing row.
func (r *UserRepository) CreateOrGetUncredentialed(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("finding user: %w", err)
	}

	user = models.User{Username: username}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			// Lost the race; the winner's row is what we want.
			return r.FindByUsername(ctx, username)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &user, nil
}

// UpdateProfile changes the username and/or password. The username is
// re-checked for uniqueness against every other row before applying.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*models.User, error) {
	if update.Username == nil && update.Password == nil {
		return nil, ErrValidation
	}

	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.Username != nil {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.User{}).
			Where("username = ? AND id <> ?", *update.Username, id).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("checking username: %w", err)
		}
		if count > 0 {
			return nil, ErrConflict
		}
		changes["username"] = *update.Username
	}
	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		changes["password"] = hash
	}

	if err := r.db.WithContext(ctx).Model(user).Updates(changes).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return user, nil
}

// SetAvatarURL points the user at a stored avatar file, or clears the
// reference when url is nil.
func (r *UserRepository) SetAvatarURL(ctx context.Context, id uint, url *string) (*models.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(user).Update("avatar_url", url).Error; err != nil {
		return nil, fmt.Errorf("updating avatar url: %w", err)
	}
	user.AvatarURL = url
	return user, nil
}
