package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"flicklist/internal/avatar"
	"flicklist/internal/models"
	"flicklist/internal/repository"
)

// Deleter tears down a user account: watchlist rows and the user row go
// in one transaction, the avatar file only after a successful commit.
type Deleter struct {
	db      *gorm.DB
	avatars *avatar.Manager
}

func NewDeleter(db *gorm.DB, avatars *avatar.Manager) *Deleter {
	return &Deleter{db: db, avatars: avatars}
}

// Delete removes the user and everything they own. Any failure inside
// the transaction rolls the whole deletion back; other readers never
// observe a half-deleted account.
func (d *Deleter) Delete(ctx context.Context, userID uint) error {
	// Read the avatar path up front; after the commit the row is gone.
	var user models.User
	if err := d.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("finding user: %w", err)
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.WatchlistEntry{}).Error; err != nil {
			return fmt.Errorf("deleting watchlist entries: %w", err)
		}
		if err := tx.Delete(&models.User{}, userID).Error; err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting account %d: %w", userID, err)
	}

	// The database is consistent from here on; losing the file cleanup
	// only costs an orphan.
	if user.AvatarURL != nil {
		d.avatars.Remove(*user.AvatarURL)
	}

	logrus.WithField("user_id", userID).Info("account deleted")
	return nil
}
