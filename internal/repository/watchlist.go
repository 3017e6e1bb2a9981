package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"flicklist/internal/models"
)

// WatchlistRepository owns the watchlist table. At most one entry
// exists per (user, movie); listing and dedup also cope with duplicate
// rows left behind by stores that predate the uniqueness index.
type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add saves a movie for a user. Saving an already-saved movie is a
// no-op that returns the existing row with alreadySaved true; the
// stored title and poster are not updated.
func (r *WatchlistRepository) Add(ctx context.Context, userID uint, movieID, title, poster string) (*models.WatchlistEntry, bool, error) {
	var existing models.WatchlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Order("created_at DESC, id DESC").
		First(&existing).Error
	if err == nil {
		return &existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("checking watchlist: %w", err)
	}

	entry := models.WatchlistEntry{
		UserID:  userID,
		MovieID: movieID,
		Title:   title,
		Poster:  poster,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		// A concurrent save can slip in between the check and the
		// insert; the unique index rejects the loser. That is still
		// "already saved", not a failure.
		if isDuplicateKey(err) {
			if ferr := r.db.WithContext(ctx).
				Where("user_id = ? AND movie_id = ?", userID, movieID).
				Order("created_at DESC, id DESC").
				First(&existing).Error; ferr == nil {
				return &existing, true, nil
			}
		}
		return nil, false, fmt.Errorf("adding watchlist entry: %w", err)
	}
	return &entry, false, nil
}

// Remove deletes a user's entry for a movie and returns the number of
// rows removed (0 or 1 on a deduplicated store).
func (r *WatchlistRepository) Remove(ctx context.Context, userID uint, movieID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.WatchlistEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("removing watchlist entry: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListForUser returns one entry per movie, most recently saved first.
// Historical duplicate rows collapse to the one with the greatest
// created_at (then greatest id), so pre-constraint data never leaks
// duplicates into responses.
func (r *WatchlistRepository) ListForUser(ctx context.Context, userID uint) ([]models.WatchlistEntry, error) {
	entries := []models.WatchlistEntry{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, user_id, movie_id, title, poster, created_at FROM (
			SELECT w.*, ROW_NUMBER() OVER (
				PARTITION BY movie_id
				ORDER BY created_at DESC, id DESC
			) AS rank_in_movie
			FROM watchlist w
			WHERE user_id = ?
		) ranked
		WHERE rank_in_movie = 1
		ORDER BY created_at DESC, id DESC`, userID).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing watchlist: %w", err)
	}
	return entries, nil
}

// Dedup is the one-time administrative reconciliation for stores that
// accumulated duplicate (user, movie) rows before the uniqueness index
// existed. Each group keeps its newest row; re-running deletes nothing.
func (r *WatchlistRepository) Dedup(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM watchlist WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY user_id, movie_id
					ORDER BY created_at DESC, id DESC
				) AS rank_in_group
				FROM watchlist
			) ranked
			WHERE rank_in_group > 1
		)`)
	if result.Error != nil {
		return 0, fmt.Errorf("deduplicating watchlist: %w", result.Error)
	}
	return result.RowsAffected, nil
}
