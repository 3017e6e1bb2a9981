package models

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date. It is additive and idempotent:
// safe against a current schema and against a legacy store that predates
// the password, avatar_url, or uniqueness-constraint changes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &WatchlistEntry{}); err != nil {
		return err
	}

	// Stores created before credentials and avatars existed are missing
	// these columns. A failed AddColumn is logged and tolerated — the
	// column may already have been added by a concurrent startup.
	for _, column := range []string{"password", "avatar_url"} {
		if db.Migrator().HasColumn(&User{}, column) {
			continue
		}
		if err := db.Migrator().AddColumn(&User{}, column); err != nil {
			logrus.WithError(err).WithField("column", column).
				Warn("could not add users column, continuing")
		}
	}

	// One entry per (user, movie). Declared here rather than in struct
	// tags so a store still holding pre-constraint duplicate rows keeps
	// loading; the dedup reconciliation clears the way for the index.
	if !db.Migrator().HasIndex(&WatchlistEntry{}, "idx_watchlist_user_movie") {
		if err := db.Exec(
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_watchlist_user_movie ON watchlist(user_id, movie_id)`,
		).Error; err != nil {
			logrus.WithError(err).
				Warn("could not create watchlist uniqueness index, continuing without it")
		}
	}

	return nil
}
