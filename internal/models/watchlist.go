package models

import (
	"time"
)

// WatchlistEntry is one saved movie for one user. Title and poster are
// copied at insert time so listing never needs a catalog lookup.
type WatchlistEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	MovieID   string    `gorm:"not null;type:varchar(64)" json:"movieId"`
	Title     string    `gorm:"type:varchar(500)" json:"title"`
	Poster    string    `gorm:"type:varchar(1000)" json:"poster"`
	CreatedAt time.Time `json:"createdAt"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (WatchlistEntry) TableName() string {
	return "watchlist"
}
