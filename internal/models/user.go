package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;type:varchar(255)" json:"username"`
	Password  string    `gorm:"type:varchar(255)" json:"-"` // bcrypt hash; empty for guest accounts
	AvatarURL *string   `gorm:"column:avatar_url;type:varchar(500)" json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// PublicUser is the representation returned to clients. The password
// hash never leaves the repository layer.
type PublicUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}
