package models

import "time"

// User represents an account of the marketplace.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Avatar    string    `json:"avatar,omitempty" gorm:"type:varchar(255)"` // stored file name, empty when unset
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAvatar reports whether the user references a stored profile image.
func (u *User) HasAvatar() bool {
	return u.Avatar != ""
}
