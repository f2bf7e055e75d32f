package models

import "time"

// User represents a member account in the system.
// Accounts are created on first successful Google sign-in; the Google subject
// id is the only key identities are matched on.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// GoogleID is the immutable OAuth subject id reported by Google.
	GoogleID string `gorm:"column:google_id;size:255;uniqueIndex;not null"`
	// Email is the user's email address, kept in sync with the provider.
	Email string `gorm:"size:255;uniqueIndex;not null"`
	// Name is the display name shown to other group members.
	Name string `gorm:"size:100;not null"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}
