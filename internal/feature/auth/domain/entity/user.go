// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
type User struct {
	ID uint `gorm:"primaryKey"`

	// Email is stored lower-cased and is unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Username is an optional display name.
	Username string `gorm:"size:100"`

	// Password holds the bcrypt hash, never the plaintext.
	Password string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
